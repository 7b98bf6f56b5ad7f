package repo

import (
	"github.com/memberhub/memberledger/internal/pg"
	balancerepo "github.com/memberhub/memberledger/internal/repo/balance-repo"
	submissionrepo "github.com/memberhub/memberledger/internal/repo/submission-repo"
	userrepo "github.com/memberhub/memberledger/internal/repo/user-repo"
	withdrawalrepo "github.com/memberhub/memberledger/internal/repo/withdrawal-repo"
	"github.com/memberhub/memberledger/internal/service/authservice"
	"github.com/memberhub/memberledger/internal/service/balanceservice"
	"github.com/memberhub/memberledger/internal/service/submissionservice"
	"github.com/memberhub/memberledger/internal/service/withdrawalservice"
)

type Repositories struct {
	UserRepo       authservice.Repo
	SubmissionRepo submissionservice.Repo
	BalanceRepo    balanceservice.BalanceRepo
	Withdrawal     withdrawalservice.Repo
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	userRepo := userrepo.New(conn)
	submissionRepo := submissionrepo.New(conn)
	balanceRepo := balancerepo.New(conn, txManager)
	withdrawalRepo := withdrawalrepo.New(conn)

	return &Repositories{
		UserRepo:       userRepo,
		SubmissionRepo: submissionRepo,
		BalanceRepo:    balanceRepo,
		Withdrawal:     withdrawalRepo,
	}
}
