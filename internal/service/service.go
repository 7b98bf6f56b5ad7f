package service

import (
	"github.com/memberhub/memberledger/internal/config"
	"github.com/memberhub/memberledger/internal/events"
	adminhandlers "github.com/memberhub/memberledger/internal/handlers/admin"
	authhandlers "github.com/memberhub/memberledger/internal/handlers/auth"
	balancehandlers "github.com/memberhub/memberledger/internal/handlers/balance"
	submissionhandlers "github.com/memberhub/memberledger/internal/handlers/submissions"
	withdrawalhandlers "github.com/memberhub/memberledger/internal/handlers/withdrawals"

	pkgauth "github.com/memberhub/memberledger/pkg/auth"

	"github.com/memberhub/memberledger/internal/pg"
	"github.com/memberhub/memberledger/internal/repo"
	"github.com/memberhub/memberledger/internal/service/authservice"
	"github.com/memberhub/memberledger/internal/service/balanceservice"
	"github.com/memberhub/memberledger/internal/service/dashboardservice"
	"github.com/memberhub/memberledger/internal/service/moderationservice"
	"github.com/memberhub/memberledger/internal/service/submissionservice"
	"github.com/memberhub/memberledger/internal/service/withdrawalservice"
)

type Services struct {
	AuthService       authhandlers.Service
	SubmissionService submissionhandlers.Service
	WithdrawalService withdrawalhandlers.Service
	BalanceService    balancehandlers.Service
	ModerationService adminhandlers.Service
	DashboardService  *dashboardservice.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager, broker *events.Broker, cfg *config.Config) *Services {
	balanceService := balanceservice.New(repo.BalanceRepo)
	submissionService := submissionservice.New(repo.SubmissionRepo, txManager, broker, cfg.SubmissionScope)
	withdrawalService := withdrawalservice.New(repo.Withdrawal, repo.BalanceRepo, txManager, broker)
	moderationService := moderationservice.New(repo.SubmissionRepo, repo.Withdrawal, repo.BalanceRepo, repo.UserRepo, txManager, broker)
	dashboardService := dashboardservice.New(repo.SubmissionRepo, repo.Withdrawal, repo.BalanceRepo, broker)
	authService := authservice.New(repo.UserRepo, balanceService, txManager, pkgauth.NewHashService(pkgauth.DefaultHashCost), &pkgauth.JWTService{})

	return &Services{
		AuthService:       authService,
		SubmissionService: submissionService,
		WithdrawalService: withdrawalService,
		BalanceService:    balanceService,
		ModerationService: moderationService,
		DashboardService:  dashboardService,
	}
}
