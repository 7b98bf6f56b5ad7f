package withdrawalservice

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/memberhub/memberledger/internal/domain"
	"github.com/memberhub/memberledger/internal/events"
	"github.com/memberhub/memberledger/internal/pg"
	"github.com/memberhub/memberledger/pkg/validate"
	"go.uber.org/zap"
)

type Repo interface {
	CreateWithdrawal(ctx context.Context, withdrawal *domain.Withdrawal) (*domain.Withdrawal, error)
	GetWithdrawalsByUserID(ctx context.Context, userID int) ([]domain.Withdrawal, error)
	FindPendingByUserID(ctx context.Context, userID int) (*domain.Withdrawal, error)
	FindByID(ctx context.Context, id int) (*domain.Withdrawal, error)
	UpdateStatus(ctx context.Context, id int, status string) error
}

type BalanceRepo interface {
	GetUserBalanceForUpdate(ctx context.Context, userID int) (*domain.Balance, error)
}

const (
	// PendingStatus запрос ожидает решения модератора;
	PendingStatus string = "PENDING"
	// CompletedStatus выплата проведена, баланс списан;
	CompletedStatus string = "COMPLETED"
	// RejectedStatus запрос отклонён, баланс не тронут;
	RejectedStatus string = "REJECTED"
)

const cardAccountType = "card"

var (
	ErrInvalidAmount            = errors.New("amount must be a positive number")
	ErrMissingAccountDetails    = errors.New("account name and number are required")
	ErrInvalidAccountNumber     = errors.New("invalid account number")
	ErrInsufficientBalance      = errors.New("insufficient balance")
	ErrWithdrawalAlreadyPending = errors.New("withdrawal already pending")
)

type Destination struct {
	AccountName   string
	AccountType   string
	AccountNumber string
}

type Service struct {
	repo        Repo
	balanceRepo BalanceRepo
	txManager   pg.TXManager
	publisher   events.Publisher
}

func New(repo Repo, balanceRepo BalanceRepo, txManager pg.TXManager, publisher events.Publisher) *Service {
	return &Service{
		repo:        repo,
		balanceRepo: balanceRepo,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// RequestWithdrawal records a pending withdrawal. The balance is read
// authoritatively under a row lock and is not debited here: only the
// moderation side moves money. The pending check and the insert share one
// transaction; the partial unique index catches concurrent racers.
func (s *Service) RequestWithdrawal(ctx context.Context, userID int, amount float64, destination Destination) (*domain.Withdrawal, error) {
	if amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return nil, ErrInvalidAmount
	}
	if destination.AccountName == "" || destination.AccountNumber == "" {
		return nil, ErrMissingAccountDetails
	}
	if strings.EqualFold(destination.AccountType, cardAccountType) && !validate.IsLuhn(destination.AccountNumber) {
		return nil, ErrInvalidAccountNumber
	}

	withdrawal := &domain.Withdrawal{
		UserID:        userID,
		Amount:        amount,
		AccountName:   destination.AccountName,
		AccountType:   destination.AccountType,
		AccountNumber: destination.AccountNumber,
		Status:        PendingStatus,
	}

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		balance, err := s.balanceRepo.GetUserBalanceForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if balance == nil || balance.CurrentBalance < amount {
			return ErrInsufficientBalance
		}

		pending, err := s.repo.FindPendingByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if pending != nil {
			return ErrWithdrawalAlreadyPending
		}

		_, err = s.repo.CreateWithdrawal(ctx, withdrawal)
		return err
	})
	if err != nil {
		if pg.IsUniqueViolation(err) {
			zap.L().Info("concurrent pending withdrawal", zap.Int("userID", userID))
			return nil, ErrWithdrawalAlreadyPending
		}
		if errors.Is(err, ErrInsufficientBalance) || errors.Is(err, ErrWithdrawalAlreadyPending) {
			return nil, err
		}
		zap.L().Error("can't create withdrawal: ", zap.Error(err))
		return nil, err
	}

	s.publisher.Publish(events.Event{Collection: events.Withdrawals, Kind: events.Created, UserID: userID})
	return withdrawal, nil
}

func (s *Service) GetWithdrawals(ctx context.Context, userID int) ([]domain.Withdrawal, error) {
	withdrawals, err := s.repo.GetWithdrawalsByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch withdrawals", zap.Error(err))
		return nil, err
	}
	return withdrawals, nil
}
