package moderationservice

import (
	"context"
	"errors"

	"github.com/memberhub/memberledger/internal/domain"
	"github.com/memberhub/memberledger/internal/events"
	"github.com/memberhub/memberledger/internal/pg"
	"github.com/memberhub/memberledger/internal/service/submissionservice"
	"github.com/memberhub/memberledger/internal/service/withdrawalservice"
	"go.uber.org/zap"
)

type SubmissionRepo interface {
	FindByID(ctx context.Context, id int) (*domain.Submission, error)
	UpdateStatus(ctx context.Context, id int, status string) error
}

type WithdrawalRepo interface {
	FindByID(ctx context.Context, id int) (*domain.Withdrawal, error)
	UpdateStatus(ctx context.Context, id int, status string) error
}

type BalanceRepo interface {
	GetUserBalanceForUpdate(ctx context.Context, userID int) (*domain.Balance, error)
	UpdateUserBalance(ctx context.Context, userID int, balance *domain.Balance) (*domain.Balance, error)
}

type UserRepo interface {
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
}

var (
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrWithdrawalNotFound  = errors.New("withdrawal not found")
	ErrAlreadyDecided      = errors.New("record already decided")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUserNotFound        = errors.New("user not found")
	ErrNegativeBalance     = errors.New("balance must not go negative")
)

// Service is the moderation side of the ledger: the only code path allowed to
// move submissions and withdrawals out of PENDING and to touch balances.
type Service struct {
	submissionRepo SubmissionRepo
	withdrawalRepo WithdrawalRepo
	balanceRepo    BalanceRepo
	userRepo       UserRepo
	txManager      pg.TXManager
	publisher      events.Publisher
}

func New(
	submissionRepo SubmissionRepo,
	withdrawalRepo WithdrawalRepo,
	balanceRepo BalanceRepo,
	userRepo UserRepo,
	txManager pg.TXManager,
	publisher events.Publisher,
) *Service {
	return &Service{
		submissionRepo: submissionRepo,
		withdrawalRepo: withdrawalRepo,
		balanceRepo:    balanceRepo,
		userRepo:       userRepo,
		txManager:      txManager,
		publisher:      publisher,
	}
}

func (s *Service) DecideSubmission(ctx context.Context, id int, approve bool) (*domain.Submission, error) {
	var submission *domain.Submission

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		submission, err = s.submissionRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if submission == nil {
			return ErrSubmissionNotFound
		}
		if submission.Status != submissionservice.PendingStatus {
			return ErrAlreadyDecided
		}

		status := submissionservice.RejectedStatus
		if approve {
			status = submissionservice.ApprovedStatus
		}
		if err := s.submissionRepo.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		submission.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("submission decided",
		zap.Int("id", submission.ID),
		zap.String("status", submission.Status),
	)
	s.publisher.Publish(events.Event{Collection: events.Submissions, Kind: events.Updated, UserID: submission.UserID})
	return submission, nil
}

// DecideWithdrawal completes or rejects a pending withdrawal. Completion
// re-validates the balance under a row lock and debits it in the same
// transaction, so an approved amount can never exceed the balance.
func (s *Service) DecideWithdrawal(ctx context.Context, id int, complete bool) (*domain.Withdrawal, error) {
	var withdrawal *domain.Withdrawal

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		withdrawal, err = s.withdrawalRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if withdrawal == nil {
			return ErrWithdrawalNotFound
		}
		if withdrawal.Status != withdrawalservice.PendingStatus {
			return ErrAlreadyDecided
		}

		if !complete {
			if err := s.withdrawalRepo.UpdateStatus(ctx, id, withdrawalservice.RejectedStatus); err != nil {
				return err
			}
			withdrawal.Status = withdrawalservice.RejectedStatus
			return nil
		}

		balance, err := s.balanceRepo.GetUserBalanceForUpdate(ctx, withdrawal.UserID)
		if err != nil {
			return err
		}
		if balance == nil || balance.CurrentBalance < withdrawal.Amount {
			return ErrInsufficientBalance
		}

		balance.CurrentBalance -= withdrawal.Amount
		balance.WithdrawnTotal += withdrawal.Amount
		if _, err := s.balanceRepo.UpdateUserBalance(ctx, withdrawal.UserID, balance); err != nil {
			return err
		}

		if err := s.withdrawalRepo.UpdateStatus(ctx, id, withdrawalservice.CompletedStatus); err != nil {
			return err
		}
		withdrawal.Status = withdrawalservice.CompletedStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("withdrawal decided",
		zap.Int("id", withdrawal.ID),
		zap.String("status", withdrawal.Status),
	)
	s.publisher.Publish(events.Event{Collection: events.Withdrawals, Kind: events.Updated, UserID: withdrawal.UserID})
	if withdrawal.Status == withdrawalservice.CompletedStatus {
		s.publisher.Publish(events.Event{Collection: events.Balances, Kind: events.Updated, UserID: withdrawal.UserID})
	}
	return withdrawal, nil
}

// AdjustBalance applies a signed delta to a member's balance.
func (s *Service) AdjustBalance(ctx context.Context, login string, delta float64) (*domain.Balance, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	var updated *domain.Balance
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		balance, err := s.balanceRepo.GetUserBalanceForUpdate(ctx, user.ID)
		if err != nil {
			return err
		}
		if balance == nil {
			return ErrUserNotFound
		}
		if balance.CurrentBalance+delta < 0 {
			return ErrNegativeBalance
		}

		balance.CurrentBalance += delta
		updated, err = s.balanceRepo.UpdateUserBalance(ctx, user.ID, balance)
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("balance adjusted",
		zap.Int("userID", user.ID),
		zap.Float64("delta", delta),
	)
	s.publisher.Publish(events.Event{Collection: events.Balances, Kind: events.Updated, UserID: user.ID})
	return updated, nil
}
