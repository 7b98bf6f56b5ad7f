package dashboardservice

import (
	"context"
	"sync"
	"time"

	"github.com/memberhub/memberledger/internal/domain"
	"github.com/memberhub/memberledger/internal/events"
	"github.com/memberhub/memberledger/internal/service/submissionservice"
	"go.uber.org/zap"
)

type SubmissionRepo interface {
	FindByUserID(ctx context.Context, userID int) ([]domain.Submission, error)
}

type WithdrawalRepo interface {
	FindPendingByUserID(ctx context.Context, userID int) (*domain.Withdrawal, error)
}

type BalanceRepo interface {
	GetUserBalance(ctx context.Context, userID int) (*domain.Balance, error)
}

// ViewModel is the serializable per-user dashboard state, rebuilt by pure
// projection instead of being scattered over presentation widgets.
type ViewModel struct {
	Balance              float64   `json:"balance"`
	Withdrawn            float64   `json:"withdrawn"`
	TotalMembers         int       `json:"total_members"`
	PendingSubmissions   int       `json:"pending_submissions"`
	HasPendingWithdrawal bool      `json:"has_pending_withdrawal"`
	RefreshedAt          time.Time `json:"refreshed_at"`
}

// Project derives the view model from store state. Pure: same inputs, same
// view model, except for the refresh timestamp.
func Project(balance *domain.Balance, submissions []domain.Submission, pending *domain.Withdrawal) ViewModel {
	stats := submissionservice.DeriveStats(submissions)
	vm := ViewModel{
		TotalMembers:         stats.ApprovedCount,
		PendingSubmissions:   stats.PendingCount,
		HasPendingWithdrawal: pending != nil,
		RefreshedAt:          time.Now(),
	}
	if balance != nil {
		vm.Balance = balance.CurrentBalance
		vm.Withdrawn = balance.WithdrawnTotal
	}
	return vm
}

// Service keeps a per-user cache of view models, invalidated by change
// notifications and rebuilt lazily on the next read.
type Service struct {
	submissionRepo SubmissionRepo
	withdrawalRepo WithdrawalRepo
	balanceRepo    BalanceRepo
	broker         *events.Broker

	mu    sync.RWMutex
	cache map[int]ViewModel
}

func New(submissionRepo SubmissionRepo, withdrawalRepo WithdrawalRepo, balanceRepo BalanceRepo, broker *events.Broker) *Service {
	return &Service{
		submissionRepo: submissionRepo,
		withdrawalRepo: withdrawalRepo,
		balanceRepo:    balanceRepo,
		broker:         broker,
		cache:          make(map[int]ViewModel),
	}
}

// Start subscribes to all collections and invalidates cached view models as
// change notifications arrive. Returns after launching the listener.
func (s *Service) Start(ctx context.Context) {
	ch, cancel := s.broker.Subscribe()
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				zap.L().Info("dashboard listener stopped")
				return
			case e, ok := <-ch:
				if !ok {
					return
				}
				s.invalidate(e.UserID)
			}
		}
	}()
}

func (s *Service) invalidate(userID int) {
	s.mu.Lock()
	delete(s.cache, userID)
	s.mu.Unlock()
}

func (s *Service) GetDashboard(ctx context.Context, userID int) (ViewModel, error) {
	s.mu.RLock()
	vm, ok := s.cache[userID]
	s.mu.RUnlock()
	if ok {
		return vm, nil
	}

	balance, err := s.balanceRepo.GetUserBalance(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get balance for dashboard", zap.Error(err))
		return ViewModel{}, err
	}
	submissions, err := s.submissionRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get submissions for dashboard", zap.Error(err))
		return ViewModel{}, err
	}
	pending, err := s.withdrawalRepo.FindPendingByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get pending withdrawal for dashboard", zap.Error(err))
		return ViewModel{}, err
	}

	vm = Project(balance, submissions, pending)

	s.mu.Lock()
	s.cache[userID] = vm
	s.mu.Unlock()
	return vm, nil
}
