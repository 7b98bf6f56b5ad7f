package submissionservice

import (
	"context"
	"errors"

	"github.com/memberhub/memberledger/internal/config"
	"github.com/memberhub/memberledger/internal/domain"
	"github.com/memberhub/memberledger/internal/events"
	"github.com/memberhub/memberledger/internal/pg"
	"github.com/memberhub/memberledger/pkg/validate"
	"go.uber.org/zap"
)

type Repo interface {
	FindActiveByUser(ctx context.Context, userID int, tradingID string) (*domain.Submission, error)
	FindActive(ctx context.Context, tradingID string) (*domain.Submission, error)
	LockTradingID(ctx context.Context, tradingID string) error
	FindByID(ctx context.Context, id int) (*domain.Submission, error)
	Save(ctx context.Context, submission *domain.Submission) error
	FindByUserID(ctx context.Context, userID int) ([]domain.Submission, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	FindForReferralCredit(ctx context.Context, limit uint32) ([]domain.Submission, error)
	MarkReferralCredited(ctx context.Context, id int) error
}

const (
	// PendingStatus заявка ожидает решения модератора;
	PendingStatus string = "PENDING"
	// ApprovedStatus заявка подтверждена модератором;
	ApprovedStatus string = "APPROVED"
	// RejectedStatus заявка отклонена, trading id снова свободен;
	RejectedStatus string = "REJECTED"
)

var (
	ErrEmptyTradingID      = errors.New("trading id is required")
	ErrDuplicateSubmission = errors.New("trading id already submitted")
)

type Service struct {
	repo      Repo
	txManager pg.TXManager
	publisher events.Publisher
	scope     string
}

func New(repo Repo, txManager pg.TXManager, publisher events.Publisher, scope string) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		publisher: publisher,
		scope:     scope,
	}
}

// Submit normalizes the trading id and inserts a pending submission. The
// uniqueness check and the insert run in one transaction. In the per-user
// scope the partial unique index catches racers that pass the check
// concurrently; in the global scope an advisory lock on the normalized id
// serializes submitters across users first.
func (s *Service) Submit(ctx context.Context, userID int, rawTradingID string) (*domain.Submission, error) {
	tradingID := validate.NormalizeTradingID(rawTradingID)
	if tradingID == "" {
		return nil, ErrEmptyTradingID
	}

	submission := &domain.Submission{
		UserID:    userID,
		TradingID: tradingID,
		Status:    PendingStatus,
	}

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		existing, err := s.findActive(ctx, userID, tradingID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateSubmission
		}
		return s.repo.Save(ctx, submission)
	})
	if err != nil {
		if pg.IsUniqueViolation(err) {
			zap.L().Info("concurrent duplicate submission", zap.String("trading_id", tradingID))
			return nil, ErrDuplicateSubmission
		}
		if errors.Is(err, ErrDuplicateSubmission) {
			zap.L().Info("trading id already submitted", zap.String("trading_id", tradingID))
			return nil, ErrDuplicateSubmission
		}
		zap.L().Error("can't save submission: ", zap.Error(err))
		return nil, err
	}

	s.publisher.Publish(events.Event{Collection: events.Submissions, Kind: events.Created, UserID: userID})
	return submission, nil
}

func (s *Service) findActive(ctx context.Context, userID int, tradingID string) (*domain.Submission, error) {
	if s.scope == config.ScopeGlobal {
		if err := s.repo.LockTradingID(ctx, tradingID); err != nil {
			return nil, err
		}
		return s.repo.FindActive(ctx, tradingID)
	}
	return s.repo.FindActiveByUser(ctx, userID, tradingID)
}

func (s *Service) GetSubmissions(ctx context.Context, userID int) ([]domain.Submission, error) {
	submissions, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get submissions", zap.Error(err))
		return nil, err
	}
	if len(submissions) == 0 {
		return nil, nil
	}
	return submissions, nil
}

type Stats struct {
	ApprovedCount int
	PendingCount  int
}

// DeriveStats is a pure projection over a submission set: approved count
// doubles as the member counter on the dashboard.
func DeriveStats(submissions []domain.Submission) Stats {
	var stats Stats
	for _, s := range submissions {
		switch s.Status {
		case ApprovedStatus:
			stats.ApprovedCount++
		case PendingStatus:
			stats.PendingCount++
		}
	}
	return stats
}
