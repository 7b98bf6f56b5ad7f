package referral

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/memberhub/memberledger/internal/config"
	"github.com/memberhub/memberledger/internal/domain"
	"github.com/memberhub/memberledger/internal/events"
	"github.com/memberhub/memberledger/internal/pg"
	"github.com/memberhub/memberledger/internal/service/authservice"
	"github.com/memberhub/memberledger/internal/service/balanceservice"
	"github.com/memberhub/memberledger/internal/service/submissionservice"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

var creditingSubmissions sync.Map

// Service pays the referral bonus: it polls for approved submissions whose
// referrer has not been credited yet and moves the bonus inside one
// transaction per submission.
type Service struct {
	submissionRepo submissionservice.Repo
	userRepo       authservice.Repo
	balanceRepo    balanceservice.BalanceRepo
	txManager      pg.TXManager
	publisher      events.Publisher
	bonus          float64
	limit          uint32
	workerPool     WorkerPoolI
	updateInterval time.Duration
}

func New(
	cfg *config.Config,
	submissionRepo submissionservice.Repo,
	userRepo authservice.Repo,
	balanceRepo balanceservice.BalanceRepo,
	txManager pg.TXManager,
	publisher events.Publisher,
) *Service {
	return &Service{
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		balanceRepo:    balanceRepo,
		txManager:      txManager,
		publisher:      publisher,
		bonus:          cfg.ReferralBonus,
		limit:          1000,
		workerPool:     NewWorkerPool(10),
		updateInterval: time.Second * 5,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Referral credit service started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping referral credit service")
			return
		case <-ticker.C:
			s.processSubmissions(ctx)
		}
	}
}

func (s *Service) processSubmissions(ctx context.Context) {
	submissions, err := s.submissionRepo.FindForReferralCredit(ctx, atomic.LoadUint32(&s.limit))
	if err != nil {
		zap.L().Error("Failed to fetch submissions for referral credit", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, submission := range submissions {
		submission := submission

		if _, loaded := creditingSubmissions.LoadOrStore(submission.ID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer creditingSubmissions.Delete(submission.ID)
				return s.handleSubmission(ctx, submission)
			})
			if err != nil {
				creditingSubmissions.Delete(submission.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error crediting referral bonuses", zap.Error(err))
	}
}

func (s *Service) handleSubmission(ctx context.Context, submission domain.Submission) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			err = s.creditSubmission(ctx, submission)
			if err == nil {
				return nil
			}
			if attempt < maxRetries {
				time.Sleep(retryInterval * time.Duration(attempt))
			}
		}
	}
	return fmt.Errorf("failed to credit referral for submission %d after %d retries: %w", submission.ID, maxRetries, err)
}

func (s *Service) creditSubmission(ctx context.Context, submission domain.Submission) error {
	var referrerID int

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		submitter, err := s.userRepo.FindByID(ctx, submission.UserID)
		if err != nil {
			return err
		}
		if submitter == nil || submitter.ReferredBy == "" {
			// nobody to pay, close the submission out
			return s.submissionRepo.MarkReferralCredited(ctx, submission.ID)
		}

		referrer, err := s.userRepo.FindByReferralCode(ctx, submitter.ReferredBy)
		if err != nil {
			return err
		}
		if referrer == nil {
			zap.L().Warn("Referrer no longer exists, skipping bonus",
				zap.Int("submissionID", submission.ID),
				zap.String("referralCode", submitter.ReferredBy),
			)
			return s.submissionRepo.MarkReferralCredited(ctx, submission.ID)
		}

		if s.bonus > 0 {
			balance, err := s.balanceRepo.GetUserBalanceForUpdate(ctx, referrer.ID)
			if err != nil {
				return err
			}
			if balance == nil {
				return fmt.Errorf("referrer %d has no balance row", referrer.ID)
			}
			balance.CurrentBalance += s.bonus
			if _, err := s.balanceRepo.UpdateUserBalance(ctx, referrer.ID, balance); err != nil {
				return err
			}
			referrerID = referrer.ID
		}

		return s.submissionRepo.MarkReferralCredited(ctx, submission.ID)
	})
	if err != nil {
		return err
	}

	if referrerID != 0 {
		zap.L().Info("Referral bonus credited",
			zap.Int("submissionID", submission.ID),
			zap.Int("referrerID", referrerID),
			zap.Float64("bonus", s.bonus),
		)
		s.publisher.Publish(events.Event{Collection: events.Balances, Kind: events.Updated, UserID: referrerID})
	}
	return nil
}
