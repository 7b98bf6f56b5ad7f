package submissionrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/memberhub/memberledger/internal/domain"
	"github.com/memberhub/memberledger/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) scanOne(ctx context.Context, query string, args ...any) (*domain.Submission, error) {
	var s domain.Submission
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&s.ID, &s.UserID, &s.TradingID, &s.Status, &s.ReferralCredited, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find submission", zap.Error(err))
		return nil, err
	}
	return &s, nil
}

// FindActiveByUser looks up a non-rejected submission with the given
// normalized trading id within one user's set.
func (r *Repository) FindActiveByUser(ctx context.Context, userID int, tradingID string) (*domain.Submission, error) {
	query := `
        SELECT id, user_id, trading_id, status, referral_credited, created_at
        FROM submissions
        WHERE user_id = $1 AND trading_id = $2 AND status <> 'REJECTED'
    `
	return r.scanOne(ctx, query, userID, tradingID)
}

// FindActive looks up a non-rejected submission with the given normalized
// trading id across all users.
func (r *Repository) FindActive(ctx context.Context, tradingID string) (*domain.Submission, error) {
	query := `
        SELECT id, user_id, trading_id, status, referral_credited, created_at
        FROM submissions
        WHERE trading_id = $1 AND status <> 'REJECTED'
        LIMIT 1
    `
	return r.scanOne(ctx, query, tradingID)
}

// LockTradingID serializes concurrent submitters of one normalized trading id.
// The advisory lock is released when the surrounding transaction ends; the
// global uniqueness scope relies on it because no unique index spans users.
func (r *Repository) LockTradingID(ctx context.Context, tradingID string) error {
	query := `SELECT pg_advisory_xact_lock(hashtext($1))`
	_, err := r.db.Exec(ctx, query, tradingID)
	if err != nil {
		zap.L().Error("can't take trading id lock", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Submission, error) {
	query := `
        SELECT id, user_id, trading_id, status, referral_credited, created_at
        FROM submissions
        WHERE id = $1
    `
	return r.scanOne(ctx, query, id)
}

func (r *Repository) Save(ctx context.Context, submission *domain.Submission) error {
	query := `
        INSERT INTO submissions (user_id, trading_id, status)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, submission.UserID, submission.TradingID, submission.Status).
		Scan(&submission.ID, &submission.CreatedAt)
	if err != nil {
		zap.L().Error("can't save submission", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Submission, error) {
	query := `
        SELECT id, user_id, trading_id, status, referral_credited, created_at
        FROM submissions
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get submissions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var submissions []domain.Submission
	for rows.Next() {
		var s domain.Submission
		err := rows.Scan(&s.ID, &s.UserID, &s.TradingID, &s.Status, &s.ReferralCredited, &s.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan submission row", zap.Error(err))
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int, status string) error {
	query := `
        UPDATE submissions
        SET status = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		zap.L().Error("failed to update submission status", zap.Error(err))
		return err
	}
	return nil
}

// FindForReferralCredit returns approved submissions whose referrer bonus has
// not been paid out yet, oldest first.
func (r *Repository) FindForReferralCredit(ctx context.Context, limit uint32) ([]domain.Submission, error) {
	query := `
        SELECT id, user_id, trading_id, status, referral_credited, created_at
        FROM submissions
        WHERE status = 'APPROVED' AND referral_credited = FALSE
        ORDER BY created_at ASC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, int(limit))
	if err != nil {
		zap.L().Error("can't get submissions for referral credit", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var submissions []domain.Submission
	for rows.Next() {
		var s domain.Submission
		err := rows.Scan(&s.ID, &s.UserID, &s.TradingID, &s.Status, &s.ReferralCredited, &s.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan submission row for referral credit", zap.Error(err))
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, nil
}

func (r *Repository) MarkReferralCredited(ctx context.Context, id int) error {
	query := `
        UPDATE submissions
        SET referral_credited = TRUE
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("failed to mark submission referral credited", zap.Error(err))
		return err
	}
	return nil
}
