package withdrawalrepo

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

func (r *Repository) CreateWithdrawal(ctx context.Context, withdrawal *domain.Withdrawal) (*domain.Withdrawal, error) {
	query := `
		INSERT INTO withdrawals (user_id, amount, account_name, account_type, account_number, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		withdrawal.UserID, withdrawal.Amount, withdrawal.AccountName, withdrawal.AccountType, withdrawal.AccountNumber, withdrawal.Status).
		Scan(&withdrawal.ID, &withdrawal.CreatedAt)
	if err != nil {
		zap.L().Error("can't save withdrawal", zap.Error(err))
		return nil, err
	}
	return withdrawal, nil
}

func (r *Repository) GetWithdrawalsByUserID(ctx context.Context, userID int) ([]domain.Withdrawal, error) {
	query := `
        SELECT id, user_id, amount, account_name, account_type, account_number, status, created_at
        FROM withdrawals
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to fetch withdrawals", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var withdrawals []domain.Withdrawal
	for rows.Next() {
		var wd domain.Withdrawal
		err := rows.Scan(&wd.ID, &wd.UserID, &wd.Amount, &wd.AccountName, &wd.AccountType, &wd.AccountNumber, &wd.Status, &wd.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan withdrawal row", zap.Error(err))
			return nil, err
		}
		withdrawals = append(withdrawals, wd)
	}

	return withdrawals, nil
}

func (r *Repository) FindPendingByUserID(ctx context.Context, userID int) (*domain.Withdrawal, error) {
	query := `
        SELECT id, user_id, amount, account_name, account_type, account_number, status, created_at
        FROM withdrawals
        WHERE user_id = $1 AND status = 'PENDING'
    `
	return r.scanOne(ctx, query, userID)
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Withdrawal, error) {
	query := `
        SELECT id, user_id, amount, account_name, account_type, account_number, status, created_at
        FROM withdrawals
        WHERE id = $1
    `
	return r.scanOne(ctx, query, id)
}

func (r *Repository) UpdateStatus(ctx context.Context, id int, status string) error {
	query := `
        UPDATE withdrawals
        SET status = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		zap.L().Error("failed to update withdrawal status", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) scanOne(ctx context.Context, query string, args ...any) (*domain.Withdrawal, error) {
	var wd domain.Withdrawal
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&wd.ID, &wd.UserID, &wd.Amount, &wd.AccountName, &wd.AccountType, &wd.AccountNumber, &wd.Status, &wd.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find withdrawal", zap.Error(err))
		return nil, err
	}
	return &wd, nil
}
