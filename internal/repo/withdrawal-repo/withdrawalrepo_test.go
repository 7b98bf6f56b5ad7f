package withdrawalrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/memberhub/memberledger/internal/domain"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

var withdrawalColumns = []string{"id", "user_id", "amount", "account_name", "account_type", "account_number", "status", "created_at"}

func TestRepository_CreateWithdrawal(t *testing.T) {
	repo, mock := NewMock(t)
	timeNow := time.Now()

	tests := []struct {
		name       string
		withdrawal *domain.Withdrawal
		mockSetup  func()
		expectErr  bool
	}{
		{
			name: "Withdrawal created",
			withdrawal: &domain.Withdrawal{
				UserID:        1,
				Amount:        100.0,
				AccountName:   "Main account",
				AccountType:   "bank",
				AccountNumber: "40817810000000000001",
				Status:        "PENDING",
			},
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "created_at"}).AddRow(1, timeNow)
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO withdrawals (user_id, amount, account_name, account_type, account_number, status) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`)).
					WithArgs(1, 100.0, "Main account", "bank", "40817810000000000001", "PENDING").
					WillReturnRows(rows)
			},
			expectErr: false,
		},
		{
			name: "Database error",
			withdrawal: &domain.Withdrawal{
				UserID: 1,
				Amount: 100.0,
				Status: "PENDING",
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO withdrawals (user_id, amount, account_name, account_type, account_number, status) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`)).
					WithArgs(1, 100.0, "", "", "", "PENDING").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.CreateWithdrawal(context.Background(), tt.withdrawal)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, result.ID)
				assert.Equal(t, timeNow, result.CreatedAt)
			}
		})
	}
}

func TestRepository_GetWithdrawalsByUserID(t *testing.T) {
	repo, mock := NewMock(t)
	timeNow := time.Now()

	tests := []struct {
		name      string
		userID    int
		mockSetup func()
		expectErr bool
		result    []domain.Withdrawal
	}{
		{
			name:   "Withdrawals found, newest first",
			userID: 1,
			mockSetup: func() {
				rows := pgxmock.NewRows(withdrawalColumns).
					AddRow(2, 1, 50.0, "Main account", "bank", "40817810000000000001", "PENDING", timeNow).
					AddRow(1, 1, 30.0, "Main account", "bank", "40817810000000000001", "COMPLETED", timeNow.Add(-time.Hour))
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, amount, account_name, account_type, account_number, status, created_at FROM withdrawals WHERE user_id = $1 ORDER BY created_at DESC, id DESC`)).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expectErr: false,
			result: []domain.Withdrawal{
				{ID: 2, UserID: 1, Amount: 50.0, AccountName: "Main account", AccountType: "bank", AccountNumber: "40817810000000000001", Status: "PENDING", CreatedAt: timeNow},
				{ID: 1, UserID: 1, Amount: 30.0, AccountName: "Main account", AccountType: "bank", AccountNumber: "40817810000000000001", Status: "COMPLETED", CreatedAt: timeNow.Add(-time.Hour)},
			},
		},
		{
			name:   "Scan row error",
			userID: 1,
			mockSetup: func() {
				rows := pgxmock.NewRows(withdrawalColumns).
					AddRow(1, 1, "invalid_value", "Main account", "bank", "40817810000000000001", "PENDING", timeNow)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, amount, account_name, account_type, account_number, status, created_at FROM withdrawals WHERE user_id = $1 ORDER BY created_at DESC, id DESC`)).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expectErr: true,
			result:    nil,
		},
		{
			name:   "Database error",
			userID: 1,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, amount, account_name, account_type, account_number, status, created_at FROM withdrawals WHERE user_id = $1 ORDER BY created_at DESC, id DESC`)).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.GetWithdrawalsByUserID(context.Background(), tt.userID)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_FindPendingByUserID(t *testing.T) {
	repo, mock := NewMock(t)
	timeNow := time.Now()

	tests := []struct {
		name      string
		userID    int
		mockSetup func()
		result    *domain.Withdrawal
	}{
		{
			name:   "Pending withdrawal exists",
			userID: 1,
			mockSetup: func() {
				rows := pgxmock.NewRows(withdrawalColumns).
					AddRow(1, 1, 100.0, "Main account", "bank", "40817810000000000001", "PENDING", timeNow)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, amount, account_name, account_type, account_number, status, created_at FROM withdrawals WHERE user_id = $1 AND status = 'PENDING'`)).
					WithArgs(1).
					WillReturnRows(rows)
			},
			result: &domain.Withdrawal{ID: 1, UserID: 1, Amount: 100.0, AccountName: "Main account", AccountType: "bank", AccountNumber: "40817810000000000001", Status: "PENDING", CreatedAt: timeNow},
		},
		{
			name:   "No pending withdrawal",
			userID: 1,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, amount, account_name, account_type, account_number, status, created_at FROM withdrawals WHERE user_id = $1 AND status = 'PENDING'`)).
					WithArgs(1).
					WillReturnError(pgx.ErrNoRows)
			},
			result: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindPendingByUserID(context.Background(), tt.userID)
			assert.NoError(t, err)
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)
	timeNow := time.Now()

	rows := pgxmock.NewRows(withdrawalColumns).
		AddRow(1, 1, 100.0, "Main account", "bank", "40817810000000000001", "PENDING", timeNow)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, amount, account_name, account_type, account_number, status, created_at FROM withdrawals WHERE id = $1`)).
		WithArgs(1).
		WillReturnRows(rows)

	result, err := repo.FindByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.ID)
	assert.Equal(t, "PENDING", result.Status)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, amount, account_name, account_type, account_number, status, created_at FROM withdrawals WHERE id = $1`)).
		WithArgs(99).
		WillReturnError(pgx.ErrNoRows)

	result, err = repo.FindByID(context.Background(), 99)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE withdrawals SET status = $1 WHERE id = $2`)).
		WithArgs("COMPLETED", 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.UpdateStatus(context.Background(), 1, "COMPLETED"))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE withdrawals SET status = $1 WHERE id = $2`)).
		WithArgs("REJECTED", 2).
		WillReturnError(errors.New("database error"))
	assert.Error(t, repo.UpdateStatus(context.Background(), 2, "REJECTED"))
}
