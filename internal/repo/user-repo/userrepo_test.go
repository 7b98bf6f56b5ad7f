package userrepo

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

var userColumns = []string{"id", "login", "password_hash", "display_name", "referral_code", "referred_by"}

func TestRepository_FindByLogin(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		login     string
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name:  "User exists",
			login: "member",
			mockSetup: func() {
				rows := pgxmock.NewRows(userColumns).
					AddRow(1, "member", "hash", "Member One", "code-1", "")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, login, password_hash, display_name, referral_code, referred_by FROM users WHERE login = $1`)).
					WithArgs("member").
					WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.User{
				ID:           1,
				Login:        "member",
				PasswordHash: "hash",
				DisplayName:  "Member One",
				ReferralCode: "code-1",
			},
		},
		{
			name:  "User does not exist",
			login: "ghost",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, login, password_hash, display_name, referral_code, referred_by FROM users WHERE login = $1`)).
					WithArgs("ghost").
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name:  "Database error",
			login: "member",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, login, password_hash, display_name, referral_code, referred_by FROM users WHERE login = $1`)).
					WithArgs("member").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByLogin(context.Background(), tt.login)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		id        int
		mockSetup func()
		result    *domain.User
	}{
		{
			name: "User exists",
			id:   1,
			mockSetup: func() {
				rows := pgxmock.NewRows(userColumns).
					AddRow(1, "member", "hash", "", "code-1", "code-9")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, login, password_hash, display_name, referral_code, referred_by FROM users WHERE id = $1`)).
					WithArgs(1).
					WillReturnRows(rows)
			},
			result: &domain.User{ID: 1, Login: "member", PasswordHash: "hash", ReferralCode: "code-1", ReferredBy: "code-9"},
		},
		{
			name: "User does not exist",
			id:   99,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, login, password_hash, display_name, referral_code, referred_by FROM users WHERE id = $1`)).
					WithArgs(99).
					WillReturnError(pgx.ErrNoRows)
			},
			result: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByID(context.Background(), tt.id)
			assert.NoError(t, err)
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_FindByReferralCode(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		code      string
		mockSetup func()
		result    *domain.User
	}{
		{
			name: "Referrer exists",
			code: "code-1",
			mockSetup: func() {
				rows := pgxmock.NewRows(userColumns).
					AddRow(1, "member", "hash", "", "code-1", "")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, login, password_hash, display_name, referral_code, referred_by FROM users WHERE referral_code = $1`)).
					WithArgs("code-1").
					WillReturnRows(rows)
			},
			result: &domain.User{ID: 1, Login: "member", PasswordHash: "hash", ReferralCode: "code-1"},
		},
		{
			name: "Unknown code",
			code: "nope",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, login, password_hash, display_name, referral_code, referred_by FROM users WHERE referral_code = $1`)).
					WithArgs("nope").
					WillReturnError(pgx.ErrNoRows)
			},
			result: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByReferralCode(context.Background(), tt.code)
			assert.NoError(t, err)
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	timeNow := time.Now()

	tests := []struct {
		name      string
		user      *domain.User
		mockSetup func()
		expectErr bool
	}{
		{
			name: "User created",
			user: &domain.User{
				Login:        "member",
				PasswordHash: "hash",
				DisplayName:  "Member One",
				ReferralCode: "code-1",
			},
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "created_at"}).AddRow(1, timeNow)
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (login, password_hash, display_name, referral_code, referred_by) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`)).
					WithArgs("member", "hash", "Member One", "code-1", "").
					WillReturnRows(rows)
			},
			expectErr: false,
		},
		{
			name: "Database error",
			user: &domain.User{
				Login:        "member",
				PasswordHash: "hash",
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (login, password_hash, display_name, referral_code, referred_by) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`)).
					WithArgs("member", "hash", "", "", "").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Create(context.Background(), tt.user)
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
