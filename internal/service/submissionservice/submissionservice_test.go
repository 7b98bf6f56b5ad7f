package submissionservice

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/memberhub/memberledger/internal/config"
	"github.com/memberhub/memberledger/internal/domain"
	"github.com/memberhub/memberledger/internal/events"
	"github.com/memberhub/memberledger/internal/pg"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T, scope string) (*Service, *MockRepo, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	broker := events.NewBroker(1)

	service := New(repo, txManager, broker, scope)
	defer ctrl.Finish()
	return service, repo, txManager
}

func passthroughTx(tx *pg.MockTXManager) {
	tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
		return fn(ctx)
	})
}

func TestSubmit(t *testing.T) {
	service, repo, tx := NewMock(t, config.ScopePerUser)

	tests := []struct {
		name          string
		userID        int
		tradingID     string
		prepareMock   func()
		expected      *domain.Submission
		expectedError error
	}{
		{
			name:          "Empty trading id",
			userID:        1,
			tradingID:     "   ",
			prepareMock:   func() {},
			expected:      nil,
			expectedError: ErrEmptyTradingID,
		},
		{
			name:      "Trading id is normalized before the check",
			userID:    1,
			tradingID: "  ab123x \n",
			prepareMock: func() {
				passthroughTx(tx)
				repo.EXPECT().FindActiveByUser(gomock.Any(), 1, "AB123X").Return(nil, nil)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			},
			expected: &domain.Submission{
				UserID:    1,
				TradingID: "AB123X",
				Status:    PendingStatus,
			},
			expectedError: nil,
		},
		{
			name:      "Trading id already active for the user",
			userID:    1,
			tradingID: "AB123X",
			prepareMock: func() {
				passthroughTx(tx)
				repo.EXPECT().FindActiveByUser(gomock.Any(), 1, "AB123X").Return(&domain.Submission{ID: 7, UserID: 1}, nil)
			},
			expected:      nil,
			expectedError: ErrDuplicateSubmission,
		},
		{
			name:      "Concurrent duplicate caught by the unique index",
			userID:    1,
			tradingID: "AB123X",
			prepareMock: func() {
				passthroughTx(tx)
				repo.EXPECT().FindActiveByUser(gomock.Any(), 1, "AB123X").Return(nil, nil)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(&pgconn.PgError{Code: "23505"})
			},
			expected:      nil,
			expectedError: ErrDuplicateSubmission,
		},
		{
			name:      "Cannot check existing submissions",
			userID:    1,
			tradingID: "AB123X",
			prepareMock: func() {
				passthroughTx(tx)
				repo.EXPECT().FindActiveByUser(gomock.Any(), 1, "AB123X").Return(nil, errors.New("database error"))
			},
			expected:      nil,
			expectedError: errors.New("database error"),
		},
		{
			name:      "Cannot save submission",
			userID:    1,
			tradingID: "AB123X",
			prepareMock: func() {
				passthroughTx(tx)
				repo.EXPECT().FindActiveByUser(gomock.Any(), 1, "AB123X").Return(nil, nil)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			expected:      nil,
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			submission, err := service.Submit(context.Background(), tt.userID, tt.tradingID)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, submission)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected.UserID, submission.UserID)
				assert.Equal(t, tt.expected.TradingID, submission.TradingID)
				assert.Equal(t, tt.expected.Status, submission.Status)
			}
		})
	}
}

func TestSubmit_GlobalScope(t *testing.T) {
	t.Run("Trading id already active for another user", func(t *testing.T) {
		service, repo, tx := NewMock(t, config.ScopeGlobal)

		passthroughTx(tx)
		repo.EXPECT().LockTradingID(gomock.Any(), "AB123X").Return(nil)
		repo.EXPECT().FindActive(gomock.Any(), "AB123X").Return(&domain.Submission{ID: 2, UserID: 9}, nil)

		submission, err := service.Submit(context.Background(), 1, "ab123x")
		assert.ErrorIs(t, err, ErrDuplicateSubmission)
		assert.Nil(t, submission)
	})

	t.Run("Lock taken before the cross-user check", func(t *testing.T) {
		service, repo, tx := NewMock(t, config.ScopeGlobal)

		passthroughTx(tx)
		gomock.InOrder(
			repo.EXPECT().LockTradingID(gomock.Any(), "AB123X").Return(nil),
			repo.EXPECT().FindActive(gomock.Any(), "AB123X").Return(nil, nil),
			repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
		)

		submission, err := service.Submit(context.Background(), 1, "ab123x")
		assert.NoError(t, err)
		assert.Equal(t, "AB123X", submission.TradingID)
	})

	t.Run("Serialized racer sees the winner's row", func(t *testing.T) {
		service, repo, tx := NewMock(t, config.ScopeGlobal)

		// The loser of the advisory lock runs its check only after the
		// winner committed, so the winner's row is visible.
		passthroughTx(tx)
		gomock.InOrder(
			repo.EXPECT().LockTradingID(gomock.Any(), "AB123X").Return(nil),
			repo.EXPECT().FindActive(gomock.Any(), "AB123X").Return(&domain.Submission{ID: 5, UserID: 2, TradingID: "AB123X"}, nil),
		)

		submission, err := service.Submit(context.Background(), 1, "AB123X")
		assert.ErrorIs(t, err, ErrDuplicateSubmission)
		assert.Nil(t, submission)
	})

	t.Run("Lock failure aborts the submit", func(t *testing.T) {
		service, repo, tx := NewMock(t, config.ScopeGlobal)

		passthroughTx(tx)
		repo.EXPECT().LockTradingID(gomock.Any(), "AB123X").Return(errors.New("database error"))

		submission, err := service.Submit(context.Background(), 1, "AB123X")
		assert.EqualError(t, err, "database error")
		assert.Nil(t, submission)
	})
}

func TestGetSubmissions(t *testing.T) {
	service, repo, _ := NewMock(t, config.ScopePerUser)

	tests := []struct {
		name          string
		userID        int
		prepareMock   func()
		expected      []domain.Submission
		expectedError error
	}{
		{
			name:   "Submissions found",
			userID: 1,
			prepareMock: func() {
				repo.EXPECT().FindByUserID(gomock.Any(), 1).Return([]domain.Submission{
					{ID: 2, UserID: 1, TradingID: "XYZ", Status: ApprovedStatus},
					{ID: 1, UserID: 1, TradingID: "ABC", Status: PendingStatus},
				}, nil)
			},
			expected: []domain.Submission{
				{ID: 2, UserID: 1, TradingID: "XYZ", Status: ApprovedStatus},
				{ID: 1, UserID: 1, TradingID: "ABC", Status: PendingStatus},
			},
			expectedError: nil,
		},
		{
			name:   "No submissions",
			userID: 1,
			prepareMock: func() {
				repo.EXPECT().FindByUserID(gomock.Any(), 1).Return(nil, nil)
			},
			expected:      nil,
			expectedError: nil,
		},
		{
			name:   "Database error",
			userID: 1,
			prepareMock: func() {
				repo.EXPECT().FindByUserID(gomock.Any(), 1).Return(nil, errors.New("database error"))
			},
			expected:      nil,
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			submissions, err := service.GetSubmissions(context.Background(), tt.userID)
			if tt.expectedError != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, submissions)
		})
	}
}

func TestDeriveStats(t *testing.T) {
	tests := []struct {
		name        string
		submissions []domain.Submission
		expected    Stats
	}{
		{
			name:        "Empty set",
			submissions: nil,
			expected:    Stats{},
		},
		{
			name: "Mixed statuses",
			submissions: []domain.Submission{
				{Status: ApprovedStatus},
				{Status: ApprovedStatus},
				{Status: PendingStatus},
				{Status: RejectedStatus},
			},
			expected: Stats{ApprovedCount: 2, PendingCount: 1},
		},
		{
			name: "Rejected only",
			submissions: []domain.Submission{
				{Status: RejectedStatus},
			},
			expected: Stats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveStats(tt.submissions))
		})
	}
}
