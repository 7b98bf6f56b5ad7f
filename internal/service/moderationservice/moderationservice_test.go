package moderationservice

import (
	"context"
	"errors"
	"testing"

	"github.com/memberhub/memberledger/internal/domain"
	"github.com/memberhub/memberledger/internal/events"
	"github.com/memberhub/memberledger/internal/pg"
	"github.com/memberhub/memberledger/internal/service/submissionservice"
	"github.com/memberhub/memberledger/internal/service/withdrawalservice"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

type mocks struct {
	submissionRepo *MockSubmissionRepo
	withdrawalRepo *MockWithdrawalRepo
	balanceRepo    *MockBalanceRepo
	userRepo       *MockUserRepo
	txManager      *pg.MockTXManager
}

func NewMock(t *testing.T) (*Service, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		submissionRepo: NewMockSubmissionRepo(ctrl),
		withdrawalRepo: NewMockWithdrawalRepo(ctrl),
		balanceRepo:    NewMockBalanceRepo(ctrl),
		userRepo:       NewMockUserRepo(ctrl),
		txManager:      pg.NewMockTXManager(ctrl),
	}
	broker := events.NewBroker(1)
	service := New(m.submissionRepo, m.withdrawalRepo, m.balanceRepo, m.userRepo, m.txManager, broker)
	defer ctrl.Finish()
	return service, m
}

func passthroughTx(tx *pg.MockTXManager) {
	tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
		return fn(ctx)
	})
}

func TestDecideSubmission(t *testing.T) {
	service, m := NewMock(t)

	tests := []struct {
		name           string
		id             int
		approve        bool
		prepareMock    func()
		expectedStatus string
		expectedError  error
	}{
		{
			name:    "Approve pending submission",
			id:      1,
			approve: true,
			prepareMock: func() {
				passthroughTx(m.txManager)
				m.submissionRepo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Submission{ID: 1, UserID: 5, Status: submissionservice.PendingStatus}, nil)
				m.submissionRepo.EXPECT().UpdateStatus(gomock.Any(), 1, submissionservice.ApprovedStatus).Return(nil)
			},
			expectedStatus: submissionservice.ApprovedStatus,
		},
		{
			name:    "Reject pending submission",
			id:      1,
			approve: false,
			prepareMock: func() {
				passthroughTx(m.txManager)
				m.submissionRepo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Submission{ID: 1, UserID: 5, Status: submissionservice.PendingStatus}, nil)
				m.submissionRepo.EXPECT().UpdateStatus(gomock.Any(), 1, submissionservice.RejectedStatus).Return(nil)
			},
			expectedStatus: submissionservice.RejectedStatus,
		},
		{
			name:    "Submission not found",
			id:      99,
			approve: true,
			prepareMock: func() {
				passthroughTx(m.txManager)
				m.submissionRepo.EXPECT().FindByID(gomock.Any(), 99).Return(nil, nil)
			},
			expectedError: ErrSubmissionNotFound,
		},
		{
			name:    "Already decided",
			id:      1,
			approve: true,
			prepareMock: func() {
				passthroughTx(m.txManager)
				m.submissionRepo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Submission{ID: 1, UserID: 5, Status: submissionservice.ApprovedStatus}, nil)
			},
			expectedError: ErrAlreadyDecided,
		},
		{
			name:    "Database error",
			id:      1,
			approve: true,
			prepareMock: func() {
				passthroughTx(m.txManager)
				m.submissionRepo.EXPECT().FindByID(gomock.Any(), 1).Return(nil, errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			submission, err := service.DecideSubmission(context.Background(), tt.id, tt.approve)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, submission)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedStatus, submission.Status)
			}
		})
	}
}

func TestDecideWithdrawal(t *testing.T) {
	service, m := NewMock(t)

	tests := []struct {
		name           string
		id             int
		complete       bool
		prepareMock    func()
		expectedStatus string
		expectedError  error
	}{
		{
			name:     "Completion debits the balance",
			id:       1,
			complete: true,
			prepareMock: func() {
				passthroughTx(m.txManager)
				m.withdrawalRepo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Withdrawal{ID: 1, UserID: 5, Amount: 100, Status: withdrawalservice.PendingStatus}, nil)
				m.balanceRepo.EXPECT().GetUserBalanceForUpdate(gomock.Any(), 5).Return(&domain.Balance{UserID: 5, CurrentBalance: 250, WithdrawnTotal: 10}, nil)
				m.balanceRepo.EXPECT().UpdateUserBalance(gomock.Any(), 5, gomock.Any()).DoAndReturn(func(ctx context.Context, userID int, b *domain.Balance) (*domain.Balance, error) {
					assert.Equal(t, 150.0, b.CurrentBalance)
					assert.Equal(t, 110.0, b.WithdrawnTotal)
					return b, nil
				})
				m.withdrawalRepo.EXPECT().UpdateStatus(gomock.Any(), 1, withdrawalservice.CompletedStatus).Return(nil)
			},
			expectedStatus: withdrawalservice.CompletedStatus,
		},
		{
			name:     "Rejection leaves the balance untouched",
			id:       1,
			complete: false,
			prepareMock: func() {
				passthroughTx(m.txManager)
				m.withdrawalRepo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Withdrawal{ID: 1, UserID: 5, Amount: 100, Status: withdrawalservice.PendingStatus}, nil)
				m.withdrawalRepo.EXPECT().UpdateStatus(gomock.Any(), 1, withdrawalservice.RejectedStatus).Return(nil)
			},
			expectedStatus: withdrawalservice.RejectedStatus,
		},
		{
			name:     "Balance dropped below the amount since the request",
			id:       1,
			complete: true,
			prepareMock: func() {
				passthroughTx(m.txManager)
				m.withdrawalRepo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Withdrawal{ID: 1, UserID: 5, Amount: 100, Status: withdrawalservice.PendingStatus}, nil)
				m.balanceRepo.EXPECT().GetUserBalanceForUpdate(gomock.Any(), 5).Return(&domain.Balance{UserID: 5, CurrentBalance: 40}, nil)
			},
			expectedError: ErrInsufficientBalance,
		},
		{
			name:     "Withdrawal not found",
			id:       99,
			complete: true,
			prepareMock: func() {
				passthroughTx(m.txManager)
				m.withdrawalRepo.EXPECT().FindByID(gomock.Any(), 99).Return(nil, nil)
			},
			expectedError: ErrWithdrawalNotFound,
		},
		{
			name:     "Already decided",
			id:       1,
			complete: true,
			prepareMock: func() {
				passthroughTx(m.txManager)
				m.withdrawalRepo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Withdrawal{ID: 1, UserID: 5, Amount: 100, Status: withdrawalservice.CompletedStatus}, nil)
			},
			expectedError: ErrAlreadyDecided,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			withdrawal, err := service.DecideWithdrawal(context.Background(), tt.id, tt.complete)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, withdrawal)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedStatus, withdrawal.Status)
			}
		})
	}
}

func TestAdjustBalance(t *testing.T) {
	service, m := NewMock(t)

	tests := []struct {
		name          string
		login         string
		delta         float64
		prepareMock   func()
		expected      *domain.Balance
		expectedError error
	}{
		{
			name:  "Positive delta",
			login: "member",
			delta: 100,
			prepareMock: func() {
				m.userRepo.EXPECT().FindByLogin(gomock.Any(), "member").Return(&domain.User{ID: 5, Login: "member"}, nil)
				passthroughTx(m.txManager)
				m.balanceRepo.EXPECT().GetUserBalanceForUpdate(gomock.Any(), 5).Return(&domain.Balance{UserID: 5, CurrentBalance: 50}, nil)
				m.balanceRepo.EXPECT().UpdateUserBalance(gomock.Any(), 5, gomock.Any()).DoAndReturn(func(ctx context.Context, userID int, b *domain.Balance) (*domain.Balance, error) {
					return b, nil
				})
			},
			expected: &domain.Balance{UserID: 5, CurrentBalance: 150},
		},
		{
			name:  "Negative delta within the balance",
			login: "member",
			delta: -30,
			prepareMock: func() {
				m.userRepo.EXPECT().FindByLogin(gomock.Any(), "member").Return(&domain.User{ID: 5, Login: "member"}, nil)
				passthroughTx(m.txManager)
				m.balanceRepo.EXPECT().GetUserBalanceForUpdate(gomock.Any(), 5).Return(&domain.Balance{UserID: 5, CurrentBalance: 50}, nil)
				m.balanceRepo.EXPECT().UpdateUserBalance(gomock.Any(), 5, gomock.Any()).DoAndReturn(func(ctx context.Context, userID int, b *domain.Balance) (*domain.Balance, error) {
					return b, nil
				})
			},
			expected: &domain.Balance{UserID: 5, CurrentBalance: 20},
		},
		{
			name:  "Delta would push the balance negative",
			login: "member",
			delta: -100,
			prepareMock: func() {
				m.userRepo.EXPECT().FindByLogin(gomock.Any(), "member").Return(&domain.User{ID: 5, Login: "member"}, nil)
				passthroughTx(m.txManager)
				m.balanceRepo.EXPECT().GetUserBalanceForUpdate(gomock.Any(), 5).Return(&domain.Balance{UserID: 5, CurrentBalance: 50}, nil)
			},
			expectedError: ErrNegativeBalance,
		},
		{
			name:  "Unknown login",
			login: "ghost",
			delta: 100,
			prepareMock: func() {
				m.userRepo.EXPECT().FindByLogin(gomock.Any(), "ghost").Return(nil, nil)
			},
			expectedError: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			balance, err := service.AdjustBalance(context.Background(), tt.login, tt.delta)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, balance)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected.CurrentBalance, balance.CurrentBalance)
			}
		})
	}
}
