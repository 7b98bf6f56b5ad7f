package balanceservice

import (
	"context"
	"errors"
	"testing"

	"github.com/memberhub/memberledger/internal/domain"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockBalanceRepo) {
	ctrl := gomock.NewController(t)
	balanceRepo := NewMockBalanceRepo(ctrl)
	service := New(balanceRepo)
	defer ctrl.Finish()
	return service, balanceRepo
}

func TestGetBalance(t *testing.T) {
	service, balanceRepo := NewMock(t)

	tests := []struct {
		name          string
		userID        int
		prepareMock   func()
		expected      *domain.Balance
		expectedError error
	}{
		{
			name:   "Balance found",
			userID: 1,
			prepareMock: func() {
				balanceRepo.EXPECT().GetUserBalance(gomock.Any(), 1).Return(&domain.Balance{ID: 1, UserID: 1, CurrentBalance: 250, WithdrawnTotal: 50}, nil)
			},
			expected:      &domain.Balance{ID: 1, UserID: 1, CurrentBalance: 250, WithdrawnTotal: 50},
			expectedError: nil,
		},
		{
			name:   "No balance row",
			userID: 2,
			prepareMock: func() {
				balanceRepo.EXPECT().GetUserBalance(gomock.Any(), 2).Return(nil, nil)
			},
			expected:      nil,
			expectedError: nil,
		},
		{
			name:   "Database error",
			userID: 1,
			prepareMock: func() {
				balanceRepo.EXPECT().GetUserBalance(gomock.Any(), 1).Return(nil, errors.New("database error"))
			},
			expected:      nil,
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			balance, err := service.GetBalance(context.Background(), tt.userID)
			if tt.expectedError != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, balance)
		})
	}
}

func TestCreateBalance(t *testing.T) {
	service, balanceRepo := NewMock(t)

	tests := []struct {
		name          string
		userID        int
		prepareMock   func()
		expected      *domain.Balance
		expectedError error
	}{
		{
			name:   "Balance created",
			userID: 1,
			prepareMock: func() {
				balanceRepo.EXPECT().CreateUserBalance(gomock.Any(), 1).Return(&domain.Balance{ID: 1, UserID: 1}, nil)
			},
			expected:      &domain.Balance{ID: 1, UserID: 1},
			expectedError: nil,
		},
		{
			name:   "Database error",
			userID: 1,
			prepareMock: func() {
				balanceRepo.EXPECT().CreateUserBalance(gomock.Any(), 1).Return(nil, errors.New("database error"))
			},
			expected:      nil,
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			balance, err := service.CreateBalance(context.Background(), tt.userID)
			if tt.expectedError != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, balance)
		})
	}
}
