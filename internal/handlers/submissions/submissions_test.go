package submissions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/memberhub/memberledger/internal/domain"
	"github.com/memberhub/memberledger/internal/dto"
	submissionservice "github.com/memberhub/memberledger/internal/service/submissionservice"
	"github.com/memberhub/memberledger/pkg/auth"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*SubmissionHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func TestAddSubmissionHandler(t *testing.T) {
	handler, service := NewMock(t)
	timeNow := time.Now()

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
		expectedBody  domain.Submission
	}{
		{
			name: "Submission accepted",
			body: `{"trading_id":"abc123"}`,
			prepareMock: func() {
				service.EXPECT().
					Submit(context.WithValue(context.Background(), auth.UserIDKey, 1), 1, "abc123").
					Return(&domain.Submission{
						ID:        1,
						UserID:    1,
						TradingID: "ABC123",
						Status:    "PENDING",
						CreatedAt: timeNow,
					}, nil)
			},
			expectedCode: http.StatusAccepted,
			expectedBody: domain.Submission{
				ID:        1,
				UserID:    1,
				TradingID: "ABC123",
				Status:    "PENDING",
				CreatedAt: timeNow,
			},
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name: "Empty trading id",
			body: `{"trading_id":"   "}`,
			prepareMock: func() {
				service.EXPECT().
					Submit(context.WithValue(context.Background(), auth.UserIDKey, 1), 1, "   ").
					Return(nil, submissionservice.ErrEmptyTradingID)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "trading id is required",
		},
		{
			name: "Trading id already submitted",
			body: `{"trading_id":"abc123"}`,
			prepareMock: func() {
				service.EXPECT().
					Submit(context.WithValue(context.Background(), auth.UserIDKey, 1), 1, "abc123").
					Return(nil, submissionservice.ErrDuplicateSubmission)
			},
			expectedCode:  http.StatusConflict,
			expectedError: "trading id already submitted",
		},
		{
			name: "Internal server error",
			body: `{"trading_id":"abc123"}`,
			prepareMock: func() {
				service.EXPECT().
					Submit(context.WithValue(context.Background(), auth.UserIDKey, 1), 1, "abc123").
					Return(nil, errors.New("error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodPost, "/submissions", bytes.NewBufferString(tt.body))
			r = r.WithContext(context.WithValue(context.Background(), auth.UserIDKey, 1))
			w := httptest.NewRecorder()

			handler.AddSubmission(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusAccepted {
				var body domain.Submission
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, tt.expectedBody.TradingID, body.TradingID)
				assert.Equal(t, tt.expectedBody.Status, body.Status)
			}
		})
	}
}

func TestGetSubmissionsHandler(t *testing.T) {
	handler, service := NewMock(t)
	timeNow := time.Now()

	tests := []struct {
		name          string
		prepareMock   func()
		expectedCode  int
		expectedError string
		expectedBody  []dto.GetSubmissionsResponseDTO
	}{
		{
			name: "Submissions returned",
			prepareMock: func() {
				service.EXPECT().
					GetSubmissions(context.WithValue(context.Background(), auth.UserIDKey, 1), 1).
					Return([]domain.Submission{
						{
							UserID:    1,
							TradingID: "ABC123",
							Status:    "APPROVED",
							CreatedAt: timeNow,
						},
					}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: []dto.GetSubmissionsResponseDTO{
				{
					TradingID: "ABC123",
					Status:    "APPROVED",
					CreatedAt: timeNow.Format(time.RFC3339),
				},
			},
		},
		{
			name: "No submissions found",
			prepareMock: func() {
				service.EXPECT().
					GetSubmissions(context.WithValue(context.Background(), auth.UserIDKey, 1), 1).
					Return([]domain.Submission{}, nil)
			},
			expectedCode:  http.StatusNoContent,
			expectedError: "No data available",
		},
		{
			name: "Internal server error",
			prepareMock: func() {
				service.EXPECT().
					GetSubmissions(context.WithValue(context.Background(), auth.UserIDKey, 1), 1).
					Return(nil, errors.New("error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodGet, "/submissions", nil)
			r = r.WithContext(context.WithValue(context.Background(), auth.UserIDKey, 1))
			w := httptest.NewRecorder()

			handler.GetSubmissions(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusOK {
				var body []dto.GetSubmissionsResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.ElementsMatch(t, tt.expectedBody, body)
			}
		})
	}
}
