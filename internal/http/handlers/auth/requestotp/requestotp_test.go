package requestotp

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/studentms/studentms/internal/apperr"
	"github.com/studentms/studentms/internal/services/otp"
)

type MockOTPService struct {
	mock.Mock
}

func (m *MockOTPService) RequestCode(ctx context.Context, email string) (*otp.IssueResult, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*otp.IssueResult), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*MockOTPService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			body: `{"email":"user@example.com"}`,
			setupMocks: func(s *MockOTPService) {
				s.On("RequestCode", mock.Anything, "user@example.com").
					Return(&otp.IssueResult{Email: "user@example.com"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"message":"OTP sent to email","email":"user@example.com","delayed":false}}`,
		},
		{
			name: "delivery delayed still succeeds",
			body: `{"email":"user@example.com"}`,
			setupMocks: func(s *MockOTPService) {
				s.On("RequestCode", mock.Anything, "user@example.com").
					Return(&otp.IssueResult{Email: "user@example.com", Delayed: true}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"message":"OTP issued, email delivery delayed","email":"user@example.com","delayed":true}}`,
		},
		{
			name: "invalid email",
			body: `{"email":"not-an-email"}`,
			setupMocks: func(s *MockOTPService) {
				s.On("RequestCode", mock.Anything, "not-an-email").
					Return(nil, apperr.New(apperr.InvalidInput, "invalid email format")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid email format"}`,
		},
		{
			name:           "invalid json",
			body:           `{"email":`,
			setupMocks:     func(*MockOTPService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			otpService := new(MockOTPService)
			handler := New(newNoopLogger(), otpService)

			tt.setupMocks(otpService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/otp/request", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())

			otpService.AssertExpectations(t)
		})
	}
}
