package login

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/studentms/studentms/internal/apperr"
	"github.com/studentms/studentms/internal/http/middlewarectx"
	"github.com/studentms/studentms/internal/models"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*MockAuthService)
		expectedStatus int
		expectedBody   string
		expectCookie   bool
	}{
		{
			name: "success",
			body: `{"email":"user@example.com","password":"secret123"}`,
			setupMocks: func(a *MockAuthService) {
				a.On("Login", mock.Anything, "user@example.com", "secret123").
					Return(&models.User{UID: "user123", Email: "user@example.com", Role: models.RoleUser},
						"token123", nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectCookie:   true,
		},
		{
			name:           "invalid json",
			body:           `{"email":`,
			setupMocks:     func(*MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "missing password",
			body:           `{"email":"user@example.com"}`,
			setupMocks:     func(*MockAuthService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Password is a required field"}`,
		},
		{
			name:           "malformed email",
			body:           `{"email":"not-an-email","password":"secret123"}`,
			setupMocks:     func(*MockAuthService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Email must be a valid email address"}`,
		},
		{
			name: "unknown email",
			body: `{"email":"ghost@example.com","password":"secret123"}`,
			setupMocks: func(a *MockAuthService) {
				a.On("Login", mock.Anything, "ghost@example.com", "secret123").
					Return(nil, "", apperr.New(apperr.NotFound, "user not found")).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name: "wrong password",
			body: `{"email":"user@example.com","password":"wrong"}`,
			setupMocks: func(a *MockAuthService) {
				a.On("Login", mock.Anything, "user@example.com", "wrong").
					Return(nil, "", apperr.New(apperr.Unauthorized, "invalid credentials")).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"invalid credentials"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService := new(MockAuthService)
			handler := New(newNoopLogger(), authService, 24*time.Hour)

			tt.setupMocks(authService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}

			if tt.expectCookie {
				cookies := w.Result().Cookies()
				var found bool
				for _, c := range cookies {
					if c.Name == middlewarectx.TokenCookie {
						found = true
						assert.Equal(t, "token123", c.Value)
						assert.True(t, c.HttpOnly)
					}
				}
				assert.True(t, found, "session cookie must be set on success")
				assert.Contains(t, w.Body.String(), `"token":"token123"`)
			}

			authService.AssertExpectations(t)
		})
	}
}
