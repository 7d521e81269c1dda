package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studentms/studentms/internal/apperr"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]string{"email": "a@b.c"})
	assert.Equal(t, StatusOK, resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("invalid request body")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "invalid request body", resp.Error)
}

func TestAppError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "not found",
			err:            apperr.New(apperr.NotFound, "user not found"),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name:           "unauthorized",
			err:            apperr.New(apperr.Unauthorized, "token expired"),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"token expired"}`,
		},
		{
			name:           "untagged error hides details",
			err:            errors.New("pq: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			AppError(w, req, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Age   int    `validate:"min=18"`
	}

	validate := validator.New()
	err := validate.Struct(payload{Email: "not-an-email", Age: 5})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	resp := ValidationError(verrs)
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email must be a valid email address")
	assert.Contains(t, resp.Error, "field Age is below the allowed minimum")
}
