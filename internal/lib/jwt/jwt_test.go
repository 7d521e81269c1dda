package jwt

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name    string
		userUID string
		role    string
	}{
		{
			name:    "admin user",
			userUID: "6a1b9f0e-1111-4f6a-9c61-0c8c0a3f1a01",
			role:    "admin",
		},
		{
			name:    "regular user",
			userUID: "7c2d8e1f-2222-4a5b-8d72-1d9d1b4e2b02",
			role:    "user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userUID, tt.role)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.userUID, claims.UserUID)
			assert.Equal(t, tt.userUID, claims.Subject)
			assert.Equal(t, tt.role, claims.Role)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Minute)
		})
	}
}

func TestJWTMaker_ParseToken_ExpiredToken(t *testing.T) {
	maker := NewJWTMaker("secret", -time.Minute)

	token, err := maker.GenerateToken("some-uid", "user")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwtlib.ErrTokenExpired))
}

func TestJWTMaker_ParseToken_WrongSecret(t *testing.T) {
	maker := NewJWTMaker("right_secret", time.Hour)
	other := NewJWTMaker("wrong_secret", time.Hour)

	token, err := maker.GenerateToken("some-uid", "user")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.Error(t, err)
}

func TestJWTMaker_ParseToken_Malformed(t *testing.T) {
	maker := NewJWTMaker("secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty string", ""},
		{"garbage", "not-a-token"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := maker.ParseToken(tt.token)
			require.Error(t, err)
		})
	}
}
