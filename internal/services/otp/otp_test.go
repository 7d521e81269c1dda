package otp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studentms/studentms/internal/apperr"
	"github.com/studentms/studentms/internal/lib/jwt"
	"github.com/studentms/studentms/internal/models"
)

// memStore хранит коды в памяти с временем записи, имитируя
// семантику Redis: перезапись по ключу и атомарное потребление.
type memStore struct {
	codes map[string]memCode
	ttl   map[string]time.Duration
	now   func() time.Time
}

type memCode struct {
	code    string
	savedAt time.Time
}

func newMemStore() *memStore {
	return &memStore{
		codes: make(map[string]memCode),
		ttl:   make(map[string]time.Duration),
		now:   time.Now,
	}
}

func (m *memStore) SaveCode(_ context.Context, email, code string, ttl time.Duration) error {
	m.codes[email] = memCode{code: code, savedAt: m.now()}
	m.ttl[email] = ttl
	return nil
}

func (m *memStore) ConsumeCode(_ context.Context, email, code string) (bool, error) {
	rec, ok := m.codes[email]
	if !ok {
		return false, nil
	}
	if m.now().Sub(rec.savedAt) > m.ttl[email] {
		delete(m.codes, email)
		return false, nil
	}
	if rec.code != code {
		return false, nil
	}
	delete(m.codes, email)
	return true, nil
}

type mockSender struct {
	sent []string
	err  error
}

func (m *mockSender) SendOTPEmail(email, code string, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, code)
	return nil
}

type mockUsers struct {
	users map[string]*models.User
	err   error
}

func (m *mockUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return nil, fmt.Errorf("storage.GetUserByEmail: %w", sql.ErrNoRows)
	}
	return u, nil
}

type mockJWT struct {
	err error
}

func (m *mockJWT) GenerateToken(userUID, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "token-for-" + userUID, nil
}

func (m *mockJWT) ParseToken(string) (*jwt.CustomClaims, error) {
	return nil, errors.New("not implemented")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newService(store CodeStore, snd Sender, users UserProvider, jm *mockJWT, ttl time.Duration) *Service {
	return New(store, snd, users, jm, ttl, discardLogger())
}

func TestRequestCode_InvalidEmail(t *testing.T) {
	svc := newService(newMemStore(), &mockSender{}, &mockUsers{}, &mockJWT{}, 5*time.Minute)

	_, err := svc.RequestCode(context.Background(), "not-an-email")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.HTTPStatus(err))
}

func TestRequestCode_Success(t *testing.T) {
	store := newMemStore()
	snd := &mockSender{}
	svc := newService(store, snd, &mockUsers{}, &mockJWT{}, 5*time.Minute)

	res, err := svc.RequestCode(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", res.Email)
	assert.False(t, res.Delayed)

	rec, ok := store.codes["a@b.com"]
	require.True(t, ok)
	assert.Len(t, rec.code, 6)
	require.Len(t, snd.sent, 1)
	assert.Equal(t, rec.code, snd.sent[0])
}

func TestRequestCode_DeliveryFailureIsDelayedNotError(t *testing.T) {
	store := newMemStore()
	snd := &mockSender{err: errors.New("smtp: connection refused")}
	svc := newService(store, snd, &mockUsers{}, &mockJWT{}, 5*time.Minute)

	res, err := svc.RequestCode(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.True(t, res.Delayed)

	// код остаётся пригодным несмотря на ошибку доставки
	_, ok := store.codes["a@b.com"]
	assert.True(t, ok)
}

func TestRequestCode_ReissueInvalidatesPreviousCode(t *testing.T) {
	store := newMemStore()
	svc := newService(store, &mockSender{}, &mockUsers{}, &mockJWT{}, 5*time.Minute)

	_, err := svc.RequestCode(context.Background(), "a@b.com")
	require.NoError(t, err)
	first := store.codes["a@b.com"].code

	// повторная выдача перезаписывает код; повторяем, пока код не сменится
	second := first
	for i := 0; i < 20 && second == first; i++ {
		_, err = svc.RequestCode(context.Background(), "a@b.com")
		require.NoError(t, err)
		second = store.codes["a@b.com"].code
	}
	require.NotEqual(t, first, second)

	_, err = svc.VerifyCode(context.Background(), "a@b.com", first)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.HTTPStatus(err))

	res, err := svc.VerifyCode(context.Background(), "a@b.com", second)
	require.NoError(t, err)
	assert.True(t, res.Verified)
}

func TestVerifyCode_SingleUse(t *testing.T) {
	store := newMemStore()
	svc := newService(store, &mockSender{}, &mockUsers{}, &mockJWT{}, 5*time.Minute)

	_, err := svc.RequestCode(context.Background(), "a@b.com")
	require.NoError(t, err)
	code := store.codes["a@b.com"].code

	res, err := svc.VerifyCode(context.Background(), "a@b.com", code)
	require.NoError(t, err)
	assert.True(t, res.Verified)

	_, err = svc.VerifyCode(context.Background(), "a@b.com", code)
	require.Error(t, err)
	assert.Equal(t, "invalid or expired OTP", apperr.Message(err))
}

func TestVerifyCode_ExpiredCode(t *testing.T) {
	store := newMemStore()
	current := time.Now()
	store.now = func() time.Time { return current }
	svc := newService(store, &mockSender{}, &mockUsers{}, &mockJWT{}, 5*time.Minute)

	_, err := svc.RequestCode(context.Background(), "a@b.com")
	require.NoError(t, err)
	code := store.codes["a@b.com"].code

	current = current.Add(6 * time.Minute)

	_, err = svc.VerifyCode(context.Background(), "a@b.com", code)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.HTTPStatus(err))
}

func TestVerifyCode_WrongCodeKeepsRecord(t *testing.T) {
	store := newMemStore()
	svc := newService(store, &mockSender{}, &mockUsers{}, &mockJWT{}, 5*time.Minute)

	_, err := svc.RequestCode(context.Background(), "a@b.com")
	require.NoError(t, err)
	code := store.codes["a@b.com"].code

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err = svc.VerifyCode(context.Background(), "a@b.com", wrong)
	require.Error(t, err)

	// запись не потреблена, настоящий код всё ещё действует
	res, err := svc.VerifyCode(context.Background(), "a@b.com", code)
	require.NoError(t, err)
	assert.True(t, res.Verified)
}

func TestVerifyCode_AutoLoginWhenUserExists(t *testing.T) {
	store := newMemStore()
	users := &mockUsers{users: map[string]*models.User{
		"a@b.com": {UID: "uid-1", Email: "a@b.com", Role: "user"},
	}}
	svc := newService(store, &mockSender{}, users, &mockJWT{}, 5*time.Minute)

	_, err := svc.RequestCode(context.Background(), "a@b.com")
	require.NoError(t, err)
	code := store.codes["a@b.com"].code

	res, err := svc.VerifyCode(context.Background(), "a@b.com", code)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	require.NotNil(t, res.User)
	assert.Equal(t, "uid-1", res.User.UID)
	assert.Equal(t, "token-for-uid-1", res.Token)
}

func TestVerifyCode_NoUserStillVerified(t *testing.T) {
	store := newMemStore()
	svc := newService(store, &mockSender{}, &mockUsers{users: map[string]*models.User{}}, &mockJWT{}, 5*time.Minute)

	_, err := svc.RequestCode(context.Background(), "ghost@b.com")
	require.NoError(t, err)
	code := store.codes["ghost@b.com"].code

	res, err := svc.VerifyCode(context.Background(), "ghost@b.com", code)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Nil(t, res.User)
	assert.Empty(t, res.Token)
}
