package student

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studentms/studentms/internal/apperr"
	"github.com/studentms/studentms/internal/models"
)

type memStudents struct {
	byUID map[string]*models.Student
	calls map[string]int
}

func newMemStudents() *memStudents {
	return &memStudents{
		byUID: make(map[string]*models.Student),
		calls: make(map[string]int),
	}
}

func (m *memStudents) CreateStudent(_ context.Context, st models.Student) (*models.Student, error) {
	for _, existing := range m.byUID {
		if existing.Email == st.Email {
			return nil, &pgconn.PgError{Code: "23505", ConstraintName: "students_email_key"}
		}
	}
	st.UID = uuid.NewString()
	st.CreatedAt = time.Now()
	st.UpdatedAt = st.CreatedAt
	m.byUID[st.UID] = &st
	return &st, nil
}

func (m *memStudents) GetStudentByID(_ context.Context, uid string) (*models.Student, error) {
	m.calls["get"]++
	st, ok := m.byUID[uid]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return st, nil
}

func (m *memStudents) ListStudents(_ context.Context, limit, offset int, _ string) ([]*models.Student, int, error) {
	var out []*models.Student
	for _, st := range m.byUID {
		out = append(out, st)
	}
	return out, len(out), nil
}

func (m *memStudents) UpdateStudent(_ context.Context, uid string, upd models.StudentUpdate) (*models.Student, error) {
	st, ok := m.byUID[uid]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if upd.Firstname != nil {
		st.Firstname = *upd.Firstname
	}
	return st, nil
}

func (m *memStudents) DeleteStudent(_ context.Context, uid string) (int, error) {
	if _, ok := m.byUID[uid]; !ok {
		return 0, nil
	}
	delete(m.byUID, uid)
	return 1, nil
}

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string, result any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, result)
}

func (m *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memCache) Invalidate(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func newService() (*Service, *memStudents, *memCache) {
	repo := newMemStudents()
	cache := newMemCache()
	log := slog.New(slog.DiscardHandler)
	return New(repo, cache, log), repo, cache
}

func TestService_CreateAndRead(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Student{
		Firstname: "Ivan", Lastname: "Petrov", Email: "ivan@example.com", Phone: "+79990001122", Age: 12, Gender: "male",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.UID)

	got, err := svc.Read(ctx, created.UID)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", got.Firstname)
}

func TestService_Create_DuplicateEmail(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, models.Student{Firstname: "A", Lastname: "A", Email: "dup@example.com", Phone: "1", Age: 10, Gender: "male"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, models.Student{Firstname: "B", Lastname: "B", Email: "dup@example.com", Phone: "2", Age: 11, Gender: "female"})
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestService_Read_CacheHitSkipsRepository(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Student{Firstname: "C", Lastname: "C", Email: "c@example.com", Phone: "3", Age: 9, Gender: "other"})
	require.NoError(t, err)

	_, err = svc.Read(ctx, created.UID)
	require.NoError(t, err)
	_, err = svc.Read(ctx, created.UID)
	require.NoError(t, err)

	assert.Equal(t, 0, repo.calls["get"], "reads should be served from cache after create")
}

func TestService_Read_NotFound(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.Read(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestService_Update_InvalidatesCache(t *testing.T) {
	svc, _, cache := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Student{Firstname: "Old", Lastname: "X", Email: "u@example.com", Phone: "4", Age: 8, Gender: "male"})
	require.NoError(t, err)

	name := "New"
	updated, err := svc.Update(ctx, created.UID, models.StudentUpdate{Firstname: &name})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Firstname)

	_, ok := cache.data[cacheKey(created.UID)]
	assert.False(t, ok)

	got, err := svc.Read(ctx, created.UID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Firstname)
}

func TestService_Delete(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Student{Firstname: "D", Lastname: "D", Email: "d@example.com", Phone: "5", Age: 7, Gender: "female"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.UID))

	err = svc.Delete(ctx, created.UID)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
