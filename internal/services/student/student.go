// Package student содержит бизнес-логику для работы с записями студентов,
// включая кеширование чтения по UID.
package student

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/studentms/studentms/internal/apperr"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/models"
)

// cacheTTL время жизни закешированной записи студента.
const cacheTTL = time.Hour

// StudentRepository определяет методы для работы со студентами в хранилище.
type StudentRepository interface {
	// CreateStudent добавляет новую запись и возвращает её целиком.
	CreateStudent(ctx context.Context, st models.Student) (*models.Student, error)
	// GetStudentByID возвращает студента по UID.
	GetStudentByID(ctx context.Context, uid string) (*models.Student, error)
	// ListStudents возвращает страницу студентов и общее количество.
	ListStudents(ctx context.Context, limit, offset int, search string) ([]*models.Student, int, error)
	// UpdateStudent применяет частичное обновление записи.
	UpdateStudent(ctx context.Context, uid string, upd models.StudentUpdate) (*models.Student, error)
	// DeleteStudent удаляет студента и возвращает количество удалённых строк.
	DeleteStudent(ctx context.Context, uid string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service реализует бизнес-логику работы со студентами, включая кеширование.
type Service struct {
	repo  StudentRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo StudentRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(uid string) string {
	return fmt.Sprintf("student:%s", uid)
}

// Create создает новую запись студента; дубликат email или телефона даёт Conflict.
func (s *Service) Create(ctx context.Context, st models.Student) (*models.Student, error) {
	created, err := s.repo.CreateStudent(ctx, st)
	if err != nil {
		return nil, apperr.FromStorage(err, "student not found")
	}

	s.log.Info("created new student", slog.String("uid", created.UID))

	if err := s.cache.Set(ctx, cacheKey(created.UID), created, cacheTTL); err != nil {
		s.log.Warn("failed to cache student", slog.String("uid", created.UID), sl.Err(err))
	}
	return created, nil
}

// Read возвращает студента по UID, используя кеш или репозиторий.
func (s *Service) Read(ctx context.Context, uid string) (*models.Student, error) {
	var cached *models.Student
	found, err := s.cache.Get(ctx, cacheKey(uid), &cached)
	if err != nil {
		s.log.Warn("failed to read student from cache", slog.String("uid", uid), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	st, err := s.repo.GetStudentByID(ctx, uid)
	if err != nil {
		return nil, apperr.FromStorage(err, "student not found")
	}

	if err := s.cache.Set(ctx, cacheKey(uid), st, cacheTTL); err != nil {
		s.log.Warn("failed to cache student", slog.String("uid", uid), sl.Err(err))
	}
	return st, nil
}

// List возвращает страницу студентов с общим количеством.
func (s *Service) List(ctx context.Context, limit, offset int, search string) ([]*models.Student, int, error) {
	students, total, err := s.repo.ListStudents(ctx, limit, offset, search)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// Update применяет частичное обновление и инвалидирует кеш.
func (s *Service) Update(ctx context.Context, uid string, upd models.StudentUpdate) (*models.Student, error) {
	st, err := s.repo.UpdateStudent(ctx, uid, upd)
	if err != nil {
		return nil, apperr.FromStorage(err, "student not found")
	}

	if err := s.cache.Invalidate(ctx, cacheKey(uid)); err != nil {
		s.log.Warn("failed to invalidate student cache", slog.String("uid", uid), sl.Err(err))
	}
	return st, nil
}

// Delete удаляет студента и инвалидирует кеш. Отсутствующая запись даёт NotFound.
func (s *Service) Delete(ctx context.Context, uid string) error {
	if err := s.cache.Invalidate(ctx, cacheKey(uid)); err != nil {
		s.log.Warn("failed to invalidate student cache", slog.String("uid", uid), sl.Err(err))
	}

	count, err := s.repo.DeleteStudent(ctx, uid)
	if err != nil {
		return err
	}
	if count == 0 {
		return apperr.New(apperr.NotFound, "student not found")
	}
	return nil
}
