// Package admin содержит бизнес-логику панели администратора:
// агрегированную статистику и управление пользователями.
package admin

import (
	"context"
	"log/slog"
	"time"

	"github.com/studentms/studentms/internal/apperr"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/models"
)

// statsCacheKey ключ закешированной статистики панели.
const statsCacheKey = "admin:stats"

// statsCacheTTL время жизни закешированной статистики. Короткое, чтобы
// панель не показывала устаревшие счётчики дольше минуты.
const statsCacheTTL = time.Minute

// Repository определяет методы хранилища для панели администратора.
type Repository interface {
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
	ListUsers(ctx context.Context, limit, offset int, search, role string) ([]*models.User, int, error)
	GetUserByID(ctx context.Context, uid string) (*models.User, error)
	UpdateUserRole(ctx context.Context, uid, role string) (*models.User, error)
	DeleteUser(ctx context.Context, uid string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service реализует операции панели администратора.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Stats возвращает агрегированную статистику панели, используя кеш.
func (s *Service) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var cached *models.DashboardStats
	found, err := s.cache.Get(ctx, statsCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read dashboard stats from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	stats, err := s.repo.GetDashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
		s.log.Warn("failed to cache dashboard stats", sl.Err(err))
	}
	return stats, nil
}

// ListUsers возвращает страницу пользователей с фильтрами поиска и роли.
func (s *Service) ListUsers(ctx context.Context, limit, offset int, search, role string) ([]*models.User, int, error) {
	if role != "" && role != models.RoleUser && role != models.RoleAdmin {
		return nil, 0, apperr.New(apperr.InvalidInput, "unknown role filter")
	}
	return s.repo.ListUsers(ctx, limit, offset, search, role)
}

// GetUser возвращает пользователя по UID.
func (s *Service) GetUser(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, uid)
	if err != nil {
		return nil, apperr.FromStorage(err, "user not found")
	}
	return user, nil
}

// UpdateRole меняет роль пользователя и сбрасывает кеш статистики.
func (s *Service) UpdateRole(ctx context.Context, uid, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, apperr.New(apperr.InvalidInput, "unknown role")
	}

	user, err := s.repo.UpdateUserRole(ctx, uid, role)
	if err != nil {
		return nil, apperr.FromStorage(err, "user not found")
	}

	s.log.Info("updated user role", slog.String("uid", uid), slog.String("role", role))
	s.invalidateStats(ctx)
	return user, nil
}

// DeleteUser удаляет пользователя. Администратор не может удалить
// свою собственную учетную запись через панель.
func (s *Service) DeleteUser(ctx context.Context, actorUID, uid string) error {
	if actorUID == uid {
		return apperr.New(apperr.Forbidden, "cannot delete your own account")
	}

	count, err := s.repo.DeleteUser(ctx, uid)
	if err != nil {
		return err
	}
	if count == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}

	s.log.Info("deleted user", slog.String("uid", uid), slog.String("actor", actorUID))
	s.invalidateStats(ctx)
	return nil
}

func (s *Service) invalidateStats(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, statsCacheKey); err != nil {
		s.log.Warn("failed to invalidate dashboard stats cache", sl.Err(err))
	}
}
