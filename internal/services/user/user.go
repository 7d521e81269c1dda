// Package user содержит бизнес-логику для работы с профилями пользователей.
package user

import (
	"context"
	"log/slog"

	"github.com/studentms/studentms/internal/apperr"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/models"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	GetUserByID(ctx context.Context, uid string) (*models.User, error)
	UpdateUser(ctx context.Context, uid string, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, uid string) (int, error)
}

// FileStore определяет методы для хранения файлов профиля.
type FileStore interface {
	UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

// Service реализует операции над профилем пользователя.
type Service struct {
	repo  UserRepository
	files FileStore
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo UserRepository, files FileStore, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		files: files,
		log:   log,
	}
}

// Read возвращает профиль пользователя по UID.
func (s *Service) Read(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, uid)
	if err != nil {
		return nil, apperr.FromStorage(err, "user not found")
	}
	return user, nil
}

// Update применяет частичное обновление профиля. Если передано новое
// изображение, оно загружается в файловое хранилище, а в профиль
// записывается публичная ссылка.
func (s *Service) Update(ctx context.Context, uid string, upd models.UserUpdate, image []byte, imageName, imageType string) (*models.User, error) {
	if len(image) > 0 {
		url, err := s.files.UploadBytes(ctx, uid+"/"+imageName, image, imageType)
		if err != nil {
			s.log.Error("failed to upload profile image", slog.String("uid", uid), sl.Err(err))
			return nil, apperr.Wrap(apperr.Internal, "failed to store profile image", err)
		}
		upd.ProfileImage = &url
	}

	user, err := s.repo.UpdateUser(ctx, uid, upd)
	if err != nil {
		return nil, apperr.FromStorage(err, "user not found")
	}
	return user, nil
}

// Delete удаляет учетную запись пользователя.
func (s *Service) Delete(ctx context.Context, uid string) error {
	count, err := s.repo.DeleteUser(ctx, uid)
	if err != nil {
		return err
	}
	if count == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}

	s.log.Info("deleted user", slog.String("uid", uid))
	return nil
}
