// Package auth содержит логику бизнес-уровня для регистрации, входа
// по паролю и аутентификации по сессионному токену.
package auth

import (
	"context"

	"github.com/studentms/studentms/internal/apperr"
	"github.com/studentms/studentms/internal/lib/jwt"
	"github.com/studentms/studentms/internal/lib/password"
	"github.com/studentms/studentms/internal/models"
)

// defaultProfileImage используется, когда при регистрации не загружено изображение.
const defaultProfileImage = "https://www.svgrepo.com/show/335455/profile-default.svg"

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает запись целиком.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID возвращает пользователя по UID или ошибку, если не найден.
	GetUserByID(ctx context.Context, uid string) (*models.User, error)
}

// RegisterInput входные данные регистрации. ProfileImage — уже сохранённый
// URL изображения (загрузка выполняется обработчиком до вызова сервиса).
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	Phone        *string
	Age          *int
	Gender       *string
	Address      *string
	Skills       []string
	ProfileImage string
}

// AuthService отвечает за регистрацию, вход и проверку сессионных токенов.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной
// ролью "user", затем выпускает сессионный токен. Дубликат email или
// username даёт Conflict, запись при этом не создаётся.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "failed to hash password", err)
	}

	profileImage := in.ProfileImage
	if profileImage == "" {
		profileImage = defaultProfileImage
	}
	skills := in.Skills
	if skills == nil {
		skills = []string{}
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
		Phone:        in.Phone,
		Age:          in.Age,
		Gender:       in.Gender,
		Address:      in.Address,
		Skills:       skills,
		ProfileImage: profileImage,
		Role:         models.RoleUser,
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, "", apperr.FromStorage(err, "user not found")
	}

	token, err := s.jwtMaker.GenerateToken(created.UID, created.Role)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "failed to generate token", err)
	}
	return created, token, nil
}

// Login проверяет пароль пользователя и выпускает сессионный токен.
// Неизвестный email даёт NotFound, неверный пароль — Unauthorized.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", apperr.FromStorage(err, "user not found")
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", apperr.New(apperr.Unauthorized, "invalid credentials")
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Role)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "failed to generate token", err)
	}
	return user, token, nil
}

// Authenticate проверяет токен и возвращает соответствующего пользователя.
// Токен валиден, но пользователь удалён — Unauthorized: сессия больше
// никого не идентифицирует.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, apperr.FromToken(err)
	}
	user, err := s.users.GetUserByID(ctx, claims.UserUID)
	if err != nil {
		translated := apperr.FromStorage(err, "user not found")
		if apperr.KindOf(translated) == apperr.NotFound {
			return nil, apperr.Wrap(apperr.Unauthorized, "user no longer exists", err)
		}
		return nil, translated
	}
	return user, nil
}
