// Package otp содержит бизнес-логику выдачи и проверки одноразовых кодов.
//
// Выдача генерирует шестизначный код, перезаписывает ожидающий код для
// email (перезапуская окно жизни) и делает одну попытку доставки по почте.
// Проверка атомарно потребляет код и при совпадении выпускает сессионный
// токен, если пользователь с таким email существует.
package otp

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator"

	"github.com/studentms/studentms/internal/apperr"
	"github.com/studentms/studentms/internal/lib/jwt"
	otpgen "github.com/studentms/studentms/internal/lib/otp"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/models"
)

// CodeStore описывает хранилище одноразовых кодов.
type CodeStore interface {
	// SaveCode сохраняет код для email, заменяя предыдущий и перезапуская TTL.
	SaveCode(ctx context.Context, email, code string, ttl time.Duration) error
	// ConsumeCode проверяет код и удаляет его при совпадении.
	ConsumeCode(ctx context.Context, email, code string) (bool, error)
}

// Sender описывает доставку кода по почте.
type Sender interface {
	SendOTPEmail(email, code string, ttl time.Duration) error
}

// UserProvider возвращает пользователя по email для автологина после проверки.
type UserProvider interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// IssueResult результат выдачи кода.
// Delayed означает, что код сохранён, но доставка письма не удалась:
// код остаётся действительным, пользователь может узнать его другим путём.
type IssueResult struct {
	Email   string
	Delayed bool
}

// VerifyResult результат проверки кода.
// User и Token заполнены только если пользователь с таким email существует.
type VerifyResult struct {
	Email    string
	Verified bool
	User     *models.User
	Token    string
}

// Service реализует выдачу и проверку одноразовых кодов.
type Service struct {
	store    CodeStore
	sender   Sender
	users    UserProvider
	jwtMaker jwt.Maker
	codeTTL  time.Duration
	log      *slog.Logger
	validate *validator.Validate
}

// New создает новый экземпляр Service.
func New(store CodeStore, sender Sender, users UserProvider, jwtMaker jwt.Maker,
	codeTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		sender:   sender,
		users:    users,
		jwtMaker: jwtMaker,
		codeTTL:  codeTTL,
		log:      log,
		validate: validator.New(),
	}
}

// RequestCode выдаёт код для email: генерирует, сохраняет с перезаписью
// предыдущего и делает одну попытку доставки. Ошибка доставки не откатывает
// сохранённый код и не считается ошибкой выдачи.
func (s *Service) RequestCode(ctx context.Context, email string) (*IssueResult, error) {
	const op = "services.otp.RequestCode"

	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, "invalid email format", err)
	}

	code, err := otpgen.Generate()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to generate code", err)
	}

	if err := s.store.SaveCode(ctx, email, code, s.codeTTL); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to save code", err)
	}
	s.log.Info("otp code stored", sl.Op(op), slog.String("email", email))

	if err := s.sender.SendOTPEmail(email, code, s.codeTTL); err != nil {
		s.log.Error("otp email delivery failed", sl.Op(op), slog.String("email", email), sl.Err(err))
		return &IssueResult{Email: email, Delayed: true}, nil
	}

	return &IssueResult{Email: email}, nil
}

// VerifyCode проверяет код. Отсутствующий, неверный или истёкший код
// даёт ошибку InvalidInput. При совпадении запись удалена: повторная
// проверка того же кода невозможна. Если пользователь с таким email
// существует, выпускается сессионный токен (автологин), иначе проверка
// подтверждает только владение адресом.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (*VerifyResult, error) {
	const op = "services.otp.VerifyCode"

	matched, err := s.store.ConsumeCode(ctx, email, code)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to check code", err)
	}
	if !matched {
		return nil, apperr.New(apperr.InvalidInput, "invalid or expired OTP")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		translated := apperr.FromStorage(err, "user not found")
		if apperr.KindOf(translated) == apperr.NotFound {
			s.log.Info("otp verified, no user for email", sl.Op(op), slog.String("email", email))
			return &VerifyResult{Email: email, Verified: true}, nil
		}
		return nil, translated
	}

	token, err := s.jwtMaker.GenerateToken(user.UID, user.Role)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to generate token", err)
	}

	s.log.Info("otp verified, user logged in", sl.Op(op), slog.String("email", email))
	return &VerifyResult{Email: email, Verified: true, User: user, Token: token}, nil
}
