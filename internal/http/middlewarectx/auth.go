// Package middlewarectx содержит HTTP middleware для аутентификации
// по JWT и проверки роли администратора.
//
// Токен ищется сначала в cookie "token", затем в заголовке Authorization
// с префиксом Bearer. При успешной проверке в контекст запроса кладётся
// загруженный из хранилища пользователь.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studentms/studentms/internal/http/response"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// CurrentUser — ключ для аутентифицированного пользователя в контексте.
const CurrentUser Key = "current_user"

// TokenCookie имя cookie, в которой клиент хранит JWT.
const TokenCookie = "token"

// SetSessionCookie выставляет HttpOnly cookie с сессионным токеном.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie немедленно завершает сессию на стороне клиента.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Authenticator описывает сервис, который проверяет токен и возвращает
// соответствующего ему пользователя.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// UserFromContext возвращает аутентифицированного пользователя из контекста.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(CurrentUser).(*models.User)
	return user, ok
}

// extractToken достает JWT из запроса: сначала cookie, затем Bearer-заголовок.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AuthMiddleware возвращает HTTP middleware, который проверяет JWT из
// cookie или заголовка Authorization.
//
// Если токен валиден и пользователь существует, кладёт его в контекст
// запроса, иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func AuthMiddleware(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := extractToken(r)
			if tokenStr == "" {
				log.Error("missing authentication token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			user, err := auth.Authenticate(r.Context(), tokenStr)
			if err != nil {
				log.Error("failed to authenticate request", sl.Err(err))
				response.AppError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), CurrentUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnlyMiddleware пропускает дальше только пользователей с ролью admin.
// Должен стоять после AuthMiddleware.
func AdminOnlyMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminOnlyMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			if user.Role != models.RoleAdmin {
				log.Error("access denied", slog.String("uid", user.UID), slog.String("role", user.Role))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
