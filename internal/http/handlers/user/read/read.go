// Package read реализует HTTP-обработчик чтения профиля пользователя.
//
// Обычный пользователь может читать только собственный профиль,
// администратор — любой.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studentms/studentms/internal/http/middlewarectx"
	"github.com/studentms/studentms/internal/http/response"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/models"
)

// UserService определяет методы бизнес-логики чтения профиля.
type UserService interface {
	Read(ctx context.Context, uid string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы чтения профиля.
type Handler struct {
	log   *slog.Logger
	users UserService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, users UserService) *Handler {
	return &Handler{
		log:   log,
		users: users,
	}
}

// ServeHTTP godoc
// @Summary Чтение профиля пользователя
// @Tags Users
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} response.OKResponse "Профиль"
// @Failure 403 {object} response.ErrorResponse "Чужой профиль"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /api/v1/users/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	uid := chi.URLParam(r, "uid")
	if actor.Role != models.RoleAdmin && actor.UID != uid {
		log.Error("access denied", slog.String("actor", actor.UID), slog.String("uid", uid))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied"))
		return
	}

	user, err := h.users.Read(r.Context(), uid)
	if err != nil {
		log.Error("failed to read user", slog.String("uid", uid), sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(user))
}
