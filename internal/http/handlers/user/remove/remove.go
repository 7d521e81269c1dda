// Package remove реализует HTTP-обработчик удаления учетной записи.
//
// Обычный пользователь может удалить только собственную учетную запись,
// администратор — любую.
package remove

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

// UserService определяет методы бизнес-логики удаления учетной записи.
type UserService interface {
	Delete(ctx context.Context, uid string) error
}

// Handler обрабатывает HTTP-запросы удаления учетной записи.
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
// @Summary Удаление учетной записи пользователя
// @Tags Users
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} response.OKResponse "Учетная запись удалена"
// @Failure 403 {object} response.ErrorResponse "Чужая учетная запись"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /api/v1/users/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"

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

	if err := h.users.Delete(r.Context(), uid); err != nil {
		log.Error("failed to delete user", slog.String("uid", uid), sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	if actor.UID == uid {
		middlewarectx.ClearSessionCookie(w)
	}

	log.Info("user deleted", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "user deleted",
	}))
}
