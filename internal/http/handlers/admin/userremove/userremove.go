// Package userremove реализует HTTP-обработчик удаления пользователя панелью.
package userremove

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
)

// AdminService определяет методы бизнес-логики удаления пользователя.
type AdminService interface {
	DeleteUser(ctx context.Context, actorUID, uid string) error
}

// Handler обрабатывает HTTP-запросы удаления пользователя.
type Handler struct {
	log   *slog.Logger
	admin AdminService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, admin AdminService) *Handler {
	return &Handler{
		log:   log,
		admin: admin,
	}
}

// ServeHTTP godoc
// @Summary Удаление пользователя
// @Description Удаляет пользователя; собственную учетную запись удалить нельзя
// @Tags Admin
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} response.OKResponse "Пользователь удален"
// @Failure 403 {object} response.ErrorResponse "Удаление собственной учетной записи"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /api/v1/admin/users/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userremove"

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

	if err := h.admin.DeleteUser(r.Context(), actor.UID, uid); err != nil {
		log.Error("failed to delete user", slog.String("uid", uid), sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("user deleted", slog.String("uid", uid), slog.String("actor", actor.UID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "user deleted",
	}))
}
