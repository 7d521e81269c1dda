// Package userread реализует HTTP-обработчик чтения пользователя для панели.
package userread

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studentms/studentms/internal/http/response"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/models"
)

// AdminService определяет методы бизнес-логики чтения пользователя.
type AdminService interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы чтения пользователя.
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
// @Summary Чтение пользователя
// @Tags Admin
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} response.OKResponse "Пользователь"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /api/v1/admin/users/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userread"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	user, err := h.admin.GetUser(r.Context(), uid)
	if err != nil {
		log.Error("failed to read user", slog.String("uid", uid), sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(user))
}
