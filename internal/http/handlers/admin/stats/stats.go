// Package stats реализует HTTP-обработчик агрегированной статистики панели.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studentms/studentms/internal/http/response"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/models"
)

// AdminService определяет методы бизнес-логики статистики панели.
type AdminService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// Handler обрабатывает HTTP-запросы статистики панели.
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
// @Summary Статистика панели администратора
// @Description Возвращает счетчики, распределения и последние записи по пользователям и студентам
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.OKResponse "Статистика"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Router /api/v1/admin/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		log.Error("failed to collect dashboard stats", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(stats))
}
