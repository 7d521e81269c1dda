// Package list реализует HTTP-обработчик постраничного списка студентов.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studentms/studentms/internal/http/response"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// StudentService определяет методы бизнес-логики списка студентов.
type StudentService interface {
	List(ctx context.Context, limit, offset int, search string) ([]*models.Student, int, error)
}

// Handler обрабатывает HTTP-запросы списка студентов.
type Handler struct {
	log      *slog.Logger
	students StudentService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, students StudentService) *Handler {
	return &Handler{
		log:      log,
		students: students,
	}
}

// ServeHTTP godoc
// @Summary Список студентов
// @Description Возвращает страницу студентов с фильтром поиска по имени, email и телефону
// @Tags Students
// @Produce  json
// @Param limit query int false "Размер страницы (по умолчанию 20, максимум 100)"
// @Param offset query int false "Смещение"
// @Param search query string false "Подстрока поиска"
// @Success 200 {object} response.OKResponse "Страница студентов"
// @Router /api/v1/students [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset := pagination(r)
	search := r.URL.Query().Get("search")

	students, total, err := h.students.List(r.Context(), limit, offset, search)
	if err != nil {
		log.Error("failed to list students", sl.Err(err))
		response.AppError(w, r, err)
		return
	}
	if students == nil {
		students = []*models.Student{}
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"students": students,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	}))
}

// pagination читает limit и offset из query-параметров с безопасными границами.
func pagination(r *http.Request) (int, int) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			offset = n
		}
	}
	return limit, offset
}
