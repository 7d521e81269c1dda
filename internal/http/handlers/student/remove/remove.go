// Package remove реализует HTTP-обработчик удаления записи студента.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studentms/studentms/internal/http/response"
	"github.com/studentms/studentms/internal/lib/sl"
)

// StudentService определяет методы бизнес-логики удаления студента.
type StudentService interface {
	Delete(ctx context.Context, uid string) error
}

// Handler обрабатывает HTTP-запросы удаления студента.
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
// @Summary Удаление записи студента
// @Tags Students
// @Produce  json
// @Param uid path string true "UID студента"
// @Success 200 {object} response.OKResponse "Запись удалена"
// @Failure 404 {object} response.ErrorResponse "Студент не найден"
// @Router /api/v1/students/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	if err := h.students.Delete(r.Context(), uid); err != nil {
		log.Error("failed to delete student", slog.String("uid", uid), sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("student deleted", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "student deleted",
	}))
}
