// Package read реализует HTTP-обработчик чтения записи студента.
package read

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

// StudentService определяет методы бизнес-логики чтения студента.
type StudentService interface {
	Read(ctx context.Context, uid string) (*models.Student, error)
}

// Handler обрабатывает HTTP-запросы чтения студента.
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
// @Summary Чтение записи студента
// @Tags Students
// @Produce  json
// @Param uid path string true "UID студента"
// @Success 200 {object} response.OKResponse "Запись студента"
// @Failure 404 {object} response.ErrorResponse "Студент не найден"
// @Router /api/v1/students/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	student, err := h.students.Read(r.Context(), uid)
	if err != nil {
		log.Error("failed to read student", slog.String("uid", uid), sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(student))
}
