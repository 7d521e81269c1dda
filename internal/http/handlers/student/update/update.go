// Package update реализует HTTP-обработчик частичного обновления записи студента.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/studentms/studentms/internal/http/response"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/models"
)

// Request — входные данные обновления. nil-поля не изменяются.
type Request struct {
	Firstname *string `json:"firstname" validate:"omitempty,min=1,max=50"`
	Lastname  *string `json:"lastname" validate:"omitempty,min=1,max=50"`
	Phone     *string `json:"phone" validate:"omitempty,min=5,max=20"`
	Gender    *string `json:"gender" validate:"omitempty,oneof=male female other"`
	Age       *int    `json:"age" validate:"omitempty,min=3,max=120"`
}

// StudentService определяет методы бизнес-логики обновления студента.
type StudentService interface {
	Update(ctx context.Context, uid string, upd models.StudentUpdate) (*models.Student, error)
}

// Handler обрабатывает HTTP-запросы обновления студента.
type Handler struct {
	log      *slog.Logger
	students StudentService
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, students StudentService) *Handler {
	return &Handler{
		log:      log,
		students: students,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Частичное обновление записи студента
// @Tags Students
// @Accept  json
// @Produce  json
// @Param uid path string true "UID студента"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} response.OKResponse "Обновленная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Студент не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Router /api/v1/students/{uid} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	student, err := h.students.Update(r.Context(), uid, models.StudentUpdate{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Phone:     req.Phone,
		Gender:    req.Gender,
		Age:       req.Age,
	})
	if err != nil {
		log.Error("failed to update student", slog.String("uid", uid), sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("student updated", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(student))
}
