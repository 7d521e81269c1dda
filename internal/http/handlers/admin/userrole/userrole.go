// Package userrole реализует HTTP-обработчик смены роли пользователя.
package userrole

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

// Request — входные данные смены роли.
type Request struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// AdminService определяет методы бизнес-логики смены роли.
type AdminService interface {
	UpdateRole(ctx context.Context, uid, role string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы смены роли.
type Handler struct {
	log      *slog.Logger
	admin    AdminService
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, admin AdminService) *Handler {
	return &Handler{
		log:      log,
		admin:    admin,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Смена роли пользователя
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Param request body Request true "Новая роль"
// @Success 200 {object} response.OKResponse "Обновленный пользователь"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Router /api/v1/admin/users/{uid}/role [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userrole"

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

	user, err := h.admin.UpdateRole(r.Context(), uid, req.Role)
	if err != nil {
		log.Error("failed to update role", slog.String("uid", uid), sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("role updated", slog.String("uid", uid), slog.String("role", req.Role))
	render.JSON(w, r, response.OKWithData(user))
}
