// Package userlist реализует HTTP-обработчик списка пользователей для панели.
package userlist

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

// AdminService определяет методы бизнес-логики списка пользователей.
type AdminService interface {
	ListUsers(ctx context.Context, limit, offset int, search, role string) ([]*models.User, int, error)
}

// Handler обрабатывает HTTP-запросы списка пользователей.
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
// @Summary Список пользователей
// @Description Возвращает страницу пользователей с фильтрами поиска и роли
// @Tags Admin
// @Produce  json
// @Param limit query int false "Размер страницы (по умолчанию 20, максимум 100)"
// @Param offset query int false "Смещение"
// @Param search query string false "Подстрока поиска по username и email"
// @Param role query string false "Фильтр по роли (user или admin)"
// @Success 200 {object} response.OKResponse "Страница пользователей"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Router /api/v1/admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset := pagination(r)
	search := r.URL.Query().Get("search")
	role := r.URL.Query().Get("role")

	users, total, err := h.admin.ListUsers(r.Context(), limit, offset, search, role)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		response.AppError(w, r, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	}))
}

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
