// Package login реализует HTTP-обработчик входа по email и паролю.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/studentms/studentms/internal/http/middlewarectx"
	"github.com/studentms/studentms/internal/http/response"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/models"
)

// Request — входные данные для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthService определяет методы бизнес-логики для входа пользователя.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

// Handler обрабатывает HTTP-запросы входа пользователей.
type Handler struct {
	log      *slog.Logger
	auth     AuthService
	tokenTTL time.Duration
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, authService AuthService, tokenTTL time.Duration) *Handler {
	return &Handler{
		log:      log,
		auth:     authService,
		tokenTTL: tokenTTL,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход по email и паролю
// @Description Проверяет учетные данные и выпускает сессионный токен в cookie и теле ответа
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные"
// @Success 200 {object} response.OKResponse "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверный пароль"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Router /api/v1/auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Error("login failed", slog.String("email", req.Email), sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("login success", slog.String("uid", user.UID))
	middlewarectx.SetSessionCookie(w, token, h.tokenTTL)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":  user,
		"token": token,
	}))
}
