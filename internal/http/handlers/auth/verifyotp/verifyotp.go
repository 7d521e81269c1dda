// Package verifyotp реализует HTTP-обработчик проверки одноразового кода.
//
// При совпадении кода пользователь с таким email, если он существует,
// сразу получает сессионный токен.
package verifyotp

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
	"github.com/studentms/studentms/internal/services/otp"
)

// Request — входные данные для проверки кода.
type Request struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// OTPService определяет методы бизнес-логики одноразовых кодов.
type OTPService interface {
	VerifyCode(ctx context.Context, email, code string) (*otp.VerifyResult, error)
}

// Handler обрабатывает HTTP-запросы проверки одноразового кода.
type Handler struct {
	log      *slog.Logger
	otp      OTPService
	tokenTTL time.Duration
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, otpService OTPService, tokenTTL time.Duration) *Handler {
	return &Handler{
		log:      log,
		otp:      otpService,
		tokenTTL: tokenTTL,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Проверка одноразового кода
// @Description Проверяет код и, если пользователь существует, выпускает сессионный токен
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Email и код"
// @Success 200 {object} response.OKResponse "Код подтвержден"
// @Failure 400 {object} response.ErrorResponse "Неверный или истекший код"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Router /api/v1/auth/otp/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verifyotp"

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

	result, err := h.otp.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		log.Error("failed to verify code", slog.String("email", req.Email), sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	data := map[string]any{
		"message":  "OTP verified",
		"email":    result.Email,
		"verified": result.Verified,
	}
	if result.Token != "" {
		middlewarectx.SetSessionCookie(w, result.Token, h.tokenTTL)
		data["user"] = result.User
		data["token"] = result.Token
	}

	log.Info("code verified", slog.String("email", result.Email), slog.Bool("logged_in", result.Token != ""))
	render.JSON(w, r, response.OKWithData(data))
}
