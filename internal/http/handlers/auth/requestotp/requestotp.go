// Package requestotp реализует HTTP-обработчик выдачи одноразового кода.
//
// Код отправляется на указанный email. Сбой доставки не считается ошибкой
// запроса: код остаётся действителен, а в ответе проставляется delayed.
package requestotp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studentms/studentms/internal/http/response"
	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/services/otp"
)

// Request — входные данные для выдачи кода.
type Request struct {
	Email string `json:"email"`
}

// OTPService определяет методы бизнес-логики одноразовых кодов.
type OTPService interface {
	RequestCode(ctx context.Context, email string) (*otp.IssueResult, error)
}

// Handler обрабатывает HTTP-запросы выдачи одноразового кода.
type Handler struct {
	log *slog.Logger
	otp OTPService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, otpService OTPService) *Handler {
	return &Handler{
		log: log,
		otp: otpService,
	}
}

// ServeHTTP godoc
// @Summary Запрос одноразового кода
// @Description Генерирует шестизначный код и отправляет его на email
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Email получателя"
// @Success 200 {object} response.OKResponse "Код выдан"
// @Failure 400 {object} response.ErrorResponse "Некорректный email"
// @Router /api/v1/auth/otp/request [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.requestotp"

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

	result, err := h.otp.RequestCode(r.Context(), req.Email)
	if err != nil {
		log.Error("failed to issue code", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	message := "OTP sent to email"
	if result.Delayed {
		message = "OTP issued, email delivery delayed"
	}

	log.Info("code issued", slog.String("email", result.Email), slog.Bool("delayed", result.Delayed))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": message,
		"email":   result.Email,
		"delayed": result.Delayed,
	}))
}
