// Package logout реализует HTTP-обработчик завершения сессии.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studentms/studentms/internal/http/middlewarectx"
	"github.com/studentms/studentms/internal/http/response"
)

// Handler сбрасывает сессионную cookie клиента.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Выход из системы
// @Description Сбрасывает сессионную cookie
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.OKResponse "Сессия завершена"
// @Router /api/v1/auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	middlewarectx.ClearSessionCookie(w)

	log.Info("logout success")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "logged out",
	}))
}
