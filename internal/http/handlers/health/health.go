// Package health реализует HTTP-обработчик проверки живости сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/studentms/studentms/internal/http/response"
	"github.com/studentms/studentms/internal/lib/sl"
)

// Pinger проверяет доступность базы данных.
type Pinger interface {
	CheckDatabaseReady(ctx context.Context) error
}

type Handler struct {
	log *slog.Logger
	db  Pinger
}

func New(log *slog.Logger, db Pinger) *Handler {
	return &Handler{
		log: log,
		db:  db,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.db.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("database not ready", slog.String("op", op), sl.Err(err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database unavailable"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
