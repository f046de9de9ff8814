package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carelink-his/carelink/internal/authz"
	"github.com/carelink-his/carelink/internal/platform/httpx"
)

// Handler exposes the reporting facade over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers report routes. Reports read across record data,
// so they are gated on record viewing.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require(authz.CategoryRecords, authz.ActionView)).Get("/{name}", h.run)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := Params{
		From:         q.Get("from"),
		To:           q.Get("to"),
		HealthCenter: q.Get("health_center"),
	}
	payload, err := h.service.Run(r.Context(), chi.URLParam(r, "name"), params)
	if err != nil {
		h.logger.Error("run report", slog.String("name", chi.URLParam(r, "name")), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payload)
}
