package capability

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carelink-his/carelink/internal/authz"
	"github.com/carelink-his/carelink/internal/platform/httpx"
)

// Handler serves the capability set and navigation menu for the current
// principal.
type Handler struct {
	logger    *slog.Logger
	projector *Projector
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, projector *Projector) *Handler {
	return &Handler{logger: logger, projector: projector}
}

// MountCapabilities registers the capability endpoint.
func (h *Handler) MountCapabilities(r chi.Router) {
	r.Get("/", h.capabilities)
}

// MountMenu registers the menu endpoint.
func (h *Handler) MountMenu(r chi.Router) {
	r.Get("/", h.menu)
}

func (h *Handler) capabilities(w http.ResponseWriter, r *http.Request) {
	set, err := h.projector.Project(authz.PrincipalFromContext(r.Context()))
	if err != nil {
		h.logger.Error("project capabilities", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, set)
}

func (h *Handler) menu(w http.ResponseWriter, r *http.Request) {
	items := h.projector.Menu(authz.PrincipalFromContext(r.Context()))
	httpx.JSON(w, http.StatusOK, items)
}
