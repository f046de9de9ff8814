package refdata

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carelink-his/carelink/internal/authz"
	"github.com/carelink-his/carelink/internal/platform/httpx"
)

// Handler exposes reference-data endpoints. Reads are open to any
// authenticated principal (the route guard covers that); mutations are
// additionally gated on the admin role.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers reference-data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listAll)
	r.Get("/{type}", h.listType)
	r.Group(func(r chi.Router) {
		r.Use(h.requireAdmin)
		r.Post("/", h.create)
		r.Put("/{type}/{code}", h.update)
		r.Delete("/items/{id}", h.deleteByID)
	})
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := authz.PrincipalFromContext(r.Context())
		if !h.guard.Evaluator.IsAdmin(p) {
			httpx.RespondError(w, httpx.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type itemView struct {
	Item
	Label string `json:"label,omitempty"`
}

func decorate(items []Item, locale string) []itemView {
	views := make([]itemView, len(items))
	for i, item := range items {
		views[i] = itemView{Item: item}
		if locale != "" {
			views[i].Label = item.Label(locale)
		}
	}
	return views
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.All(r.Context())
	if err != nil {
		h.logger.Error("load merged reference data", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, decorate(items, r.URL.Query().Get("locale")))
}

func (h *Handler) listType(w http.ResponseWriter, r *http.Request) {
	t, err := ParseType(chi.URLParam(r, "type"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Unknown Type", err.Error())
		return
	}
	items, err := h.service.Collection(r.Context(), t)
	if err != nil {
		h.logger.Error("load reference data", slog.String("type", string(t)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, decorate(items, r.URL.Query().Get("locale")))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var item Item
	if err := httpx.DecodeJSON(r, &item); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	if err := h.service.Create(r.Context(), item); err != nil {
		if errors.Is(err, ErrUnknownType) {
			httpx.Problem(w, http.StatusBadRequest, "Unknown Type", err.Error())
			return
		}
		h.logger.Error("create reference item", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	t, err := ParseType(chi.URLParam(r, "type"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Unknown Type", err.Error())
		return
	}
	var item Item
	if err := httpx.DecodeJSON(r, &item); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	item.Type = t
	item.Code = chi.URLParam(r, "code")
	if err := h.service.Update(r.Context(), item); err != nil {
		h.logger.Error("update reference item", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.logger.Error("delete reference item", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
