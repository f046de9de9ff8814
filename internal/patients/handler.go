package patients

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carelink-his/carelink/internal/authz"
	"github.com/carelink-his/carelink/internal/platform/httpx"
)

// Handler exposes the patient facade over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers patient routes, each gated on its matrix cell.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require(authz.CategoryPatients, authz.ActionView)).Get("/", h.list)
	r.With(h.guard.Require(authz.CategoryPatients, authz.ActionView)).Get("/{id}", h.get)
	r.With(h.guard.Require(authz.CategoryPatients, authz.ActionCreate)).Post("/", h.create)
	r.With(h.guard.Require(authz.CategoryPatients, authz.ActionUpdate)).Put("/{id}", h.update)
	r.With(h.guard.Require(authz.CategoryPatients, authz.ActionDelete)).Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilters{
		Search:       q.Get("search"),
		Status:       q.Get("status"),
		HealthCenter: q.Get("health_center"),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	if raw := q.Get("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			f.Active = &active
		}
	}
	result, err := h.service.List(r.Context(), f)
	if err != nil {
		h.logger.Error("list patients", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	patient, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, patient)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var patient Patient
	if err := httpx.DecodeJSON(r, &patient); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), patient)
	if err != nil {
		h.logger.Error("create patient", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var patient Patient
	if err := httpx.DecodeJSON(r, &patient); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	patient.ID = id
	updated, err := h.service.Update(r.Context(), patient)
	if err != nil {
		h.logger.Error("update patient", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete patient", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
