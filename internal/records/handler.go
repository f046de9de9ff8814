package records

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carelink-his/carelink/internal/authz"
	"github.com/carelink-his/carelink/internal/platform/httpx"
)

// Handler exposes the record facade over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers record routes, each gated on its matrix cell.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require(authz.CategoryRecords, authz.ActionView)).Get("/", h.list)
	r.With(h.guard.Require(authz.CategoryRecords, authz.ActionView)).Get("/{id}", h.get)
	r.With(h.guard.Require(authz.CategoryRecords, authz.ActionCreate)).Post("/", h.create)
	r.With(h.guard.Require(authz.CategoryRecords, authz.ActionUpdate)).Put("/{id}", h.update)
	r.With(h.guard.Require(authz.CategoryRecords, authz.ActionDelete)).Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilters{
		PatientID:  q.Get("patient_id"),
		RecordType: q.Get("record_type"),
		From:       q.Get("from"),
		To:         q.Get("to"),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	result, err := h.service.List(r.Context(), f)
	if err != nil {
		h.logger.Error("list records", slog.Any("error", err))
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
	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var record Record
	if err := httpx.DecodeJSON(r, &record); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), record)
	if err != nil {
		h.logger.Error("create record", slog.Any("error", err))
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
	var record Record
	if err := httpx.DecodeJSON(r, &record); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	record.ID = id
	updated, err := h.service.Update(r.Context(), record)
	if err != nil {
		h.logger.Error("update record", slog.Any("error", err))
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
		h.logger.Error("delete record", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
