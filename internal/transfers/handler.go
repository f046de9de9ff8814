package transfers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carelink-his/carelink/internal/authz"
	"github.com/carelink-his/carelink/internal/platform/httpx"
)

// Handler exposes the transfer facade over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers transfer routes, each gated on its matrix cell.
// Receive and Complete are shared-tier operations; update and delete stay
// admin-only per the matrix.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require(authz.CategoryTransfers, authz.ActionView)).Get("/", h.list)
	r.With(h.guard.Require(authz.CategoryTransfers, authz.ActionView)).Get("/{id}", h.get)
	r.With(h.guard.Require(authz.CategoryTransfers, authz.ActionCreate)).Post("/", h.create)
	r.With(h.guard.Require(authz.CategoryTransfers, authz.ActionReceive)).Post("/{id}/receive", h.receive)
	r.With(h.guard.Require(authz.CategoryTransfers, authz.ActionComplete)).Post("/{id}/complete", h.complete)
	r.With(h.guard.Require(authz.CategoryTransfers, authz.ActionUpdate)).Put("/{id}", h.update)
	r.With(h.guard.Require(authz.CategoryTransfers, authz.ActionDelete)).Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilters{
		PatientID:  q.Get("patient_id"),
		FromCenter: q.Get("from_center"),
		ToCenter:   q.Get("to_center"),
		State:      q.Get("state"),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	result, err := h.service.List(r.Context(), f)
	if err != nil {
		h.logger.Error("list transfers", slog.Any("error", err))
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
	transfer, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, transfer)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var transfer Transfer
	if err := httpx.DecodeJSON(r, &transfer); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), transfer)
	if err != nil {
		h.logger.Error("create transfer", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	updated, err := h.service.Receive(r.Context(), id)
	if err != nil {
		h.logger.Error("receive transfer", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	updated, err := h.service.Complete(r.Context(), id)
	if err != nil {
		h.logger.Error("complete transfer", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var transfer Transfer
	if err := httpx.DecodeJSON(r, &transfer); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	transfer.ID = id
	updated, err := h.service.Update(r.Context(), transfer)
	if err != nil {
		h.logger.Error("update transfer", slog.Any("error", err))
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
		h.logger.Error("delete transfer", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
