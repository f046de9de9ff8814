package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/carelink-his/carelink/internal/auth"
	"github.com/carelink-his/carelink/internal/authz"
	"github.com/carelink-his/carelink/internal/capability"
	"github.com/carelink-his/carelink/internal/observability"
	"github.com/carelink-his/carelink/internal/patients"
	"github.com/carelink-his/carelink/internal/records"
	"github.com/carelink-his/carelink/internal/refdata"
	"github.com/carelink-his/carelink/internal/reports"
	"github.com/carelink-his/carelink/internal/session"
	"github.com/carelink-his/carelink/internal/transfers"
	"github.com/carelink-his/carelink/internal/users"
	"github.com/carelink-his/carelink/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger   *slog.Logger
	Config   *Config
	Sessions *session.Manager
	Guard    authz.Middleware

	AuthHandler       *auth.Handler
	CapabilityHandler *capability.Handler
	RefdataHandler    *refdata.Handler
	UsersHandler      *users.Handler
	PatientsHandler   *patients.Handler
	RecordsHandler    *records.Handler
	TransfersHandler  *transfers.Handler
	ReportsHandler    *reports.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with CareLink defaults. Business
// routes sit behind the route-tier guard; operational endpoints (health,
// metrics, login) stay outside it.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:   params.Logger,
		Config:   params.Config,
		Sessions: params.Sessions,
		Metrics:  params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.AuthHandler != nil {
		r.Route("/auth", params.AuthHandler.MountRoutes)
	}

	r.Group(func(r chi.Router) {
		r.Use(params.Guard.GuardRoutes())

		r.Get("/welcome", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"carelink"}`))
		})

		if params.CapabilityHandler != nil {
			r.Route("/api/capabilities", params.CapabilityHandler.MountCapabilities)
			r.Route("/api/menu", params.CapabilityHandler.MountMenu)
		}
		if params.RefdataHandler != nil {
			r.Route("/api/refdata", params.RefdataHandler.MountRoutes)
		}
		if params.UsersHandler != nil {
			r.Route("/api/users", params.UsersHandler.MountRoutes)
		}
		if params.PatientsHandler != nil {
			r.Route("/api/patients", params.PatientsHandler.MountRoutes)
		}
		if params.RecordsHandler != nil {
			r.Route("/api/records", params.RecordsHandler.MountRoutes)
		}
		if params.TransfersHandler != nil {
			r.Route("/api/transfers", params.TransfersHandler.MountRoutes)
		}
		if params.ReportsHandler != nil {
			r.Route("/api/reports", params.ReportsHandler.MountRoutes)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
