package e2e

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/carelink-his/carelink/internal/app"
	"github.com/carelink-his/carelink/internal/authz"
	"github.com/carelink-his/carelink/internal/capability"
	"github.com/carelink-his/carelink/internal/patients"
	"github.com/carelink-his/carelink/internal/platform/api"
	"github.com/carelink-his/carelink/internal/records"
	"github.com/carelink-his/carelink/internal/refdata"
	"github.com/carelink-his/carelink/internal/reports"
	"github.com/carelink-his/carelink/internal/session"
	_ "github.com/carelink-his/carelink/internal/testing/guard"
	"github.com/carelink-his/carelink/internal/transfers"
	"github.com/carelink-his/carelink/internal/users"
)

type staticLoader struct{}

func (staticLoader) LoadType(_ context.Context, t refdata.Type) ([]refdata.Item, error) {
	return []refdata.Item{{
		Type:   t,
		Code:   "sample",
		Labels: map[string]string{"en": "Sample", "es": "Muestra"},
		Active: true,
	}}, nil
}

func (staticLoader) LoadAll(context.Context) (map[refdata.Type][]refdata.Item, error) {
	byType := make(map[refdata.Type][]refdata.Item)
	for _, t := range refdata.Types() {
		items, _ := staticLoader{}.LoadType(context.Background(), t)
		byType[t] = items
	}
	return byType, nil
}

type fixture struct {
	router   http.Handler
	sessions *session.Manager
}

// newFixture assembles the full router against a stub backend, the way the
// server entrypoint does.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[],"total":0}`))
	}))
	t.Cleanup(backend.Close)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	logger := slog.Default()
	sessions := session.NewManager(redisClient, "carelink_session", time.Hour, false)
	evaluator := authz.NewEvaluator(authz.DefaultMatrix(), authz.DefaultClassifier())
	guard := authz.Middleware{Evaluator: evaluator, Logger: logger}
	projector := capability.NewProjector(evaluator)

	store := refdata.NewCache(5 * time.Minute)
	refdataService := refdata.NewService(store, staticLoader{}, nil, logger)

	backendClient, err := api.New(backend.URL, 5*time.Second, logger)
	if err != nil {
		t.Fatalf("backend client: %v", err)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            &app.Config{AppEnv: "test", AppRequestTimeout: 10 * time.Second},
		Sessions:          sessions,
		Guard:             guard,
		CapabilityHandler: capability.NewHandler(logger, projector),
		RefdataHandler:    refdata.NewHandler(logger, refdataService, guard),
		UsersHandler:      users.NewHandler(logger, users.NewService(backendClient, refdataService), guard),
		PatientsHandler:   patients.NewHandler(logger, patients.NewService(backendClient, refdataService), guard),
		RecordsHandler:    records.NewHandler(logger, records.NewService(backendClient), guard),
		TransfersHandler:  transfers.NewHandler(logger, transfers.NewService(backendClient), guard),
		ReportsHandler:    reports.NewHandler(logger, reports.NewService(backendClient), guard),
		AuthHandler:       nil,
	})
	return &fixture{router: router, sessions: sessions}
}

func (f *fixture) login(t *testing.T, role authz.Role) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	err := f.sessions.Issue(context.Background(), rec, authz.Principal{
		ID:     uuid.New(),
		Email:  string(role) + "@carelink.test",
		Role:   role,
		Active: true,
	})
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return rec.Result().Cookies()[0]
}

func (f *fixture) do(t *testing.T, method, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestPublicEndpointsNeedNoSession(t *testing.T) {
	f := newFixture(t)

	if rec := f.do(t, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/welcome", nil); rec.Code != http.StatusOK {
		t.Fatalf("welcome status = %d", rec.Code)
	}
}

func TestAnonymousDeniedOnSharedRoutes(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/capabilities", "/api/refdata", "/api/patients", "/api/menu"} {
		if rec := f.do(t, http.MethodGet, path, nil); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s status = %d, want 401", path, rec.Code)
		}
	}
}

func TestEmployeeSharedAccessAndAdminDenial(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t, authz.RoleEmployee)

	if rec := f.do(t, http.MethodGet, "/api/refdata/role", cookie); rec.Code != http.StatusOK {
		t.Fatalf("refdata status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec := f.do(t, http.MethodGet, "/api/patients", cookie); rec.Code != http.StatusOK {
		t.Fatalf("patients status = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/users", cookie); rec.Code != http.StatusForbidden {
		t.Fatalf("users status = %d, want 403", rec.Code)
	}
}

func TestAdminReachesUserManagement(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t, authz.RoleAdmin)

	if rec := f.do(t, http.MethodGet, "/api/users", cookie); rec.Code != http.StatusOK {
		t.Fatalf("users status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCapabilitiesReflectRole(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t, authz.RoleEmployee)

	rec := f.do(t, http.MethodGet, "/api/capabilities", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("capabilities status = %d", rec.Code)
	}
	var set capability.Set
	if err := json.Unmarshal(rec.Body.Bytes(), &set); err != nil {
		t.Fatalf("decode capabilities: %v", err)
	}
	if !set.PatientsView || set.UsersView || set.PatientsDelete {
		t.Fatalf("unexpected employee capabilities: %+v", set)
	}

	menuRec := f.do(t, http.MethodGet, "/api/menu", cookie)
	if menuRec.Code != http.StatusOK {
		t.Fatalf("menu status = %d", menuRec.Code)
	}
	var menu []capability.NavItem
	if err := json.Unmarshal(menuRec.Body.Bytes(), &menu); err != nil {
		t.Fatalf("decode menu: %v", err)
	}
	for _, item := range menu {
		if item.Path == "/users" || item.Path == "/admin" {
			t.Fatalf("employee menu exposes %s", item.Path)
		}
	}
}

func TestUnmatchedRouteDenied(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t, authz.RoleAdmin)

	if rec := f.do(t, http.MethodGet, "/api/billing", cookie); rec.Code != http.StatusForbidden {
		t.Fatalf("unmatched route status = %d, want 403", rec.Code)
	}
}
