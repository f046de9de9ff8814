package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func scrape(t *testing.T, metrics *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status = %d", rec.Code)
	}
	return rec.Body.String()
}

func TestMiddlewareRecordsRequests(t *testing.T) {
	metrics := NewMetrics()
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/api/patients/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/patients/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	body := scrape(t, metrics)
	if !strings.Contains(body, `carelink_http_requests_total{code="200",route="/api/patients/{id}"} 1`) {
		t.Fatalf("request counter missing from scrape:\n%s", body)
	}
	if !strings.Contains(body, "carelink_http_request_duration_seconds") {
		t.Fatalf("duration histogram missing from scrape")
	}
}

func TestCacheLookupCounters(t *testing.T) {
	metrics := NewMetrics()
	metrics.RecordCacheHit("role")
	metrics.RecordCacheHit("role")
	metrics.RecordCacheMiss("all")

	body := scrape(t, metrics)
	if !strings.Contains(body, `carelink_refdata_cache_lookups_total{key="role",outcome="hit"} 2`) {
		t.Fatalf("hit counter missing from scrape:\n%s", body)
	}
	if !strings.Contains(body, `carelink_refdata_cache_lookups_total{key="all",outcome="miss"} 1`) {
		t.Fatalf("miss counter missing from scrape:\n%s", body)
	}
}

func TestDecisionCounters(t *testing.T) {
	metrics := NewMetrics()
	metrics.RecordDecision("admin-only", false)
	metrics.RecordDecision("shared", true)

	body := scrape(t, metrics)
	if !strings.Contains(body, `carelink_authz_decisions_total{outcome="denied",tier="admin-only"} 1`) {
		t.Fatalf("denied counter missing from scrape:\n%s", body)
	}
	if !strings.Contains(body, `carelink_authz_decisions_total{outcome="allowed",tier="shared"} 1`) {
		t.Fatalf("allowed counter missing from scrape:\n%s", body)
	}
}

func TestNilMetricsAreInert(t *testing.T) {
	var metrics *Metrics
	metrics.RecordCacheHit("role")
	metrics.RecordDecision("shared", true)

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("nil metrics middleware must pass through, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil metrics handler status = %d", rec.Code)
	}
}
