package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/carelink-his/carelink/internal/authz"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewManager(client, "carelink_session", 30*time.Minute, false), mr
}

func testPrincipal() authz.Principal {
	return authz.Principal{
		ID:     uuid.New(),
		Email:  "nurse@carelink.test",
		Role:   authz.RoleEmployee,
		Active: true,
	}
}

func TestIssueThenPrincipalRoundTrip(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	want := testPrincipal()

	rec := httptest.NewRecorder()
	if err := mgr.Issue(ctx, rec, want); err != nil {
		t.Fatalf("issue: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	got, err := mgr.Principal(ctx, req)
	if err != nil {
		t.Fatalf("principal: %v", err)
	}
	if got == nil || got.ID != want.ID || got.Role != want.Role || !got.Active {
		t.Fatalf("principal = %+v, want %+v", got, want)
	}
}

func TestPrincipalWithoutCookie(t *testing.T) {
	mgr, _ := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	p, err := mgr.Principal(context.Background(), req)
	if err != nil {
		t.Fatalf("principal: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil principal, got %+v", p)
	}
}

func TestPrincipalAfterExpiry(t *testing.T) {
	mgr, mr := newTestManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	if err := mgr.Issue(ctx, rec, testPrincipal()); err != nil {
		t.Fatalf("issue: %v", err)
	}
	mr.FastForward(31 * time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	p, err := mgr.Principal(ctx, req)
	if err != nil {
		t.Fatalf("principal: %v", err)
	}
	if p != nil {
		t.Fatalf("expired session should yield nil principal")
	}
}

func TestRevokeDeletesSession(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	if err := mgr.Issue(ctx, rec, testPrincipal()); err != nil {
		t.Fatalf("issue: %v", err)
	}
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(cookie)
	out := httptest.NewRecorder()
	if err := mgr.Revoke(ctx, out, req); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	expired := out.Result().Cookies()
	if len(expired) != 1 || expired[0].MaxAge != -1 {
		t.Fatalf("expected expiring cookie, got %+v", expired)
	}

	again := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	again.AddCookie(cookie)
	if p, _ := mgr.Principal(ctx, again); p != nil {
		t.Fatalf("revoked session should yield nil principal")
	}
}

func TestMiddlewareInjectsPrincipal(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	want := testPrincipal()

	rec := httptest.NewRecorder()
	if err := mgr.Issue(ctx, rec, want); err != nil {
		t.Fatalf("issue: %v", err)
	}

	var seen *authz.Principal
	handler := mgr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = authz.PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen == nil || seen.ID != want.ID {
		t.Fatalf("middleware did not inject principal, got %+v", seen)
	}

	seen = nil
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if seen != nil {
		t.Fatalf("anonymous request should carry no principal")
	}
}
