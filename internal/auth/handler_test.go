package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carelink-his/carelink/internal/authz"
	"github.com/carelink-his/carelink/internal/session"
)

func newTestHandler(t *testing.T, repo Repository) (*Handler, *session.Manager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := session.NewManager(client, "carelink_session", 30*time.Minute, false)
	return NewHandler(slog.Default(), NewService(repo, slog.Default()), sessions), sessions
}

func postLogin(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.MountRoutes(r)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLoginIssuesSession(t *testing.T) {
	account := newTestAccount(t, "correct-horse", true)
	repo := &mockRepo{accounts: map[string]*Account{account.Email: account}}
	h, sessions := newTestHandler(t, repo)

	rec := postLogin(t, h, `{"email":"doctor@carelink.test","password":"correct-horse"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected session cookie, got %d", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	p, err := sessions.Principal(context.Background(), req)
	if err != nil || p == nil {
		t.Fatalf("session principal: %v %v", p, err)
	}
	if p.Role != authz.RoleEmployee || p.ID != account.ID {
		t.Fatalf("principal = %+v", p)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	account := newTestAccount(t, "correct-horse", true)
	repo := &mockRepo{accounts: map[string]*Account{account.Email: account}}
	h, _ := newTestHandler(t, repo)

	rec := postLogin(t, h, `{"email":"doctor@carelink.test","password":"wrong-password"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("failed login must not set cookies")
	}
}

func TestLoginValidatesBody(t *testing.T) {
	h, _ := newTestHandler(t, &mockRepo{accounts: map[string]*Account{}})

	for _, body := range []string{
		`{"email":"not-an-email","password":"correct-horse"}`,
		`{"email":"doctor@carelink.test","password":"short"}`,
		`{"email":"doctor@carelink.test"`,
	} {
		if rec := postLogin(t, h, body); rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d", body, rec.Code)
		}
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	account := newTestAccount(t, "correct-horse", true)
	repo := &mockRepo{accounts: map[string]*Account{account.Email: account}}
	h, sessions := newTestHandler(t, repo)

	login := postLogin(t, h, `{"email":"doctor@carelink.test","password":"correct-horse"}`)
	cookie := login.Result().Cookies()[0]

	r := chi.NewRouter()
	h.MountRoutes(r)
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	again := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	again.AddCookie(cookie)
	if p, _ := sessions.Principal(context.Background(), again); p != nil {
		t.Fatalf("session should be revoked, got %+v", p)
	}
}
