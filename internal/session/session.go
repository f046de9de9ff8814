// Package session provides cookie based login sessions backed by Redis.
// A session carries the authenticated principal; downstream authorization
// reads it from the request context.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/carelink-his/carelink/internal/authz"
)

const keyPrefix = "session:"

// Manager orchestrates cookie based sessions backed by Redis.
type Manager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
}

type payload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// NewManager constructs a Manager.
func NewManager(client *redis.Client, cookieName string, ttl time.Duration, secure bool) *Manager {
	return &Manager{client: client, cookieName: cookieName, ttl: ttl, secure: secure}
}

// TTL exposes the configured session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// CookieName returns the cookie identifier used for sessions.
func (m *Manager) CookieName() string { return m.cookieName }

// Principal resolves the principal attached to the request's session
// cookie. A missing cookie or an expired session yields nil without error.
func (m *Manager) Principal(ctx context.Context, r *http.Request) (*authz.Principal, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	raw, err := m.client.Get(ctx, keyPrefix+cookie.Value).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stored payload
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(stored.UserID)
	if err != nil {
		return nil, err
	}
	return &authz.Principal{
		ID:     id,
		Email:  stored.Email,
		Role:   authz.Role(stored.Role),
		Active: stored.Active,
	}, nil
}

// Issue creates a session for the principal and sets the cookie.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter, p authz.Principal) error {
	id := generateSessionID()
	data, err := json.Marshal(payload{
		UserID: p.ID.String(),
		Email:  p.Email,
		Role:   string(p.Role),
		Active: p.Active,
	})
	if err != nil {
		return err
	}
	if err := m.client.Set(ctx, keyPrefix+id, data, m.ttl).Err(); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(m.ttl),
	})
	return nil
}

// Revoke deletes the request's session and expires the cookie.
func (m *Manager) Revoke(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		if err := m.client.Del(ctx, keyPrefix+cookie.Value).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// Middleware resolves the session principal and stores it in the request
// context. Requests without a session proceed unauthenticated; route
// guards downstream decide what that is allowed to reach.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := m.Principal(r.Context(), r)
		if err != nil || p == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(authz.ContextWithPrincipal(r.Context(), p)))
	})
}

func generateSessionID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return base64.RawURLEncoding.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
