package authz

import (
	"errors"
	"log/slog"
	"net/http"
)

// DecisionRecorder receives the outcome of every route gate evaluation.
// Implemented by the observability metrics; nil disables recording.
type DecisionRecorder interface {
	RecordDecision(tier string, allowed bool)
}

// Middleware wires route-tier and permission gates for HTTP handlers. The
// principal is read from the request context; the session middleware is
// responsible for putting it there. These gates are advisory UX-level
// enforcement only; the backend re-validates every call.
type Middleware struct {
	Evaluator *Evaluator
	Logger    *slog.Logger
	Metrics   DecisionRecorder
}

// GuardRoutes classifies every request path and denies requests whose
// principal does not reach the path's tier. Unauthenticated requests get
// 401 on matched non-public routes; authenticated but insufficient
// principals get 403. Unmatched paths are denied.
func (m Middleware) GuardRoutes() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			tier, matched := m.Evaluator.ClassifyRoute(r.URL.Path)
			allowed := m.Evaluator.AuthorizeRoute(p, r.URL.Path)
			if m.Metrics != nil {
				name := "unmatched"
				if matched {
					name = tier.String()
				}
				m.Metrics.RecordDecision(name, allowed)
			}
			if allowed {
				next.ServeHTTP(w, r)
				return
			}
			if p == nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// Require gates a route on one (category, action) cell of the matrix. An
// unknown pair is a programming error in the route table and returns 500,
// never a silent 403.
func (m Middleware) Require(c Category, a Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			allowed, err := m.Evaluator.CanPerform(p, c, a)
			if err != nil {
				if errors.Is(err, ErrUnknownPermission) && m.Logger != nil {
					m.Logger.Error("authz gate misconfigured",
						slog.String("category", string(c)),
						slog.String("action", string(a)),
						slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !allowed {
				if p == nil {
					http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
					return
				}
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
