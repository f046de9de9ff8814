// Package reports is the thin facade over the backend's reporting
// endpoints. Report generation itself is entirely the backend's business;
// this side only shapes the parameter set.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/carelink-his/carelink/internal/platform/httpx"
)

// knownReports is the closed set of report names this facade forwards.
var knownReports = map[string]struct{}{
	"patient-census":     {},
	"transfer-activity":  {},
	"records-by-type":    {},
	"user-activity":      {},
	"health-center-load": {},
}

// Params holds the common reporting window and scope.
type Params struct {
	From         string
	To           string
	HealthCenter string
}

// Client is the transport surface this facade delegates to.
type Client interface {
	Get(ctx context.Context, path string, query url.Values, dest any) error
}

// Service forwards report requests to the backend.
type Service struct {
	api Client
}

// NewService wires the facade dependency.
func NewService(api Client) *Service {
	return &Service{api: api}
}

// Run executes a named report and returns its raw payload.
func (s *Service) Run(ctx context.Context, name string, p Params) (json.RawMessage, error) {
	if _, ok := knownReports[name]; !ok {
		return nil, fmt.Errorf("reports: unknown report %q: %w", name, httpx.ErrNotFound)
	}
	query := url.Values{}
	if p.From != "" {
		query.Set("from", p.From)
	}
	if p.To != "" {
		query.Set("to", p.To)
	}
	if p.HealthCenter != "" {
		query.Set("health_center", p.HealthCenter)
	}
	var payload json.RawMessage
	if err := s.api.Get(ctx, "/api/reports/"+name, query, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
