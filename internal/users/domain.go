// Package users is the thin facade over the backend's user resource. It
// shapes query parameters and delegates to the transport; every admit/deny
// decision lives in the authz evaluator, never here.
package users

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/carelink-his/carelink/internal/refdata"
)

// User mirrors the backend's user resource.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	HealthCenter string    `json:"health_center"`
	Active       bool      `json:"active"`
}

// ListFilters holds the user list query options.
type ListFilters struct {
	Page         int `validate:"gte=0"`
	Limit        int `validate:"gte=0,lte=200"`
	Search       string
	Role         string
	HealthCenter string
	Active       *bool
}

// ListResult is one page of users plus the backend's total count.
type ListResult struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

// Client is the transport surface this facade delegates to.
type Client interface {
	Get(ctx context.Context, path string, query url.Values, dest any) error
	Post(ctx context.Context, path string, body, dest any) error
	Put(ctx context.Context, path string, body, dest any) error
	Delete(ctx context.Context, path string) error
}

// ReferenceCache lets user mutations purge reference vocabulary they can
// affect. Only the role entry is touched here.
type ReferenceCache interface {
	InvalidateType(ctx context.Context, t refdata.Type) error
}
