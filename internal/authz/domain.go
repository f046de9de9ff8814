package authz

import (
	"context"

	"github.com/google/uuid"
)

// Role is one of the closed set of roles known to the permission matrix.
// An unrecognized role carries zero capabilities; it never falls back to a
// privileged role.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Roles returns every role the matrix admits, in declaration order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEmployee}
}

// Principal describes the authenticated actor whose role drives every
// authorization decision. A nil *Principal means unauthenticated.
type Principal struct {
	ID     uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
	Active bool      `json:"active"`
}

// Category is a resource category, the first axis of the permission matrix.
type Category string

const (
	CategoryUsers     Category = "users"
	CategoryPatients  Category = "patients"
	CategoryRecords   Category = "records"
	CategoryTransfers Category = "transfers"
)

// Action is the second axis of the permission matrix. Receive and Complete
// only exist on the transfers category.
type Action string

const (
	ActionView     Action = "view"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionReceive  Action = "receive"
	ActionComplete Action = "complete"
)

type principalCtxKey struct{}

// ContextWithPrincipal stows the current principal in the request context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFromContext returns the current principal, or nil when the
// request is unauthenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalCtxKey{}).(*Principal)
	return p
}
