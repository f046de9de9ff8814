package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/carelink-his/carelink/internal/authz"
)

// ErrInvalidCredentials is returned for any authentication failure. The
// caller never learns whether the account exists, is disabled, or the
// password was wrong.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Account is a login account as stored in PostgreSQL.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         authz.Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal projects the account into the shape authorization works with.
func (a Account) Principal() authz.Principal {
	return authz.Principal{
		ID:     a.ID,
		Email:  a.Email,
		Role:   a.Role,
		Active: a.Active,
	}
}
