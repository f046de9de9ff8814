package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carelink-his/carelink/internal/platform/httpx"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	TouchLogin(ctx context.Context, email string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches an account by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, role, active, created_at, updated_at
		 FROM accounts WHERE email = $1`, email)

	var account Account
	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash,
		&account.Role, &account.Active, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("auth: find %s: %w", email, err)
	}
	return &account, nil
}

// TouchLogin records the most recent successful login.
func (r *PGRepository) TouchLogin(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE accounts SET last_login_at = now() WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("auth: touch login %s: %w", email, err)
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
