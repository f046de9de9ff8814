// Package patients is the thin facade over the backend's patient resource.
package patients

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Patient mirrors the backend's patient resource.
type Patient struct {
	ID           uuid.UUID `json:"id"`
	MRN          string    `json:"mrn"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	BirthDate    string    `json:"birth_date"`
	Status       string    `json:"status"`
	HealthCenter string    `json:"health_center"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListFilters holds the patient list query options.
type ListFilters struct {
	Page         int `validate:"gte=0"`
	Limit        int `validate:"gte=0,lte=200"`
	Search       string
	Status       string
	HealthCenter string
	Active       *bool
}

// ListResult is one page of patients plus the backend's total count.
type ListResult struct {
	Patients []Patient `json:"patients"`
	Total    int       `json:"total"`
}

// Client is the transport surface this facade delegates to.
type Client interface {
	Get(ctx context.Context, path string, query url.Values, dest any) error
	Post(ctx context.Context, path string, body, dest any) error
	Put(ctx context.Context, path string, body, dest any) error
	Delete(ctx context.Context, path string) error
}
