// Package records is the thin facade over the backend's medical-record
// resource.
package records

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Record mirrors the backend's medical-record resource.
type Record struct {
	ID         uuid.UUID `json:"id"`
	PatientID  uuid.UUID `json:"patient_id"`
	RecordType string    `json:"record_type"`
	Summary    string    `json:"summary"`
	AuthorID   uuid.UUID `json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListFilters holds the record list query options.
type ListFilters struct {
	Page       int `validate:"gte=0"`
	Limit      int `validate:"gte=0,lte=200"`
	PatientID  string
	RecordType string
	From       string
	To         string
}

// ListResult is one page of records plus the backend's total count.
type ListResult struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
}

// Client is the transport surface this facade delegates to.
type Client interface {
	Get(ctx context.Context, path string, query url.Values, dest any) error
	Post(ctx context.Context, path string, body, dest any) error
	Put(ctx context.Context, path string, body, dest any) error
	Delete(ctx context.Context, path string) error
}
