// Package transfers is the thin facade over the backend's patient-transfer
// resource, including the receive and complete lifecycle operations.
package transfers

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Transfer mirrors the backend's transfer resource.
type Transfer struct {
	ID         uuid.UUID `json:"id"`
	PatientID  uuid.UUID `json:"patient_id"`
	FromCenter string    `json:"from_center"`
	ToCenter   string    `json:"to_center"`
	State      string    `json:"state"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListFilters holds the transfer list query options.
type ListFilters struct {
	Page       int `validate:"gte=0"`
	Limit      int `validate:"gte=0,lte=200"`
	PatientID  string
	FromCenter string
	ToCenter   string
	State      string
}

// ListResult is one page of transfers plus the backend's total count.
type ListResult struct {
	Transfers []Transfer `json:"transfers"`
	Total     int        `json:"total"`
}

// Client is the transport surface this facade delegates to.
type Client interface {
	Get(ctx context.Context, path string, query url.Values, dest any) error
	Post(ctx context.Context, path string, body, dest any) error
	Put(ctx context.Context, path string, body, dest any) error
	Delete(ctx context.Context, path string) error
}
