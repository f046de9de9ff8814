package transfers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service forwards transfer operations to the backend.
type Service struct {
	api      Client
	validate *validator.Validate
}

// NewService wires the facade dependencies.
func NewService(api Client) *Service {
	return &Service{api: api, validate: validator.New()}
}

// List fetches one page of transfers matching the filters.
func (s *Service) List(ctx context.Context, f ListFilters) (ListResult, error) {
	if err := s.validate.Struct(f); err != nil {
		return ListResult{}, fmt.Errorf("transfers: invalid filters: %w", err)
	}
	query := url.Values{}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		query.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.PatientID != "" {
		query.Set("patient_id", f.PatientID)
	}
	if f.FromCenter != "" {
		query.Set("from_center", f.FromCenter)
	}
	if f.ToCenter != "" {
		query.Set("to_center", f.ToCenter)
	}
	if f.State != "" {
		query.Set("state", f.State)
	}
	var result ListResult
	if err := s.api.Get(ctx, "/api/transfers", query, &result); err != nil {
		return ListResult{}, err
	}
	return result, nil
}

// Get fetches a single transfer.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Transfer, error) {
	var transfer Transfer
	if err := s.api.Get(ctx, "/api/transfers/"+id.String(), nil, &transfer); err != nil {
		return Transfer{}, err
	}
	return transfer, nil
}

// Create opens a new transfer.
func (s *Service) Create(ctx context.Context, transfer Transfer) (Transfer, error) {
	var created Transfer
	if err := s.api.Post(ctx, "/api/transfers", transfer, &created); err != nil {
		return Transfer{}, err
	}
	return created, nil
}

// Receive acknowledges an inbound transfer at the destination center.
func (s *Service) Receive(ctx context.Context, id uuid.UUID) (Transfer, error) {
	var updated Transfer
	if err := s.api.Post(ctx, "/api/transfers/"+id.String()+"/receive", nil, &updated); err != nil {
		return Transfer{}, err
	}
	return updated, nil
}

// Complete closes out a received transfer.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (Transfer, error) {
	var updated Transfer
	if err := s.api.Post(ctx, "/api/transfers/"+id.String()+"/complete", nil, &updated); err != nil {
		return Transfer{}, err
	}
	return updated, nil
}

// Update replaces a transfer resource.
func (s *Service) Update(ctx context.Context, transfer Transfer) (Transfer, error) {
	var updated Transfer
	if err := s.api.Put(ctx, "/api/transfers/"+transfer.ID.String(), transfer, &updated); err != nil {
		return Transfer{}, err
	}
	return updated, nil
}

// Delete removes a transfer.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.api.Delete(ctx, "/api/transfers/"+id.String())
}
