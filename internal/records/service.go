package records

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service forwards medical-record operations to the backend.
type Service struct {
	api      Client
	validate *validator.Validate
}

// NewService wires the facade dependencies.
func NewService(api Client) *Service {
	return &Service{api: api, validate: validator.New()}
}

// List fetches one page of records matching the filters.
func (s *Service) List(ctx context.Context, f ListFilters) (ListResult, error) {
	if err := s.validate.Struct(f); err != nil {
		return ListResult{}, fmt.Errorf("records: invalid filters: %w", err)
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
	if f.RecordType != "" {
		query.Set("record_type", f.RecordType)
	}
	if f.From != "" {
		query.Set("from", f.From)
	}
	if f.To != "" {
		query.Set("to", f.To)
	}
	var result ListResult
	if err := s.api.Get(ctx, "/api/records", query, &result); err != nil {
		return ListResult{}, err
	}
	return result, nil
}

// Get fetches a single record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	var record Record
	if err := s.api.Get(ctx, "/api/records/"+id.String(), nil, &record); err != nil {
		return Record{}, err
	}
	return record, nil
}

// Create stores a new record.
func (s *Service) Create(ctx context.Context, record Record) (Record, error) {
	var created Record
	if err := s.api.Post(ctx, "/api/records", record, &created); err != nil {
		return Record{}, err
	}
	return created, nil
}

// Update replaces a record.
func (s *Service) Update(ctx context.Context, record Record) (Record, error) {
	var updated Record
	if err := s.api.Put(ctx, "/api/records/"+record.ID.String(), record, &updated); err != nil {
		return Record{}, err
	}
	return updated, nil
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.api.Delete(ctx, "/api/records/"+id.String())
}
