package patients

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carelink-his/carelink/internal/refdata"
)

// Service forwards patient operations to the backend and resolves status
// labels through the reference cache.
type Service struct {
	api      Client
	refs     *refdata.Service
	validate *validator.Validate
}

// NewService wires the facade dependencies. The reference service may be
// nil when label resolution is not needed.
func NewService(api Client, refs *refdata.Service) *Service {
	return &Service{api: api, refs: refs, validate: validator.New()}
}

// List fetches one page of patients matching the filters.
func (s *Service) List(ctx context.Context, f ListFilters) (ListResult, error) {
	if err := s.validate.Struct(f); err != nil {
		return ListResult{}, fmt.Errorf("patients: invalid filters: %w", err)
	}
	query := url.Values{}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		query.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	if f.Status != "" {
		query.Set("status", f.Status)
	}
	if f.HealthCenter != "" {
		query.Set("health_center", f.HealthCenter)
	}
	if f.Active != nil {
		query.Set("active", strconv.FormatBool(*f.Active))
	}
	var result ListResult
	if err := s.api.Get(ctx, "/api/patients", query, &result); err != nil {
		return ListResult{}, err
	}
	return result, nil
}

// Get fetches a single patient.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Patient, error) {
	var patient Patient
	if err := s.api.Get(ctx, "/api/patients/"+id.String(), nil, &patient); err != nil {
		return Patient{}, err
	}
	return patient, nil
}

// Create registers a new patient.
func (s *Service) Create(ctx context.Context, patient Patient) (Patient, error) {
	var created Patient
	if err := s.api.Post(ctx, "/api/patients", patient, &created); err != nil {
		return Patient{}, err
	}
	return created, nil
}

// Update replaces a patient resource.
func (s *Service) Update(ctx context.Context, patient Patient) (Patient, error) {
	var updated Patient
	if err := s.api.Put(ctx, "/api/patients/"+patient.ID.String(), patient, &updated); err != nil {
		return Patient{}, err
	}
	return updated, nil
}

// Delete removes a patient.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.api.Delete(ctx, "/api/patients/"+id.String())
}

// StatusLabel resolves a patient status code to its label in the requested
// locale, via the reference cache.
func (s *Service) StatusLabel(ctx context.Context, code, locale string) (string, error) {
	if s.refs == nil {
		return code, nil
	}
	items, err := s.refs.Collection(ctx, refdata.TypePatientStatus)
	if err != nil {
		return "", err
	}
	for _, item := range items {
		if item.Code == code {
			return item.Label(locale), nil
		}
	}
	return code, nil
}
