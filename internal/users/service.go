package users

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carelink-his/carelink/internal/refdata"
)

// Service forwards user operations to the backend.
type Service struct {
	api      Client
	refs     ReferenceCache
	validate *validator.Validate
}

// NewService wires the facade dependencies.
func NewService(api Client, refs ReferenceCache) *Service {
	return &Service{api: api, refs: refs, validate: validator.New()}
}

// List fetches one page of users matching the filters.
func (s *Service) List(ctx context.Context, f ListFilters) (ListResult, error) {
	if err := s.validate.Struct(f); err != nil {
		return ListResult{}, fmt.Errorf("users: invalid filters: %w", err)
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
	if f.Role != "" {
		query.Set("role", f.Role)
	}
	if f.HealthCenter != "" {
		query.Set("health_center", f.HealthCenter)
	}
	if f.Active != nil {
		query.Set("active", strconv.FormatBool(*f.Active))
	}
	var result ListResult
	if err := s.api.Get(ctx, "/api/users", query, &result); err != nil {
		return ListResult{}, err
	}
	return result, nil
}

// Get fetches a single user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (User, error) {
	var user User
	if err := s.api.Get(ctx, "/api/users/"+id.String(), nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Create registers a new user. The role vocabulary is purged afterwards so
// role lookups observe any change the backend derives from the new account.
func (s *Service) Create(ctx context.Context, user User) (User, error) {
	var created User
	if err := s.api.Post(ctx, "/api/users", user, &created); err != nil {
		return User{}, err
	}
	if err := s.refs.InvalidateType(ctx, refdata.TypeRole); err != nil {
		return User{}, err
	}
	return created, nil
}

// Update replaces a user resource.
func (s *Service) Update(ctx context.Context, user User) (User, error) {
	var updated User
	if err := s.api.Put(ctx, "/api/users/"+user.ID.String(), user, &updated); err != nil {
		return User{}, err
	}
	if err := s.refs.InvalidateType(ctx, refdata.TypeRole); err != nil {
		return User{}, err
	}
	return updated, nil
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.api.Delete(ctx, "/api/users/"+id.String())
}
