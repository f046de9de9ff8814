package refdata

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/carelink-his/carelink/internal/platform/httpx"
)

// Loader fetches reference collections from the backing source, either the
// backend transport or Postgres directly. A rejection must leave no partial
// side effects; the cache layer guarantees a failed load never populates.
type Loader interface {
	LoadType(ctx context.Context, t Type) ([]Item, error)
	LoadAll(ctx context.Context) (map[Type][]Item, error)
}

// Writer applies reference-data mutations at the backing source. Delete
// takes only the item id, so the affected type is unknown to the caller.
type Writer interface {
	CreateItem(ctx context.Context, item Item) error
	UpdateItem(ctx context.Context, item Item) error
	DeleteItem(ctx context.Context, id string) error
}

// Service fronts every reference-data lookup and mutation. Reads go through
// the TTL store; mutations write through and invalidate the affected key
// before reporting success, so the next read observes fresh data.
type Service struct {
	store    Store
	loader   Loader
	writer   Writer
	logger   *slog.Logger
	validate *validator.Validate
}

// NewService wires the service dependencies.
func NewService(store Store, loader Loader, writer Writer, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		loader:   loader,
		writer:   writer,
		logger:   logger,
		validate: validator.New(),
	}
}

// Collection returns the items of one reference type, from cache when
// fresh.
func (s *Service) Collection(ctx context.Context, t Type) ([]Item, error) {
	return FetchOrLoad(ctx, s.store, string(t), func(ctx context.Context) ([]Item, error) {
		return s.loader.LoadType(ctx, t)
	})
}

// All returns the merged collection across every type, cached under the
// KeyAll sentinel. Merge order follows the declared type order.
func (s *Service) All(ctx context.Context) ([]Item, error) {
	return FetchOrLoad(ctx, s.store, KeyAll, func(ctx context.Context) ([]Item, error) {
		byType, err := s.loader.LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		var merged []Item
		for _, t := range Types() {
			merged = append(merged, byType[t]...)
		}
		return merged, nil
	})
}

// Create validates and stores a new item, then invalidates its type so the
// next read refetches.
func (s *Service) Create(ctx context.Context, item Item) error {
	if err := s.validateItem(item); err != nil {
		return err
	}
	if err := s.writer.CreateItem(ctx, item); err != nil {
		return err
	}
	return s.InvalidateType(ctx, item.Type)
}

// Update validates and replaces an existing item, then invalidates its
// type.
func (s *Service) Update(ctx context.Context, item Item) error {
	if err := s.validateItem(item); err != nil {
		return err
	}
	if err := s.writer.UpdateItem(ctx, item); err != nil {
		return err
	}
	return s.InvalidateType(ctx, item.Type)
}

// Delete removes an item by id. The id carries no type hint, so the whole
// cache is cleared rather than guessing a key.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.writer.DeleteItem(ctx, id); err != nil {
		return err
	}
	return s.InvalidateAll(ctx)
}

// InvalidateType purges the cache entry for one type (and the merged bulk
// entry with it).
func (s *Service) InvalidateType(ctx context.Context, t Type) error {
	if err := s.store.Invalidate(ctx, string(t)); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Debug("reference cache invalidated", slog.String("type", string(t)))
	}
	return nil
}

// InvalidateAll clears every cache entry.
func (s *Service) InvalidateAll(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Debug("reference cache cleared")
	}
	return nil
}

func (s *Service) validateItem(item Item) error {
	if _, err := ParseType(string(item.Type)); err != nil {
		return err
	}
	if err := s.validate.Struct(item); err != nil {
		return fmt.Errorf("refdata: item %s/%s: %w: %v", item.Type, item.Code, httpx.ErrValidation, err)
	}
	return nil
}
