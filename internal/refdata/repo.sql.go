package refdata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed reference-data persistence. It
// satisfies both Loader and Writer for deployments where this core runs
// next to the database instead of behind the backend transport.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectItems = `SELECT type, code, labels, active, meta FROM reference_items`

// LoadType returns the collection for one reference type in stable order.
func (r *Repository) LoadType(ctx context.Context, t Type) ([]Item, error) {
	rows, err := r.pool.Query(ctx, selectItems+` WHERE type = $1 ORDER BY sort_order, code`, string(t))
	if err != nil {
		return nil, fmt.Errorf("refdata: load %s: %w", t, err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// LoadAll returns every collection keyed by type.
func (r *Repository) LoadAll(ctx context.Context) (map[Type][]Item, error) {
	rows, err := r.pool.Query(ctx, selectItems+` ORDER BY type, sort_order, code`)
	if err != nil {
		return nil, fmt.Errorf("refdata: load all: %w", err)
	}
	defer rows.Close()
	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	byType := make(map[Type][]Item, len(Types()))
	for _, item := range items {
		byType[item.Type] = append(byType[item.Type], item)
	}
	return byType, nil
}

// CreateItem inserts a new reference item.
func (r *Repository) CreateItem(ctx context.Context, item Item) error {
	labels, meta, err := encodeJSON(item)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO reference_items (type, code, labels, active, meta) VALUES ($1, $2, $3, $4, $5)`,
		string(item.Type), item.Code, labels, item.Active, meta)
	if err != nil {
		return fmt.Errorf("refdata: create %s/%s: %w", item.Type, item.Code, err)
	}
	return nil
}

// UpdateItem replaces an existing reference item.
func (r *Repository) UpdateItem(ctx context.Context, item Item) error {
	labels, meta, err := encodeJSON(item)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE reference_items SET labels = $3, active = $4, meta = $5 WHERE type = $1 AND code = $2`,
		string(item.Type), item.Code, labels, item.Active, meta)
	if err != nil {
		return fmt.Errorf("refdata: update %s/%s: %w", item.Type, item.Code, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("refdata: update %s/%s: no such item", item.Type, item.Code)
	}
	return nil
}

// DeleteItem removes a reference item by its row id.
func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reference_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("refdata: delete %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("refdata: delete %s: no such item", id)
	}
	return nil
}

type pgRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanItems(rows pgRows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		var (
			item   Item
			typ    string
			labels []byte
			meta   []byte
		)
		if err := rows.Scan(&typ, &item.Code, &labels, &item.Active, &meta); err != nil {
			return nil, err
		}
		item.Type = Type(typ)
		if err := json.Unmarshal(labels, &item.Labels); err != nil {
			return nil, fmt.Errorf("refdata: decode labels for %s/%s: %w", typ, item.Code, err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &item.Meta); err != nil {
				return nil, fmt.Errorf("refdata: decode meta for %s/%s: %w", typ, item.Code, err)
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func encodeJSON(item Item) (labels, meta []byte, err error) {
	labels, err = json.Marshal(item.Labels)
	if err != nil {
		return nil, nil, fmt.Errorf("refdata: encode labels for %s/%s: %w", item.Type, item.Code, err)
	}
	if item.Meta != nil {
		meta, err = json.Marshal(item.Meta)
		if err != nil {
			return nil, nil, fmt.Errorf("refdata: encode meta for %s/%s: %w", item.Type, item.Code, err)
		}
	}
	return labels, meta, nil
}
