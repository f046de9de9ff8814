package refdata

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long a cached collection stays fresh.
const DefaultTTL = 5 * time.Minute

// Store is the cache contract the reference-data service runs against.
// Put and Invalidate are the only mutators; nothing else may touch the
// underlying storage.
type Store interface {
	// Get returns the collection for key only when present and unexpired.
	Get(ctx context.Context, key string) ([]Item, bool, error)
	// Put stores the collection and restarts its TTL window, overwriting
	// any prior entry unconditionally.
	Put(ctx context.Context, key string, items []Item) error
	// Invalidate removes the entry for key. Invalidating a single type also
	// removes the merged KeyAll entry so the bulk view can never serve data
	// staler than a targeted mutation.
	Invalidate(ctx context.Context, key string) error
	// Clear removes every entry, used when the affected type is unknown.
	Clear(ctx context.Context) error
}

// HitRecorder receives cache lookup outcomes. Implemented by the
// observability metrics; nil disables recording.
type HitRecorder interface {
	RecordCacheHit(key string)
	RecordCacheMiss(key string)
}

// LoaderFunc fetches one reference collection from the external source.
type LoaderFunc func(ctx context.Context) ([]Item, error)

// FetchOrLoad returns the cached collection for key. On a hit the loader is
// never invoked. On a miss or expiry the loader runs and only a successful
// result populates the store; a failed load leaves the store untouched and
// propagates to the caller, so a transient fetch failure can never read as
// "no data" for the rest of the TTL window. Concurrent callers for the same
// key each load independently; the store ends up holding whichever load
// completes last.
func FetchOrLoad(ctx context.Context, store Store, key string, loader LoaderFunc) ([]Item, error) {
	items, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if ok {
		return items, nil
	}
	items, err = loader(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.Put(ctx, key, items); err != nil {
		return nil, err
	}
	return items, nil
}

type entry struct {
	items  []Item
	expiry time.Time
}

// Cache is the in-process TTL store. Keys are reference-data type names or
// the KeyAll sentinel; the key space is closed, so there is no size-based
// eviction. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
	metrics HitRecorder
}

// NewCache constructs an empty cache. A non-positive ttl falls back to
// DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// WithMetrics attaches a hit/miss recorder and returns the cache.
func (c *Cache) WithMetrics(m HitRecorder) *Cache {
	c.metrics = m
	return c
}

// Get returns the collection for key when present and unexpired. An entry
// whose expiry has arrived counts as absent.
func (c *Cache) Get(ctx context.Context, key string) ([]Item, bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !c.now().Before(e.expiry) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		if c.metrics != nil {
			c.metrics.RecordCacheMiss(key)
		}
		return nil, false, nil
	}
	if c.metrics != nil {
		c.metrics.RecordCacheHit(key)
	}
	return e.items, true, nil
}

// Put stores the collection under key with a fresh TTL window, replacing
// any prior entry.
func (c *Cache) Put(ctx context.Context, key string, items []Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{items: items, expiry: c.now().Add(c.ttl)}
	return nil
}

// Invalidate removes the entry for key. Removing a per-type entry also
// drops the merged KeyAll entry.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	if key != KeyAll {
		delete(c.entries, KeyAll)
	}
	return nil
}

// Clear removes every entry.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	return nil
}
