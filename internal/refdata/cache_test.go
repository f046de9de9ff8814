package refdata

import (
	"context"
	"errors"
	"testing"
	"time"
)

func roleItems() []Item {
	return []Item{
		{Type: TypeRole, Code: "admin", Labels: map[string]string{"en": "Administrator", "es": "Administrador"}, Active: true},
		{Type: TypeRole, Code: "employee", Labels: map[string]string{"en": "Employee", "es": "Empleado"}, Active: true},
	}
}

// testClock advances manually so TTL behavior is deterministic.
type testClock struct {
	current time.Time
}

func (c *testClock) now() time.Time { return c.current }

func (c *testClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestCache(ttl time.Duration) (*Cache, *testClock) {
	clock := &testClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := NewCache(ttl)
	c.now = clock.now
	return c, clock
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(DefaultTTL)

	want := roleItems()
	if err := c.Put(ctx, string(TypeRole), want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := c.Get(ctx, string(TypeRole))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit right after put")
	}
	if len(got) != len(want) || got[0].Code != "admin" || got[1].Code != "employee" {
		t.Fatalf("collection changed through the cache: %+v", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(DefaultTTL)

	if err := c.Put(ctx, string(TypeRole), roleItems()); err != nil {
		t.Fatalf("put: %v", err)
	}

	clock.advance(DefaultTTL - time.Second)
	if _, ok, _ := c.Get(ctx, string(TypeRole)); !ok {
		t.Fatal("entry expired before its TTL elapsed")
	}

	clock.advance(time.Second)
	if _, ok, _ := c.Get(ctx, string(TypeRole)); ok {
		t.Fatal("entry must be treated as absent once now >= expiry")
	}
}

func TestCachePutRestartsTTL(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(time.Minute)

	_ = c.Put(ctx, string(TypeRole), roleItems())
	clock.advance(50 * time.Second)
	_ = c.Put(ctx, string(TypeRole), roleItems()[:1])
	clock.advance(30 * time.Second)

	got, ok, _ := c.Get(ctx, string(TypeRole))
	if !ok {
		t.Fatal("overwriting put must restart the TTL window")
	}
	if len(got) != 1 {
		t.Fatal("put must overwrite the prior entry unconditionally")
	}
}

func TestCacheInvalidateThenGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(DefaultTTL)

	_ = c.Put(ctx, string(TypeRole), roleItems())
	if err := c.Invalidate(ctx, string(TypeRole)); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := c.Get(ctx, string(TypeRole)); ok {
		t.Fatal("invalidate followed by get must miss")
	}
	// Invalidating an absent key is a no-op, not an error.
	if err := c.Invalidate(ctx, string(TypeHealthCenter)); err != nil {
		t.Fatalf("invalidate absent key: %v", err)
	}
}

func TestCacheInvalidatePurgesBulkEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(DefaultTTL)

	_ = c.Put(ctx, string(TypeRole), roleItems())
	_ = c.Put(ctx, KeyAll, roleItems())
	_ = c.Put(ctx, string(TypeHealthCenter), nil)

	_ = c.Invalidate(ctx, string(TypeRole))

	if _, ok, _ := c.Get(ctx, KeyAll); ok {
		t.Fatal("bulk entry must not outlive a targeted invalidation")
	}
	if _, ok, _ := c.Get(ctx, string(TypeHealthCenter)); !ok {
		t.Fatal("unrelated per-type entries must survive")
	}
}

func TestCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(DefaultTTL)

	for _, typ := range Types() {
		_ = c.Put(ctx, string(typ), roleItems())
	}
	_ = c.Put(ctx, KeyAll, roleItems())

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, typ := range Types() {
		if _, ok, _ := c.Get(ctx, string(typ)); ok {
			t.Fatalf("key %s survived a clear", typ)
		}
	}
	if _, ok, _ := c.Get(ctx, KeyAll); ok {
		t.Fatal("bulk key survived a clear")
	}
}

func TestFetchOrLoadHitSkipsLoader(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(DefaultTTL)

	calls := 0
	loader := func(ctx context.Context) ([]Item, error) {
		calls++
		return roleItems(), nil
	}

	for i := 0; i < 3; i++ {
		items, err := FetchOrLoad(ctx, c, string(TypeRole), loader)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if len(items) != 2 {
			t.Fatalf("fetch %d: got %d items", i, len(items))
		}
	}
	if calls != 1 {
		t.Fatalf("loader ran %d times, want 1", calls)
	}
}

func TestFetchOrLoadReloadsAfterExpiry(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(DefaultTTL)

	calls := 0
	loader := func(ctx context.Context) ([]Item, error) {
		calls++
		return roleItems(), nil
	}

	if _, err := FetchOrLoad(ctx, c, string(TypeRole), loader); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	clock.advance(DefaultTTL)
	if _, err := FetchOrLoad(ctx, c, string(TypeRole), loader); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if calls != 2 {
		t.Fatalf("loader ran %d times, want 2 after expiry", calls)
	}
}

func TestFailedLoadDoesNotPolluteCache(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(DefaultTTL)

	boom := errors.New("backend unreachable")
	_, err := FetchOrLoad(ctx, c, string(TypeRole), func(ctx context.Context) ([]Item, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("loader failure must propagate, got %v", err)
	}
	if _, ok, _ := c.Get(ctx, string(TypeRole)); ok {
		t.Fatal("a failed load must not populate the cache")
	}

	// A later successful load still works.
	items, err := FetchOrLoad(ctx, c, string(TypeRole), func(ctx context.Context) ([]Item, error) {
		return roleItems(), nil
	})
	if err != nil || len(items) != 2 {
		t.Fatalf("recovery fetch: items=%d err=%v", len(items), err)
	}
}

func TestLastCompletedLoadWins(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(DefaultTTL)

	// Two independent loads for the same key complete out of order; the
	// cache holds whichever result landed last.
	_ = c.Put(ctx, string(TypeRole), roleItems())
	_ = c.Put(ctx, string(TypeRole), roleItems()[:1])

	got, ok, _ := c.Get(ctx, string(TypeRole))
	if !ok || len(got) != 1 {
		t.Fatalf("expected the last completed put to win, got %d items", len(got))
	}
}
