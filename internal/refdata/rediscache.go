package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "refdata:"

// RedisCache is the Redis-backed Store, for deployments where multiple
// instances should share one reference-data cache. Expiry rides on Redis
// TTLs instead of stored timestamps.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics HitRecorder
}

// NewRedisCache constructs a RedisCache. A non-positive ttl falls back to
// DefaultTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// WithMetrics attaches a hit/miss recorder and returns the cache.
func (c *RedisCache) WithMetrics(m HitRecorder) *RedisCache {
	c.metrics = m
	return c
}

func redisKey(key string) string {
	return redisKeyPrefix + key
}

// Get returns the collection for key when the Redis entry is still live.
func (c *RedisCache) Get(ctx context.Context, key string) ([]Item, bool, error) {
	payload, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			if c.metrics != nil {
				c.metrics.RecordCacheMiss(key)
			}
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("refdata: redis get %s: %w", key, err)
	}
	var items []Item
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false, fmt.Errorf("refdata: decode cached %s: %w", key, err)
	}
	if c.metrics != nil {
		c.metrics.RecordCacheHit(key)
	}
	return items, true, nil
}

// Put stores the collection under key with a fresh TTL.
func (c *RedisCache) Put(ctx context.Context, key string, items []Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("refdata: encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, redisKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("refdata: redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate removes the entry for key along with the merged KeyAll entry.
func (c *RedisCache) Invalidate(ctx context.Context, key string) error {
	keys := []string{redisKey(key)}
	if key != KeyAll {
		keys = append(keys, redisKey(KeyAll))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("refdata: redis del %s: %w", key, err)
	}
	return nil
}

// Clear removes every entry. The key space is the closed type set plus
// KeyAll, so no scan is needed.
func (c *RedisCache) Clear(ctx context.Context) error {
	keys := make([]string, 0, len(Types())+1)
	for _, t := range Types() {
		keys = append(keys, redisKey(string(t)))
	}
	keys = append(keys, redisKey(KeyAll))
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("refdata: redis clear: %w", err)
	}
	return nil
}
