package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/CX-Insight/internal/config"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CX-Insight/pkg/errors"
)

// Cache is a JSON-serializing cache with TTLs and request coalescing. Misses
// are reported through ErrCodeNotFound so callers can distinguish "absent"
// from infrastructure failure.
type Cache struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	group   singleflight.Group
	metrics *prometheus.AppMetrics
}

// NewCache wraps a client with the configured key prefix and default TTL.
// metrics may be nil.
func NewCache(client *redis.Client, cfg config.RedisConfig, metrics *prometheus.AppMetrics) *Cache {
	return &Cache{
		client:  client,
		prefix:  cfg.KeyPrefix,
		ttl:     cfg.DefaultTTL,
		metrics: metrics,
	}
}

// Set stores value under key, JSON-encoded, with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	return c.SetTTL(ctx, key, value, c.ttl)
}

// SetTTL stores value under key with an explicit TTL. A zero TTL means no
// expiry.
func (c *Cache) SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode cache value")
	}
	if err := c.client.Set(ctx, c.prefix+key, payload, ttl).Err(); err != nil {
		c.observe("set", "error")
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to set cache key").
			WithDetail("key=" + key)
	}
	c.observe("set", "ok")
	return nil
}

// Get fetches and decodes key into dest. ErrCodeNotFound on a miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	payload, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		c.observe("get", "miss")
		return errors.New(errors.ErrCodeNotFound, "cache miss").WithDetail("key=" + key)
	}
	if err != nil {
		c.observe("get", "error")
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to get cache key").
			WithDetail("key=" + key)
	}
	c.observe("get", "hit")
	if err := json.Unmarshal(payload, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode cache value")
	}
	return nil
}

// Delete removes key; deleting an absent key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		c.observe("del", "error")
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to delete cache key").
			WithDetail("key=" + key)
	}
	c.observe("del", "ok")
	return nil
}

// GetOrLoad returns the cached value for key, or calls load to produce it and
// caches the result. Concurrent callers for the same key are coalesced into a
// single load.
func (c *Cache) GetOrLoad(ctx context.Context, key string, dest any, load func(context.Context) (any, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	} else if !errors.IsCode(err, errors.ErrCodeNotFound) {
		return err
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, key, loaded); err != nil {
			// A failed cache write must not fail the read path.
			return loaded, nil
		}
		return loaded, nil
	})
	if err != nil {
		return err
	}

	// Re-encode through JSON so dest gets the same shape a cache hit would
	// produce.
	payload, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode loaded value")
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode loaded value")
	}
	return nil
}

func (c *Cache) observe(op, outcome string) {
	if c.metrics != nil {
		c.metrics.CacheOps.WithLabelValues(op, outcome).Inc()
	}
}
