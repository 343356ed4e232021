package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CX-Insight/internal/config"
	"github.com/turtacn/CX-Insight/pkg/errors"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := NewCache(client, config.RedisConfig{
		KeyPrefix:  "cxi:",
		DefaultTTL: time.Minute,
	}, nil)
	return cache, srv
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCache_SetGet(t *testing.T) {
	cache, srv := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k1", payload{Name: "x", Count: 3}))
	assert.True(t, srv.Exists("cxi:k1"))

	var got payload
	require.NoError(t, cache.Get(ctx, "k1", &got))
	assert.Equal(t, payload{Name: "x", Count: 3}, got)
}

func TestCache_MissIsNotFound(t *testing.T) {
	cache, _ := newTestCache(t)

	var got payload
	err := cache.Get(context.Background(), "absent", &got)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestCache_Delete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k1", payload{Name: "x"}))
	require.NoError(t, cache.Delete(ctx, "k1"))

	var got payload
	assert.True(t, errors.IsCode(cache.Get(ctx, "k1", &got), errors.ErrCodeNotFound))

	// Deleting an absent key is fine.
	assert.NoError(t, cache.Delete(ctx, "k1"))
}

func TestCache_GetOrLoad(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	loads := 0
	load := func(context.Context) (any, error) {
		loads++
		return payload{Name: "loaded", Count: 7}, nil
	}

	var got payload
	require.NoError(t, cache.GetOrLoad(ctx, "k1", &got, load))
	assert.Equal(t, payload{Name: "loaded", Count: 7}, got)
	assert.Equal(t, 1, loads)

	// Second read is served from cache.
	var again payload
	require.NoError(t, cache.GetOrLoad(ctx, "k1", &again, load))
	assert.Equal(t, got, again)
	assert.Equal(t, 1, loads)
}

func TestCache_GetOrLoad_PropagatesLoadError(t *testing.T) {
	cache, _ := newTestCache(t)

	var got payload
	err := cache.GetOrLoad(context.Background(), "k1", &got, func(context.Context) (any, error) {
		return nil, errors.New(errors.ErrCodeDatabaseError, "boom")
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseError))
}
