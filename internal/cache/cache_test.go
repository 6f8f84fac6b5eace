package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ProductCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewProductCache(client, ttl, nil), mr
}

func TestProductCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	_, ok := c.Get(ctx, 1)
	assert.False(t, ok, "empty cache should miss")

	c.Set(ctx, &domain.Product{ID: 1, Name: "라떼", Price: 4500, Category: domain.CategoryBeverage, Stock: 30}, c.Version(ctx, 1))
	assert.True(t, mr.Exists("product:1"))

	got, ok := c.Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "라떼", got.Name)
	assert.Equal(t, int64(4500), got.Price)
	assert.Equal(t, domain.CategoryBeverage, got.Category)
}

func TestProductCache_TTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 30*time.Second)

	c.Set(ctx, &domain.Product{ID: 2, Name: "스콘"}, 0)
	mr.FastForward(31 * time.Second)

	_, ok := c.Get(ctx, 2)
	assert.False(t, ok, "entry should expire")
}

func TestProductCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	c.Set(ctx, &domain.Product{ID: 3}, 0)
	c.Set(ctx, &domain.Product{ID: 4}, 0)
	c.Invalidate(ctx, 3, 4, 5)

	assert.False(t, mr.Exists("product:3"))
	assert.False(t, mr.Exists("product:4"))
	assert.Equal(t, int64(1), c.Version(ctx, 3))
	assert.Equal(t, int64(1), c.Version(ctx, 5))
}

func TestProductCache_SetAfterInvalidateIsDropped(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	// A reader loads stock 10 from the database, then an order commits and invalidates
	// before the reader writes back.
	version := c.Version(ctx, 7)
	c.Invalidate(ctx, 7)
	c.Set(ctx, &domain.Product{ID: 7, Stock: 10}, version)

	assert.False(t, mr.Exists("product:7"), "stale product must not be cached")

	c.Set(ctx, &domain.Product{ID: 7, Stock: 8}, c.Version(ctx, 7))
	got, ok := c.Get(ctx, 7)
	require.True(t, ok)
	assert.Equal(t, 8, got.Stock)
}

func TestProductCache_VersionSurvivesEntryTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 30*time.Second)

	c.Invalidate(ctx, 8)
	mr.FastForward(31 * time.Second)
	assert.Equal(t, int64(1), c.Version(ctx, 8))
}

func TestProductCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	require.NoError(t, mr.Set("product:9", "{not json"))
	_, ok := c.Get(ctx, 9)
	assert.False(t, ok)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	_, err = Connect(context.Background(), "not-a-url")
	assert.Error(t, err)
}
