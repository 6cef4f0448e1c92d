package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maxmielchen/variadb/internal/cache"
	"github.com/maxmielchen/variadb/internal/value"
)

func TestMapCacheGetInsertInvalidate(t *testing.T) {
	c := cache.NewMapCache()

	_, ok := c.Get("k")
	require.False(t, ok)

	c.Insert("k", value.Text("v"))
	got, ok := c.Get("k")
	require.True(t, ok)
	require.False(t, got.Absent)
	require.True(t, value.Equal(value.Text("v"), got.Value))

	c.Invalidate("k")
	_, ok = c.Get("k")
	require.False(t, ok)
}

func TestMapCacheInvalidateAll(t *testing.T) {
	c := cache.NewMapCache()
	c.Insert("a", value.Text("1"))
	c.Insert("b", value.Text("2"))

	c.InvalidateAll()

	_, ok := c.Get("a")
	require.False(t, ok)
	_, ok = c.Get("b")
	require.False(t, ok)
}

func TestMapCacheInsertAbsent(t *testing.T) {
	c := cache.NewMapCache()

	c.InsertAbsent("missing")
	got, ok := c.Get("missing")
	require.True(t, ok)
	require.True(t, got.Absent)

	c.Insert("missing", value.Text("now present"))
	got, ok = c.Get("missing")
	require.True(t, ok)
	require.False(t, got.Absent)
	require.True(t, value.Equal(value.Text("now present"), got.Value))
}

func TestRistrettoCacheGetInsertInvalidate(t *testing.T) {
	c, err := cache.NewRistrettoCache(cache.RistrettoCacheConfig{MaxCost: 1 << 20})
	require.NoError(t, err)
	defer c.Close()

	c.Insert("k", value.Text("v"))
	require.Eventually(t, func() bool {
		got, ok := c.Get("k")
		return ok && !got.Absent && value.Equal(value.Text("v"), got.Value)
	}, time.Second, 10*time.Millisecond)

	c.Invalidate("k")
	require.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestRistrettoCacheInsertAbsent(t *testing.T) {
	c, err := cache.NewRistrettoCache(cache.RistrettoCacheConfig{MaxCost: 1 << 20})
	require.NoError(t, err)
	defer c.Close()

	c.InsertAbsent("missing")
	require.Eventually(t, func() bool {
		got, ok := c.Get("missing")
		return ok && got.Absent
	}, time.Second, 10*time.Millisecond)
}

func TestRistrettoCacheTTI(t *testing.T) {
	c, err := cache.NewRistrettoCache(cache.RistrettoCacheConfig{
		MaxCost: 1 << 20,
		TTI:     20 * time.Millisecond,
	})
	require.NoError(t, err)
	defer c.Close()

	c.Insert("k", value.Text("v"))
	require.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return ok
	}, time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)

	_, ok := c.Get("k")
	require.False(t, ok)
}
