package cache

import (
	"sync"

	"github.com/maxmielchen/variadb/internal/value"
)

// MapCache is a minimal, non-expiring Cache backed by a plain map and a
// RWMutex. It exists for unit tests that need a Cache collaborator without
// pulling in ristretto's eviction and TTL machinery.
type MapCache struct {
	mu sync.RWMutex
	m  map[string]Entry
}

func NewMapCache() *MapCache {
	return &MapCache{m: make(map[string]Entry)}
}

func (c *MapCache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.m[key]
	return e, ok
}

func (c *MapCache) Insert(key string, v value.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = Entry{Value: v}
}

func (c *MapCache) InsertAbsent(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = Entry{Absent: true}
}

func (c *MapCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

func (c *MapCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]Entry)
}
