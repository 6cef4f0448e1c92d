// Package cache provides the bounded, expiring in-memory layer that sits in
// front of the disk log. It is deliberately small: one interface, two
// implementations, no knowledge of keys or values beyond what it takes to
// estimate their weight.
package cache

import "github.com/maxmielchen/variadb/internal/value"

// Entry is what Get hands back on a hit: either a cached value, or the
// recorded fact that the key was confirmed absent on disk the last time it
// was looked up.
type Entry struct {
	Value  value.Value
	Absent bool
}

// Cache is the capability the engine depends on. Kept narrow on purpose so a
// test double can stand in for the production implementation without
// dragging in ristretto or any eviction machinery.
//
// Get's second return reports whether the cache has an opinion about key at
// all; when it does, Entry.Absent distinguishes a cached value from a cached
// negative result (the read path caches "this key does not exist" just as
// eagerly as it caches a value, so repeated lookups of a missing key don't
// all fall through to disk).
type Cache interface {
	Get(key string) (Entry, bool)
	Insert(key string, v value.Value)
	InsertAbsent(key string)
	Invalidate(key string)
	InvalidateAll()
}
