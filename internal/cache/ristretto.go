package cache

import (
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/maxmielchen/variadb/internal/value"
)

// envelope is what RistrettoCache actually stores per key. Ristretto has
// native TTL support but no concept of time-to-idle, so lastAccess is
// maintained by hand and checked on every Get: an entry idle longer than the
// configured tti is treated as a miss and evicted, exactly as if it had
// expired on its own.
type envelope struct {
	value      value.Value
	absent     bool
	lastAccess atomic.Int64
}

// RistrettoCacheConfig bounds the cache by total weight and by the two
// expiry policies the spec calls for.
type RistrettoCacheConfig struct {
	// MaxCost is the total weight budget, in the same units as the weigher
	// below: len(key) + a shallow estimate of the value's size.
	MaxCost int64
	// TTL is the fixed lifetime of an entry from the moment it is inserted,
	// regardless of access. Zero disables TTL expiry.
	TTL time.Duration
	// TTI is the maximum time an entry may go unread before it is treated
	// as expired. Zero disables TTI expiry.
	TTI time.Duration
}

// RistrettoCache is the production Cache, wrapping
// github.com/dgraph-io/ristretto/v2 with a manual idle-time envelope.
type RistrettoCache struct {
	rc  *ristretto.Cache[string, *envelope]
	ttl time.Duration
	tti time.Duration
}

// NewRistrettoCache builds a RistrettoCache from cfg. NumCounters and
// BufferItems follow ristretto's own sizing guidance (10x MaxCost for the
// admission-policy counters, 64 for the write buffer).
func NewRistrettoCache(cfg RistrettoCacheConfig) (*RistrettoCache, error) {
	numCounters := cfg.MaxCost * 10
	if numCounters < 1000 {
		numCounters = 1000
	}
	rc, err := ristretto.NewCache(&ristretto.Config[string, *envelope]{
		NumCounters: numCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &RistrettoCache{rc: rc, ttl: cfg.TTL, tti: cfg.TTI}, nil
}

// weigher estimates the weight of one cache entry as the byte length of its
// key plus a shallow (non-recursive) estimate of the value's footprint:
// scalar payload size for Text/Number/Boolean, and just the header cost of
// the backing slice for Array/Map, never the size of nested elements.
func weigher(key string, v value.Value) int64 {
	return int64(len(key)) + shallowSize(v)
}

func shallowSize(v value.Value) int64 {
	switch v.Kind {
	case value.KindText:
		return int64(len(v.Text))
	case value.KindNumber:
		return 16 // Int128 is two fixed-width machine words
	case value.KindBoolean:
		return int64(unsafe.Sizeof(v.Boolean))
	case value.KindArray:
		return int64(len(v.Array)) * int64(unsafe.Sizeof(value.Value{}))
	case value.KindMap:
		return int64(len(v.Map)) * int64(unsafe.Sizeof(value.MapEntry{}))
	default:
		return int64(unsafe.Sizeof(v))
	}
}

func (c *RistrettoCache) Get(key string) (Entry, bool) {
	env, ok := c.rc.Get(key)
	if !ok {
		return Entry{}, false
	}
	if c.tti > 0 {
		last := time.Unix(0, env.lastAccess.Load())
		if time.Since(last) > c.tti {
			c.rc.Del(key)
			return Entry{}, false
		}
	}
	env.lastAccess.Store(time.Now().UnixNano())
	return Entry{Value: env.value, Absent: env.absent}, true
}

func (c *RistrettoCache) Insert(key string, v value.Value) {
	env := &envelope{value: v}
	env.lastAccess.Store(time.Now().UnixNano())
	cost := weigher(key, v)
	if c.ttl > 0 {
		c.rc.SetWithTTL(key, env, cost, c.ttl)
	} else {
		c.rc.Set(key, env, cost)
	}
}

// InsertAbsent caches the fact that key was looked up on disk and found not
// to exist, so a repeated lookup of a missing key doesn't fall through to
// disk every time. Weighed as just the key, since there is no value payload.
func (c *RistrettoCache) InsertAbsent(key string) {
	env := &envelope{absent: true}
	env.lastAccess.Store(time.Now().UnixNano())
	cost := int64(len(key))
	if c.ttl > 0 {
		c.rc.SetWithTTL(key, env, cost, c.ttl)
	} else {
		c.rc.Set(key, env, cost)
	}
}

func (c *RistrettoCache) Invalidate(key string) {
	c.rc.Del(key)
}

func (c *RistrettoCache) InvalidateAll() {
	c.rc.Clear()
}

// Close releases ristretto's background goroutines. Safe to call once the
// cache is no longer in use.
func (c *RistrettoCache) Close() {
	c.rc.Close()
}
