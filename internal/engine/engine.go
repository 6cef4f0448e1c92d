// Package engine composes the disk log and cache into the single entry
// point the rest of the database talks to. It owns key validation, the
// single-writer lock around disk access, and the cache-consistency policy:
// callers never touch disklog or cache directly.
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"unicode"

	"go.uber.org/zap"

	"github.com/maxmielchen/variadb/internal/cache"
	"github.com/maxmielchen/variadb/internal/disklog"
	"github.com/maxmielchen/variadb/internal/value"
	apperrors "github.com/maxmielchen/variadb/pkg/errors"
)

// Engine is the database's single point of coordination: every operation
// validates its key, then serializes disk access behind mu while treating
// the cache as a best-effort accelerator that is never the source of truth.
type Engine struct {
	log    *zap.SugaredLogger
	closed atomic.Bool

	mu    sync.Mutex
	disk  *disklog.DiskLog
	cache cache.Cache
}

// Config holds everything New needs to assemble an Engine.
type Config struct {
	Disk   *disklog.DiskLog
	Cache  cache.Cache
	Logger *zap.SugaredLogger
}

// New wires up an Engine from already-opened dependencies. The context is
// accepted but not used: nothing here blocks.
func New(ctx context.Context, config *Config) (*Engine, error) {
	return &Engine{
		log:   config.Logger,
		disk:  config.Disk,
		cache: config.Cache,
	}, nil
}

// validateKey enforces the store's key alphabet: non-empty, every rune a
// Unicode letter or digit. Punctuation, whitespace, and symbols are
// rejected so keys are always safe to use verbatim in the HTTP path and in
// log output.
func validateKey(key string) error {
	if key == "" {
		return apperrors.NewRequiredFieldError("key")
	}
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return apperrors.NewFieldFormatError("key", key, "letters and digits only")
		}
	}
	return nil
}

func (e *Engine) checkOpen(operation string) error {
	if e.closed.Load() {
		return apperrors.NewEngineClosedError(operation)
	}
	return nil
}

// Put writes key/value and returns whatever value previously occupied key,
// or nil if it was absent. The disk write happens synchronously under mu;
// the cache is updated from a detached goroutine since it is never the
// source of truth and a stale cache entry is corrected on the next miss.
func (e *Engine) Put(ctx context.Context, key string, v value.Value) (*value.Value, error) {
	if err := e.checkOpen("put"); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	e.mu.Lock()
	prev, err := e.disk.Put(key, v)
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	go e.cache.Insert(key, v)
	return prev, nil
}

// Get returns key's current value, consulting the cache first. A cache miss
// falls back to a locked disk read, which also refreshes the cache — with a
// negative result cached just as eagerly as a positive one, so repeated
// lookups of a missing key don't all fall through to disk. An absent key
// returns (nil, nil), never an error.
func (e *Engine) Get(ctx context.Context, key string) (*value.Value, error) {
	if err := e.checkOpen("get"); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	if entry, ok := e.cache.Get(key); ok {
		if entry.Absent {
			return nil, nil
		}
		return &entry.Value, nil
	}

	e.mu.Lock()
	v, err := e.disk.Get(key)
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if v == nil {
		go e.cache.InsertAbsent(key)
		return nil, nil
	}

	go e.cache.Insert(key, *v)
	return v, nil
}

// Del removes key and returns the value that was removed, or nil if it was
// already absent — never an error either way. The cache entry is dropped
// rather than refreshed, since there is nothing left to cache.
func (e *Engine) Del(ctx context.Context, key string) (*value.Value, error) {
	if err := e.checkOpen("del"); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	e.mu.Lock()
	prev, err := e.disk.Del(key)
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	go e.cache.Invalidate(key)
	return prev, nil
}

// List returns every live key. Always goes straight to disk: the cache has
// no notion of the full keyspace, only of individual entries it happens to
// hold.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	if err := e.checkOpen("list"); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disk.List()
}

// Clear truncates the disk log under the lock, then drops every cache entry
// once the lock has been released. The cache invalidation is not covered by
// the lock, so a cache read in between can still return a cleared entry.
func (e *Engine) Clear(ctx context.Context) error {
	if err := e.checkOpen("clear"); err != nil {
		return err
	}

	e.mu.Lock()
	err := e.disk.Clear()
	e.mu.Unlock()
	if err != nil {
		return err
	}

	e.cache.InvalidateAll()
	return nil
}

// Close marks the engine unusable and closes the underlying disk log.
// Only the first call does any work; later calls return an engine-closed
// error.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return apperrors.NewEngineClosedError("close")
	}
	return e.disk.Close()
}
