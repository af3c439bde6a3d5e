// Package fetcher defines the uniform shape every source fetcher implements:
// refresh/get/ttl/lastUpdated/isFresh, each fetcher owning one
// cache.CacheEntry.
package fetcher

import (
	"context"
	"errors"
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
)

// ErrUnknownSource is returned by a fetcher registry lookup (e.g. the
// scheduler's manual refresh(source) hook) when source names no fetcher.
var ErrUnknownSource = errors.New("fetcher: unknown source")

// Fetcher is the minimal uniform interface the scheduler drives: every
// single-snapshot fetcher in internal/fetcher/* owns one cache.CacheEntry[V]
// and so trivially implements this against its own value type via the Base
// helper below. The climate fetcher, which keeps one cache per
// (district, year range) key, does not implement it.
type Fetcher interface {
	Name() string
	Refresh(ctx context.Context, force bool) error
	TTL() time.Duration
	LastUpdated() time.Time
	IsFresh() bool
	Info() cache.Info
	// Snapshot returns the fetcher's cached value type-erased to any, for the
	// Query API's generic per-source read surface: sources whose
	// data shape has no dedicated endpoint (marine, traffic, environmental)
	// are still readable through GET /v1/sources/{name}.
	Snapshot() (any, cache.State, error)
}

// Base wraps a cache.CacheEntry[V] to satisfy Fetcher, shared by every
// concrete fetcher so they only need to supply name + the cache.
type Base[V any] struct {
	name  string
	cache *cache.CacheEntry[V]
}

// NewBase constructs a Base fetcher around an existing cache.
func NewBase[V any](name string, c *cache.CacheEntry[V]) Base[V] {
	return Base[V]{name: name, cache: c}
}

func (b Base[V]) Name() string { return b.name }

func (b Base[V]) Refresh(ctx context.Context, force bool) error {
	return b.cache.Refresh(ctx, force)
}

func (b Base[V]) TTL() time.Duration { return b.cache.TTL() }

func (b Base[V]) LastUpdated() time.Time { return b.cache.LastUpdated() }

func (b Base[V]) IsFresh() bool { return b.cache.IsFresh() }

func (b Base[V]) Info() cache.Info { return b.cache.Info() }

// Get returns the fetcher's cached value.
func (b Base[V]) Get() (V, cache.State, error) {
	return b.cache.Get()
}

// Snapshot returns the fetcher's cached value type-erased to any.
func (b Base[V]) Snapshot() (any, cache.State, error) {
	v, state, err := b.cache.Get()
	return v, state, err
}

// Cache exposes the underlying cache for callers that need
// SnapshotToDisk/LoadFromDisk/SetFreeze.
func (b Base[V]) Cache() *cache.CacheEntry[V] { return b.cache }
