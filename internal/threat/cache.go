package threat

import (
	"context"
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
	riverfetch "github.com/thaaaru/floodwatch/internal/fetcher/river"
	"github.com/thaaaru/floodwatch/internal/fetcher/weather"
)

// Inputs supplies the already-fetched source data the engine fuses. The
// scheduler's ThreatRefresh loop is responsible for ensuring
// these are fresh before calling Cache.Refresh.
type Inputs func(ctx context.Context) ([]weather.DistrictWeather, []riverfetch.Station, error)

// Cache is the pre-computed ThreatSnapshot holder:
// serves reads instantly, refreshed by the scheduler.
type Cache struct {
	entry *cache.CacheEntry[Snapshot]
}

// NewCache builds the threat cache. ttl matches the scheduler's threat
// refresh interval but the scheduler drives
// refreshes explicitly rather than relying on TTL expiry alone.
func NewCache(inputs Inputs, ttl time.Duration) *Cache {
	entry := cache.New("threat_snapshot", ttl, func(ctx context.Context) (Snapshot, error) {
		districts, stations, err := inputs(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		return Compute(districts, stations), nil
	})
	return &Cache{entry: entry}
}

// Refresh recomputes the snapshot now.
func (c *Cache) Refresh(ctx context.Context, force bool) error {
	return c.entry.Refresh(ctx, force)
}

// Get returns the cached snapshot. Forcing a refresh on a cold miss is the
// caller's responsibility, since only it knows the request deadline.
func (c *Cache) Get() (Snapshot, cache.State, error) {
	return c.entry.Get()
}

// Info returns the cache's metadata.
func (c *Cache) Info() cache.Info {
	return c.entry.Info()
}
