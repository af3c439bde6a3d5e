// Package climate implements the Historical Climate source fetcher: an
// archive API keyed by (district, year range), cached >= 1 week,
// persisted to disk to survive restarts.
package climate

import (
	"context"
	"fmt"
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher"
)

// YearRange is an inclusive (startYear, endYear) range.
type YearRange struct {
	StartYear int `json:"startYear"`
	EndYear   int `json:"endYear"`
}

// YearlyRecord is one year's archived climate summary for a district.
type YearlyRecord struct {
	Year            int     `json:"year"`
	TotalRainfallMm float64 `json:"totalRainfallMm"`
	FloodEvents     int     `json:"floodEvents"`
	AvgTempC        float64 `json:"avgTempC"`
}

// Client issues the archive lookup for one (district, range) key.
type Client interface {
	FetchHistory(ctx context.Context, district string, yearRange YearRange) ([]YearlyRecord, error)
}

// Series is the cached archive series for one (district, range) key.
type Series struct {
	District  string         `json:"district"`
	YearRange YearRange      `json:"yearRange"`
	Records   []YearlyRecord `json:"records"`
	FetchedAt time.Time      `json:"fetchedAt"`
}

// Fetcher holds one CacheEntry per (district, range) key, each disk-backed
// so the archive survives process restarts.
type Fetcher struct {
	client   Client
	ttl      time.Duration
	diskDir  string
	entries  map[string]*fetcher.Base[Series]
}

func NewFetcher(client Client, ttl time.Duration, diskDir string) *Fetcher {
	return &Fetcher{client: client, ttl: ttl, diskDir: diskDir, entries: make(map[string]*fetcher.Base[Series])}
}

func key(district string, yr YearRange) string {
	return fmt.Sprintf("%s_%d_%d", district, yr.StartYear, yr.EndYear)
}

// Get returns the cached series for (district, range), fetching it for the
// first time (and loading any disk snapshot) if this key has not been seen
// yet. A failed year-range fetch returns an empty series rather than being
// retried within the cycle.
func (f *Fetcher) Get(ctx context.Context, district string, yr YearRange) (Series, error) {
	k := key(district, yr)
	base, ok := f.entries[k]
	if !ok {
		c := cache.New("historical_climate_"+k, f.ttl, func(ctx context.Context) (Series, error) {
			records, err := f.client.FetchHistory(ctx, district, yr)
			if err != nil {
				return Series{District: district, YearRange: yr}, nil //nolint:nilerr // failed archive fetch returns empty series, not an error
			}
			return Series{District: district, YearRange: yr, Records: records, FetchedAt: time.Now()}, nil
		})
		if f.diskDir != "" {
			c = c.WithDiskPath(fmt.Sprintf("%s/historical_climate_%s.json", f.diskDir, k))
			_ = c.LoadFromDisk()
		}
		b := fetcher.NewBase("historical_climate_"+k, c)
		f.entries[k] = &b
		base = &b
	}
	if err := base.Refresh(ctx, false); err != nil {
		return Series{}, err
	}
	series, _, err := base.Cache().Get()
	if err == nil && f.diskDir != "" {
		_ = base.Cache().SnapshotToDisk()
	}
	return series, err
}
