// Package environmental implements the Environmental Indicators source
// fetcher: per-country yearly series, TTL 1 week.
package environmental

import (
	"context"
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher"
)

// YearlyIndicator is one year's environmental indicator value for a country.
type YearlyIndicator struct {
	Year            int     `json:"year"`
	ForestCoverPct  float64 `json:"forestCoverPct"`
	CO2EmissionsMt  float64 `json:"co2EmissionsMt"`
	RainfallIndexMm float64 `json:"rainfallIndexMm"`
}

// Client issues the per-country yearly-series lookup.
type Client interface {
	FetchSeries(ctx context.Context, countryCode string) ([]YearlyIndicator, error)
}

// Snapshot is the cached yearly series for one country.
type Snapshot struct {
	CountryCode string            `json:"countryCode"`
	Series      []YearlyIndicator `json:"series"`
	FetchedAt   time.Time         `json:"fetchedAt"`
}

// Fetcher is the Environmental Indicators source.
type Fetcher struct {
	fetcher.Base[Snapshot]
}

func NewFetcher(countryCode string, client Client, ttl time.Duration) *Fetcher {
	c := cache.New("environmental_"+countryCode, ttl, func(ctx context.Context) (Snapshot, error) {
		series, err := client.FetchSeries(ctx, countryCode)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{CountryCode: countryCode, Series: series, FetchedAt: time.Now()}, nil
	})
	return &Fetcher{Base: fetcher.NewBase("environmental_"+countryCode, c)}
}
