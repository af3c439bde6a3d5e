package weather

import (
	"context"
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher"
)

// ForecastFetcher is the WeatherForecast source: daily 5-8 day
// per district. It piggy-backs on the ObservationFetcher's call rather than
// issuing a second upstream request, since the upstream weather providers
// return both current conditions and the forecast in one response.
type ForecastFetcher struct {
	fetcher.Base[Snapshot]
}

// NewForecastFetcher builds a forecast fetcher whose refresh simply ensures
// the backing ObservationFetcher is fresh and republishes its snapshot,
// under its own TTL and cache identity so the Query API and scheduler can
// address it independently.
func NewForecastFetcher(obs *ObservationFetcher, ttl time.Duration) *ForecastFetcher {
	c := cache.New("weather_forecast", ttl, func(ctx context.Context) (Snapshot, error) {
		if err := obs.Refresh(ctx, false); err != nil {
			if snap, _, getErr := obs.Get(); getErr == nil {
				return snap, nil
			}
			return Snapshot{}, err
		}
		snap, _, err := obs.Get()
		return snap, err
	})
	return &ForecastFetcher{Base: fetcher.NewBase("weather_forecast", c)}
}
