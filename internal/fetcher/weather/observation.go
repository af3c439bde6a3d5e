package weather

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher"
	"github.com/thaaaru/floodwatch/internal/region"
)

// ObservationFetcher is the WeatherObservation source: one reading per
// district it is constructed with (configs/districts/srilanka.json lists
// 18 districts), primary provider with secondary fallback, TTL 60 min.
type ObservationFetcher struct {
	fetcher.Base[Snapshot]
}

// NewObservationFetcher builds the fetcher. A provider may also populate
// DistrictWeather.Daily with forecast data from the same call, which the
// ForecastFetcher reads back out.
func NewObservationFetcher(districts []region.District, primary, secondary Provider, ttl time.Duration, logger zerolog.Logger) *ObservationFetcher {
	c := cache.New("weather_observation", ttl, func(ctx context.Context) (Snapshot, error) {
		return fetchAll(ctx, districts, primary, secondary, logger)
	})
	return &ObservationFetcher{Base: fetcher.NewBase("weather_observation", c)}
}

func fetchAll(ctx context.Context, districts []region.District, primary, secondary Provider, logger zerolog.Logger) (Snapshot, error) {
	out := make([]DistrictWeather, 0, len(districts))
	var lastErr error
	for _, d := range districts {
		dw, err := primary.FetchDistrict(ctx, d.Name, d.Latitude, d.Longitude)
		if err != nil {
			logger.Warn().Str("district", d.Name).Str("provider", primary.Name()).Err(err).Msg("primary weather provider failed, trying secondary")
			if secondary != nil {
				dw, err = secondary.FetchDistrict(ctx, d.Name, d.Latitude, d.Longitude)
			}
		}
		if err != nil {
			lastErr = err
			logger.Error().Str("district", d.Name).Err(err).Msg("weather observation failed for district")
			continue
		}
		level, score, factors := ComputeDanger(dw.Rainfall, dw.WindSpeedKmh, dw.WindGustKmh)
		dw.DangerLevel, dw.DangerScore, dw.DangerFactors = level, score, factors
		out = append(out, dw)
	}
	// Partial success is still success; only a fully empty result
	// surfaces the last error so the cache retains its previous value.
	if len(out) == 0 && lastErr != nil {
		return Snapshot{}, lastErr
	}
	return Snapshot{Districts: out, FetchedAt: time.Now()}, nil
}
