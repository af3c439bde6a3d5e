package weather

import "context"

// Provider is the upstream weather capability the ObservationFetcher
// consumes. A region's WeatherObservation fetcher is constructed with a
// primary and an optional secondary Provider.
type Provider interface {
	Name() string
	FetchDistrict(ctx context.Context, district string, lat, lon float64) (DistrictWeather, error)
}
