package river

import (
	"context"

	"github.com/thaaaru/floodwatch/internal/region"
)

// FuncProvider adapts a concrete upstream client into the Provider
// interface via supplied function values. Operations left nil return
// ErrNotSupported.
type FuncProvider struct {
	id       string
	regionID string

	fetchStations       func(ctx context.Context, bounds *region.BoundingBox) ([]Station, error)
	fetchStationReading func(ctx context.Context, stationID string) (Reading, error)
	fetchHistory        func(ctx context.Context, stationID string, hours int) ([]Reading, error)
	healthCheck         func(ctx context.Context) bool
}

// NewProvider builds a FuncProvider. Any nil function falls back to the
// "not supported" / unhealthy behaviour.
func NewProvider(id, regionID string,
	fetchStations func(ctx context.Context, bounds *region.BoundingBox) ([]Station, error),
	fetchStationReading func(ctx context.Context, stationID string) (Reading, error),
	fetchHistory func(ctx context.Context, stationID string, hours int) ([]Reading, error),
	healthCheck func(ctx context.Context) bool,
) *FuncProvider {
	return &FuncProvider{
		id:                  id,
		regionID:            regionID,
		fetchStations:       fetchStations,
		fetchStationReading: fetchStationReading,
		fetchHistory:        fetchHistory,
		healthCheck:         healthCheck,
	}
}

func (p *FuncProvider) ID() string       { return p.id }
func (p *FuncProvider) RegionID() string { return p.regionID }

func (p *FuncProvider) FetchStations(ctx context.Context, bounds *region.BoundingBox) ([]Station, error) {
	if p.fetchStations == nil {
		return nil, ErrNotSupported
	}
	return p.fetchStations(ctx, bounds)
}

func (p *FuncProvider) FetchStationReading(ctx context.Context, stationID string) (Reading, error) {
	if p.fetchStationReading == nil {
		return Reading{}, ErrNotSupported
	}
	return p.fetchStationReading(ctx, stationID)
}

func (p *FuncProvider) FetchHistory(ctx context.Context, stationID string, hours int) ([]Reading, error) {
	if p.fetchHistory == nil {
		return nil, ErrNotSupported
	}
	return p.fetchHistory(ctx, stationID, hours)
}

func (p *FuncProvider) HealthCheck(ctx context.Context) bool {
	if p.healthCheck == nil {
		return false
	}
	return p.healthCheck(ctx)
}

// NewPlaceholderProvider builds a first-class provider for a region with no
// upstream integration: it stays in the registry, every fetch returns
// ErrNotSupported, and HealthCheck reports false. Grounded on
// original_source/river_provider.py's placeholder classes that log
// "Not yet implemented" and return empty/None/False for every method.
func NewPlaceholderProvider(id, regionID string) *FuncProvider {
	return NewProvider(id, regionID, nil, nil, nil, func(context.Context) bool { return false })
}
