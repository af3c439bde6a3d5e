// Package marine implements the Marine source fetcher: per
// coastal district wave height, swell, and derived risk level. TTL 30 min.
package marine

import (
	"context"
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher"
	"github.com/thaaaru/floodwatch/internal/region"
)

// RiskLevel is the derived marine risk classification for a district.
type RiskLevel string

const (
	RiskCalm     RiskLevel = "calm"
	RiskModerate RiskLevel = "moderate"
	RiskRough    RiskLevel = "rough"
	RiskDangerous RiskLevel = "dangerous"
)

// Observation is one coastal district's marine conditions.
type Observation struct {
	District     string    `json:"district"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	WaveHeightM  float64   `json:"waveHeightM"`
	SwellHeightM float64   `json:"swellHeightM"`
	SwellPeriodS float64   `json:"swellPeriodS"`
	Risk         RiskLevel `json:"risk"`
}

// Client issues the per-location marine conditions lookup.
type Client interface {
	FetchConditions(ctx context.Context, lat, lon float64) (Observation, error)
}

// Snapshot is one refresh cycle's set of coastal district observations.
type Snapshot struct {
	Observations []Observation `json:"observations"`
	FetchedAt    time.Time     `json:"fetchedAt"`
}

// Fetcher is the Marine source.
type Fetcher struct {
	fetcher.Base[Snapshot]
}

func NewFetcher(coastalDistricts []region.District, client Client, ttl time.Duration) *Fetcher {
	c := cache.New("marine", ttl, func(ctx context.Context) (Snapshot, error) {
		out := make([]Observation, 0, len(coastalDistricts))
		var lastErr error
		for _, d := range coastalDistricts {
			obs, err := client.FetchConditions(ctx, d.Latitude, d.Longitude)
			if err != nil {
				lastErr = err
				continue
			}
			obs.District = d.Name
			obs.Risk = deriveRisk(obs.WaveHeightM)
			out = append(out, obs)
		}
		if len(out) == 0 && lastErr != nil {
			return Snapshot{}, lastErr
		}
		return Snapshot{Observations: out, FetchedAt: time.Now()}, nil
	})
	return &Fetcher{Base: fetcher.NewBase("marine", c)}
}

func deriveRisk(waveHeightM float64) RiskLevel {
	switch {
	case waveHeightM >= 4:
		return RiskDangerous
	case waveHeightM >= 2.5:
		return RiskRough
	case waveHeightM >= 1:
		return RiskModerate
	default:
		return RiskCalm
	}
}
