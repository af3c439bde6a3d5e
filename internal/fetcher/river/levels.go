// Package river implements the Irrigation and Navy river-level source
// fetchers, grounded on original_source's irrigation_fetcher
// pct-to-threshold computation reused by the Composite Threat Engine.
package river

import (
	"context"
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher"
)

// Station is a normalised river gauge reading with flood-threshold
// percentages, the exact shape the threat engine consumes.
type Station struct {
	Station         string   `json:"station"`
	River           string   `json:"river"`
	Districts       []string `json:"districts"`
	WaterLevelM     float64  `json:"waterLevelM"`
	AlertM          *float64 `json:"alertM,omitempty"`
	MinorFloodM     *float64 `json:"minorFloodM,omitempty"`
	MajorFloodM     *float64 `json:"majorFloodM,omitempty"`
	PctToAlert      float64  `json:"pctToAlert"`
	PctToMinorFlood float64  `json:"pctToMinorFlood"`
	PctToMajorFlood float64  `json:"pctToMajorFlood"`
	Status          string   `json:"status"`
}

// pctTo computes (level/threshold)*100 - 100, defaulting to 100 ("far from
// threshold") when the threshold is unknown, matching
// original_source/river_provider.py's default=100 behaviour for missing
// threshold fields.
func pctTo(level float64, threshold *float64) float64 {
	if threshold == nil || *threshold == 0 {
		return 100
	}
	return (level/(*threshold))*100 - 100
}

func deriveStatus(pctMajor, pctMinor, pctAlert float64) string {
	switch {
	case pctMajor < 0:
		return "majorFlood"
	case pctMinor < 0:
		return "minorFlood"
	case pctAlert < 0:
		return "alert"
	default:
		return "normal"
	}
}

// Normalize fills PctTo* and Status from the raw level + thresholds.
func Normalize(s Station) Station {
	s.PctToAlert = pctTo(s.WaterLevelM, s.AlertM)
	s.PctToMinorFlood = pctTo(s.WaterLevelM, s.MinorFloodM)
	s.PctToMajorFlood = pctTo(s.WaterLevelM, s.MajorFloodM)
	s.Status = deriveStatus(s.PctToMajorFlood, s.PctToMinorFlood, s.PctToAlert)
	return s
}

// Client issues the station-list lookup for one river-level upstream.
type Client interface {
	FetchStations(ctx context.Context) ([]Station, error)
}

// Summary rolls up station counts by status across the monitored network.
type Summary struct {
	MajorFloodCount    int    `json:"majorFloodCount"`
	MinorFloodCount    int    `json:"minorFloodCount"`
	AlertCount         int    `json:"alertCount"`
	HighestRiskStation string `json:"highestRiskStation,omitempty"`
}

// Snapshot is one refresh cycle's station list plus rollup.
type Snapshot struct {
	Stations  []Station `json:"stations"`
	Summary   Summary   `json:"summary"`
	FetchedAt time.Time `json:"fetchedAt"`
}

func summarize(stations []Station) Summary {
	var s Summary
	var highestRiskScore float64 = -1
	for _, st := range stations {
		switch st.Status {
		case "majorFlood":
			s.MajorFloodCount++
		case "minorFlood":
			s.MinorFloodCount++
		case "alert":
			s.AlertCount++
		}
		// "highest risk" ranks by how far under (most negative) the
		// nearest-tripped threshold the station sits, i.e. the most
		// negative pct value wins.
		candidate := -st.PctToAlert
		if st.PctToMajorFlood < 0 {
			candidate = -st.PctToMajorFlood + 200
		} else if st.PctToMinorFlood < 0 {
			candidate = -st.PctToMinorFlood + 100
		}
		if candidate > highestRiskScore {
			highestRiskScore = candidate
			s.HighestRiskStation = st.Station
		}
	}
	return s
}

// Fetcher is the Irrigation or Navy river-level source: TTL 5
// min. Two instances are constructed in cmd/server/main.go, one per
// upstream.
type Fetcher struct {
	fetcher.Base[Snapshot]
}

func NewFetcher(name string, client Client, ttl time.Duration) *Fetcher {
	c := cache.New(name, ttl, func(ctx context.Context) (Snapshot, error) {
		raw, err := client.FetchStations(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		normalized := make([]Station, len(raw))
		for i, s := range raw {
			normalized[i] = Normalize(s)
		}
		return Snapshot{Stations: normalized, Summary: summarize(normalized), FetchedAt: time.Now()}, nil
	})
	return &Fetcher{Base: fetcher.NewBase(name, c)}
}
