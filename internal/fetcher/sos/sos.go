// Package sos implements the crowdsourced SOS report source fetcher:
// deduplicated by id, no TTL — pulled on every intelligence cycle.
package sos

import (
	"context"
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher"
)

// WaterLevel is the self-reported flood depth at the reporter's location.
type WaterLevel string

const (
	WaterAnkle WaterLevel = "ANKLE"
	WaterWaist WaterLevel = "WAIST"
	WaterChest WaterLevel = "CHEST"
	WaterNeck  WaterLevel = "NECK"
	WaterRoof  WaterLevel = "ROOF"
)

// Report is a normalised SOS/distress report.
type Report struct {
	ID                  string     `json:"id"`
	District            string     `json:"district"`
	Address             string     `json:"address,omitempty"`
	Lat                 *float64   `json:"lat,omitempty"`
	Lon                 *float64   `json:"lon,omitempty"`
	PeopleCount         int        `json:"peopleCount"`
	WaterLevel          WaterLevel `json:"waterLevel"`
	HasMedicalEmergency bool       `json:"hasMedicalEmergency"`
	HasElderly          bool       `json:"hasElderly"`
	HasDisabled         bool       `json:"hasDisabled"`
	HasChildren         bool       `json:"hasChildren"`
	NeedsFood           bool       `json:"needsFood"`
	NeedsWater          bool       `json:"needsWater"`
	SafeHours           float64    `json:"safeHours"`
	Phone               string     `json:"phone,omitempty"`
	ReportedAt          time.Time  `json:"reportedAt"`
}

// Client issues the crowdsource API lookup.
type Client interface {
	FetchReports(ctx context.Context, limit int) ([]Report, error)
}

// Snapshot is one pull's deduplicated report list.
type Snapshot struct {
	Reports   []Report  `json:"reports"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Fetcher is the SOS source. Because it has no TTL, its cache is constructed with TTL 0 so
// IsFresh() is always false past the instant of refresh, forcing the
// IntelRefresh aggregator loop to Refresh(force=true) every cycle.
type Fetcher struct {
	fetcher.Base[Snapshot]
	limit int
}

func NewFetcher(client Client, limit int) *Fetcher {
	var f *Fetcher
	c := cache.New("sos_reports", 0, func(ctx context.Context) (Snapshot, error) {
		reports, err := client.FetchReports(ctx, f.limit)
		if err != nil {
			return Snapshot{}, err
		}
		seen := make(map[string]bool, len(reports))
		deduped := reports[:0]
		for _, r := range reports {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			deduped = append(deduped, r)
		}
		return Snapshot{Reports: deduped, FetchedAt: time.Now()}, nil
	})
	f = &Fetcher{Base: fetcher.NewBase("sos_reports", c), limit: limit}
	return f
}
