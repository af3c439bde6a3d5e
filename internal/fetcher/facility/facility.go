// Package facility implements the OSM Facilities source fetcher:
// hospitals, police, fire, shelters. TTL 24h, with a Haversine
// nearby-search helper.
package facility

import (
	"context"
	"sort"
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher"
	"github.com/thaaaru/floodwatch/internal/geo"
)

// Kind is the facility category.
type Kind string

const (
	KindHospital Kind = "hospital"
	KindPolice   Kind = "police"
	KindFire     Kind = "fire"
	KindShelter  Kind = "shelter"
)

// Facility is a normalised point-of-interest.
type Facility struct {
	Kind Kind              `json:"kind"`
	Name string            `json:"name"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags,omitempty"`
}

// Client issues the bulk OSM Overpass-style facility lookup.
type Client interface {
	FetchFacilities(ctx context.Context) ([]Facility, error)
}

// Snapshot is one refresh cycle's facility list.
type Snapshot struct {
	Facilities []Facility `json:"facilities"`
	FetchedAt  time.Time  `json:"fetchedAt"`
}

// Fetcher is the OSM Facilities source.
type Fetcher struct {
	fetcher.Base[Snapshot]
}

func NewFetcher(client Client, ttl time.Duration) *Fetcher {
	c := cache.New("osm_facilities", ttl, func(ctx context.Context) (Snapshot, error) {
		facilities, err := client.FetchFacilities(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Facilities: facilities, FetchedAt: time.Now()}, nil
	})
	return &Fetcher{Base: fetcher.NewBase("osm_facilities", c)}
}

// ranked is a facility plus its distance from a query point, used while
// sorting FindNearby's result.
type ranked struct {
	Facility Facility
	DistKm   float64
}

// FindNearby returns, per kind, the nearest facilities within radiusKm of
// (lat, lon), each list capped at limitPerType.
func (f *Fetcher) FindNearby(lat, lon, radiusKm float64, limitPerType int) (map[Kind][]Facility, error) {
	snap, _, err := f.Get()
	if err != nil {
		return nil, err
	}

	byKind := make(map[Kind][]ranked)
	for _, fac := range snap.Facilities {
		d := geo.HaversineKm(lat, lon, fac.Lat, fac.Lon)
		if d > radiusKm {
			continue
		}
		byKind[fac.Kind] = append(byKind[fac.Kind], ranked{Facility: fac, DistKm: d})
	}

	out := make(map[Kind][]Facility, len(byKind))
	for kind, list := range byKind {
		sort.Slice(list, func(i, j int) bool { return list[i].DistKm < list[j].DistKm })
		if len(list) > limitPerType {
			list = list[:limitPerType]
		}
		facs := make([]Facility, len(list))
		for i, r := range list {
			facs[i] = r.Facility
		}
		out[kind] = facs
	}
	return out, nil
}

// NearestHospital returns the single closest hospital to (lat, lon), if any.
func (f *Fetcher) NearestHospital(lat, lon float64) (Facility, bool, error) {
	nearby, err := f.FindNearby(lat, lon, 1e9, 1)
	if err != nil {
		return Facility{}, false, err
	}
	hospitals := nearby[KindHospital]
	if len(hospitals) == 0 {
		return Facility{}, false, nil
	}
	return hospitals[0], true, nil
}

// Summary is a count of facilities by kind.
type Summary map[Kind]int

// GetSummary returns counts by kind over the full cached facility set.
func (f *Fetcher) GetSummary() (Summary, error) {
	snap, _, err := f.Get()
	if err != nil {
		return nil, err
	}
	summary := make(Summary)
	for _, fac := range snap.Facilities {
		summary[fac.Kind]++
	}
	return summary, nil
}
