// Package traffic implements the TrafficIncidents and TrafficFlow source
// fetchers. Only the sub-region incident-splitting design is implemented — the single-bbox variant found
// alongside it in original_source/ is superseded and not carried forward.
package traffic

import (
	"context"
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher"
	"github.com/thaaaru/floodwatch/internal/region"
)

// IconCategory is the provider-supplied incident category.
type IconCategory string

const (
	IconAccident    IconCategory = "accident"
	IconFog         IconCategory = "fog"
	IconDangerous   IconCategory = "dangerous"
	IconRain        IconCategory = "rain"
	IconIce         IconCategory = "ice"
	IconJam         IconCategory = "jam"
	IconLaneClosed  IconCategory = "laneClosed"
	IconRoadClosed  IconCategory = "roadClosed"
	IconRoadworks   IconCategory = "roadworks"
	IconWind        IconCategory = "wind"
	IconFlooding    IconCategory = "flooding"
	IconBrokenDown  IconCategory = "brokenDown"
	IconUnknown     IconCategory = "unknown"
)

// knownIconCategories backs ToIconCategory's explicit-unknown mapping:
// unknown upstream codes map to an explicit unknown variant, never
// silently dropped.
var knownIconCategories = map[string]IconCategory{
	"accident": IconAccident, "fog": IconFog, "dangerous": IconDangerous,
	"rain": IconRain, "ice": IconIce, "jam": IconJam,
	"lane_closed": IconLaneClosed, "road_closed": IconRoadClosed,
	"roadworks": IconRoadworks, "wind": IconWind, "flooding": IconFlooding,
	"broken_down": IconBrokenDown,
}

// ToIconCategory maps a raw provider icon code, defaulting to IconUnknown.
func ToIconCategory(raw string) IconCategory {
	if v, ok := knownIconCategories[raw]; ok {
		return v
	}
	return IconUnknown
}

// Severity is the incident's bucketed severity.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// Incident is one normalised traffic incident.
type Incident struct {
	ID           string       `json:"id"`
	IconCategory IconCategory `json:"iconCategory"`
	Severity     Severity     `json:"severity"`
	Lat          float64      `json:"lat"`
	Lon          float64      `json:"lon"`
	Description  string       `json:"description,omitempty"`
	FromLocation string       `json:"fromLocation,omitempty"`
	ToLocation   string       `json:"toLocation,omitempty"`
	RoadName     string       `json:"roadName,omitempty"`
	DelaySec     int          `json:"delaySec"`
	LengthM      float64      `json:"lengthM"`
	StartTime    *time.Time   `json:"startTime,omitempty"`
	EndTime      *time.Time   `json:"endTime,omitempty"`
}

// SubRegion is a tile of the monitored area, each kept under the upstream's
// 10,000 km^2 query-area limit.
type SubRegion struct {
	Name   string             `json:"name"`
	Bounds region.BoundingBox `json:"bounds"`
}

// IncidentsClient issues the per-subregion incident lookup.
type IncidentsClient interface {
	FetchIncidents(ctx context.Context, bounds region.BoundingBox) ([]Incident, error)
}

// IncidentsSnapshot is one refresh cycle's deduplicated incident list.
type IncidentsSnapshot struct {
	Incidents []Incident `json:"incidents"`
	FetchedAt time.Time  `json:"fetchedAt"`
}

// IncidentsFetcher is the TrafficIncidents source: TTL 5 min.
type IncidentsFetcher struct {
	fetcher.Base[IncidentsSnapshot]
}

func NewIncidentsFetcher(subRegions []SubRegion, client IncidentsClient, ttl time.Duration) *IncidentsFetcher {
	c := cache.New("traffic_incidents", ttl, func(ctx context.Context) (IncidentsSnapshot, error) {
		seen := make(map[string]bool)
		var out []Incident
		var lastErr error
		for _, sr := range subRegions {
			incidents, err := client.FetchIncidents(ctx, sr.Bounds)
			if err != nil {
				lastErr = err
				continue
			}
			for _, inc := range incidents {
				if seen[inc.ID] {
					continue
				}
				seen[inc.ID] = true
				out = append(out, inc)
			}
		}
		if len(out) == 0 && lastErr != nil {
			return IncidentsSnapshot{}, lastErr
		}
		return IncidentsSnapshot{Incidents: out, FetchedAt: time.Now()}, nil
	})
	return &IncidentsFetcher{Base: fetcher.NewBase("traffic_incidents", c)}
}
