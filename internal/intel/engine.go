package intel

import (
	"context"
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher/sos"
	"github.com/thaaaru/floodwatch/internal/fetcher/weather"
)

// Snapshot is the full output of one intelligence analysis pass:
// priority-ranked reports, geographic clusters, per-district rollups, and the
// recommended-actions list.
type Snapshot struct {
	Reports    []PriorityReport  `json:"reports"`
	Clusters   []Cluster         `json:"clusters"`
	Districts  []DistrictSummary `json:"districts"`
	Actions    []Action          `json:"actions"`
	AnalyzedAt time.Time         `json:"analyzedAt"`
}

// Inputs supplies the already-fetched source data one analysis pass fuses.
// The scheduler's IntelRefresh loop ensures SOS reports and
// district forecast rainfall are recent before calling Cache.Refresh.
type Inputs func(ctx context.Context) (sos.Snapshot, []weather.DistrictWeather, error)

// Analyze runs the full pipeline: urgency scoring, then clustering, district
// aggregation, and action derivation over the scored reports.
func Analyze(reports []sos.Report, byDistrict map[string]weather.DistrictWeather) Snapshot {
	priority := make([]PriorityReport, 0, len(reports))
	for _, r := range reports {
		forecast24h := 0.0
		if dw, ok := byDistrict[r.District]; ok {
			forecast24h = dw.ForecastRain.H24Mm
		}
		score := UrgencyScore(r, forecast24h)
		priority = append(priority, PriorityReport{
			Report:            r,
			UrgencyScore:      score,
			UrgencyTier:       TierForScore(score),
			ForecastRain24hMm: forecast24h,
		})
	}

	clusters := ClusterReports(priority, func(p PriorityReport) string { return p.Report.ID })
	districts := Summarize(priority)
	actions := BuildActions(priority, clusters, districts)

	return Snapshot{
		Reports:   priority,
		Clusters:  clusters,
		Districts: districts,
		Actions:   actions,
	}
}

// Cache is the pre-computed intelligence Snapshot holder, refreshed by the
// scheduler's IntelRefresh loop.
type Cache struct {
	entry *cache.CacheEntry[Snapshot]
}

// NewCache builds the intelligence cache. The server passes the scheduler's
// intel interval as ttl; the scheduler drives refreshes explicitly.
func NewCache(inputs Inputs, ttl time.Duration) *Cache {
	entry := cache.New("intel_snapshot", ttl, func(ctx context.Context) (Snapshot, error) {
		sosSnap, weatherDistricts, err := inputs(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		byDistrict := make(map[string]weather.DistrictWeather, len(weatherDistricts))
		for _, d := range weatherDistricts {
			byDistrict[d.District] = d
		}
		snap := Analyze(sosSnap.Reports, byDistrict)
		snap.AnalyzedAt = time.Now()
		return snap, nil
	})
	return &Cache{entry: entry}
}

// Refresh recomputes the snapshot now.
func (c *Cache) Refresh(ctx context.Context, force bool) error {
	return c.entry.Refresh(ctx, force)
}

// Get returns the cached snapshot.
func (c *Cache) Get() (Snapshot, cache.State, error) {
	return c.entry.Get()
}

// Info returns the cache's metadata.
func (c *Cache) Info() cache.Info {
	return c.entry.Info()
}
