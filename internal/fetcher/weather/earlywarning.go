package weather

import (
	"context"
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher"
	"github.com/thaaaru/floodwatch/internal/region"
)

// RiskLevel is a district's early-warning risk classification.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
	RiskUnknown  RiskLevel = "unknown"
)

// DistrictWarning is one district's early-warning overview: government
// alerts plus 48h hourly and 8-day daily outlook.
type DistrictWarning struct {
	District  string          `json:"district"`
	RiskLevel RiskLevel       `json:"riskLevel"`
	GovAlerts []Alert         `json:"govAlerts,omitempty"`
	Hourly48h []HourlyPoint   `json:"hourly48h,omitempty"`
	Daily8d   []DailyForecast `json:"daily8d,omitempty"`
	Error     string          `json:"error,omitempty"` // non-empty when this district's fetch failed
}

// HourlyPoint is one hour of the 48h hourly outlook.
type HourlyPoint struct {
	Time     time.Time `json:"time"`
	PrecipMm float64   `json:"precipMm"`
	TempC    float64   `json:"tempC"`
}

// EarlyWarningSource issues the per-district early-warning lookup.
type EarlyWarningSource interface {
	FetchDistrict(ctx context.Context, district string, lat, lon float64) (DistrictWarning, error)
}

// EarlyWarningSnapshot aggregates per-district warnings into a national
// alert count and risk distribution.
type EarlyWarningSnapshot struct {
	Districts        []DistrictWarning `json:"districts"`
	AlertCount       int               `json:"alertCount"`
	RiskDistribution map[RiskLevel]int `json:"riskDistribution"`
	FetchedAt        time.Time         `json:"fetchedAt"`
}

// EarlyWarningFetcher is the EarlyWarning source: TTL 120 min.
// On any district failure, that district's entry carries an error and
// risk_level="unknown"; other districts still returned.
type EarlyWarningFetcher struct {
	fetcher.Base[EarlyWarningSnapshot]
}

func NewEarlyWarningFetcher(districts []region.District, src EarlyWarningSource, ttl time.Duration) *EarlyWarningFetcher {
	c := cache.New("early_warning", ttl, func(ctx context.Context) (EarlyWarningSnapshot, error) {
		out := make([]DistrictWarning, 0, len(districts))
		dist := make(map[RiskLevel]int)
		alertCount := 0

		for _, d := range districts {
			w, err := src.FetchDistrict(ctx, d.Name, d.Latitude, d.Longitude)
			if err != nil {
				w = DistrictWarning{District: d.Name, RiskLevel: RiskUnknown, Error: err.Error()}
			}
			alertCount += len(w.GovAlerts)
			dist[w.RiskLevel]++
			out = append(out, w)
		}

		if len(out) == 0 {
			return EarlyWarningSnapshot{}, context.DeadlineExceeded
		}
		return EarlyWarningSnapshot{
			Districts:        out,
			AlertCount:       alertCount,
			RiskDistribution: dist,
			FetchedAt:        time.Now(),
		}, nil
	})
	return &EarlyWarningFetcher{Base: fetcher.NewBase("early_warning", c)}
}
