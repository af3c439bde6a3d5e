package weather

import (
	"context"
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher"
)

// AlertSeverity is the CAP-style severity band for a per-location weather
// alert.
type AlertSeverity string

const (
	SeverityExtreme  AlertSeverity = "Extreme"
	SeveritySevere   AlertSeverity = "Severe"
	SeverityModerate AlertSeverity = "Moderate"
	SeverityMinor    AlertSeverity = "Minor"
	SeverityUnknown  AlertSeverity = "unknown"
)

// Alert is one government/provider weather alert for a location.
type Alert struct {
	ID          string        `json:"id"`
	District    string        `json:"district"`
	Headline    string        `json:"headline"`
	Description string        `json:"description"`
	Severity    AlertSeverity `json:"severity"`
	Effective   time.Time     `json:"effective"`
	Expires     time.Time     `json:"expires"`
}

// AlertsClient issues the per-location alert lookup.
type AlertsClient interface {
	FetchAlerts(ctx context.Context, lat, lon float64) ([]Alert, error)
}

// AlertsSnapshot is one refresh cycle's alert list.
type AlertsSnapshot struct {
	Alerts    []Alert   `json:"alerts"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// AlertsFetcher is the WeatherAlerts source: TTL 15 min.
type AlertsFetcher struct {
	fetcher.Base[AlertsSnapshot]
}

// NewAlertsFetcher builds the fetcher for a fixed set of monitored points.
func NewAlertsFetcher(client AlertsClient, points []struct{ Lat, Lon float64 }, ttl time.Duration) *AlertsFetcher {
	c := cache.New("weather_alerts", ttl, func(ctx context.Context) (AlertsSnapshot, error) {
		var all []Alert
		var lastErr error
		for _, p := range points {
			alerts, err := client.FetchAlerts(ctx, p.Lat, p.Lon)
			if err != nil {
				lastErr = err
				continue
			}
			all = append(all, normalizeSeverities(alerts)...)
		}
		if len(all) == 0 && lastErr != nil {
			return AlertsSnapshot{}, lastErr
		}
		return AlertsSnapshot{Alerts: all, FetchedAt: time.Now()}, nil
	})
	return &AlertsFetcher{Base: fetcher.NewBase("weather_alerts", c)}
}

// normalizeSeverities maps unrecognised upstream severity codes to the
// explicit "unknown" variant rather than silently dropping them.
func normalizeSeverities(alerts []Alert) []Alert {
	for i, a := range alerts {
		switch a.Severity {
		case SeverityExtreme, SeveritySevere, SeverityModerate, SeverityMinor:
			// already valid
		default:
			alerts[i].Severity = SeverityUnknown
		}
	}
	return alerts
}
