// Package river defines the uniform river-data Provider abstraction,
// grounded on original_source/backend/app/services/river_provider.py,
// and its factory, grounded on river_provider_factory.py.
package river

import (
	"context"
	"errors"
	"time"

	"github.com/thaaaru/floodwatch/internal/region"
)

// ErrNotSupported is returned by a Provider operation it does not implement;
// missing operations return "not supported" rather than failing outright.
var ErrNotSupported = errors.New("river: operation not supported by this provider")

// Status is the bucketed alert status of a river station.
type Status string

const (
	StatusNormal      Status = "normal"
	StatusAlert       Status = "alert"
	StatusRising      Status = "rising"
	StatusFalling     Status = "falling"
	StatusMinorFlood  Status = "minorFlood"
	StatusMajorFlood  Status = "majorFlood"
)

// Thresholds holds the alert/minor/major flood levels for a station, when
// known. Invariant: AlertM <= MinorFloodM <= MajorFloodM.
type Thresholds struct {
	AlertM      *float64 `json:"alertM,omitempty"`
	MinorFloodM *float64 `json:"minorFloodM,omitempty"`
	MajorFloodM *float64 `json:"majorFloodM,omitempty"`
}

// Station is a normalised river gauge station record.
type Station struct {
	StationID       string     `json:"stationId"` // "<region>_<river>_<station>"
	RiverName       string     `json:"riverName"`
	RiverCode       string     `json:"riverCode"`
	StationName     string     `json:"stationName"`
	Lat             float64    `json:"lat"`
	Lon             float64    `json:"lon"`
	CatchmentKm2    *float64   `json:"catchmentKm2,omitempty"`
	WaterLevelM     float64    `json:"waterLevelM"`
	WaterLevelPrevM float64    `json:"waterLevelPrevM"`
	Rainfall24hMm   float64    `json:"rainfall24hMm"`
	Thresholds      Thresholds `json:"thresholds"`
	Status          Status     `json:"status"`
	LastUpdated     time.Time  `json:"lastUpdated"`
	RegionID        string     `json:"regionId"`
	Districts       []string   `json:"districts"`
}

// PctToAlert returns (level/alert)*100 - 100 when the alert threshold is
// known, matching original_source's pct_to_alert computation used by the
// threat engine.
func (s Station) PctToAlert() (float64, bool) {
	return pctTo(s.WaterLevelM, s.Thresholds.AlertM)
}

// PctToMinorFlood mirrors PctToAlert for the minor-flood threshold.
func (s Station) PctToMinorFlood() (float64, bool) {
	return pctTo(s.WaterLevelM, s.Thresholds.MinorFloodM)
}

// PctToMajorFlood mirrors PctToAlert for the major-flood threshold.
func (s Station) PctToMajorFlood() (float64, bool) {
	return pctTo(s.WaterLevelM, s.Thresholds.MajorFloodM)
}

func pctTo(level float64, threshold *float64) (float64, bool) {
	if threshold == nil || *threshold == 0 {
		return 0, false
	}
	return (level/(*threshold))*100 - 100, true
}

// DeriveStatus buckets a station's status from its thresholds and current
// level. Rising/Falling is left to the fetcher that has access to the
// previous reading.
func DeriveStatus(s Station) Status {
	t := s.Thresholds
	switch {
	case t.MajorFloodM != nil && s.WaterLevelM >= *t.MajorFloodM:
		return StatusMajorFlood
	case t.MinorFloodM != nil && s.WaterLevelM >= *t.MinorFloodM:
		return StatusMinorFlood
	case t.AlertM != nil && s.WaterLevelM >= *t.AlertM:
		return StatusAlert
	default:
		return StatusNormal
	}
}

// Reading is one point in a station's append-only history stream.
type Reading struct {
	StationID   string    `json:"stationId"`
	WaterLevelM float64   `json:"waterLevelM"`
	RainfallMm  *float64  `json:"rainfallMm,omitempty"`
	Status      Status    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// Provider is the uniform capability set a river data source exposes.
// Each provider serves exactly one region.
type Provider interface {
	ID() string
	RegionID() string
	FetchStations(ctx context.Context, bounds *region.BoundingBox) ([]Station, error)
	FetchStationReading(ctx context.Context, stationID string) (Reading, error)
	FetchHistory(ctx context.Context, stationID string, hours int) ([]Reading, error)
	HealthCheck(ctx context.Context) bool
}
