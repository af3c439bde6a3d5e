// Package region loads and serves region definitions.
package region

import "errors"

// ErrUnknownRegion is wrapped by the *UnknownRegionError that GetRegion
// returns when the id is not present in the registry. It is a caller input
// error (4xx at the API layer).
var ErrUnknownRegion = errors.New("region: unknown region")

// AlertLevel is the rainfall-threshold severity band.
type AlertLevel string

const (
	AlertGreen  AlertLevel = "green"
	AlertYellow AlertLevel = "yellow"
	AlertOrange AlertLevel = "orange"
	AlertRed    AlertLevel = "red"
)

// severityOrder is the scan order for threshold banding: the
// first band whose [min,max] contains the rainfall value wins.
var severityOrder = []AlertLevel{AlertRed, AlertOrange, AlertYellow, AlertGreen}

// RainBand is a (minMm, maxMm) rainfall threshold band for one alert level.
type RainBand struct {
	MinMm float64 `json:"minRain"`
	MaxMm float64 `json:"maxRain"`
}

func (b RainBand) contains(rainMm float64) bool {
	return rainMm >= b.MinMm && rainMm <= b.MaxMm
}

// BoundingBox is an inclusive lat/lon rectangle.
type BoundingBox struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLon float64 `json:"minLon"`
	MaxLon float64 `json:"maxLon"`
}

// Overlaps reports whether two bounding boxes intersect: two
// boxes overlap iff none of the four separating-axis conditions hold.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	return !(b.MaxLat < o.MinLat || b.MinLat > o.MaxLat || b.MaxLon < o.MinLon || b.MinLon > o.MaxLon)
}

// Contains reports whether a point lies within the box, inclusive of edges.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Center is a lat/lon point.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DataProviders lists the provider ids configured for a region, grouped by
// provider type.
type DataProviders struct {
	Weather           []string `json:"weather"`
	Rivers            []string `json:"rivers"`
	EmergencyServices []string `json:"emergencyServices"`
}

// Region is an immutable, startup-loaded administrative area definition.
type Region struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	Active           bool                  `json:"active"`
	Bounds           BoundingBox           `json:"bounds"`
	Center           Center                `json:"center"`
	TimeZone         string                `json:"timeZone"`
	Currency         string                `json:"currency"`
	Languages        []string              `json:"languages"`
	AlertThresholds  map[AlertLevel]RainBand `json:"alertThresholds"`
	DataProviders    DataProviders         `json:"dataProviders"`
	SMSGateway       string                `json:"smsGateway"`
}

// applyDefaults fills in fallbacks (UTC, USD, twilio) so a region document
// omitting these fields still loads rather than failing.
func (r *Region) applyDefaults() {
	if r.TimeZone == "" {
		r.TimeZone = "UTC"
	}
	if r.Currency == "" {
		r.Currency = "USD"
	}
	if r.SMSGateway == "" {
		r.SMSGateway = "twilio"
	}
}
