// Package weather implements the WeatherObservation, WeatherForecast, and
// WeatherAlerts source fetchers, following the TTL-cache idiom and
// danger-factor computation used elsewhere in this module.
package weather

import "time"

// DangerLevel buckets a district's overall weather risk.
type DangerLevel string

const (
	DangerLow      DangerLevel = "low"
	DangerModerate DangerLevel = "moderate"
	DangerHigh     DangerLevel = "high"
	DangerCritical DangerLevel = "critical"
)

// Rainfall holds accumulated rainfall over three trailing windows.
type Rainfall struct {
	H24Mm float64 `json:"h24Mm"`
	H48Mm float64 `json:"h48Mm"`
	H72Mm float64 `json:"h72Mm"`
}

// ForecastRain holds forward-looking precipitation totals.
type ForecastRain struct {
	H24Mm float64 `json:"h24Mm"`
	H48Mm float64 `json:"h48Mm"`
}

// DailyForecast is one day of a district's multi-day outlook.
type DailyForecast struct {
	Date              time.Time `json:"date"`
	TempMinC          float64   `json:"tempMinC"`
	TempMaxC          float64   `json:"tempMaxC"`
	PrecipMm          float64   `json:"precipMm"`
	PrecipProbability float64   `json:"precipProbability"`
}

// DistrictWeather is the normalised per-district observation.
type DistrictWeather struct {
	District          string        `json:"district"`
	Lat               float64       `json:"lat"`
	Lon               float64       `json:"lon"`
	TemperatureC      float64       `json:"temperatureC"`
	HumidityPct       float64       `json:"humidityPct"`
	PressureHpa       float64       `json:"pressureHpa"`
	WindSpeedKmh      float64       `json:"windSpeedKmh"`
	WindGustKmh       float64       `json:"windGustKmh"`
	WindDirDeg        float64       `json:"windDirDeg"`
	CloudCoverPct     float64       `json:"cloudCoverPct"`
	Rainfall          Rainfall      `json:"rainfall"`
	ForecastRain      ForecastRain  `json:"forecastRain"`
	PrecipProbability float64       `json:"precipProbability"`
	DangerLevel       DangerLevel   `json:"dangerLevel"`
	DangerScore       float64       `json:"dangerScore"`
	DangerFactors     []string      `json:"dangerFactors,omitempty"`
	Daily             []DailyForecast `json:"daily,omitempty"`
	FetchedAt         time.Time     `json:"fetchedAt"`
	Provider          string        `json:"provider"`
}

// Snapshot is the full set of districts produced by one refresh cycle.
type Snapshot struct {
	Districts []DistrictWeather `json:"districts"`
	FetchedAt time.Time         `json:"fetchedAt"`
}

// ByDistrict returns the district within the snapshot by name, if present.
func (s Snapshot) ByDistrict(name string) (DistrictWeather, bool) {
	for _, d := range s.Districts {
		if d.District == name {
			return d, true
		}
	}
	return DistrictWeather{}, false
}

// rainfall/wind/gust thresholds for danger scoring, recovered from original_source's weather_cache.py danger
// classification bands.
const (
	rainHeavyMm    = 100.0
	rainModerateMm = 50.0
	rainLightMm    = 25.0
	windHighKmh    = 60.0
	windModerateKmh = 40.0
	gustHighKmh    = 90.0
	gustModerateKmh = 60.0
)

// ComputeDanger derives DangerLevel, DangerScore, and DangerFactors from
// rainfall/wind/gust, following the same bucket-and-accumulate shape as the
// Composite Threat Engine's rainfall subscore applied at the
// single-observation level.
func ComputeDanger(rain Rainfall, windKmh, gustKmh float64) (DangerLevel, float64, []string) {
	var score float64
	var factors []string

	switch {
	case rain.H24Mm > rainHeavyMm:
		score += 50
		factors = append(factors, "heavy rainfall 24h")
	case rain.H24Mm > rainModerateMm:
		score += 30
		factors = append(factors, "moderate rainfall 24h")
	case rain.H24Mm > rainLightMm:
		score += 15
		factors = append(factors, "light rainfall 24h")
	}

	switch {
	case gustKmh > gustHighKmh:
		score += 30
		factors = append(factors, "high wind gusts")
	case gustKmh > gustModerateKmh:
		score += 15
		factors = append(factors, "moderate wind gusts")
	}

	switch {
	case windKmh > windHighKmh:
		score += 20
		factors = append(factors, "high sustained wind")
	case windKmh > windModerateKmh:
		score += 10
		factors = append(factors, "moderate sustained wind")
	}

	if score > 100 {
		score = 100
	}

	var level DangerLevel
	switch {
	case score >= 70:
		level = DangerCritical
	case score >= 40:
		level = DangerHigh
	case score >= 15:
		level = DangerModerate
	default:
		level = DangerLow
	}
	return level, score, factors
}
