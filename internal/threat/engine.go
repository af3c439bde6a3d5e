// Package threat implements the Composite Threat Engine,
// grounded field-for-field and constant-for-constant on
// original_source/backend/app/services/flood_threat_cache.py.
package threat

import (
	"fmt"
	"sort"
	"time"

	riverfetch "github.com/thaaaru/floodwatch/internal/fetcher/river"
	"github.com/thaaaru/floodwatch/internal/fetcher/weather"
)

// Level is the composite threat classification, shared by district and
// national scores.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// LevelForScore maps a 0-100 composite score to its Level. Used for both
// per-district and national scores.
func LevelForScore(score float64) Level {
	switch {
	case score >= 70:
		return LevelCritical
	case score >= 50:
		return LevelHigh
	case score >= 30:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Factor is one contributing-factor description recorded alongside a
// district's subscores.
type Factor struct {
	Factor string  `json:"factor"`
	Value  string  `json:"value"`
	Score  float64 `json:"score"`
}

// DistrictThreat is one district's fused threat assessment.
type DistrictThreat struct {
	District          string   `json:"district"`
	Score             float64  `json:"score"`
	Level             Level    `json:"level"`
	RainfallScore     float64  `json:"rainfallScore"`
	RiverScore        float64  `json:"riverScore"`
	ForecastScore     float64  `json:"forecastScore"`
	Factors           []Factor `json:"factors"`
	CurrentAlertLevel string   `json:"currentAlertLevel"`
	Lat               float64  `json:"lat"`
	Lon               float64  `json:"lon"`
}

// RiverSummary rolls up river station counts by status across the national
// dataset.
type RiverSummary struct {
	MajorFloodCount    int    `json:"majorFloodCount"`
	MinorFloodCount    int    `json:"minorFloodCount"`
	AlertCount         int    `json:"alertCount"`
	HighestRiskStation string `json:"highestRiskStation,omitempty"`
}

// Snapshot is the fused national + per-district threat assessment.
type Snapshot struct {
	NationalLevel Level            `json:"nationalLevel"`
	NationalScore float64          `json:"nationalScore"`
	PerDistrict   []DistrictThreat `json:"perDistrict"`
	TopRisk       []DistrictThreat `json:"topRisk"`
	RiverSummary  RiverSummary     `json:"riverSummary"`
	AnalyzedAt    time.Time        `json:"analyzedAt"`
}

// Compute fuses weather and river station data into a Snapshot.
// It never calls upstream directly — it only reads the already-fetched
// inputs handed to it by the scheduler's ThreatRefresh loop.
func Compute(districts []weather.DistrictWeather, stations []riverfetch.Station) Snapshot {
	byDistrictStations := groupStationsByDistrict(stations)

	threats := make([]DistrictThreat, 0, len(districts))
	for _, dw := range districts {
		threats = append(threats, computeDistrictThreat(dw, byDistrictStations[dw.District]))
	}

	sort.Slice(threats, func(i, j int) bool { return threats[i].Score > threats[j].Score })

	var nationalScore float64
	if len(threats) > 0 {
		var sum, max float64
		for _, t := range threats {
			sum += t.Score
			if t.Score > max {
				max = t.Score
			}
		}
		avg := sum / float64(len(threats))
		// National level is weighted toward max: emergencies matter more than
		// they average out.
		nationalScore = round1(avg*0.3 + max*0.7)
	}

	topN := threats
	if len(topN) > 10 {
		topN = topN[:10]
	}

	return Snapshot{
		NationalLevel: LevelForScore(nationalScore),
		NationalScore: nationalScore,
		PerDistrict:   threats,
		TopRisk:       append([]DistrictThreat{}, topN...),
		RiverSummary:  summarizeRivers(stations),
		AnalyzedAt:    time.Now(),
	}
}

func groupStationsByDistrict(stations []riverfetch.Station) map[string][]riverfetch.Station {
	out := make(map[string][]riverfetch.Station)
	for _, s := range stations {
		for _, d := range s.Districts {
			out[d] = append(out[d], s)
		}
	}
	return out
}

func computeDistrictThreat(dw weather.DistrictWeather, stations []riverfetch.Station) DistrictThreat {
	var factors []Factor

	rainfallScore, rainFactor := rainfallSubscore(dw.Rainfall)
	if rainFactor != nil {
		factors = append(factors, *rainFactor)
	}

	riverScore, riverFactors := riverSubscore(stations)
	factors = append(factors, riverFactors...)

	forecastScore, forecastFactor := forecastSubscore(dw.ForecastRain, hasForecast(dw))
	if forecastFactor != nil {
		factors = append(factors, *forecastFactor)
	}

	composite := round1(rainfallScore*0.30 + riverScore*0.40 + forecastScore*0.30)

	return DistrictThreat{
		District:          dw.District,
		Score:             composite,
		Level:             LevelForScore(composite),
		RainfallScore:     round1(rainfallScore),
		RiverScore:        round1(riverScore),
		ForecastScore:     round1(forecastScore),
		Factors:           factors,
		CurrentAlertLevel: "green",
		Lat:               dw.Lat,
		Lon:               dw.Lon,
	}
}

// hasForecast distinguishes "no forecast data present" from "forecast data
// present but low", since DistrictWeather has no
// separate presence flag: a district with a non-zero FetchedAt and no
// rainfall is still "has forecast data"; only an entirely absent
// DistrictWeather (not passed in) means no forecast. Callers that truly
// lack forecast data simply omit the district from the districts slice
// passed to Compute, in which case this function is never reached. The
// weather providers always set FetchedAt, so a district whose forecast
// window is empty still counts as having forecast data; only a
// zero-valued DistrictWeather reports false.
func hasForecast(dw weather.DistrictWeather) bool {
	return !dw.FetchedAt.IsZero()
}

// rainfallSubscore scores rainfall intensity against documented thresholds,
// constants from flood_threat_cache.py's _calculate_district_threat.
func rainfallSubscore(r weather.Rainfall) (float64, *Factor) {
	switch {
	case r.H24Mm > 100 || r.H48Mm > 150 || r.H72Mm > 200:
		return 100, &Factor{Factor: "Heavy Rainfall", Value: formatMm(r.H24Mm) + " in 24h", Score: 100}
	case r.H24Mm > 50 || r.H48Mm > 100:
		return 70, &Factor{Factor: "Moderate Rainfall", Value: formatMm(r.H24Mm) + " in 24h", Score: 70}
	case r.H24Mm > 25:
		return 40, &Factor{Factor: "Light Rainfall", Value: formatMm(r.H24Mm) + " in 24h", Score: 40}
	default:
		return 10, nil
	}
}

// riverSubscore scores river flood risk: for each river tagged with this
// district, take the max of the per-river score; 0 if no rivers.
func riverSubscore(stations []riverfetch.Station) (float64, []Factor) {
	if len(stations) == 0 {
		return 0, nil
	}
	var maxScore float64
	var factors []Factor
	for _, s := range stations {
		score, factor := riverStationScore(s)
		if factor != nil {
			factors = append(factors, *factor)
		}
		if score > maxScore {
			maxScore = score
		}
	}
	return maxScore, factors
}

func riverStationScore(s riverfetch.Station) (float64, *Factor) {
	switch {
	case s.PctToMajorFlood < 0:
		return 100, &Factor{Factor: "Major Flood Level", Value: s.Station + " flood level exceeded", Score: 100}
	case s.PctToMinorFlood < 0:
		return 85, &Factor{Factor: "Minor Flood Level", Value: s.Station + " flood level exceeded", Score: 85}
	case s.PctToAlert < 0:
		return 60, &Factor{Factor: "River Alert Level", Value: s.Station + " at alert level", Score: 60}
	case s.PctToAlert < 20:
		return 40, &Factor{Factor: "River Rising", Value: s.Station + " approaching alert level", Score: 40}
	default:
		return 10, nil
	}
}

// forecastSubscore scores forecast rainfall; 0 if no forecast present at
// all, distinguishing absent-forecast from low-forecast.
func forecastSubscore(fr weather.ForecastRain, present bool) (float64, *Factor) {
	if !present {
		return 0, nil
	}
	switch {
	case fr.H24Mm > 75 || fr.H48Mm > 125:
		return 100, &Factor{Factor: "Heavy Rain Forecast", Value: formatMm(fr.H24Mm) + " expected in 24h", Score: 100}
	case fr.H24Mm > 50 || fr.H48Mm > 75:
		return 65, &Factor{Factor: "Moderate Rain Forecast", Value: formatMm(fr.H24Mm) + " expected in 24h", Score: 65}
	case fr.H24Mm > 25:
		return 35, &Factor{Factor: "Light Rain Forecast", Value: formatMm(fr.H24Mm) + " expected in 24h", Score: 35}
	default:
		return 5, nil
	}
}

func summarizeRivers(stations []riverfetch.Station) RiverSummary {
	var s RiverSummary
	var highest float64 = -1
	for _, st := range stations {
		switch st.Status {
		case "majorFlood":
			s.MajorFloodCount++
		case "minorFlood":
			s.MinorFloodCount++
		case "alert":
			s.AlertCount++
		}
		risk := -st.PctToAlert
		if risk > highest {
			highest = risk
			s.HighestRiskStation = st.Station
		}
	}
	return s
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func formatMm(v float64) string {
	return fmt.Sprintf("%.1fmm", v)
}
