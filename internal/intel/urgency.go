// Package intel implements the Intelligence Engine: urgency
// scoring, clustering, district summaries, and action recommendations.
package intel

import (
	"github.com/thaaaru/floodwatch/internal/fetcher/sos"
)

// Tier is the urgency classification for an SOS report.
type Tier string

const (
	TierLow      Tier = "LOW"
	TierMedium   Tier = "MEDIUM"
	TierHigh     Tier = "HIGH"
	TierCritical Tier = "CRITICAL"
)

// waterLevelPoints implements the urgency factor table's water-level weights.
var waterLevelPoints = map[sos.WaterLevel]float64{
	sos.WaterRoof:  40,
	sos.WaterNeck:  35,
	sos.WaterChest: 25,
	sos.WaterWaist: 15,
	sos.WaterAnkle: 5,
}

// PriorityReport pairs an SOS report with its derived urgency.
type PriorityReport struct {
	Report            sos.Report `json:"report"`
	UrgencyScore      float64    `json:"urgencyScore"`
	UrgencyTier       Tier       `json:"urgencyTier"`
	ForecastRain24hMm float64    `json:"forecastRain24hMm"`
}

// UrgencyScore sums the weighted urgency factors, capped at 100.
// forecastRain24hMm is the reporting district's forecast 24h rainfall, used
// for the weather-escalation overlay factor.
func UrgencyScore(r sos.Report, forecastRain24hMm float64) float64 {
	score := waterLevelPoints[r.WaterLevel]

	if r.HasMedicalEmergency {
		score += 15
	}
	if r.HasDisabled {
		score += 8
	}
	if r.HasElderly {
		score += 5
	}
	if r.HasChildren {
		score += 2
	}
	if r.SafeHours > 0 && r.SafeHours <= 1 {
		score += 20
	}

	people := float64(r.PeopleCount)
	if people > 10 {
		people = 10
	}
	if people > 0 {
		score += people
	}

	// The "!hasFood"/"!hasWater" urgency factors correspond to the data
	// model's NeedsFood/NeedsWater flags: a report that still needs food or
	// water raises urgency.
	if r.NeedsFood {
		score += 3
	}
	if r.NeedsWater {
		score += 5
	}

	if forecastRain24hMm > 100 {
		score += 15
	}

	if score > 100 {
		score = 100
	}
	return score
}

// TierForScore maps a 0-100 urgency score to its Tier.
func TierForScore(score float64) Tier {
	switch {
	case score >= 75:
		return TierCritical
	case score >= 50:
		return TierHigh
	case score >= 25:
		return TierMedium
	default:
		return TierLow
	}
}
