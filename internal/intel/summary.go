package intel

import "sort"

// DistrictSummary aggregates SOS activity for one district.
type DistrictSummary struct {
	District          string       `json:"district"`
	ReportCount       int          `json:"reportCount"`
	PeopleSum         int          `json:"peopleSum"`
	CountByTier       map[Tier]int `json:"countByTier"`
	NeedsFoodCount    int          `json:"needsFoodCount"`
	NeedsWaterCount   int          `json:"needsWaterCount"`
	ForecastRain24hMm float64      `json:"forecastRain24hMm"`
}

// Summarize builds one DistrictSummary per district present in reports.
func Summarize(reports []PriorityReport) []DistrictSummary {
	byDistrict := make(map[string]*DistrictSummary)
	var order []string

	for _, r := range reports {
		d := r.Report.District
		s, ok := byDistrict[d]
		if !ok {
			s = &DistrictSummary{District: d, CountByTier: make(map[Tier]int), ForecastRain24hMm: r.ForecastRain24hMm}
			byDistrict[d] = s
			order = append(order, d)
		}
		s.ReportCount++
		s.PeopleSum += r.Report.PeopleCount
		s.CountByTier[r.UrgencyTier]++
		if r.Report.NeedsFood {
			s.NeedsFoodCount++
		}
		if r.Report.NeedsWater {
			s.NeedsWaterCount++
		}
	}

	sort.Strings(order)
	out := make([]DistrictSummary, 0, len(order))
	for _, d := range order {
		out = append(out, *byDistrict[d])
	}
	// most-affected first, by report count descending.
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReportCount > out[j].ReportCount })
	return out
}
