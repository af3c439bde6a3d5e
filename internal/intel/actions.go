package intel

import "sort"

// ActionKind identifies one of the five fixed action rules.
type ActionKind string

const (
	ActionImmediateRescue     ActionKind = "IMMEDIATE_RESCUE"
	ActionMedicalResponse     ActionKind = "MEDICAL_RESPONSE"
	ActionSupplyDistribution  ActionKind = "SUPPLY_DISTRIBUTION"
	ActionClusterRescue       ActionKind = "CLUSTER_RESCUE"
	ActionWeatherAlert        ActionKind = "WEATHER_ALERT"
)

// RescueTarget is one entry in an IMMEDIATE_RESCUE or MEDICAL_RESPONSE
// action's target list.
type RescueTarget struct {
	ID          string `json:"id"`
	Location    string `json:"location"`
	PeopleCount int    `json:"peopleCount"`
	WaterLevel  string `json:"waterLevel,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// SupplyTarget is one district's supply shortfall tally.
type SupplyTarget struct {
	District    string `json:"district"`
	NeedsWater  int    `json:"needsWater"`
	NeedsFood   int    `json:"needsFood"`
	TotalPeople int    `json:"totalPeople"`
}

// ClusterTarget is one high-urgency cluster summary.
type ClusterTarget struct {
	ClusterID     string  `json:"clusterId"`
	Name          string  `json:"name"`
	ReportCount   int     `json:"reportCount"`
	TotalPeople   int     `json:"totalPeople"`
	CentroidLat   float64 `json:"centroidLat"`
	CentroidLon   float64 `json:"centroidLon"`
	CriticalCount int     `json:"criticalCount"`
}

// WeatherTarget is one district's rainfall-escalation warning.
type WeatherTarget struct {
	District           string  `json:"district"`
	ForecastRain24hMm  float64 `json:"forecastRain24hMm"`
	CurrentReportCount int     `json:"currentReportCount"`
}

// Action is one recommended response, carrying a typed target list specific
// to its Kind.
type Action struct {
	Priority    int        `json:"priority"`
	Kind        ActionKind `json:"kind"`
	Description string     `json:"description"`

	RescueTargets  []RescueTarget  `json:"rescueTargets,omitempty"`  // IMMEDIATE_RESCUE, MEDICAL_RESPONSE
	SupplyTargets  []SupplyTarget  `json:"supplyTargets,omitempty"`  // SUPPLY_DISTRIBUTION
	ClusterTargets []ClusterTarget `json:"clusterTargets,omitempty"` // CLUSTER_RESCUE
	WeatherTargets []WeatherTarget `json:"weatherTargets,omitempty"` // WEATHER_ALERT
}

const topNTargets = 10
const topNClusters = 5

// BuildActions implements a fixed, ordered rule set, grounded on
// original_source/backend/app/routers/intel.py's get_recommended_actions.
func BuildActions(reports []PriorityReport, clusters []Cluster, districts []DistrictSummary) []Action {
	var actions []Action

	if a, ok := immediateRescueAction(reports); ok {
		actions = append(actions, a)
	}
	if a, ok := medicalResponseAction(reports); ok {
		actions = append(actions, a)
	}
	if a, ok := supplyDistributionAction(districts); ok {
		actions = append(actions, a)
	}
	if a, ok := clusterRescueAction(clusters); ok {
		actions = append(actions, a)
	}
	if a, ok := weatherAlertAction(districts); ok {
		actions = append(actions, a)
	}

	for i := range actions {
		actions[i].Priority = i + 1
	}
	return actions
}

func immediateRescueAction(reports []PriorityReport) (Action, bool) {
	var critical []PriorityReport
	for _, r := range reports {
		if r.UrgencyTier == TierCritical {
			critical = append(critical, r)
		}
	}
	if len(critical) == 0 {
		return Action{}, false
	}
	targets := make([]RescueTarget, 0, min(len(critical), topNTargets))
	for _, r := range critical[:min(len(critical), topNTargets)] {
		targets = append(targets, RescueTarget{
			ID:          idOrDistrict(r),
			Location:    locationOf(r),
			PeopleCount: r.Report.PeopleCount,
			WaterLevel:  string(r.Report.WaterLevel),
			Phone:       r.Report.Phone,
		})
	}
	return Action{
		Kind:        ActionImmediateRescue,
		Description: "Deploy rescue teams to CRITICAL cases immediately",
		RescueTargets: targets,
	}, true
}

func medicalResponseAction(reports []PriorityReport) (Action, bool) {
	var medical []PriorityReport
	for _, r := range reports {
		if r.Report.HasMedicalEmergency {
			medical = append(medical, r)
		}
	}
	if len(medical) == 0 {
		return Action{}, false
	}
	targets := make([]RescueTarget, 0, min(len(medical), topNTargets))
	for _, r := range medical[:min(len(medical), topNTargets)] {
		targets = append(targets, RescueTarget{
			ID:          idOrDistrict(r),
			Location:    locationOf(r),
			PeopleCount: r.Report.PeopleCount,
			Phone:       r.Report.Phone,
		})
	}
	return Action{
		Kind:        ActionMedicalResponse,
		Description: "Dispatch medical teams to cases with medical emergencies",
		RescueTargets: targets,
	}, true
}

func supplyDistributionAction(districts []DistrictSummary) (Action, bool) {
	var needy []DistrictSummary
	for _, d := range districts {
		if d.NeedsWaterCount > 0 || d.NeedsFoodCount > 0 {
			needy = append(needy, d)
		}
	}
	if len(needy) == 0 {
		return Action{}, false
	}
	sort.SliceStable(needy, func(i, j int) bool {
		return needy[i].NeedsWaterCount+needy[i].NeedsFoodCount > needy[j].NeedsWaterCount+needy[j].NeedsFoodCount
	})
	targets := make([]SupplyTarget, 0, min(len(needy), topNClusters))
	for _, d := range needy[:min(len(needy), topNClusters)] {
		targets = append(targets, SupplyTarget{
			District:    d.District,
			NeedsWater:  d.NeedsWaterCount,
			NeedsFood:   d.NeedsFoodCount,
			TotalPeople: d.PeopleSum,
		})
	}
	return Action{
		Kind:        ActionSupplyDistribution,
		Description: "Distribute food and water supplies to districts in need",
		SupplyTargets: targets,
	}, true
}

func clusterRescueAction(clusters []Cluster) (Action, bool) {
	var high []Cluster
	for _, c := range clusters {
		if c.AvgUrgency >= 50 {
			high = append(high, c)
		}
	}
	if len(high) == 0 {
		return Action{}, false
	}
	targets := make([]ClusterTarget, 0, min(len(high), topNClusters))
	for _, c := range high[:min(len(high), topNClusters)] {
		targets = append(targets, ClusterTarget{
			ClusterID:     c.ClusterID,
			Name:          c.Name,
			ReportCount:   len(c.ReportIDs),
			TotalPeople:   c.TotalPeople,
			CentroidLat:   c.CentroidLat,
			CentroidLon:   c.CentroidLon,
			CriticalCount: c.CountByTier[TierCritical],
		})
	}
	return Action{
		Kind:        ActionClusterRescue,
		Description: "Coordinate rescue operations for high-urgency clusters",
		ClusterTargets: targets,
	}, true
}

func weatherAlertAction(districts []DistrictSummary) (Action, bool) {
	var escalating []DistrictSummary
	for _, d := range districts {
		if d.ForecastRain24hMm > 50 {
			escalating = append(escalating, d)
		}
	}
	if len(escalating) == 0 {
		return Action{}, false
	}
	targets := make([]WeatherTarget, 0, len(escalating))
	for _, d := range escalating {
		targets = append(targets, WeatherTarget{
			District:           d.District,
			ForecastRain24hMm:  d.ForecastRain24hMm,
			CurrentReportCount: d.ReportCount,
		})
	}
	return Action{
		Kind:        ActionWeatherAlert,
		Description: "Issue warnings for districts expecting heavy rain in the next 24 hours",
		WeatherTargets: targets,
	}, true
}

func idOrDistrict(r PriorityReport) string {
	if r.Report.ID != "" {
		return r.Report.ID
	}
	return r.Report.District
}

func locationOf(r PriorityReport) string {
	if r.Report.Address != "" {
		return r.Report.Address
	}
	return r.Report.District
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
