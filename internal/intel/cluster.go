package intel

import (
	"fmt"
	"sort"

	"github.com/thaaaru/floodwatch/internal/geo"
)

// clusterThresholdKm is the single-link distance used to chain reports into
// a cluster.
const clusterThresholdKm = 2.0

// Cluster groups nearby SOS reports for rescue routing.
type Cluster struct {
	ClusterID   string         `json:"clusterId"`
	Name        string         `json:"name"`
	CentroidLat float64        `json:"centroidLat"`
	CentroidLon float64        `json:"centroidLon"`
	ReportIDs   []string       `json:"reportIds"`
	Districts   []string       `json:"districts"`
	TotalPeople int            `json:"totalPeople"`
	CountByTier map[Tier]int   `json:"countByTier"`
	AvgUrgency  float64        `json:"avgUrgency"`
}

type locatedReport struct {
	report PriorityReport
	lat    float64
	lon    float64
}

// ClusterReports groups reports with coordinates via single-link chaining
// within clusterThresholdKm: two reports are in the same cluster iff one is
// within 2km of *some* report already in that cluster. Reports are sorted by reportedAt then id
// first so clustering is deterministic regardless of upstream ordering.
func ClusterReports(reports []PriorityReport, idFn func(PriorityReport) string) []Cluster {
	located := make([]locatedReport, 0, len(reports))
	for _, r := range reports {
		if r.Report.Lat == nil || r.Report.Lon == nil {
			continue
		}
		located = append(located, locatedReport{report: r, lat: *r.Report.Lat, lon: *r.Report.Lon})
	}
	sort.Slice(located, func(i, j int) bool {
		ti, tj := located[i].report.Report.ReportedAt, located[j].report.Report.ReportedAt
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return idFn(located[i].report) < idFn(located[j].report)
	})

	n := len(located)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := geo.HaversineKm(located[i].lat, located[i].lon, located[j].lat, located[j].lon)
			if d <= clusterThresholdKm {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := find(i)
		groups[root] = append(groups[root], i)
	}

	rootOrder := make([]int, 0, len(groups))
	for root := range groups {
		rootOrder = append(rootOrder, root)
	}
	sort.Ints(rootOrder)

	clusters := make([]Cluster, 0, len(groups))
	for idx, root := range rootOrder {
		members := groups[root]
		clusters = append(clusters, buildCluster(idx, members, located, idFn))
	}
	return clusters
}

func buildCluster(idx int, members []int, located []locatedReport, idFn func(PriorityReport) string) Cluster {
	var sumLat, sumLon, sumUrgency float64
	var totalPeople int
	countByTier := make(map[Tier]int)
	districtCounts := make(map[string]int)
	var reportIDs []string

	for _, m := range members {
		r := located[m].report
		sumLat += located[m].lat
		sumLon += located[m].lon
		sumUrgency += r.UrgencyScore
		totalPeople += r.Report.PeopleCount
		countByTier[r.UrgencyTier]++
		districtCounts[r.Report.District]++
		reportIDs = append(reportIDs, idFn(r))
	}

	n := float64(len(members))
	name := mostFrequentDistrict(districtCounts)

	districts := make([]string, 0, len(districtCounts))
	for d := range districtCounts {
		districts = append(districts, d)
	}
	sort.Strings(districts)

	return Cluster{
		ClusterID:   clusterID(idx),
		Name:        name,
		CentroidLat: sumLat / n,
		CentroidLon: sumLon / n,
		ReportIDs:   reportIDs,
		Districts:   districts,
		TotalPeople: totalPeople,
		CountByTier: countByTier,
		AvgUrgency:  sumUrgency / n,
	}
}

func mostFrequentDistrict(counts map[string]int) string {
	var best string
	var bestCount int
	names := make([]string, 0, len(counts))
	for d := range counts {
		names = append(names, d)
	}
	sort.Strings(names)
	for _, d := range names {
		if counts[d] > bestCount {
			bestCount = counts[d]
			best = d
		}
	}
	return best
}

func clusterID(idx int) string {
	return fmt.Sprintf("cluster-%d", idx)
}
