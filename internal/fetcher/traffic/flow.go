package traffic

import (
	"context"
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher"
)

// CongestionLevel buckets a segment's speed ratio: free (>0.9),
// light (0.7-0.9), moderate (0.5-0.7), heavy (0.3-0.5), severe (<0.3).
type CongestionLevel string

const (
	CongestionFree     CongestionLevel = "free"
	CongestionLight    CongestionLevel = "light"
	CongestionModerate CongestionLevel = "moderate"
	CongestionHeavy    CongestionLevel = "heavy"
	CongestionSevere   CongestionLevel = "severe"
)

// DeriveCongestion buckets a speed-vs-free-flow ratio.
func DeriveCongestion(currentSpeedKmh, freeFlowSpeedKmh float64) CongestionLevel {
	if freeFlowSpeedKmh <= 0 {
		return CongestionFree
	}
	ratio := currentSpeedKmh / freeFlowSpeedKmh
	switch {
	case ratio > 0.9:
		return CongestionFree
	case ratio > 0.7:
		return CongestionLight
	case ratio > 0.5:
		return CongestionModerate
	case ratio > 0.3:
		return CongestionHeavy
	default:
		return CongestionSevere
	}
}

// SegmentFlow is one road segment's current speed reading.
type SegmentFlow struct {
	SegmentID        string          `json:"segmentId"`
	RoadName         string          `json:"roadName,omitempty"`
	Lat              float64         `json:"lat"`
	Lon              float64         `json:"lon"`
	CurrentSpeedKmh  float64         `json:"currentSpeedKmh"`
	FreeFlowSpeedKmh float64         `json:"freeFlowSpeedKmh"`
	Congestion       CongestionLevel `json:"congestion"`
}

// FlowClient issues the segment-flow lookup for one traffic-flow provider.
type FlowClient interface {
	FetchFlow(ctx context.Context) ([]SegmentFlow, error)
}

// FlowSnapshot is one refresh cycle's segment list.
type FlowSnapshot struct {
	Segments  []SegmentFlow `json:"segments"`
	FetchedAt time.Time     `json:"fetchedAt"`
}

// FlowFetcher is one of the two TrafficFlow sources: TTL 5 min.
// Two instances are constructed in cmd/server/main.go, one per provider
// (HERE, TomTom), each with its own cache identity.
type FlowFetcher struct {
	fetcher.Base[FlowSnapshot]
}

func NewFlowFetcher(name string, client FlowClient, ttl time.Duration) *FlowFetcher {
	c := cache.New(name, ttl, func(ctx context.Context) (FlowSnapshot, error) {
		segments, err := client.FetchFlow(ctx)
		if err != nil {
			return FlowSnapshot{}, err
		}
		for i := range segments {
			segments[i].Congestion = DeriveCongestion(segments[i].CurrentSpeedKmh, segments[i].FreeFlowSpeedKmh)
		}
		return FlowSnapshot{Segments: segments, FetchedAt: time.Now()}, nil
	})
	return &FlowFetcher{Base: fetcher.NewBase(name, c)}
}
