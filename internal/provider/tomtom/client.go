// Package tomtom implements the second TrafficFlow upstream client against
// the TomTom Traffic Flow Segment Data API, grounded on the same
// ClientConfig/resilience.Client shape as internal/provider/here.
package tomtom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaaaru/floodwatch/internal/fetcher/traffic"
	"github.com/thaaaru/floodwatch/internal/provider/resilience"
)

const (
	ProviderName   = "tomtom"
	DefaultBaseURL = "https://api.tomtom.com/traffic/services/4/flowSegmentData/absolute/10/json"
)

// ClientConfig holds configuration for the TomTom flow client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	Points     []SegmentPoint
	HTTPClient *resilience.Client
	Logger     zerolog.Logger
}

// SegmentPoint names a road segment probed by point coordinate, since
// TomTom's flow endpoint is queried per-point rather than per-region.
type SegmentPoint struct {
	Name     string
	Lat, Lon float64
}

// Client implements traffic.FlowClient.
type Client struct {
	apiKey     string
	baseURL    string
	points     []SegmentPoint
	httpClient *resilience.Client
	logger     zerolog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.TwoAttemptFetchConfig(ProviderName, 30*time.Second))
	}
	return &Client{apiKey: cfg.APIKey, baseURL: baseURL, points: cfg.Points, httpClient: httpClient, logger: cfg.Logger}
}

func (c *Client) Name() string { return ProviderName }

type flowSegmentResponse struct {
	FlowSegmentData struct {
		CurrentSpeed  float64 `json:"currentSpeed"`
		FreeFlowSpeed float64 `json:"freeFlowSpeed"`
		Coordinates   struct {
			Coordinate []struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"coordinate"`
		} `json:"coordinates"`
	} `json:"flowSegmentData"`
}

// FetchFlow implements traffic.FlowClient, probing one segment per
// configured point and assembling the results into a single snapshot.
func (c *Client) FetchFlow(ctx context.Context) ([]traffic.SegmentFlow, error) {
	out := make([]traffic.SegmentFlow, 0, len(c.points))
	var lastErr error
	for _, p := range c.points {
		seg, err := c.fetchSegment(ctx, p)
		if err != nil {
			lastErr = err
			continue
		}
		out = append(out, seg)
	}
	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

func (c *Client) fetchSegment(ctx context.Context, p SegmentPoint) (traffic.SegmentFlow, error) {
	url := fmt.Sprintf("%s?point=%.6f,%.6f&key=%s", c.baseURL, p.Lat, p.Lon, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return traffic.SegmentFlow{}, fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return traffic.SegmentFlow{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return traffic.SegmentFlow{}, fmt.Errorf("tomtom: unexpected status %d", resp.StatusCode)
	}
	var fr flowSegmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return traffic.SegmentFlow{}, fmt.Errorf("decoding response: %w", err)
	}
	lat, lon := p.Lat, p.Lon
	if len(fr.FlowSegmentData.Coordinates.Coordinate) > 0 {
		c0 := fr.FlowSegmentData.Coordinates.Coordinate[0]
		lat, lon = c0.Latitude, c0.Longitude
	}
	return traffic.SegmentFlow{
		SegmentID: p.Name, RoadName: p.Name, Lat: lat, Lon: lon,
		CurrentSpeedKmh: fr.FlowSegmentData.CurrentSpeed, FreeFlowSpeedKmh: fr.FlowSegmentData.FreeFlowSpeed,
	}, nil
}
