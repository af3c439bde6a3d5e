// Package here implements the TrafficIncidents and one of the two
// TrafficFlow upstream clients against the HERE Traffic API.
package here

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaaaru/floodwatch/internal/fetcher/traffic"
	"github.com/thaaaru/floodwatch/internal/provider/resilience"
	"github.com/thaaaru/floodwatch/internal/region"
)

const (
	ProviderName       = "here"
	DefaultIncidentURL = "https://data.traffic.hereapi.com/v7/incidents"
	DefaultFlowURL     = "https://data.traffic.hereapi.com/v7/flow"
)

// ClientConfig holds configuration for the HERE traffic client.
type ClientConfig struct {
	APIKey      string
	IncidentURL string
	FlowURL     string
	HTTPClient  *resilience.Client
	Logger      zerolog.Logger
}

// Client implements traffic.IncidentsClient and traffic.FlowClient.
type Client struct {
	apiKey      string
	incidentURL string
	flowURL     string
	httpClient  *resilience.Client
	logger      zerolog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	incidentURL := cfg.IncidentURL
	if incidentURL == "" {
		incidentURL = DefaultIncidentURL
	}
	flowURL := cfg.FlowURL
	if flowURL == "" {
		flowURL = DefaultFlowURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.TwoAttemptFetchConfig(ProviderName, 30*time.Second))
	}
	return &Client{apiKey: cfg.APIKey, incidentURL: incidentURL, flowURL: flowURL, httpClient: httpClient, logger: cfg.Logger}
}

type incidentsResponse struct {
	Results []struct {
		IncidentDetails struct {
			ID          string `json:"id"`
			Type        string `json:"type"`
			Criticality string `json:"criticality"`
			Description struct {
				Value string `json:"value"`
			} `json:"description"`
			StartTime string `json:"startTime"`
			EndTime   string `json:"endTime"`
		} `json:"incidentDetails"`
		Location struct {
			Shape struct {
				Links []struct {
					Points []struct {
						Lat float64 `json:"lat"`
						Lng float64 `json:"lng"`
					} `json:"points"`
				} `json:"links"`
			} `json:"shape"`
		} `json:"location"`
	} `json:"results"`
}

// FetchIncidents implements traffic.IncidentsClient.
func (c *Client) FetchIncidents(ctx context.Context, bounds region.BoundingBox) ([]traffic.Incident, error) {
	url := fmt.Sprintf("%s?in=bbox:%.6f,%.6f,%.6f,%.6f&apiKey=%s",
		c.incidentURL, bounds.MinLon, bounds.MinLat, bounds.MaxLon, bounds.MaxLat, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("here: unexpected status %d", resp.StatusCode)
	}
	var ir incidentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	out := make([]traffic.Incident, 0, len(ir.Results))
	for _, r := range ir.Results {
		var lat, lon float64
		if len(r.Location.Shape.Links) > 0 && len(r.Location.Shape.Links[0].Points) > 0 {
			p := r.Location.Shape.Links[0].Points[0]
			lat, lon = p.Lat, p.Lng
		}
		start, _ := time.Parse(time.RFC3339, r.IncidentDetails.StartTime)
		end, _ := time.Parse(time.RFC3339, r.IncidentDetails.EndTime)
		inc := traffic.Incident{
			ID:           r.IncidentDetails.ID,
			IconCategory: traffic.ToIconCategory(r.IncidentDetails.Type),
			Severity:     mapSeverity(r.IncidentDetails.Criticality),
			Lat:          lat, Lon: lon,
			Description: r.IncidentDetails.Description.Value,
		}
		if !start.IsZero() {
			inc.StartTime = &start
		}
		if !end.IsZero() {
			inc.EndTime = &end
		}
		out = append(out, inc)
	}
	return out, nil
}

func mapSeverity(criticality string) traffic.Severity {
	switch criticality {
	case "critical":
		return traffic.SeverityCritical
	case "major":
		return traffic.SeverityMajor
	case "minor":
		return traffic.SeverityModerate
	default:
		return traffic.SeverityMinor
	}
}

type flowResponse struct {
	Results []struct {
		Location struct {
			Shape struct {
				Links []struct {
					Points []struct {
						Lat float64 `json:"lat"`
						Lng float64 `json:"lng"`
					} `json:"points"`
				} `json:"links"`
			} `json:"shape"`
			Description string `json:"description"`
		} `json:"location"`
		CurrentFlow struct {
			Speed     float64 `json:"speed"`
			FreeFlow  float64 `json:"freeFlow"`
		} `json:"currentFlow"`
	} `json:"results"`
}

// FetchFlow implements traffic.FlowClient.
func (c *Client) FetchFlow(ctx context.Context) ([]traffic.SegmentFlow, error) {
	url := fmt.Sprintf("%s?apiKey=%s", c.flowURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("here: unexpected status %d", resp.StatusCode)
	}
	var fr flowResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	out := make([]traffic.SegmentFlow, 0, len(fr.Results))
	for i, r := range fr.Results {
		var lat, lon float64
		if len(r.Location.Shape.Links) > 0 && len(r.Location.Shape.Links[0].Points) > 0 {
			p := r.Location.Shape.Links[0].Points[0]
			lat, lon = p.Lat, p.Lng
		}
		out = append(out, traffic.SegmentFlow{
			SegmentID: fmt.Sprintf("here-%d", i), RoadName: r.Location.Description,
			Lat: lat, Lon: lon, CurrentSpeedKmh: r.CurrentFlow.Speed, FreeFlowSpeedKmh: r.CurrentFlow.FreeFlow,
		})
	}
	return out, nil
}
