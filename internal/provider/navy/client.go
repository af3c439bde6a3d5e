// Package navy implements the Naval Hydrographic river-gauge upstream
// client, the second of the two river.Client providers alongside
// internal/provider/irrigation.
package navy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaaaru/floodwatch/internal/fetcher/river"
	"github.com/thaaaru/floodwatch/internal/provider/resilience"
)

const (
	ProviderName   = "navy"
	DefaultBaseURL = "https://hydrology.navy.gov.in/api/stations"
)

// ClientConfig holds configuration for the Naval Hydrographic client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *resilience.Client
	Logger     zerolog.Logger
}

// Client implements river.Client.
type Client struct {
	apiKey     string
	baseURL    string
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
	return &Client{apiKey: cfg.APIKey, baseURL: baseURL, httpClient: httpClient, logger: cfg.Logger}
}

func (c *Client) Name() string { return ProviderName }

// stationsResponse mirrors the Naval Hydrographic feed's field names, which
// differ from the Irrigation Department's (e.g. "name"/"basin" rather than
// "station"/"river"), so this client maps independently rather than sharing
// irrigation's decode struct.
type stationsResponse struct {
	Stations []struct {
		Name          string   `json:"name"`
		Basin         string   `json:"basin"`
		CoveredAreas  []string `json:"coveredAreas"`
		CurrentLevelM float64  `json:"currentLevelM"`
		WarningLevelM *float64 `json:"warningLevelM"`
		DangerLevelM  *float64 `json:"dangerLevelM"`
		ExtremeLevelM *float64 `json:"extremeLevelM"`
	} `json:"stations"`
}

// FetchStations implements river.Client.
func (c *Client) FetchStations(ctx context.Context) ([]river.Station, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("navy: unexpected status %d", resp.StatusCode)
	}
	var sr stationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	out := make([]river.Station, 0, len(sr.Stations))
	for _, s := range sr.Stations {
		out = append(out, river.Station{
			Station: s.Name, River: s.Basin, Districts: s.CoveredAreas,
			WaterLevelM: s.CurrentLevelM, AlertM: s.WarningLevelM, MinorFloodM: s.DangerLevelM, MajorFloodM: s.ExtremeLevelM,
		})
	}
	return out, nil
}
