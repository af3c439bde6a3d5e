// Package irrigation implements the Irrigation Department river-gauge
// upstream client, grounded on original_source's irrigation_fetcher and the
// ClientConfig/resilience.Client shape from internal/provider/weatherapi.
package irrigation

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
	ProviderName   = "irrigation"
	DefaultBaseURL = "https://api.irrigation.gov.in/v1/gauges"
)

// ClientConfig holds configuration for the Irrigation Department client.
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

type gaugeResponse struct {
	Gauges []struct {
		Station     string   `json:"station"`
		River       string   `json:"river"`
		Districts   []string `json:"districts"`
		WaterLevelM float64  `json:"waterLevelM"`
		AlertM      *float64 `json:"alertLevelM"`
		MinorFloodM *float64 `json:"minorFloodLevelM"`
		MajorFloodM *float64 `json:"majorFloodLevelM"`
	} `json:"gauges"`
}

// FetchStations implements river.Client.
func (c *Client) FetchStations(ctx context.Context) ([]river.Station, error) {
	url := fmt.Sprintf("%s?key=%s", c.baseURL, c.apiKey)
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
		return nil, fmt.Errorf("irrigation: unexpected status %d", resp.StatusCode)
	}
	var gr gaugeResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	out := make([]river.Station, 0, len(gr.Gauges))
	for _, g := range gr.Gauges {
		out = append(out, river.Station{
			Station: g.Station, River: g.River, Districts: g.Districts,
			WaterLevelM: g.WaterLevelM, AlertM: g.AlertM, MinorFloodM: g.MinorFloodM, MajorFloodM: g.MajorFloodM,
		})
	}
	return out, nil
}
