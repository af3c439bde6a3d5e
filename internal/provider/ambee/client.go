// Package ambee implements the Marine source's upstream client against
// Ambee's coastal/marine weather API.
package ambee

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaaaru/floodwatch/internal/fetcher/marine"
	"github.com/thaaaru/floodwatch/internal/provider/resilience"
)

const (
	ProviderName   = "ambee"
	DefaultBaseURL = "https://api.ambeedata.com/marine/latest/by-lat-lng"
)

// ClientConfig holds configuration for the Ambee marine client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *resilience.Client
	Logger     zerolog.Logger
}

// Client implements marine.Client.
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
		httpClient = resilience.NewClient(resilience.StandardFetchConfig(ProviderName, 30*time.Second))
	}
	return &Client{apiKey: cfg.APIKey, baseURL: baseURL, httpClient: httpClient, logger: cfg.Logger}
}

type marineResponse struct {
	Data []struct {
		SwellHeight float64 `json:"swellHeight"`
		SwellPeriod float64 `json:"swellPeriod"`
		WaveHeight  float64 `json:"waveHeight"`
	} `json:"data"`
}

// FetchConditions implements marine.Client.
func (c *Client) FetchConditions(ctx context.Context, lat, lon float64) (marine.Observation, error) {
	url := fmt.Sprintf("%s?lat=%.6f&lng=%.6f", c.baseURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return marine.Observation{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return marine.Observation{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return marine.Observation{}, fmt.Errorf("ambee: unexpected status %d", resp.StatusCode)
	}
	var mr marineResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return marine.Observation{}, fmt.Errorf("decoding response: %w", err)
	}
	if len(mr.Data) == 0 {
		return marine.Observation{}, fmt.Errorf("ambee: empty response")
	}
	d := mr.Data[0]
	return marine.Observation{
		Lat: lat, Lon: lon,
		WaveHeightM: d.WaveHeight, SwellHeightM: d.SwellHeight, SwellPeriodS: d.SwellPeriod,
		Risk: deriveRisk(d.WaveHeight),
	}, nil
}

func deriveRisk(waveHeightM float64) marine.RiskLevel {
	switch {
	case waveHeightM >= 3.5:
		return marine.RiskDangerous
	case waveHeightM >= 2.0:
		return marine.RiskRough
	case waveHeightM >= 1.0:
		return marine.RiskModerate
	default:
		return marine.RiskCalm
	}
}
