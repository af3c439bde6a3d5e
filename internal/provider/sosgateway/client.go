// Package sosgateway implements the crowdsourced SOS report upstream
// client, grounded on the ClientConfig/resilience.Client shape shared by
// the other internal/provider packages.
package sosgateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaaaru/floodwatch/internal/fetcher/sos"
	"github.com/thaaaru/floodwatch/internal/provider/resilience"
)

const (
	ProviderName   = "sos-gateway"
	DefaultBaseURL = "https://sos.emergency.gov.in/api/reports"
)

// ClientConfig holds configuration for the SOS gateway client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *resilience.Client
	Logger     zerolog.Logger
}

// Client implements sos.Client.
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

func (c *Client) Name() string { return ProviderName }

type reportsResponse struct {
	Reports []struct {
		ID                  string   `json:"id"`
		District            string   `json:"district"`
		Address             string   `json:"address"`
		Lat                 *float64 `json:"lat"`
		Lon                 *float64 `json:"lon"`
		PeopleCount         int      `json:"peopleCount"`
		WaterLevel          string   `json:"waterLevel"`
		HasMedicalEmergency bool     `json:"hasMedicalEmergency"`
		HasElderly          bool     `json:"hasElderly"`
		HasDisabled         bool     `json:"hasDisabled"`
		HasChildren         bool     `json:"hasChildren"`
		NeedsFood           bool     `json:"needsFood"`
		NeedsWater          bool     `json:"needsWater"`
		SafeHours           float64  `json:"safeHours"`
		Phone               string   `json:"phone"`
		ReportedAt          string   `json:"reportedAt"`
	} `json:"reports"`
}

// FetchReports implements sos.Client.
func (c *Client) FetchReports(ctx context.Context, limit int) ([]sos.Report, error) {
	url := fmt.Sprintf("%s?limit=%d&key=%s", c.baseURL, limit, c.apiKey)
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
		return nil, fmt.Errorf("sos-gateway: unexpected status %d", resp.StatusCode)
	}
	var rr reportsResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	out := make([]sos.Report, 0, len(rr.Reports))
	for _, r := range rr.Reports {
		reportedAt, _ := time.Parse(time.RFC3339, r.ReportedAt)
		out = append(out, sos.Report{
			ID: r.ID, District: r.District, Address: r.Address, Lat: r.Lat, Lon: r.Lon,
			PeopleCount: r.PeopleCount, WaterLevel: sos.WaterLevel(r.WaterLevel),
			HasMedicalEmergency: r.HasMedicalEmergency, HasElderly: r.HasElderly, HasDisabled: r.HasDisabled,
			HasChildren: r.HasChildren, NeedsFood: r.NeedsFood, NeedsWater: r.NeedsWater,
			SafeHours: r.SafeHours, Phone: r.Phone, ReportedAt: reportedAt,
		})
	}
	return out, nil
}
