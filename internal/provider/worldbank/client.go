// Package worldbank implements the Environmental Indicators upstream
// client against the World Bank Indicators API, keyless like
// internal/provider/openmeteo.
package worldbank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaaaru/floodwatch/internal/fetcher/environmental"
	"github.com/thaaaru/floodwatch/internal/provider/resilience"
)

const (
	ProviderName   = "world-bank"
	DefaultBaseURL = "https://api.worldbank.org/v2/country"

	indicatorForestCover = "AG.LND.FRST.ZS"
	indicatorCO2         = "EN.ATM.CO2E.KT"
	indicatorRainfall    = "AG.LND.PRCP.MM"
)

// ClientConfig holds configuration for the World Bank client.
type ClientConfig struct {
	BaseURL    string
	HTTPClient *resilience.Client
	Logger     zerolog.Logger
}

// Client implements environmental.Client.
type Client struct {
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
		httpClient = resilience.NewClient(resilience.HistoricalFetchConfig(ProviderName))
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: cfg.Logger}
}

func (c *Client) Name() string { return ProviderName }

// indicatorPoint mirrors one entry of the World Bank API's second response
// element (the first element is a pagination envelope this client ignores).
type indicatorPoint struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// FetchSeries implements environmental.Client, merging three indicator
// series (forest cover, CO2 emissions, rainfall index) by year.
func (c *Client) FetchSeries(ctx context.Context, countryCode string) ([]environmental.YearlyIndicator, error) {
	forest, err := c.fetchIndicator(ctx, countryCode, indicatorForestCover)
	if err != nil {
		return nil, err
	}
	co2, err := c.fetchIndicator(ctx, countryCode, indicatorCO2)
	if err != nil {
		return nil, err
	}
	rainfall, err := c.fetchIndicator(ctx, countryCode, indicatorRainfall)
	if err != nil {
		return nil, err
	}

	years := make(map[int]*environmental.YearlyIndicator)
	order := make([]int, 0)
	ensure := func(year int) *environmental.YearlyIndicator {
		if y, ok := years[year]; ok {
			return y
		}
		y := &environmental.YearlyIndicator{Year: year}
		years[year] = y
		order = append(order, year)
		return y
	}
	for year, v := range forest {
		ensure(year).ForestCoverPct = v
	}
	for year, v := range co2 {
		ensure(year).CO2EmissionsMt = v / 1000
	}
	for year, v := range rainfall {
		ensure(year).RainfallIndexMm = v
	}

	out := make([]environmental.YearlyIndicator, 0, len(order))
	for _, y := range order {
		out = append(out, *years[y])
	}
	return out, nil
}

func (c *Client) fetchIndicator(ctx context.Context, countryCode, indicator string) (map[int]float64, error) {
	url := fmt.Sprintf("%s/%s/indicator/%s?format=json&per_page=100", c.baseURL, countryCode, indicator)
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
		return nil, fmt.Errorf("world-bank: unexpected status %d", resp.StatusCode)
	}
	var payload [2]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	var points []indicatorPoint
	if err := json.Unmarshal(payload[1], &points); err != nil {
		return nil, fmt.Errorf("decoding indicator points: %w", err)
	}

	out := make(map[int]float64)
	for _, p := range points {
		if p.Value == nil {
			continue
		}
		t, err := time.Parse("2006", p.Date)
		if err != nil {
			continue
		}
		out[t.Year()] = *p.Value
	}
	return out, nil
}
