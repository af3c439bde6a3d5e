// Package weatherapi implements the primary WeatherObservation/WeatherAlerts/
// EarlyWarning provider against WeatherAPI.com (ClientConfig + resilient
// http.Client + JSON-to-domain mapping).
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaaaru/floodwatch/internal/fetcher/weather"
	"github.com/thaaaru/floodwatch/internal/provider/resilience"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "weatherapi"

	// DefaultBaseURL is the WeatherAPI.com v1 API base URL.
	DefaultBaseURL = "https://api.weatherapi.com/v1"

	historyDays = 3
)

// ClientConfig holds configuration for the WeatherAPI.com client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *resilience.Client
	Logger     zerolog.Logger
}

// Client is a WeatherAPI.com client implementing weather.Provider and
// weather.AlertsClient; the EarlyWarning adapter below wraps it as a
// weather.EarlyWarningSource. WeatherAPI's forecast endpoint returns current
// conditions, hourly, daily, and alerts in one call, so a single upstream
// client backs all three shapes.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new WeatherAPI.com client.
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

type forecastResponse struct {
	Current struct {
		TempC      float64 `json:"temp_c"`
		Humidity   float64 `json:"humidity"`
		PressureMb float64 `json:"pressure_mb"`
		WindKph    float64 `json:"wind_kph"`
		GustKph    float64 `json:"gust_kph"`
		WindDegree float64 `json:"wind_degree"`
		CloudPct   float64 `json:"cloud"`
		PrecipMm   float64 `json:"precip_mm"`
	} `json:"current"`
	Forecast struct {
		Forecastday []struct {
			Date string `json:"date"`
			Day  struct {
				MinTempC          float64 `json:"mintemp_c"`
				MaxTempC          float64 `json:"maxtemp_c"`
				TotalPrecipMm     float64 `json:"totalprecip_mm"`
				DailyChanceOfRain float64 `json:"daily_chance_of_rain"`
			} `json:"day"`
			Hour []struct {
				Time     string  `json:"time"`
				PrecipMm float64 `json:"precip_mm"`
				TempC    float64 `json:"temp_c"`
			} `json:"hour"`
		} `json:"forecastday"`
		Alerts struct {
			Alert []alertPayload `json:"alert"`
		} `json:"alerts"`
	} `json:"forecast"`
	Alerts struct {
		Alert []alertPayload `json:"alert"`
	} `json:"alerts"`
}

type alertPayload struct {
	Headline string `json:"headline"`
	Severity string `json:"severity"`
	Desc     string `json:"desc"`
	Effective string `json:"effective"`
	Expires   string `json:"expires"`
}

// FetchDistrict implements weather.Provider: current conditions plus the
// 3-day forecast, daily outlook folded in since the daily data piggy-backs
// on the observation call.
func (c *Client) FetchDistrict(ctx context.Context, district string, lat, lon float64) (weather.DistrictWeather, error) {
	resp, err := c.forecast(ctx, lat, lon, historyDays)
	if err != nil {
		return weather.DistrictWeather{}, err
	}

	var daily []weather.DailyForecast
	var h24, h48, h72 float64
	for i, fd := range resp.Forecast.Forecastday {
		date, _ := time.Parse("2006-01-02", fd.Date)
		daily = append(daily, weather.DailyForecast{
			Date: date, TempMinC: fd.Day.MinTempC, TempMaxC: fd.Day.MaxTempC,
			PrecipMm: fd.Day.TotalPrecipMm, PrecipProbability: fd.Day.DailyChanceOfRain,
		})
		switch i {
		case 0:
			h24 = fd.Day.TotalPrecipMm
		case 1:
			h48 = h24 + fd.Day.TotalPrecipMm
		case 2:
			h72 = h48 + fd.Day.TotalPrecipMm
		}
	}

	dw := weather.DistrictWeather{
		District:      district,
		Lat:           lat,
		Lon:           lon,
		TemperatureC:  resp.Current.TempC,
		HumidityPct:   resp.Current.Humidity,
		PressureHpa:   resp.Current.PressureMb,
		WindSpeedKmh:  resp.Current.WindKph,
		WindGustKmh:   resp.Current.GustKph,
		WindDirDeg:    resp.Current.WindDegree,
		CloudCoverPct: resp.Current.CloudPct,
		Rainfall:      weather.Rainfall{H24Mm: h24, H48Mm: h48, H72Mm: h72},
		Daily:         daily,
		FetchedAt:     time.Now(),
		Provider:      ProviderName,
	}
	if len(resp.Forecast.Forecastday) > 0 {
		dw.ForecastRain.H24Mm = resp.Forecast.Forecastday[0].Day.TotalPrecipMm
		if len(resp.Forecast.Forecastday) > 1 {
			dw.ForecastRain.H48Mm = dw.ForecastRain.H24Mm + resp.Forecast.Forecastday[1].Day.TotalPrecipMm
		}
		dw.PrecipProbability = resp.Forecast.Forecastday[0].Day.DailyChanceOfRain
	}
	return dw, nil
}

// FetchAlerts implements weather.AlertsClient.
func (c *Client) FetchAlerts(ctx context.Context, lat, lon float64) ([]weather.Alert, error) {
	resp, err := c.forecast(ctx, lat, lon, 1)
	if err != nil {
		return nil, err
	}
	return toAlerts("", resp.Alerts.Alert), nil
}

// EarlyWarning adapts Client to weather.EarlyWarningSource. A separate type
// is needed because EarlyWarningSource and Provider both name their method
// FetchDistrict with different return types.
type EarlyWarning struct {
	*Client
}

// FetchDistrict implements weather.EarlyWarningSource.
func (c EarlyWarning) FetchDistrict(ctx context.Context, district string, lat, lon float64) (weather.DistrictWarning, error) {
	resp, err := c.forecast(ctx, lat, lon, 2)
	if err != nil {
		return weather.DistrictWarning{}, err
	}

	var hourly []weather.HourlyPoint
	for _, fd := range resp.Forecast.Forecastday {
		for _, h := range fd.Hour {
			t, _ := time.Parse("2006-01-02 15:04", h.Time)
			hourly = append(hourly, weather.HourlyPoint{Time: t, PrecipMm: h.PrecipMm, TempC: h.TempC})
			if len(hourly) >= 48 {
				break
			}
		}
		if len(hourly) >= 48 {
			break
		}
	}
	var daily []weather.DailyForecast
	for _, fd := range resp.Forecast.Forecastday {
		date, _ := time.Parse("2006-01-02", fd.Date)
		daily = append(daily, weather.DailyForecast{Date: date, TempMinC: fd.Day.MinTempC, TempMaxC: fd.Day.MaxTempC, PrecipMm: fd.Day.TotalPrecipMm, PrecipProbability: fd.Day.DailyChanceOfRain})
	}

	alerts := toAlerts(district, resp.Alerts.Alert)
	risk := weather.RiskLow
	switch {
	case len(alerts) > 2:
		risk = weather.RiskCritical
	case len(alerts) > 1:
		risk = weather.RiskHigh
	case len(alerts) == 1:
		risk = weather.RiskModerate
	}
	return weather.DistrictWarning{District: district, RiskLevel: risk, GovAlerts: alerts, Hourly48h: hourly, Daily8d: daily}, nil
}

func toAlerts(district string, raw []alertPayload) []weather.Alert {
	out := make([]weather.Alert, 0, len(raw))
	for _, a := range raw {
		eff, _ := time.Parse(time.RFC3339, a.Effective)
		exp, _ := time.Parse(time.RFC3339, a.Expires)
		out = append(out, weather.Alert{
			ID: a.Headline, District: district, Headline: a.Headline, Description: a.Desc,
			Severity: mapSeverity(a.Severity), Effective: eff, Expires: exp,
		})
	}
	return out
}

func mapSeverity(raw string) weather.AlertSeverity {
	switch raw {
	case "Extreme":
		return weather.SeverityExtreme
	case "Severe":
		return weather.SeveritySevere
	case "Moderate":
		return weather.SeverityModerate
	case "Minor":
		return weather.SeverityMinor
	default:
		return weather.SeverityUnknown
	}
}

func (c *Client) forecast(ctx context.Context, lat, lon float64, days int) (*forecastResponse, error) {
	url := fmt.Sprintf("%s/forecast.json?key=%s&q=%.6f,%.6f&days=%d&aqi=no&alerts=yes", c.baseURL, c.apiKey, lat, lon, days)
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
		return nil, fmt.Errorf("weatherapi: unexpected status %d", resp.StatusCode)
	}
	var out forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}
