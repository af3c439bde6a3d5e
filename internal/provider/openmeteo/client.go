// Package openmeteo implements the secondary WeatherObservation fallback
// provider and the Historical Climate archive client against Open-Meteo,
// which requires no API key — grounded on the same
// ClientConfig/resilience.Client shape as internal/provider/weatherapi.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaaaru/floodwatch/internal/fetcher/climate"
	"github.com/thaaaru/floodwatch/internal/fetcher/weather"
	"github.com/thaaaru/floodwatch/internal/provider/resilience"
)

const (
	ProviderName       = "open-meteo"
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	DefaultArchiveURL  = "https://archive-api.open-meteo.com/v1/archive"
)

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	ForecastURL string
	ArchiveURL  string
	HTTPClient  *resilience.Client
	Logger      zerolog.Logger
}

// Client implements weather.Provider (secondary fallback) and climate.Client
// (historical archive).
type Client struct {
	forecastURL string
	archiveURL  string
	httpClient  *resilience.Client
	logger      zerolog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	forecastURL := cfg.ForecastURL
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}
	archiveURL := cfg.ArchiveURL
	if archiveURL == "" {
		archiveURL = DefaultArchiveURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.StandardFetchConfig(ProviderName, 30*time.Second))
	}
	return &Client{forecastURL: forecastURL, archiveURL: archiveURL, httpClient: httpClient, logger: cfg.Logger}
}

func (c *Client) Name() string { return ProviderName }

type forecastResponse struct {
	Current struct {
		Temperature2m    float64 `json:"temperature_2m"`
		RelativeHumidity float64 `json:"relative_humidity_2m"`
		PressureMsl      float64 `json:"pressure_msl"`
		WindSpeed10m     float64 `json:"wind_speed_10m"`
		WindGusts10m     float64 `json:"wind_gusts_10m"`
		WindDirection10m float64 `json:"wind_direction_10m"`
		CloudCover       float64 `json:"cloud_cover"`
	} `json:"current"`
	Daily struct {
		Time              []string  `json:"time"`
		TempMin           []float64 `json:"temperature_2m_min"`
		TempMax           []float64 `json:"temperature_2m_max"`
		PrecipitationSum  []float64 `json:"precipitation_sum"`
		PrecipProbability []float64 `json:"precipitation_probability_max"`
	} `json:"daily"`
}

// FetchDistrict implements weather.Provider.
func (c *Client) FetchDistrict(ctx context.Context, district string, lat, lon float64) (weather.DistrictWeather, error) {
	url := fmt.Sprintf("%s?latitude=%.6f&longitude=%.6f&current=temperature_2m,relative_humidity_2m,pressure_msl,wind_speed_10m,wind_gusts_10m,wind_direction_10m,cloud_cover&daily=temperature_2m_min,temperature_2m_max,precipitation_sum,precipitation_probability_max&past_days=3&forecast_days=3&timezone=auto",
		c.forecastURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return weather.DistrictWeather{}, fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.DistrictWeather{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return weather.DistrictWeather{}, fmt.Errorf("open-meteo: unexpected status %d", resp.StatusCode)
	}
	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return weather.DistrictWeather{}, fmt.Errorf("decoding response: %w", err)
	}

	var daily []weather.DailyForecast
	var h24, h48, h72, h24f, h48f float64
	pastDays := 3
	for i, dateStr := range fr.Daily.Time {
		date, _ := time.Parse("2006-01-02", dateStr)
		precip := atIndex(fr.Daily.PrecipitationSum, i)
		daily = append(daily, weather.DailyForecast{
			Date: date, TempMinC: atIndex(fr.Daily.TempMin, i), TempMaxC: atIndex(fr.Daily.TempMax, i),
			PrecipMm: precip, PrecipProbability: atIndex(fr.Daily.PrecipProbability, i),
		})
		switch i {
		case pastDays:
			h24f = precip
		case pastDays + 1:
			h48f = h24f + precip
		}
	}
	h24 = atIndex(fr.Daily.PrecipitationSum, pastDays-1)
	h48 = h24 + atIndex(fr.Daily.PrecipitationSum, pastDays-2)
	h72 = h48 + atIndex(fr.Daily.PrecipitationSum, pastDays-3)

	return weather.DistrictWeather{
		District: district, Lat: lat, Lon: lon,
		TemperatureC: fr.Current.Temperature2m, HumidityPct: fr.Current.RelativeHumidity,
		PressureHpa: fr.Current.PressureMsl, WindSpeedKmh: fr.Current.WindSpeed10m,
		WindGustKmh: fr.Current.WindGusts10m, WindDirDeg: fr.Current.WindDirection10m,
		CloudCoverPct: fr.Current.CloudCover,
		Rainfall:      weather.Rainfall{H24Mm: h24, H48Mm: h48, H72Mm: h72},
		ForecastRain:  weather.ForecastRain{H24Mm: h24f, H48Mm: h48f},
		Daily:         daily, FetchedAt: time.Now(), Provider: ProviderName,
	}, nil
}

func atIndex(v []float64, i int) float64 {
	if i < 0 || i >= len(v) {
		return 0
	}
	return v[i]
}

type archiveResponse struct {
	Daily struct {
		Time             []string  `json:"time"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
		TempMean         []float64 `json:"temperature_2m_mean"`
	} `json:"daily"`
}

// FetchHistory implements climate.Client: yearly rollups over the archive
// API's daily series for a (district's coordinates, year range) key. The
// caller supplies a district name; this client resolves it to coordinates
// via the coords resolver passed to NewHistoryClient, since
// Open-Meteo's archive endpoint is coordinate-keyed, not name-keyed.
type HistoryClient struct {
	*Client
	coords func(district string) (lat, lon float64, ok bool)
}

// NewHistoryClient adapts Client into a climate.Client given a
// district-name-to-coordinates resolver (normally the region registry's
// district list).
func NewHistoryClient(c *Client, coords func(district string) (lat, lon float64, ok bool)) *HistoryClient {
	return &HistoryClient{Client: c, coords: coords}
}

func (h *HistoryClient) FetchHistory(ctx context.Context, district string, yr climate.YearRange) ([]climate.YearlyRecord, error) {
	lat, lon, ok := h.coords(district)
	if !ok {
		return nil, fmt.Errorf("openmeteo: unknown district %q", district)
	}
	url := fmt.Sprintf("%s?latitude=%.6f&longitude=%.6f&start_date=%d-01-01&end_date=%d-12-31&daily=precipitation_sum,temperature_2m_mean&timezone=auto",
		h.archiveURL, lat, lon, yr.StartYear, yr.EndYear)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open-meteo archive: unexpected status %d", resp.StatusCode)
	}
	var ar archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	byYear := make(map[int]*climate.YearlyRecord)
	order := make([]int, 0)
	days := make(map[int]int)
	for i, dateStr := range ar.Daily.Time {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		rec, ok := byYear[date.Year()]
		if !ok {
			rec = &climate.YearlyRecord{Year: date.Year()}
			byYear[date.Year()] = rec
			order = append(order, date.Year())
		}
		rec.TotalRainfallMm += atIndex(ar.Daily.PrecipitationSum, i)
		if atIndex(ar.Daily.PrecipitationSum, i) > 75 {
			rec.FloodEvents++
		}
		days[date.Year()]++
		rec.AvgTempC += (atIndex(ar.Daily.TempMean, i) - rec.AvgTempC) / float64(days[date.Year()])
	}
	out := make([]climate.YearlyRecord, 0, len(order))
	for _, y := range order {
		out = append(out, *byYear[y])
	}
	return out, nil
}
