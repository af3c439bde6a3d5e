package weatherapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaaaru/floodwatch/internal/fetcher/weather"
	"github.com/thaaaru/floodwatch/internal/provider/resilience"
	"github.com/thaaaru/floodwatch/internal/provider/weatherapi"
)

const sampleForecast = `{
	"current":{"temp_c":28.5,"humidity":80,"pressure_mb":1008,"wind_kph":20,"gust_kph":35,"wind_degree":200,"cloud":70,"precip_mm":5},
	"forecast":{"forecastday":[
		{"date":"2026-08-01","day":{"mintemp_c":24,"maxtemp_c":30,"totalprecip_mm":40,"daily_chance_of_rain":80},
		 "hour":[{"time":"2026-08-01 00:00","precip_mm":2,"temp_c":26}]},
		{"date":"2026-08-02","day":{"mintemp_c":23,"maxtemp_c":29,"totalprecip_mm":10,"daily_chance_of_rain":30},"hour":[]}
	],"alerts":{"alert":[{"headline":"Flood Warning","severity":"Severe","desc":"heavy rain expected","effective":"2026-08-01T00:00:00Z","expires":"2026-08-02T00:00:00Z"}]}},
	"alerts":{"alert":[{"headline":"Flood Warning","severity":"Severe","desc":"heavy rain expected","effective":"2026-08-01T00:00:00Z","expires":"2026-08-02T00:00:00Z"}]}
}`

func TestClient_FetchDistrict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mock123", r.URL.Query().Get("key"))
		w.Write([]byte(sampleForecast))
	}))
	defer srv.Close()

	client := weatherapi.NewClient(weatherapi.ClientConfig{
		APIKey:     "mock123",
		BaseURL:    srv.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	dw, err := client.FetchDistrict(context.Background(), "Colombo", 6.9, 79.8)
	require.NoError(t, err)
	assert.Equal(t, "Colombo", dw.District)
	assert.Equal(t, 28.5, dw.TemperatureC)
	assert.Equal(t, 40.0, dw.Rainfall.H24Mm)
	assert.Equal(t, 50.0, dw.Rainfall.H48Mm)
	require.Len(t, dw.Daily, 2)
	assert.Equal(t, 40.0, dw.ForecastRain.H24Mm)
}

func TestClient_FetchAlerts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleForecast))
	}))
	defer srv.Close()

	client := weatherapi.NewClient(weatherapi.ClientConfig{BaseURL: srv.URL, HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test"))})
	alerts, err := client.FetchAlerts(context.Background(), 6.9, 79.8)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, weather.SeveritySevere, alerts[0].Severity)
}

func TestEarlyWarning_FetchDistrict_DerivesRiskFromAlertCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleForecast))
	}))
	defer srv.Close()

	client := weatherapi.NewClient(weatherapi.ClientConfig{BaseURL: srv.URL, HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test"))})
	ew := weatherapi.EarlyWarning{Client: client}

	dw, err := ew.FetchDistrict(context.Background(), "Colombo", 6.9, 79.8)
	require.NoError(t, err)
	assert.Equal(t, weather.RiskModerate, dw.RiskLevel)
	assert.NotEmpty(t, dw.Hourly48h)
	assert.Len(t, dw.Daily8d, 2)
}

func TestClient_FetchDistrict_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := weatherapi.NewClient(weatherapi.ClientConfig{BaseURL: srv.URL, HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test"))})
	_, err := client.FetchDistrict(context.Background(), "Colombo", 6.9, 79.8)
	assert.Error(t, err)
}
