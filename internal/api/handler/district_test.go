package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaaaru/floodwatch/internal/api/handler"
	"github.com/thaaaru/floodwatch/internal/api/models"
	"github.com/thaaaru/floodwatch/internal/fetcher/weather"
	"github.com/thaaaru/floodwatch/internal/region"
)

type stubWeatherProvider struct {
	fn func(ctx context.Context, district string, lat, lon float64) (weather.DistrictWeather, error)
}

func (p *stubWeatherProvider) Name() string { return "stub" }
func (p *stubWeatherProvider) FetchDistrict(ctx context.Context, district string, lat, lon float64) (weather.DistrictWeather, error) {
	return p.fn(ctx, district, lat, lon)
}

func TestDistrictHandler_ListDistricts_AnnotatesAlertLevel(t *testing.T) {
	registry := newTestRegistry(t)

	districts := map[string][]region.District{
		"srilanka": {{Name: "Ratnapura", Latitude: 6.68, Longitude: 80.4}},
	}
	provider := &stubWeatherProvider{fn: func(ctx context.Context, d string, lat, lon float64) (weather.DistrictWeather, error) {
		return weather.DistrictWeather{District: d, Rainfall: weather.Rainfall{H24Mm: 160}}, nil
	}}
	obsFetcher := weather.NewObservationFetcher([]region.District{{Name: "Ratnapura"}}, provider, nil, time.Minute, zerolog.Nop())
	require.NoError(t, obsFetcher.Refresh(context.Background(), true))

	h := handler.NewDistrictHandler(registry, districts, obsFetcher)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/regions/srilanka/districts", nil), "id", "srilanka")
	rec := httptest.NewRecorder()
	h.ListDistricts(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope models.ListEnvelope[handler.DistrictView]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Items, 1)
	assert.Equal(t, 160.0, envelope.Items[0].Rainfall24hMm)
}

func TestDistrictHandler_ListDistricts_UnknownRegion(t *testing.T) {
	registry := newTestRegistry(t)
	obsFetcher := weather.NewObservationFetcher(nil, &stubWeatherProvider{fn: func(ctx context.Context, d string, lat, lon float64) (weather.DistrictWeather, error) {
		return weather.DistrictWeather{}, nil
	}}, nil, time.Minute, zerolog.Nop())

	h := handler.NewDistrictHandler(registry, nil, obsFetcher)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/regions/neverland/districts", nil), "id", "neverland")
	rec := httptest.NewRecorder()
	h.ListDistricts(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDistrictHandler_ListDistricts_NoWeatherDataStillLists(t *testing.T) {
	registry := newTestRegistry(t)
	districts := map[string][]region.District{
		"srilanka": {{Name: "Galle"}},
	}
	obsFetcher := weather.NewObservationFetcher(nil, &stubWeatherProvider{fn: func(ctx context.Context, d string, lat, lon float64) (weather.DistrictWeather, error) {
		return weather.DistrictWeather{}, nil
	}}, nil, time.Minute, zerolog.Nop())

	h := handler.NewDistrictHandler(registry, districts, obsFetcher)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/regions/srilanka/districts", nil), "id", "srilanka")
	rec := httptest.NewRecorder()
	h.ListDistricts(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope models.ListEnvelope[handler.DistrictView]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Items, 1)
	assert.Zero(t, envelope.Items[0].Rainfall24hMm)
}
