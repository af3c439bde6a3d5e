package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaaaru/floodwatch/internal/api/handler"
	"github.com/thaaaru/floodwatch/internal/api/models"
	riverprovider "github.com/thaaaru/floodwatch/internal/provider/river"
	"github.com/thaaaru/floodwatch/internal/region"
)

func stationProvider(id, regionID string, stations []riverprovider.Station) riverprovider.Provider {
	return riverprovider.NewProvider(id, regionID,
		func(ctx context.Context, bounds *region.BoundingBox) ([]riverprovider.Station, error) {
			return stations, nil
		}, nil, nil, func(ctx context.Context) bool { return true })
}

func TestRiverHandler_StationsByRegion(t *testing.T) {
	factory := riverprovider.NewFactory()
	factory.Register(stationProvider("irrigation", "srilanka", []riverprovider.Station{
		{StationID: "srilanka_irrigation_ratnapura", StationName: "Ratnapura"},
	}), region.BoundingBox{})
	h := handler.NewRiverHandler(factory)

	req := httptest.NewRequest(http.MethodGet, "/v1/regions/srilanka/rivers", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "srilanka")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.StationsByRegion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope models.ListEnvelope[riverprovider.Station]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, 1, envelope.Count)
	assert.Equal(t, "Ratnapura", envelope.Items[0].StationName)
}

func TestRiverHandler_StationsByBounds_MissingParams(t *testing.T) {
	h := handler.NewRiverHandler(riverprovider.NewFactory())

	req := httptest.NewRequest(http.MethodGet, "/v1/rivers", nil)
	rec := httptest.NewRecorder()

	h.StationsByBounds(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRiverHandler_StationsByBounds_ScopesToOverlappingProvider(t *testing.T) {
	factory := riverprovider.NewFactory()
	factory.Register(stationProvider("irrigation", "srilanka", []riverprovider.Station{
		{StationID: "srilanka_irrigation_galle", StationName: "Galle"},
	}), region.BoundingBox{MinLat: 5.8, MaxLat: 9.9, MinLon: 79.6, MaxLon: 81.9})
	factory.Register(stationProvider("tn-placeholder", "tamilnadu", nil),
		region.BoundingBox{MinLat: 8.0, MaxLat: 13.6, MinLon: 76.2, MaxLon: 80.4})
	h := handler.NewRiverHandler(factory)

	req := httptest.NewRequest(http.MethodGet, "/v1/rivers?minLat=6&maxLat=7&minLon=80&maxLon=81", nil)
	rec := httptest.NewRecorder()

	h.StationsByBounds(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope models.ListEnvelope[riverprovider.Station]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Count)
}

func TestRiverHandler_ProviderHealth(t *testing.T) {
	factory := riverprovider.NewFactory()
	factory.Register(stationProvider("irrigation", "srilanka", nil), region.BoundingBox{})
	h := handler.NewRiverHandler(factory)

	req := httptest.NewRequest(http.MethodGet, "/v1/rivers/providers/health", nil)
	rec := httptest.NewRecorder()

	h.ProviderHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope models.ListEnvelope[models.ProviderHealth]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, 1, envelope.Count)
	assert.True(t, envelope.Items[0].Connected)
}
