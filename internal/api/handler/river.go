package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thaaaru/floodwatch/internal/api/models"
	"github.com/thaaaru/floodwatch/internal/api/response"
	riverprovider "github.com/thaaaru/floodwatch/internal/provider/river"
	"github.com/thaaaru/floodwatch/internal/region"
)

// providerHealthTimeout bounds how long RiverHandler.ProviderHealth waits for
// the slowest provider's health probe.
const providerHealthTimeout = 5 * time.Second

// RiverHandler serves the river station read surface:
// by-region, by-bbox, and provider health.
type RiverHandler struct {
	factory *riverprovider.Factory
}

// NewRiverHandler builds a RiverHandler over the shared provider factory.
func NewRiverHandler(factory *riverprovider.Factory) *RiverHandler {
	return &RiverHandler{factory: factory}
}

// StationsByRegion handles GET /v1/regions/{id}/rivers.
func (h *RiverHandler) StationsByRegion(w http.ResponseWriter, r *http.Request) {
	regionID := chi.URLParam(r, "id")
	providers := h.factory.ProvidersForRegion(regionID)
	h.writeStations(w, r, providers, nil)
}

// StationsByBounds handles GET /v1/rivers?minLat=&maxLat=&minLon=&maxLon=.
func (h *RiverHandler) StationsByBounds(w http.ResponseWriter, r *http.Request) {
	bbox, ok := parseBoundingBox(r)
	if !ok {
		response.BadRequest(w, r, "minLat, maxLat, minLon, maxLon query parameters are required", nil)
		return
	}
	providers := h.factory.ProvidersForBounds(bbox)
	h.writeStations(w, r, providers, &bbox)
}

func (h *RiverHandler) writeStations(w http.ResponseWriter, r *http.Request, providers []riverprovider.Provider, bbox *region.BoundingBox) {
	ctx := r.Context()
	var stations []riverprovider.Station
	for _, p := range providers {
		s, err := p.FetchStations(ctx, bbox)
		if err != nil {
			continue
		}
		stations = append(stations, s...)
	}
	response.JSON(w, r, http.StatusOK, models.ListEnvelope[riverprovider.Station]{
		Count: len(stations),
		Items: stations,
	})
}

// ProviderHealth handles GET /v1/rivers/providers/health.
func (h *RiverHandler) ProviderHealth(w http.ResponseWriter, r *http.Request) {
	results := h.factory.HealthAll(r.Context(), providerHealthTimeout)
	out := make([]models.ProviderHealth, 0, len(results))
	for id, ok := range results {
		ph := models.ProviderHealth{Provider: id, Connected: ok}
		if !ok {
			ph.Error = "health check failed or timed out"
		}
		out = append(out, ph)
	}
	response.JSON(w, r, http.StatusOK, models.ListEnvelope[models.ProviderHealth]{
		Count: len(out),
		Items: out,
	})
}

func parseBoundingBox(r *http.Request) (region.BoundingBox, bool) {
	q := r.URL.Query()
	minLat, err1 := strconv.ParseFloat(q.Get("minLat"), 64)
	maxLat, err2 := strconv.ParseFloat(q.Get("maxLat"), 64)
	minLon, err3 := strconv.ParseFloat(q.Get("minLon"), 64)
	maxLon, err4 := strconv.ParseFloat(q.Get("maxLon"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return region.BoundingBox{}, false
	}
	return region.BoundingBox{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}, true
}
