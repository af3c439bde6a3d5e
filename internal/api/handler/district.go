package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thaaaru/floodwatch/internal/api/models"
	"github.com/thaaaru/floodwatch/internal/api/response"
	"github.com/thaaaru/floodwatch/internal/fetcher/weather"
	"github.com/thaaaru/floodwatch/internal/region"
)

// DistrictView is one district's current alert-level view.
type DistrictView struct {
	Name          string            `json:"name"`
	Latitude      float64           `json:"latitude"`
	Longitude     float64           `json:"longitude"`
	AlertLevel    region.AlertLevel `json:"alertLevel"`
	Rainfall24hMm float64           `json:"rainfall24hMm"`
}

// DistrictHandler serves per-region district views.
type DistrictHandler struct {
	registry  *region.Registry
	districts map[string][]region.District // regionID -> districts
	weather   *weather.ObservationFetcher
}

// NewDistrictHandler builds a DistrictHandler over a static regionID->
// districts map (loaded at startup from each region's district definition
// document) and the shared weather observation fetcher.
func NewDistrictHandler(registry *region.Registry, districts map[string][]region.District, weatherFetcher *weather.ObservationFetcher) *DistrictHandler {
	return &DistrictHandler{registry: registry, districts: districts, weather: weatherFetcher}
}

// ListDistricts handles GET /v1/regions/{id}/districts.
func (h *DistrictHandler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reg, err := h.registry.GetRegion(id)
	if err != nil {
		response.NotFound(w, r, err.Error())
		return
	}

	var byName map[string]weather.DistrictWeather
	if snap, _, err := h.weather.Get(); err == nil {
		byName = make(map[string]weather.DistrictWeather, len(snap.Districts))
		for _, dw := range snap.Districts {
			byName[dw.District] = dw
		}
	}

	districts := h.districts[reg.ID]
	views := make([]DistrictView, 0, len(districts))
	for _, d := range districts {
		rainfall := byName[d.Name].Rainfall.H24Mm
		views = append(views, DistrictView{
			Name:          d.Name,
			Latitude:      d.Latitude,
			Longitude:     d.Longitude,
			AlertLevel:    region.AlertLevelFor(reg, rainfall),
			Rainfall24hMm: rainfall,
		})
	}

	info := h.weather.Info()
	response.JSON(w, r, http.StatusOK, models.ListEnvelope[DistrictView]{
		Count: len(views),
		Items: views,
		Cache: models.CacheMetaFrom(info),
	})
}
