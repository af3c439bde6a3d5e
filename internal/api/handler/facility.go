package handler

import (
	"net/http"
	"strconv"

	"github.com/thaaaru/floodwatch/internal/api/models"
	"github.com/thaaaru/floodwatch/internal/api/response"
	"github.com/thaaaru/floodwatch/internal/fetcher/facility"
)

const defaultNearbyLimitPerType = 5

// FacilityHandler serves the OSM Facilities read surface:
// full list, nearby search, nearest hospital, and manual refresh.
type FacilityHandler struct {
	fetcher *facility.Fetcher
}

// NewFacilityHandler builds a FacilityHandler over the shared facility
// fetcher.
func NewFacilityHandler(f *facility.Fetcher) *FacilityHandler {
	return &FacilityHandler{fetcher: f}
}

// All handles GET /v1/facilities.
func (h *FacilityHandler) All(w http.ResponseWriter, r *http.Request) {
	snap, _, err := h.fetcher.Get()
	if err != nil {
		response.ServiceUnavailable(w, r, "facility data unavailable: "+err.Error())
		return
	}
	response.JSON(w, r, http.StatusOK, models.ListEnvelope[facility.Facility]{
		Count: len(snap.Facilities),
		Items: snap.Facilities,
		Cache: models.CacheMetaFrom(h.fetcher.Info()),
	})
}

// Nearby handles GET /v1/facilities/nearby?lat=&lon=&radiusKm=.
func (h *FacilityHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseLatLon(r)
	if !ok {
		response.BadRequest(w, r, "lat and lon query parameters are required", nil)
		return
	}
	radiusKm := 5.0
	if v := r.URL.Query().Get("radiusKm"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			radiusKm = parsed
		}
	}
	byKind, err := h.fetcher.FindNearby(lat, lon, radiusKm, defaultNearbyLimitPerType)
	if err != nil {
		response.ServiceUnavailable(w, r, "facility data unavailable: "+err.Error())
		return
	}
	response.JSON(w, r, http.StatusOK, byKind)
}

// NearestHospital handles GET /v1/facilities/nearest-hospital?lat=&lon=.
func (h *FacilityHandler) NearestHospital(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseLatLon(r)
	if !ok {
		response.BadRequest(w, r, "lat and lon query parameters are required", nil)
		return
	}
	fac, found, err := h.fetcher.NearestHospital(lat, lon)
	if err != nil {
		response.ServiceUnavailable(w, r, "facility data unavailable: "+err.Error())
		return
	}
	if !found {
		response.NotFound(w, r, "no hospital found")
		return
	}
	response.JSON(w, r, http.StatusOK, fac)
}

// Refresh handles POST /v1/facilities/refresh.
func (h *FacilityHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.fetcher.Refresh(r.Context(), true); err != nil {
		response.ServiceUnavailable(w, r, "refresh failed: "+err.Error())
		return
	}
	summary, err := h.fetcher.GetSummary()
	if err != nil {
		response.ServiceUnavailable(w, r, "refresh failed: "+err.Error())
		return
	}
	response.JSON(w, r, http.StatusOK, summary)
}

func parseLatLon(r *http.Request) (lat, lon float64, ok bool) {
	q := r.URL.Query()
	lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(q.Get("lon"), 64)
	return lat, lon, err1 == nil && err2 == nil
}
