package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thaaaru/floodwatch/internal/api/response"
	"github.com/thaaaru/floodwatch/internal/fetcher/climate"
)

// defaultClimateYears is the year-range width used when the caller omits
// startYear/endYear.
const defaultClimateYears = 10

// ClimateHandler serves the Historical Climate archive read surface.
// Unlike the other source fetchers, climate data is keyed by
// (district, year range) rather than a single cached snapshot, so it gets
// its own query-parameterized endpoint instead of the generic sources
// surface.
type ClimateHandler struct {
	fetcher *climate.Fetcher
}

// NewClimateHandler builds a ClimateHandler over the shared climate fetcher.
func NewClimateHandler(f *climate.Fetcher) *ClimateHandler {
	return &ClimateHandler{fetcher: f}
}

// Series handles GET /v1/climate/{district}?startYear=&endYear=.
func (h *ClimateHandler) Series(w http.ResponseWriter, r *http.Request) {
	district := chi.URLParam(r, "district")
	now := time.Now().Year()
	startYear, endYear := now-defaultClimateYears, now

	q := r.URL.Query()
	if v := q.Get("startYear"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			startYear = parsed
		}
	}
	if v := q.Get("endYear"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			endYear = parsed
		}
	}
	if startYear > endYear {
		response.BadRequest(w, r, "startYear must not be after endYear", nil)
		return
	}

	series, err := h.fetcher.Get(r.Context(), district, climate.YearRange{StartYear: startYear, EndYear: endYear})
	if err != nil {
		response.ServiceUnavailable(w, r, "climate archive unavailable: "+err.Error())
		return
	}
	response.JSON(w, r, http.StatusOK, series)
}
