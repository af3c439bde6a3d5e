package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thaaaru/floodwatch/internal/api/models"
	"github.com/thaaaru/floodwatch/internal/api/response"
	"github.com/thaaaru/floodwatch/internal/fetcher/weather"
)

// WeatherHandler serves the weather observation, forecast, alerts, and
// early-warning read surfaces.
type WeatherHandler struct {
	observation  *weather.ObservationFetcher
	forecast     *weather.ForecastFetcher
	alerts       *weather.AlertsFetcher
	earlyWarning *weather.EarlyWarningFetcher
}

// NewWeatherHandler builds a WeatherHandler over the shared weather fetchers.
func NewWeatherHandler(observation *weather.ObservationFetcher, forecast *weather.ForecastFetcher, alerts *weather.AlertsFetcher, earlyWarning *weather.EarlyWarningFetcher) *WeatherHandler {
	return &WeatherHandler{observation: observation, forecast: forecast, alerts: alerts, earlyWarning: earlyWarning}
}

// Overview handles GET /v1/weather.
func (h *WeatherHandler) Overview(w http.ResponseWriter, r *http.Request) {
	snap, _, err := h.observation.Get()
	if err != nil {
		response.ServiceUnavailable(w, r, "weather observation unavailable: "+err.Error())
		return
	}
	response.JSON(w, r, http.StatusOK, models.ListEnvelope[weather.DistrictWeather]{
		Count: len(snap.Districts),
		Items: snap.Districts,
		Cache: models.CacheMetaFrom(h.observation.Info()),
	})
}

// District handles GET /v1/weather/{district}.
func (h *WeatherHandler) District(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "district")
	snap, _, err := h.observation.Get()
	if err != nil {
		response.ServiceUnavailable(w, r, "weather observation unavailable: "+err.Error())
		return
	}
	dw, ok := snap.ByDistrict(name)
	if !ok {
		response.NotFound(w, r, "no weather observation for district "+name)
		return
	}
	response.JSON(w, r, http.StatusOK, dw)
}

// Alerts handles GET /v1/weather/alerts.
func (h *WeatherHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	snap, _, err := h.alerts.Get()
	if err != nil {
		response.ServiceUnavailable(w, r, "weather alerts unavailable: "+err.Error())
		return
	}
	response.JSON(w, r, http.StatusOK, models.ListEnvelope[weather.Alert]{
		Count: len(snap.Alerts),
		Items: snap.Alerts,
		Cache: models.CacheMetaFrom(h.alerts.Info()),
	})
}

// HighRisk handles GET /v1/weather/high-risk: districts at danger level high
// or critical.
func (h *WeatherHandler) HighRisk(w http.ResponseWriter, r *http.Request) {
	snap, _, err := h.observation.Get()
	if err != nil {
		response.ServiceUnavailable(w, r, "weather observation unavailable: "+err.Error())
		return
	}
	out := make([]weather.DistrictWeather, 0)
	for _, dw := range snap.Districts {
		if dw.DangerLevel == weather.DangerHigh || dw.DangerLevel == weather.DangerCritical {
			out = append(out, dw)
		}
	}
	response.JSON(w, r, http.StatusOK, models.ListEnvelope[weather.DistrictWeather]{
		Count: len(out),
		Items: out,
		Cache: models.CacheMetaFrom(h.observation.Info()),
	})
}

// Daily handles GET /v1/weather/{district}/daily.
func (h *WeatherHandler) Daily(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "district")
	snap, _, err := h.forecast.Get()
	if err != nil {
		response.ServiceUnavailable(w, r, "weather forecast unavailable: "+err.Error())
		return
	}
	dw, ok := snap.ByDistrict(name)
	if !ok {
		response.NotFound(w, r, "no forecast for district "+name)
		return
	}
	response.JSON(w, r, http.StatusOK, models.ListEnvelope[weather.DailyForecast]{
		Count: len(dw.Daily),
		Items: dw.Daily,
		Cache: models.CacheMetaFrom(h.forecast.Info()),
	})
}

// Hourly handles GET /v1/weather/{district}/hourly.
func (h *WeatherHandler) Hourly(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "district")
	snap, _, err := h.earlyWarning.Get()
	if err != nil {
		response.ServiceUnavailable(w, r, "early warning data unavailable: "+err.Error())
		return
	}
	for _, d := range snap.Districts {
		if d.District == name {
			response.JSON(w, r, http.StatusOK, models.ListEnvelope[weather.HourlyPoint]{
				Count: len(d.Hourly48h),
				Items: d.Hourly48h,
				Cache: models.CacheMetaFrom(h.earlyWarning.Info()),
			})
			return
		}
	}
	response.NotFound(w, r, "no early warning data for district "+name)
}

// EarlyWarning handles GET /v1/weather/early-warning.
func (h *WeatherHandler) EarlyWarning(w http.ResponseWriter, r *http.Request) {
	snap, _, err := h.earlyWarning.Get()
	if err != nil {
		response.ServiceUnavailable(w, r, "early warning data unavailable: "+err.Error())
		return
	}
	response.JSON(w, r, http.StatusOK, struct {
		weather.EarlyWarningSnapshot
		Cache *models.CacheMeta `json:"cache"`
	}{EarlyWarningSnapshot: snap, Cache: models.CacheMetaFrom(h.earlyWarning.Info())})
}
