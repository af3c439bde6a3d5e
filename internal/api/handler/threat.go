package handler

import (
	"errors"
	"net/http"

	"github.com/thaaaru/floodwatch/internal/api/models"
	"github.com/thaaaru/floodwatch/internal/api/response"
	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/threat"
)

// ThreatHandler serves the Composite Threat Engine snapshot.
type ThreatHandler struct {
	cache *threat.Cache
}

// NewThreatHandler builds a ThreatHandler over the shared threat cache.
func NewThreatHandler(c *threat.Cache) *ThreatHandler {
	return &ThreatHandler{cache: c}
}

// GetSnapshot handles GET /v1/threat. On a cold miss it triggers
// refresh(force=true) once and returns the refreshed value.
func (h *ThreatHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, _, err := h.cache.Get()
	if errors.Is(err, cache.ErrNoValue) {
		if refreshErr := h.cache.Refresh(r.Context(), true); refreshErr != nil {
			response.ServiceUnavailable(w, r, "threat snapshot unavailable: "+refreshErr.Error())
			return
		}
		snap, _, err = h.cache.Get()
	}
	if err != nil {
		response.ServiceUnavailable(w, r, "threat snapshot unavailable: "+err.Error())
		return
	}
	response.JSON(w, r, http.StatusOK, struct {
		threat.Snapshot
		Cache *models.CacheMeta `json:"cache"`
	}{Snapshot: snap, Cache: models.CacheMetaFrom(h.cache.Info())})
}

// Refresh handles POST /v1/threat/refresh.
func (h *ThreatHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Refresh(r.Context(), true); err != nil {
		response.ServiceUnavailable(w, r, "refresh failed: "+err.Error())
		return
	}
	snap, _, err := h.cache.Get()
	if err != nil {
		response.ServiceUnavailable(w, r, "refresh failed: "+err.Error())
		return
	}
	response.JSON(w, r, http.StatusOK, snap)
}
