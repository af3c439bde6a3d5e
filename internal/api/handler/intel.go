package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/thaaaru/floodwatch/internal/api/models"
	"github.com/thaaaru/floodwatch/internal/api/response"
	"github.com/thaaaru/floodwatch/internal/intel"
)

// IntelHandler serves the Intelligence Engine's read surface: priority-ranked reports, clusters, district summaries, and
// recommended actions.
type IntelHandler struct {
	cache *intel.Cache
}

// NewIntelHandler builds an IntelHandler over the shared intelligence cache.
func NewIntelHandler(c *intel.Cache) *IntelHandler {
	return &IntelHandler{cache: c}
}

// Priorities handles GET /v1/intel/priorities?district=&tier=.
func (h *IntelHandler) Priorities(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(w, r)
	if err != nil {
		return
	}
	district := r.URL.Query().Get("district")
	tier := strings.ToUpper(r.URL.Query().Get("tier"))

	reports := make([]intel.PriorityReport, 0, len(snap.Reports))
	for _, pr := range snap.Reports {
		if district != "" && pr.Report.District != district {
			continue
		}
		if tier != "" && string(pr.UrgencyTier) != tier {
			continue
		}
		reports = append(reports, pr)
	}
	response.JSON(w, r, http.StatusOK, models.ListEnvelope[intel.PriorityReport]{
		Count: len(reports),
		Items: reports,
		Cache: models.CacheMetaFrom(h.cache.Info()),
	})
}

// Clusters handles GET /v1/intel/clusters.
func (h *IntelHandler) Clusters(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(w, r)
	if err != nil {
		return
	}
	response.JSON(w, r, http.StatusOK, models.ListEnvelope[intel.Cluster]{
		Count: len(snap.Clusters),
		Items: snap.Clusters,
		Cache: models.CacheMetaFrom(h.cache.Info()),
	})
}

// Summary handles GET /v1/intel/districts.
func (h *IntelHandler) Summary(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(w, r)
	if err != nil {
		return
	}
	response.JSON(w, r, http.StatusOK, models.ListEnvelope[intel.DistrictSummary]{
		Count: len(snap.Districts),
		Items: snap.Districts,
		Cache: models.CacheMetaFrom(h.cache.Info()),
	})
}

// DistrictDetail handles GET /v1/intel/districts/{name}.
func (h *IntelHandler) DistrictDetail(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(w, r)
	if err != nil {
		return
	}
	name := chi.URLParam(r, "name")
	for _, d := range snap.Districts {
		if d.District == name {
			response.JSON(w, r, http.StatusOK, d)
			return
		}
	}
	response.NotFound(w, r, "no intelligence summary for district "+name)
}

// Actions handles GET /v1/intel/actions.
func (h *IntelHandler) Actions(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(w, r)
	if err != nil {
		return
	}
	response.JSON(w, r, http.StatusOK, models.ListEnvelope[intel.Action]{
		Count: len(snap.Actions),
		Items: snap.Actions,
		Cache: models.CacheMetaFrom(h.cache.Info()),
	})
}

// Refresh handles POST /v1/intel/refresh.
func (h *IntelHandler) Refresh(w http.ResponseWriter, r *http.Request) {
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

func (h *IntelHandler) snapshot(w http.ResponseWriter, r *http.Request) (intel.Snapshot, error) {
	snap, _, err := h.cache.Get()
	if err != nil {
		response.ServiceUnavailable(w, r, "intelligence snapshot unavailable: "+err.Error())
		return intel.Snapshot{}, err
	}
	return snap, nil
}
