package handler

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/thaaaru/floodwatch/internal/api/models"
	"github.com/thaaaru/floodwatch/internal/api/response"
	"github.com/thaaaru/floodwatch/internal/region"
)

// RegionHandler serves the Region Registry read surface:
// list, get, and the process-wide "current region" selector.
type RegionHandler struct {
	registry *region.Registry
	current  atomic.Value // string
}

// NewRegionHandler builds a RegionHandler. defaultRegionID seeds the current
// selection until a caller sets one explicitly.
func NewRegionHandler(registry *region.Registry, defaultRegionID string) *RegionHandler {
	h := &RegionHandler{registry: registry}
	h.current.Store(defaultRegionID)
	return h
}

// ListRegions handles GET /v1/regions.
func (h *RegionHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions := h.registry.ListActiveRegions()
	response.JSON(w, r, http.StatusOK, models.ListEnvelope[region.Region]{
		Count: len(regions),
		Items: regions,
	})
}

// GetRegion handles GET /v1/regions/{id}.
func (h *RegionHandler) GetRegion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reg, err := h.registry.GetRegion(id)
	if err != nil {
		h.writeRegionError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, reg)
}

// CurrentRegion handles GET /v1/regions/current.
func (h *RegionHandler) CurrentRegion(w http.ResponseWriter, r *http.Request) {
	id, _ := h.current.Load().(string)
	reg, err := h.registry.GetRegion(id)
	if err != nil {
		h.writeRegionError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, reg)
}

// SetCurrentRegion handles POST /v1/regions/current/{id}.
func (h *RegionHandler) SetCurrentRegion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reg, err := h.registry.GetRegion(id)
	if err != nil {
		h.writeRegionError(w, r, err)
		return
	}
	h.current.Store(id)
	response.JSON(w, r, http.StatusOK, reg)
}

func (h *RegionHandler) writeRegionError(w http.ResponseWriter, r *http.Request, err error) {
	var unknown *region.UnknownRegionError
	if errors.As(err, &unknown) {
		response.NotFound(w, r, err.Error())
		return
	}
	response.InternalError(w, r, err.Error())
}
