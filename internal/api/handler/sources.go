package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thaaaru/floodwatch/internal/api/models"
	"github.com/thaaaru/floodwatch/internal/api/response"
	"github.com/thaaaru/floodwatch/internal/fetcher"
)

// SourcesHandler serves a uniform read surface over every registered source
// fetcher, covering source families
// with no dedicated endpoint group (marine, traffic, environmental) without
// bespoke per-fetcher handlers.
type SourcesHandler struct {
	sources map[string]fetcher.Fetcher
}

// NewSourcesHandler builds a SourcesHandler over the scheduler's fetcher
// registry.
func NewSourcesHandler(sources map[string]fetcher.Fetcher) *SourcesHandler {
	return &SourcesHandler{sources: sources}
}

// sourceStatus is the list-view entry for GET /v1/sources.
type sourceStatus struct {
	Name string       `json:"name"`
	Info models.CacheMeta `json:"cache"`
}

// List handles GET /v1/sources: every registered fetcher's cache status.
func (h *SourcesHandler) List(w http.ResponseWriter, r *http.Request) {
	out := make([]sourceStatus, 0, len(h.sources))
	for name, f := range h.sources {
		out = append(out, sourceStatus{Name: name, Info: *models.CacheMetaFrom(f.Info())})
	}
	response.JSON(w, r, http.StatusOK, models.ListEnvelope[sourceStatus]{
		Count: len(out),
		Items: out,
	})
}

// Get handles GET /v1/sources/{name}: the named fetcher's cached snapshot.
func (h *SourcesHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, ok := h.sources[name]
	if !ok {
		response.NotFound(w, r, "unknown source "+name)
		return
	}
	snap, _, err := f.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, r, "source "+name+" unavailable: "+err.Error())
		return
	}
	response.JSON(w, r, http.StatusOK, struct {
		Data  any                `json:"data"`
		Cache *models.CacheMeta  `json:"cache"`
	}{Data: snap, Cache: models.CacheMetaFrom(f.Info())})
}

// Refresh handles POST /v1/sources/{name}/refresh.
func (h *SourcesHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, ok := h.sources[name]
	if !ok {
		response.NotFound(w, r, "unknown source "+name)
		return
	}
	if err := f.Refresh(r.Context(), true); err != nil {
		response.ServiceUnavailable(w, r, "refresh failed: "+err.Error())
		return
	}
	snap, _, err := f.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, r, "refresh failed: "+err.Error())
		return
	}
	response.JSON(w, r, http.StatusOK, snap)
}
