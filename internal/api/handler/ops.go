// Package handler provides HTTP handlers for the flood monitoring Query API.
package handler

import (
	"net/http"
	"time"

	"github.com/thaaaru/floodwatch/internal/api/models"
	"github.com/thaaaru/floodwatch/internal/api/response"
	"github.com/thaaaru/floodwatch/internal/fetcher"
)

// OpsHandler handles operational endpoints: liveness, readiness, and
// per-source-fetcher status.
type OpsHandler struct {
	version   string
	buildTime string
	sources   map[string]fetcher.Fetcher
}

// NewOpsHandler creates a new OpsHandler. sources is the same registry the
// scheduler's manual refresh hook uses, keyed by source name.
func NewOpsHandler(version, buildTime string, sources map[string]fetcher.Fetcher) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		sources:   sources,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Not ready
// until at least one source fetcher has ever populated its cache.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	for _, f := range h.sources {
		if f.Info().HasData {
			response.JSON(w, r, http.StatusOK, models.Health{Status: status, Time: models.Timestamp(time.Now())})
			return
		}
	}
	response.JSON(w, r, http.StatusServiceUnavailable, models.Health{
		Status: models.HealthStatusDegraded,
		Time:   models.Timestamp(time.Now()),
	})
}

// SystemStatus handles GET /v1/ops/status - per-source-fetcher cache status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	subsystems := make([]models.SubsystemStatus, 0, len(h.sources))
	overall := models.HealthStatusOK
	for name, f := range h.sources {
		info := f.Info()
		st := models.HealthStatusOK
		if !info.HasData {
			st = models.HealthStatusDegraded
		}
		if info.LastError != "" && !info.HasData {
			st = models.HealthStatusFail
		}
		if st != models.HealthStatusOK {
			overall = models.HealthStatusDegraded
		}
		subsystems = append(subsystems, models.SubsystemStatus{Name: name, Status: st})
	}
	status := models.SystemStatus{
		Status:     overall,
		Time:       now,
		Subsystems: subsystems,
	}
	response.JSON(w, r, http.StatusOK, status)
}
