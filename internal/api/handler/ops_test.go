package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaaaru/floodwatch/internal/api/handler"
	"github.com/thaaaru/floodwatch/internal/api/models"
	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher"
)

func TestOpsHandler_HealthCheck_AlwaysOK(t *testing.T) {
	h := handler.NewOpsHandler("v1.2.3", "2026-01-01", nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", nil)
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var health models.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestOpsHandler_ReadinessCheck_DegradedWithNoData(t *testing.T) {
	sources := map[string]fetcher.Fetcher{
		"marine": &stubFetcher{name: "marine", info: cache.Info{HasData: false}},
	}
	h := handler.NewOpsHandler("v1.2.3", "2026-01-01", sources)
	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", nil)
	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOpsHandler_ReadinessCheck_OKWhenAnySourceHasData(t *testing.T) {
	sources := map[string]fetcher.Fetcher{
		"marine": &stubFetcher{name: "marine", info: cache.Info{HasData: true}},
	}
	h := handler.NewOpsHandler("v1.2.3", "2026-01-01", sources)
	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", nil)
	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOpsHandler_SystemStatus_DegradesOverallOnMissingData(t *testing.T) {
	sources := map[string]fetcher.Fetcher{
		"marine":  &stubFetcher{name: "marine", info: cache.Info{HasData: true}},
		"traffic": &stubFetcher{name: "traffic", info: cache.Info{HasData: false}},
	}
	h := handler.NewOpsHandler("v1.2.3", "2026-01-01", sources)
	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", nil)
	rec := httptest.NewRecorder()
	h.SystemStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status models.SystemStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, models.HealthStatusDegraded, status.Status)
	require.Len(t, status.Subsystems, 2)
}

func TestOpsHandler_SystemStatus_FailsOnLastErrorWithNoData(t *testing.T) {
	sources := map[string]fetcher.Fetcher{
		"marine": &stubFetcher{name: "marine", info: cache.Info{HasData: false, LastError: "upstream down"}},
	}
	h := handler.NewOpsHandler("v1.2.3", "2026-01-01", sources)
	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", nil)
	rec := httptest.NewRecorder()
	h.SystemStatus(rec, req)

	var status models.SystemStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Len(t, status.Subsystems, 1)
	assert.Equal(t, models.HealthStatusFail, status.Subsystems[0].Status)
}
