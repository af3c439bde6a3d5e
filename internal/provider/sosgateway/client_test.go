package sosgateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaaaru/floodwatch/internal/fetcher/sos"
	"github.com/thaaaru/floodwatch/internal/provider/resilience"
	"github.com/thaaaru/floodwatch/internal/provider/sosgateway"
)

func TestClient_FetchReports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "mock123", r.URL.Query().Get("key"))
		w.Write([]byte(`{"reports":[{"id":"r1","district":"Galle","peopleCount":4,"waterLevel":"ROOF","hasMedicalEmergency":true,"reportedAt":"2026-08-01T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	client := sosgateway.NewClient(sosgateway.ClientConfig{
		APIKey:     "mock123",
		BaseURL:    srv.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	reports, err := client.FetchReports(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "r1", reports[0].ID)
	assert.Equal(t, sos.WaterRoof, reports[0].WaterLevel)
	assert.True(t, reports[0].HasMedicalEmergency)
	assert.False(t, reports[0].ReportedAt.IsZero())
}

func TestClient_FetchReports_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := sosgateway.NewClient(sosgateway.ClientConfig{
		BaseURL:    srv.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	_, err := client.FetchReports(context.Background(), 10)
	assert.Error(t, err)
}

func TestClient_Name(t *testing.T) {
	assert.Equal(t, "sos-gateway", sosgateway.NewClient(sosgateway.ClientConfig{}).Name())
}
