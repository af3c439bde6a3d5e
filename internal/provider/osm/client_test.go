package osm_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaaaru/floodwatch/internal/fetcher/facility"
	"github.com/thaaaru/floodwatch/internal/provider/osm"
	"github.com/thaaaru/floodwatch/internal/provider/resilience"
	"github.com/thaaaru/floodwatch/internal/region"
)

func TestClient_FetchFacilities_MapsKindsAndSkipsUnrecognized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Contains(t, r.FormValue("data"), "amenity")
		w.Write([]byte(`{"elements":[
			{"lat":6.9,"lon":79.8,"tags":{"amenity":"hospital","name":"General Hospital"}},
			{"lat":6.95,"lon":79.85,"tags":{"emergency":"assembly_point"}},
			{"lat":6.92,"lon":79.82,"tags":{"amenity":"restaurant","name":"Cafe"}}
		]}`))
	}))
	defer srv.Close()

	client := osm.NewClient(osm.ClientConfig{
		BaseURL:    srv.URL,
		Bounds:     region.BoundingBox{MinLat: 6, MaxLat: 7, MinLon: 79, MaxLon: 80},
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	facilities, err := client.FetchFacilities(context.Background())
	require.NoError(t, err)
	require.Len(t, facilities, 2)
	assert.Equal(t, facility.KindHospital, facilities[0].Kind)
	assert.Equal(t, facility.KindShelter, facilities[1].Kind)
	assert.Equal(t, "General Hospital", facilities[0].Name)
}

func TestClient_FetchFacilities_UnnamedGetsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements":[{"lat":1,"lon":1,"tags":{"amenity":"police"}}]}`))
	}))
	defer srv.Close()

	client := osm.NewClient(osm.ClientConfig{BaseURL: srv.URL, HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test"))})
	facilities, err := client.FetchFacilities(context.Background())
	require.NoError(t, err)
	require.Len(t, facilities, 1)
	assert.Equal(t, "police (unnamed)", facilities[0].Name)
}

func TestClient_FetchFacilities_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := osm.NewClient(osm.ClientConfig{BaseURL: srv.URL, HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test"))})
	_, err := client.FetchFacilities(context.Background())
	assert.Error(t, err)
}
