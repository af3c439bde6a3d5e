// Package osm implements the OSM Facilities upstream client against the
// OpenStreetMap Overpass API, keyless and rate-limited by the shared
// instance rather than an API key.
package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaaaru/floodwatch/internal/fetcher/facility"
	"github.com/thaaaru/floodwatch/internal/provider/resilience"
	"github.com/thaaaru/floodwatch/internal/region"
)

const (
	ProviderName   = "osm-overpass"
	DefaultBaseURL = "https://overpass-api.de/api/interpreter"
)

// overpassQuery is the Overpass QL template: hospitals, police stations,
// fire stations, and emergency shelters within a bounding box.
const overpassQuery = `
[out:json][timeout:60];
(
  node["amenity"="hospital"](%[1]f,%[2]f,%[3]f,%[4]f);
  node["amenity"="police"](%[1]f,%[2]f,%[3]f,%[4]f);
  node["amenity"="fire_station"](%[1]f,%[2]f,%[3]f,%[4]f);
  node["emergency"="assembly_point"](%[1]f,%[2]f,%[3]f,%[4]f);
  node["amenity"="shelter"](%[1]f,%[2]f,%[3]f,%[4]f);
);
out body;
`

// ClientConfig holds configuration for the Overpass client.
type ClientConfig struct {
	BaseURL    string
	Bounds     region.BoundingBox
	HTTPClient *resilience.Client
	Logger     zerolog.Logger
}

// Client implements facility.Client.
type Client struct {
	baseURL    string
	bounds     region.BoundingBox
	httpClient *resilience.Client
	logger     zerolog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.StandardFetchConfig(ProviderName, 60*time.Second))
	}
	return &Client{baseURL: baseURL, bounds: cfg.Bounds, httpClient: httpClient, logger: cfg.Logger}
}

func (c *Client) Name() string { return ProviderName }

type overpassResponse struct {
	Elements []struct {
		Lat  float64           `json:"lat"`
		Lon  float64           `json:"lon"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// FetchFacilities implements facility.Client.
func (c *Client) FetchFacilities(ctx context.Context) ([]facility.Facility, error) {
	query := fmt.Sprintf(overpassQuery, c.bounds.MinLat, c.bounds.MinLon, c.bounds.MaxLat, c.bounds.MaxLon)
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("osm-overpass: unexpected status %d", resp.StatusCode)
	}
	var or overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	out := make([]facility.Facility, 0, len(or.Elements))
	for _, el := range or.Elements {
		kind, ok := toKind(el.Tags)
		if !ok {
			continue
		}
		name := el.Tags["name"]
		if name == "" {
			name = string(kind) + " (unnamed)"
		}
		out = append(out, facility.Facility{Kind: kind, Name: name, Lat: el.Lat, Lon: el.Lon, Tags: el.Tags})
	}
	return out, nil
}

func toKind(tags map[string]string) (facility.Kind, bool) {
	switch tags["amenity"] {
	case "hospital":
		return facility.KindHospital, true
	case "police":
		return facility.KindPolice, true
	case "fire_station":
		return facility.KindFire, true
	case "shelter":
		return facility.KindShelter, true
	}
	if tags["emergency"] == "assembly_point" {
		return facility.KindShelter, true
	}
	return "", false
}
