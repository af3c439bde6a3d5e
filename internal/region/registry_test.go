package region_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaaaru/floodwatch/internal/region"
)

func writeDocument(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const validDoc = `{
  "regions": [
    {
      "id": "srilanka",
      "name": "Sri Lanka",
      "active": true,
      "bounds": {"minLat": 5.8, "maxLat": 9.9, "minLon": 79.6, "maxLon": 81.9},
      "center": {"lat": 7.87, "lon": 80.77},
      "alertThresholds": {
        "green": {"minRain": 0, "maxRain": 49},
        "red": {"minRain": 150, "maxRain": 100000}
      }
    },
    {
      "id": "tamilnadu",
      "name": "Tamil Nadu",
      "active": false,
      "bounds": {"minLat": 8.0, "maxLat": 13.6, "minLon": 76.2, "maxLon": 80.4}
    }
  ]
}`

func TestRegistry_Load(t *testing.T) {
	path := writeDocument(t, t.TempDir(), "regions.json", validDoc)
	r := region.NewRegistry(path, zerolog.Nop())
	require.NoError(t, r.Load())

	srilanka, err := r.GetRegion("srilanka")
	require.NoError(t, err)
	assert.Equal(t, "Sri Lanka", srilanka.Name)
	assert.True(t, srilanka.Active)
}

func TestRegistry_Load_AppliesDefaults(t *testing.T) {
	path := writeDocument(t, t.TempDir(), "regions.json", validDoc)
	r := region.NewRegistry(path, zerolog.Nop())
	require.NoError(t, r.Load())

	tamilnadu, err := r.GetRegion("tamilnadu")
	require.NoError(t, err)
	assert.Equal(t, "UTC", tamilnadu.TimeZone)
	assert.Equal(t, "USD", tamilnadu.Currency)
	assert.Equal(t, "twilio", tamilnadu.SMSGateway)
}

func TestRegistry_GetRegion_Unknown(t *testing.T) {
	path := writeDocument(t, t.TempDir(), "regions.json", validDoc)
	r := region.NewRegistry(path, zerolog.Nop())
	require.NoError(t, r.Load())

	_, err := r.GetRegion("neverland")
	require.Error(t, err)

	var unknown *region.UnknownRegionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "neverland", unknown.ID)
	assert.Contains(t, unknown.Known, "srilanka")
	assert.ErrorIs(t, err, region.ErrUnknownRegion)
}

func TestRegistry_ListActiveRegions(t *testing.T) {
	path := writeDocument(t, t.TempDir(), "regions.json", validDoc)
	r := region.NewRegistry(path, zerolog.Nop())
	require.NoError(t, r.Load())

	active := r.ListActiveRegions()
	require.Len(t, active, 1)
	assert.Equal(t, "srilanka", active[0].ID)
}

func TestRegistry_Reload_RetainsPriorConfigOnParseFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeDocument(t, dir, "regions.json", validDoc)
	r := region.NewRegistry(path, zerolog.Nop())
	require.NoError(t, r.Load())

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	err := r.Reload()
	require.Error(t, err)

	srilanka, err := r.GetRegion("srilanka")
	require.NoError(t, err, "prior config should still be served after a failed reload")
	assert.Equal(t, "Sri Lanka", srilanka.Name)
}

func TestRegistry_AlertLevel(t *testing.T) {
	path := writeDocument(t, t.TempDir(), "regions.json", validDoc)
	r := region.NewRegistry(path, zerolog.Nop())
	require.NoError(t, r.Load())

	level, err := r.AlertLevel("srilanka", 200)
	require.NoError(t, err)
	assert.Equal(t, region.AlertRed, level)
}
