package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thaaaru/floodwatch/internal/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := config.FromEnv()

	assert.Equal(t, "srilanka", cfg.CurrentRegion)
	assert.False(t, cfg.FreezeMode)
	assert.Equal(t, "./data/snapshots", cfg.DiskSnapshotDir)
	assert.Equal(t, 15*time.Minute, cfg.SchedulerIntervals.Threat)
	assert.Equal(t, 5*time.Minute, cfg.SchedulerIntervals.Intel)
	assert.Equal(t, 60*time.Minute, cfg.TTLs["weather_observation"])
	assert.Equal(t, time.Duration(0), cfg.TTLs["sos_reports"])
}

func TestFromEnv_OverridesFromEnvironment(t *testing.T) {
	t.Setenv("CURRENT_REGION", "tamilnadu")
	t.Setenv("FREEZE_MODE", "true")
	t.Setenv("THREAT_REFRESH_INTERVAL", "30m")
	t.Setenv("WEATHERAPI_KEY", "secret123")

	cfg := config.FromEnv()

	assert.Equal(t, "tamilnadu", cfg.CurrentRegion)
	assert.True(t, cfg.FreezeMode)
	assert.Equal(t, 30*time.Minute, cfg.SchedulerIntervals.Threat)
	assert.Equal(t, "secret123", cfg.APIKeys["WEATHERAPI_KEY"])
}

func TestFromEnv_InvalidBoolFallsBackToDefault(t *testing.T) {
	t.Setenv("FREEZE_MODE", "not-a-bool")
	cfg := config.FromEnv()
	assert.False(t, cfg.FreezeMode)
}

func TestFromEnv_InvalidDurationFallsBackToDefault(t *testing.T) {
	t.Setenv("INTEL_REFRESH_INTERVAL", "not-a-duration")
	cfg := config.FromEnv()
	assert.Equal(t, 5*time.Minute, cfg.SchedulerIntervals.Intel)
}

func TestFromEnv_MissingAPIKeysOmittedFromMap(t *testing.T) {
	cfg := config.FromEnv()
	_, ok := cfg.APIKeys["HERE_API_KEY"]
	assert.False(t, ok, "unset env vars must not produce empty-string map entries")
}

func TestFromEnv_HistoricalAndEnvironmentalUseLongerTimeout(t *testing.T) {
	cfg := config.FromEnv()
	assert.Equal(t, config.HistoricalFetchTimeout, cfg.UpstreamTimeouts["historical_climate"])
	assert.Equal(t, config.HistoricalFetchTimeout, cfg.UpstreamTimeouts["environmental"])
	assert.Equal(t, config.DefaultUpstreamTimeout, cfg.UpstreamTimeouts["marine"])
}
