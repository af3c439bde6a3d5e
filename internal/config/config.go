// Package config defines the composed application configuration:
// the dynamic-parameter config objects of the source collapse into one
// explicit CoreConfig struct with recognized options.
package config

import (
	"os"
	"strconv"
	"time"
)

// CoreConfig is the process-wide configuration container. It is constructed
// once in cmd/server/main.go and passed explicitly into the scheduler, the
// fetchers, and the API handlers — there are no package-level singletons.
type CoreConfig struct {
	CurrentRegion string

	// TTLs, one entry per source fetcher name.
	TTLs map[string]time.Duration

	// UpstreamTimeouts, one entry per source fetcher name.
	UpstreamTimeouts map[string]time.Duration

	// APIKeys, one entry per upstream provider env var.
	APIKeys map[string]string

	// FreezeMode pins every single-snapshot source fetcher's cache to
	// state=fresh and disables its refresh. The per-key Historical Climate
	// caches are not frozen.
	FreezeMode bool

	DiskSnapshotDir string

	SchedulerIntervals struct {
		Threat time.Duration
		Intel  time.Duration
	}
}

// Default fetcher timeouts: 30s default, 10s health probes, 120s
// historical/archive calls.
const (
	DefaultUpstreamTimeout  = 30 * time.Second
	HealthProbeTimeout      = 10 * time.Second
	HistoricalFetchTimeout  = 120 * time.Second
)

// FromEnv builds a CoreConfig from environment variables through the small
// getEnv* helpers below rather than a third-party config library.
func FromEnv() CoreConfig {
	cfg := CoreConfig{
		CurrentRegion:    getEnvOrDefault("CURRENT_REGION", "srilanka"),
		TTLs:             defaultTTLs(),
		UpstreamTimeouts: defaultTimeouts(),
		APIKeys:          loadAPIKeys(),
		FreezeMode:       getEnvBool("FREEZE_MODE", false),
		DiskSnapshotDir:  getEnvOrDefault("DISK_SNAPSHOT_DIR", "./data/snapshots"),
	}
	cfg.SchedulerIntervals.Threat = getEnvDuration("THREAT_REFRESH_INTERVAL", 15*time.Minute)
	cfg.SchedulerIntervals.Intel = getEnvDuration("INTEL_REFRESH_INTERVAL", 5*time.Minute)
	return cfg
}

func defaultTTLs() map[string]time.Duration {
	return map[string]time.Duration{
		"weather_observation": 60 * time.Minute,
		"weather_forecast":    60 * time.Minute,
		"early_warning":       120 * time.Minute,
		"weather_alerts":      15 * time.Minute,
		"marine":              30 * time.Minute,
		"traffic_incidents":   5 * time.Minute,
		"traffic_flow_here":   5 * time.Minute,
		"traffic_flow_tomtom": 5 * time.Minute,
		"river_irrigation":    5 * time.Minute,
		"river_navy":          5 * time.Minute,
		"osm_facilities":      24 * time.Hour,
		"sos_reports":         0, // no TTL, pulled every intelligence cycle
		"historical_climate":  7 * 24 * time.Hour,
		"environmental":       7 * 24 * time.Hour,
	}
}

func defaultTimeouts() map[string]time.Duration {
	t := make(map[string]time.Duration)
	for name := range defaultTTLs() {
		t[name] = DefaultUpstreamTimeout
	}
	t["historical_climate"] = HistoricalFetchTimeout
	t["environmental"] = HistoricalFetchTimeout
	return t
}

func loadAPIKeys() map[string]string {
	keys := make(map[string]string)
	for _, envVar := range []string{
		"WEATHERAPI_KEY", "HERE_API_KEY", "TOMTOM_API_KEY", "AMBEE_API_KEY",
		"IRRIGATION_API_KEY", "NAVY_API_KEY", "SOS_API_KEY",
	} {
		if v := os.Getenv(envVar); v != "" {
			keys[envVar] = v
		}
	}
	return keys
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}
