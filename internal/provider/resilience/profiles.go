package resilience

import "time"

// StandardFetchConfig returns the default upstream retry policy:
// one attempt plus timeout, no retry budget beyond the circuit breaker's own
// bookkeeping.
func StandardFetchConfig(name string, timeout time.Duration) ClientConfig {
	cfg := DefaultClientConfig(name)
	cfg.Timeout = timeout
	cfg.MaxRetries = 0
	return cfg
}

// TwoAttemptFetchConfig returns the traffic/river retry policy:
// two attempts with a 2s backoff.
func TwoAttemptFetchConfig(name string, timeout time.Duration) ClientConfig {
	cfg := DefaultClientConfig(name)
	cfg.Timeout = timeout
	cfg.MaxRetries = 1
	cfg.InitialInterval = 2 * time.Second
	cfg.MaxInterval = 2 * time.Second
	return cfg
}

// HealthProbeConfig returns the short-timeout, no-retry policy used for
// provider health checks.
func HealthProbeConfig(name string) ClientConfig {
	cfg := DefaultClientConfig(name)
	cfg.Timeout = HealthProbeTimeout
	cfg.MaxRetries = 0
	return cfg
}

// HealthProbeTimeout matches config.HealthProbeTimeout; duplicated here
// (rather than importing internal/config) to avoid a dependency cycle
// between the provider and config packages.
const HealthProbeTimeout = 10 * time.Second

// HistoricalFetchConfig returns the not-retried-within-a-cycle policy for
// archive/historical calls, with the longer 120s timeout.
func HistoricalFetchConfig(name string) ClientConfig {
	cfg := DefaultClientConfig(name)
	cfg.Timeout = 120 * time.Second
	cfg.MaxRetries = 0
	return cfg
}
