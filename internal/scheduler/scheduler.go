// Package scheduler drives the background refresh loops: one long-running
// loop per source Fetcher, plus the two aggregator loops that recompute the
// Composite Threat and Intelligence snapshots. Follows the same worker-pool
// and ticker-driven heartbeat idiom used for other background jobs in this
// module.
package scheduler

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaaaru/floodwatch/internal/fetcher"
	"github.com/thaaaru/floodwatch/internal/intel"
	"github.com/thaaaru/floodwatch/internal/threat"
)

// jitterFraction staggers the initial warm-up and every steady-state refresh
// by up to ±20% of a fetcher's TTL, so that many fetchers
// sharing a TTL don't all hit their upstreams in the same instant.
const jitterFraction = 0.20

// shutdownGrace bounds how long Stop waits for in-flight refreshes to finish
// before returning.
const shutdownGrace = 10 * time.Second

// Scheduler owns one goroutine per registered Fetcher plus the two
// aggregator loops.
type Scheduler struct {
	logger zerolog.Logger

	fetchers   map[string]fetcher.Fetcher
	threatJob  *aggregatorJob
	intelJob   *aggregatorJob

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type aggregatorJob struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) error
}

// New builds a Scheduler. threatRun and intelRun perform the "ensure inputs
// fresh, then recompute" sequence for their respective caches; the
// Scheduler only owns their timing, not their composition.
func New(logger zerolog.Logger, fetchers []fetcher.Fetcher, threatInterval time.Duration, threatRun func(ctx context.Context) error, intelInterval time.Duration, intelRun func(ctx context.Context) error) *Scheduler {
	byName := make(map[string]fetcher.Fetcher, len(fetchers))
	for _, f := range fetchers {
		byName[f.Name()] = f
	}
	return &Scheduler{
		logger:   logger,
		fetchers: byName,
		threatJob: &aggregatorJob{name: "threat_refresh", interval: threatInterval, run: threatRun},
		intelJob:  &aggregatorJob{name: "intel_refresh", interval: intelInterval, run: intelRun},
	}
}

// Start warms every fetcher up (staggered) and launches its steady-state
// loop, then launches the two aggregator loops. It returns once warm-up has
// been kicked off; loops continue running until Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, f := range s.fetchers {
		f := f
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.warmThenLoop(runCtx, f)
		}()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runAggregator(runCtx, s.threatJob)
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runAggregator(runCtx, s.intelJob)
	}()
}

// Stop cancels all loops and waits up to shutdownGrace for in-flight
// refreshes to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownGrace):
		s.logger.Warn().Msg("scheduler stop timed out waiting for in-flight refreshes")
	}
}

// Refresh triggers an out-of-band refresh of a single named fetcher, the
// manual refresh(source) hook, bypassing its loop's sleep.
func (s *Scheduler) Refresh(ctx context.Context, source string) error {
	f, ok := s.fetchers[source]
	if !ok {
		return fetcher.ErrUnknownSource
	}
	return f.Refresh(ctx, true)
}

func (s *Scheduler) warmThenLoop(ctx context.Context, f fetcher.Fetcher) {
	initialDelay := jitter(0, f.TTL())
	select {
	case <-ctx.Done():
		return
	case <-time.After(initialDelay):
	}

	s.refreshOnce(ctx, f)

	for {
		sleep := jitter(f.TTL(), f.TTL())
		select {
		case <-ctx.Done():
			return
		case <-time.After(sleep):
			s.refreshOnce(ctx, f)
		}
	}
}

func (s *Scheduler) refreshOnce(ctx context.Context, f fetcher.Fetcher) {
	if err := f.Refresh(ctx, false); err != nil {
		s.logger.Warn().Err(err).Str("fetcher", f.Name()).Msg("scheduled refresh failed")
	}
}

func (s *Scheduler) runAggregator(ctx context.Context, job *aggregatorJob) {
	ticker := time.NewTicker(job.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := job.run(ctx); err != nil {
				s.logger.Warn().Err(err).Str("job", job.name).Msg("aggregator refresh failed")
			}
		}
	}
}

// jitter returns base plus a uniform random offset within ±jitterFraction of
// spread. Passing base=0 produces the staggered warm-up delay; passing
// base=ttl produces the steady-state sleep.
func jitter(base, spread time.Duration) time.Duration {
	if spread <= 0 {
		return base
	}
	offset := time.Duration((rand.Float64()*2 - 1) * jitterFraction * float64(spread))
	d := base + offset
	if d < 0 {
		d = 0
	}
	return d
}

// ThreatEnsureInputs runs WeatherObservation, WeatherForecast, and both
// river fetchers' Refresh(force=false) before the threat cache recomputes,
// the "ensure fresh" step of the ThreatRefresh loop.
func ThreatEnsureInputs(ctx context.Context, deps []fetcher.Fetcher, threatCache *threat.Cache) error {
	for _, d := range deps {
		if err := d.Refresh(ctx, false); err != nil {
			return err
		}
	}
	return threatCache.Refresh(ctx, true)
}

// IntelEnsureInputs runs the SOS fetcher's Refresh(force=true) (SOS has no
// TTL so every cycle is a forced pull) and the weather fetcher's
// Refresh(force=false) before the intelligence cache recomputes, the
// IntelRefresh loop's input step.
func IntelEnsureInputs(ctx context.Context, sosFetcher, weatherFetcher fetcher.Fetcher, intelCache *intel.Cache) error {
	if err := sosFetcher.Refresh(ctx, true); err != nil {
		return err
	}
	if err := weatherFetcher.Refresh(ctx, false); err != nil {
		return err
	}
	return intelCache.Refresh(ctx, true)
}
