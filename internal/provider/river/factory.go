package river

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/thaaaru/floodwatch/internal/region"
)

// Factory maintains a static provider registry and a region→providerIDs map,
// grounded on river_provider_factory.py's RiverProviderFactory.
type Factory struct {
	mu         sync.RWMutex
	byID       map[string]Provider
	byRegion   map[string][]string // regionID -> providerIDs
	regionBBox map[string]region.BoundingBox
}

// NewFactory creates an empty Factory. Providers are wired in by Register.
func NewFactory() *Factory {
	return &Factory{
		byID:       make(map[string]Provider),
		byRegion:   make(map[string][]string),
		regionBBox: make(map[string]region.BoundingBox),
	}
}

// Register adds a provider to the registry under its own region.
func (f *Factory) Register(p Provider, bbox region.BoundingBox) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[p.ID()] = p
	f.byRegion[p.RegionID()] = append(f.byRegion[p.RegionID()], p.ID())
	f.regionBBox[p.RegionID()] = bbox
}

// ProvidersForRegion returns the configured provider set for a region id.
func (f *Factory) ProvidersForRegion(regionID string) []Provider {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ids := f.byRegion[regionID]
	out := make([]Provider, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.byID[id])
	}
	return out
}

// ProvidersForBounds iterates regions, tests rectangle intersection against
// each region's bbox, and returns the union of providers whose region
// overlaps bbox.
func (f *Factory) ProvidersForBounds(bbox region.BoundingBox) []Provider {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []Provider
	for regionID, regionBounds := range f.regionBBox {
		if !regionBounds.Overlaps(bbox) {
			continue
		}
		for _, id := range f.byRegion[regionID] {
			out = append(out, f.byID[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// ListProviders returns every registered provider, sorted by id.
func (f *Factory) ListProviders() []Provider {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Provider, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// HealthAll probes every provider concurrently with a timeout; a failed
// probe is reported as false, never propagated.
func (f *Factory) HealthAll(ctx context.Context, timeout time.Duration) map[string]bool {
	providers := f.ListProviders()
	results := make(map[string]bool, len(providers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, p := range providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()
			probeCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			ok := safeHealthCheck(probeCtx, p)
			mu.Lock()
			results[p.ID()] = ok
			mu.Unlock()
		}(p)
	}
	wg.Wait()
	return results
}

func safeHealthCheck(ctx context.Context, p Provider) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return p.HealthCheck(ctx)
}
