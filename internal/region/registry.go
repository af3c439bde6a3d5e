package region

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Registry loads a JSON region document at startup into an id→Region map
// and serves it to readers. Reload atomically replaces the map
// so readers observe either the old or the new map, never a partial one —
// the same atomic-pointer-swap discipline the cache layer uses for values.
type Registry struct {
	path   string
	logger zerolog.Logger

	mu   sync.RWMutex
	byID map[string]Region
}

// NewRegistry creates a Registry that loads region documents from path.
func NewRegistry(path string, logger zerolog.Logger) *Registry {
	return &Registry{path: path, logger: logger, byID: make(map[string]Region)}
}

type regionDocument struct {
	Regions []Region `json:"regions"`
}

// Load reads and parses the region document, populating the registry. A
// malformed document is a ConfigError, fatal during startup.
func (r *Registry) Load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("region: read document: %w", err)
	}
	next, err := parseDocument(data)
	if err != nil {
		return fmt.Errorf("region: parse document: %w", err)
	}
	r.mu.Lock()
	r.byID = next
	r.mu.Unlock()
	r.logger.Info().Int("regions", len(next)).Msg("region registry loaded")
	return nil
}

func parseDocument(data []byte) (map[string]Region, error) {
	var doc regionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	byID := make(map[string]Region, len(doc.Regions))
	for _, reg := range doc.Regions {
		reg.applyDefaults()
		byID[reg.ID] = reg
	}
	return byID, nil
}

// Reload atomically replaces the in-memory map from the document on disk.
// If the new document is malformed the prior configuration is retained.
func (r *Registry) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		r.logger.Error().Err(err).Msg("region reload: read failed, retaining prior config")
		return err
	}
	next, err := parseDocument(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("region reload: parse failed, retaining prior config")
		return err
	}
	r.mu.Lock()
	r.byID = next
	r.mu.Unlock()
	return nil
}

// GetRegion returns the region with the given id, or ErrUnknownRegion
// carrying the list of known ids.
func (r *Registry) GetRegion(id string) (Region, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.byID[id]
	if !ok {
		return Region{}, &UnknownRegionError{ID: id, Known: r.idsLocked()}
	}
	return reg, nil
}

// UnknownRegionError names the region id that was requested and the ids that
// are actually registered, to ease operator debugging.
type UnknownRegionError struct {
	ID    string
	Known []string
}

func (e *UnknownRegionError) Error() string {
	return fmt.Sprintf("region: unknown region %q (known: %v)", e.ID, e.Known)
}

func (e *UnknownRegionError) Unwrap() error { return ErrUnknownRegion }

func (r *Registry) idsLocked() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ListRegions returns every loaded region, sorted by id.
func (r *Registry) ListRegions() []Region {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Region, 0, len(r.byID))
	for _, reg := range r.byID {
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListActiveRegions returns every loaded region with Active=true.
func (r *Registry) ListActiveRegions() []Region {
	all := r.ListRegions()
	out := make([]Region, 0, len(all))
	for _, reg := range all {
		if reg.Active {
			out = append(out, reg)
		}
	}
	return out
}

// AlertLevel scans threshold bands in severity order {red, orange, yellow,
// green}; the first band whose [min,max] contains rainfallMm wins,
// otherwise green.
func (r *Registry) AlertLevel(regionID string, rainfallMm float64) (AlertLevel, error) {
	reg, err := r.GetRegion(regionID)
	if err != nil {
		return AlertGreen, err
	}
	return AlertLevelFor(reg, rainfallMm), nil
}

// AlertLevelFor applies the banding algorithm to an already-resolved Region,
// useful when the caller already holds the Region value.
func AlertLevelFor(reg Region, rainfallMm float64) AlertLevel {
	for _, level := range severityOrder {
		band, ok := reg.AlertThresholds[level]
		if !ok {
			continue
		}
		if band.contains(rainfallMm) {
			return level
		}
	}
	return AlertGreen
}
