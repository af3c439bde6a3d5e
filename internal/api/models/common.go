// Package models provides request and response models for the flood
// monitoring Query API.
package models

import (
	"time"

	"github.com/thaaaru/floodwatch/internal/cache"
)

// HealthStatus represents the health status of a service or provider.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusFail     HealthStatus = "FAIL"
)

// Timestamp is a helper type for time.Time with custom JSON formatting.
type Timestamp time.Time

// MarshalJSON implements json.Marshaler for Timestamp.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(time.RFC3339) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	s := string(data[1 : len(data)-1])
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// CacheMeta is attached to every cached read: "every cached read
// additionally exposes cache metadata".
type CacheMeta struct {
	LastUpdated        *Timestamp `json:"lastUpdated"`
	AgeSeconds         float64    `json:"ageSeconds"`
	IsValid            bool       `json:"isValid"`
	NextRefreshSeconds float64    `json:"nextRefreshSeconds"`
}

// ListEnvelope wraps a list payload with its count and optional cache
// metadata.
type ListEnvelope[T any] struct {
	Count int        `json:"count"`
	Items []T        `json:"items"`
	Cache *CacheMeta `json:"cache,omitempty"`
}

// CacheMetaFrom builds a CacheMeta from a fetcher/cache Info.
func CacheMetaFrom(info cache.Info) *CacheMeta {
	meta := &CacheMeta{
		AgeSeconds:         info.AgeSeconds,
		IsValid:            info.IsValid,
		NextRefreshSeconds: info.NextRefreshSeconds,
	}
	if info.HasData {
		ts := Timestamp(info.LastUpdated)
		meta.LastUpdated = &ts
	}
	return meta
}

// Health is a liveness/readiness check response.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SubsystemStatus is one named internal component's status.
type SubsystemStatus struct {
	Name   string       `json:"name"`
	Status HealthStatus `json:"status"`
}

// SystemStatus is the full operational status surface.
type SystemStatus struct {
	Status     HealthStatus      `json:"status"`
	Time       Timestamp         `json:"time"`
	Subsystems []SubsystemStatus `json:"subsystems"`
}

// ProviderHealth is the per-provider connectivity status returned by
// health/status endpoints.
type ProviderHealth struct {
	Provider  string `json:"provider"`
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}
