package weather_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thaaaru/floodwatch/internal/fetcher/weather"
)

func TestComputeDanger_NoSignalIsLow(t *testing.T) {
	level, score, factors := weather.ComputeDanger(weather.Rainfall{}, 0, 0)
	assert.Equal(t, weather.DangerLow, level)
	assert.Zero(t, score)
	assert.Empty(t, factors)
}

func TestComputeDanger_RainBandsAreMutuallyExclusive(t *testing.T) {
	level, score, factors := weather.ComputeDanger(weather.Rainfall{H24Mm: 150}, 0, 0)
	assert.Equal(t, 50.0, score)
	assert.Equal(t, weather.DangerHigh, level)
	assert.Equal(t, []string{"heavy rainfall 24h"}, factors)
}

func TestComputeDanger_CombinedRainWindGustCapsAt100(t *testing.T) {
	level, score, factors := weather.ComputeDanger(weather.Rainfall{H24Mm: 150}, 70, 100)
	assert.Equal(t, 100.0, score)
	assert.Equal(t, weather.DangerCritical, level)
	assert.Contains(t, factors, "heavy rainfall 24h")
	assert.Contains(t, factors, "high wind gusts")
	assert.Contains(t, factors, "high sustained wind")
}

func TestComputeDanger_ModerateWindAndGustBands(t *testing.T) {
	_, score, factors := weather.ComputeDanger(weather.Rainfall{}, 45, 70)
	assert.Equal(t, 25.0, score)
	assert.Contains(t, factors, "moderate wind gusts")
	assert.Contains(t, factors, "moderate sustained wind")
}

func TestComputeDanger_LevelBoundaries(t *testing.T) {
	tests := []struct {
		rainMm float64
		want   weather.DangerLevel
	}{
		{0, weather.DangerLow},
		{30, weather.DangerModerate},
		{60, weather.DangerModerate},
		{150, weather.DangerHigh},
	}
	for _, tt := range tests {
		level, _, _ := weather.ComputeDanger(weather.Rainfall{H24Mm: tt.rainMm}, 0, 0)
		assert.Equal(t, tt.want, level, "rain=%v", tt.rainMm)
	}
}
