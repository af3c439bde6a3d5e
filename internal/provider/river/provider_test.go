package river_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	river "github.com/thaaaru/floodwatch/internal/provider/river"
)

func threshold(v float64) *float64 { return &v }

func TestDeriveStatus(t *testing.T) {
	thresholds := river.Thresholds{AlertM: threshold(7), MinorFloodM: threshold(8), MajorFloodM: threshold(9)}

	tests := []struct {
		name   string
		level  float64
		status river.Status
	}{
		{"below alert is normal", 6.9, river.StatusNormal},
		{"at alert is alert", 7.0, river.StatusAlert},
		{"between alert and minor is alert", 7.5, river.StatusAlert},
		{"at minor flood is minorFlood", 8.0, river.StatusMinorFlood},
		{"at major flood is majorFlood", 9.0, river.StatusMajorFlood},
		{"far above major flood is majorFlood", 20, river.StatusMajorFlood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := river.Station{WaterLevelM: tt.level, Thresholds: thresholds}
			assert.Equal(t, tt.status, river.DeriveStatus(s))
		})
	}
}

func TestDeriveStatus_NoThresholdsIsNormal(t *testing.T) {
	assert.Equal(t, river.StatusNormal, river.DeriveStatus(river.Station{WaterLevelM: 100}))
}

func TestStation_PctToAlert(t *testing.T) {
	s := river.Station{WaterLevelM: 7.7, Thresholds: river.Thresholds{AlertM: threshold(7.0)}}

	pct, ok := s.PctToAlert()
	assert.True(t, ok)
	assert.InDelta(t, 10.0, pct, 0.001)
}

func TestStation_PctToAlert_UnknownThreshold(t *testing.T) {
	_, ok := river.Station{}.PctToAlert()
	assert.False(t, ok)
}
