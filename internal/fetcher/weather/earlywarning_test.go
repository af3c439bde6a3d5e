package weather_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaaaru/floodwatch/internal/fetcher/weather"
)

type stubEarlyWarningSource struct {
	fn func(ctx context.Context, district string, lat, lon float64) (weather.DistrictWarning, error)
}

func (s *stubEarlyWarningSource) FetchDistrict(ctx context.Context, district string, lat, lon float64) (weather.DistrictWarning, error) {
	return s.fn(ctx, district, lat, lon)
}

func TestEarlyWarningFetcher_FailedDistrictGetsUnknownRiskButOthersSucceed(t *testing.T) {
	src := &stubEarlyWarningSource{fn: func(ctx context.Context, d string, lat, lon float64) (weather.DistrictWarning, error) {
		if d == "Galle" {
			return weather.DistrictWarning{}, errors.New("upstream down")
		}
		return weather.DistrictWarning{District: d, RiskLevel: weather.RiskModerate}, nil
	}}

	f := weather.NewEarlyWarningFetcher(districts("Colombo", "Galle"), src, time.Minute)
	require.NoError(t, f.Refresh(context.Background(), true))

	snap, _, err := f.Get()
	require.NoError(t, err)
	require.Len(t, snap.Districts, 2)

	galle, ok := findDistrictWarning(snap.Districts, "Galle")
	require.True(t, ok)
	assert.Equal(t, weather.RiskUnknown, galle.RiskLevel)
	assert.NotEmpty(t, galle.Error)

	colombo, ok := findDistrictWarning(snap.Districts, "Colombo")
	require.True(t, ok)
	assert.Equal(t, weather.RiskModerate, colombo.RiskLevel)
}

func TestEarlyWarningFetcher_AlertCountAndRiskDistribution(t *testing.T) {
	src := &stubEarlyWarningSource{fn: func(ctx context.Context, d string, lat, lon float64) (weather.DistrictWarning, error) {
		return weather.DistrictWarning{
			District: d, RiskLevel: weather.RiskHigh,
			GovAlerts: []weather.Alert{{ID: "a1"}, {ID: "a2"}},
		}, nil
	}}

	f := weather.NewEarlyWarningFetcher(districts("Colombo"), src, time.Minute)
	require.NoError(t, f.Refresh(context.Background(), true))

	snap, _, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 2, snap.AlertCount)
	assert.Equal(t, 1, snap.RiskDistribution[weather.RiskHigh])
}

func TestEarlyWarningFetcher_EmptyDistrictListErrors(t *testing.T) {
	src := &stubEarlyWarningSource{fn: func(ctx context.Context, d string, lat, lon float64) (weather.DistrictWarning, error) {
		return weather.DistrictWarning{}, nil
	}}
	f := weather.NewEarlyWarningFetcher(nil, src, time.Minute)
	assert.Error(t, f.Refresh(context.Background(), true))
}

func findDistrictWarning(list []weather.DistrictWarning, name string) (weather.DistrictWarning, bool) {
	for _, d := range list {
		if d.District == name {
			return d, true
		}
	}
	return weather.DistrictWarning{}, false
}
