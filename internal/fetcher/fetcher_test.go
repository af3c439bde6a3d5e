package fetcher_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaaaru/floodwatch/internal/cache"
	"github.com/thaaaru/floodwatch/internal/fetcher"
)

func TestBase_DelegatesToUnderlyingCache(t *testing.T) {
	c := cache.New("rainfall", time.Minute, func(ctx context.Context) (int, error) { return 5, nil })
	base := fetcher.NewBase("rainfall", c)

	assert.Equal(t, "rainfall", base.Name())
	assert.Equal(t, time.Minute, base.TTL())
	assert.False(t, base.IsFresh())

	require.NoError(t, base.Refresh(context.Background(), true))
	assert.True(t, base.IsFresh())

	v, state, err := base.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.Equal(t, cache.StateFresh, state)
	assert.False(t, base.LastUpdated().IsZero())
}

func TestBase_SnapshotTypeErasesValue(t *testing.T) {
	c := cache.New("rainfall", time.Minute, func(ctx context.Context) (int, error) { return 7, nil })
	base := fetcher.NewBase("rainfall", c)
	require.NoError(t, base.Refresh(context.Background(), true))

	snap, state, err := base.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 7, snap)
	assert.Equal(t, cache.StateFresh, state)
}

func TestBase_CacheAccessorExposesUnderlyingEntry(t *testing.T) {
	c := cache.New("rainfall", time.Minute, func(ctx context.Context) (int, error) { return 1, nil })
	base := fetcher.NewBase("rainfall", c)

	require.NoError(t, base.Refresh(context.Background(), true))
	base.Cache().SetFreeze(true)
	assert.True(t, base.IsFresh(), "freeze set through the Cache accessor must be visible through Base")
}

func TestBase_InfoReflectsCacheState(t *testing.T) {
	c := cache.New("rainfall", time.Minute, func(ctx context.Context) (int, error) { return 1, nil })
	base := fetcher.NewBase("rainfall", c)

	assert.False(t, base.Info().HasData)
	require.NoError(t, base.Refresh(context.Background(), true))
	assert.True(t, base.Info().HasData)
}

type stubFetcher struct{ fetcher.Base[int] }

func TestBase_SatisfiesFetcherInterface(t *testing.T) {
	c := cache.New("rainfall", time.Minute, func(ctx context.Context) (int, error) { return 1, nil })
	var f fetcher.Fetcher = stubFetcher{Base: fetcher.NewBase("rainfall", c)}
	assert.Equal(t, "rainfall", f.Name())
}
