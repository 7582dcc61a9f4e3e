package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronos/internal/types"
)

type stubProvider struct {
	mu    sync.Mutex
	obs   *types.WeatherObservation
	err   error
	calls int
}

func (p *stubProvider) Forecast(context.Context, string, string) (*types.WeatherObservation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	cp := *p.obs
	return &cp, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func liveObs() *types.WeatherObservation {
	return &types.WeatherObservation{
		Location:            "Paris",
		ForecastDate:        "2026-09-03",
		TemperatureCelsius:  21.0,
		Condition:           "sunny",
		PrecipitationChance: 5,
		WindSpeedKmh:        10,
		HumidityPercent:     55,
	}
}

func TestGetWeatherLivePath(t *testing.T) {
	clock := clockwork.NewFakeClock()
	provider := &stubProvider{obs: liveObs()}
	src := NewSource(NewCache(DefaultCacheTTL, clock), provider, discardLogger(), nil)

	obs := src.GetWeather(context.Background(), "Paris", "2026-09-03", false)
	assert.False(t, obs.IsSimulated)
	assert.Equal(t, "sunny", obs.Condition)
	assert.Equal(t, 1, provider.callCount())
}

func TestGetWeatherCacheHitSkipsFetch(t *testing.T) {
	clock := clockwork.NewFakeClock()
	provider := &stubProvider{obs: liveObs()}
	src := NewSource(NewCache(DefaultCacheTTL, clock), provider, discardLogger(), nil)

	first := src.GetWeather(context.Background(), "Paris", "2026-09-03", false)
	second := src.GetWeather(context.Background(), "Paris", "2026-09-03", false)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.callCount(), "second call must be served from cache")
}

func TestGetWeatherCacheExpiryTriggersRefetch(t *testing.T) {
	clock := clockwork.NewFakeClock()
	provider := &stubProvider{obs: liveObs()}
	src := NewSource(NewCache(DefaultCacheTTL, clock), provider, discardLogger(), nil)

	src.GetWeather(context.Background(), "Paris", "2026-09-03", false)
	clock.Advance(DefaultCacheTTL + time.Second)
	src.GetWeather(context.Background(), "Paris", "2026-09-03", false)

	assert.Equal(t, 2, provider.callCount())
}

func TestGetWeatherLiveFailureDegradesToSimulation(t *testing.T) {
	clock := clockwork.NewFakeClock()
	provider := &stubProvider{err: errors.New("timeout")}
	src := NewSource(NewCache(DefaultCacheTTL, clock), provider, discardLogger(), nil)

	obs := src.GetWeather(context.Background(), "Paris", "2026-09-03", false)
	assert.True(t, obs.IsSimulated, "degraded observation must be flagged simulated")
	assert.NotEmpty(t, obs.Condition)
}

func TestGetWeatherSimulateFlagSkipsLive(t *testing.T) {
	clock := clockwork.NewFakeClock()
	provider := &stubProvider{obs: liveObs()}
	src := NewSource(NewCache(DefaultCacheTTL, clock), provider, discardLogger(), nil)

	obs := src.GetWeather(context.Background(), "Paris", "2026-09-03", true)
	assert.True(t, obs.IsSimulated)
	assert.Equal(t, 0, provider.callCount())
}

func TestGetWeatherNilProviderDegrades(t *testing.T) {
	clock := clockwork.NewFakeClock()
	src := NewSource(NewCache(DefaultCacheTTL, clock), nil, discardLogger(), nil)

	obs := src.GetWeather(context.Background(), "Paris", "2026-09-03", false)
	assert.True(t, obs.IsSimulated)
}

// Simulation is deterministic for a fixed (location, date): two calls with
// an intervening cache clear return identical values.
func TestSimulationDeterministicAcrossCacheClear(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := NewCache(DefaultCacheTTL, clock)
	src := NewSource(cache, nil, discardLogger(), nil)

	first := src.GetWeather(context.Background(), "Tokyo", "2026-09-10", true)
	cache.Clear()
	second := src.GetWeather(context.Background(), "Tokyo", "2026-09-10", true)

	assert.Equal(t, first, second)
}

func TestSimulateInvariants(t *testing.T) {
	locations := []string{"Paris", "Tokyo", "New York", "Anand", "Reykjavik", "x"}
	dates := []string{"2026-01-01", "2026-06-15", "2026-12-31"}

	for _, loc := range locations {
		for _, date := range dates {
			obs := Simulate(loc, date)
			assert.GreaterOrEqual(t, obs.PrecipitationChance, 0)
			assert.LessOrEqual(t, obs.PrecipitationChance, 100)
			assert.GreaterOrEqual(t, obs.HumidityPercent, 40)
			assert.LessOrEqual(t, obs.HumidityPercent, 85)
			assert.GreaterOrEqual(t, obs.WindSpeedKmh, 0.0)
			assert.True(t, obs.IsSimulated)
			assert.NotEmpty(t, obs.Condition)
		}
	}
}

func TestSimulateKeyIsCaseInsensitiveOnLocation(t *testing.T) {
	a := Simulate("Paris", "2026-09-03")
	b := Simulate("paris", "2026-09-03")
	// Same seed, so same synthesized values; only the echoed location differs.
	b.Location = a.Location
	assert.Equal(t, a, b)
}

func TestCacheEviction(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := NewCache(time.Minute, clock)
	cache.Put("Paris", "2026-09-03", *liveObs())

	_, ok := cache.Get("Paris", "2026-09-03")
	require.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = cache.Get("Paris", "2026-09-03")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len(), "expired entry must be evicted on lookup")
}

func TestCacheKeyCaseInsensitive(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := NewCache(time.Minute, clock)
	cache.Put("PARIS", "2026-09-03", *liveObs())

	_, ok := cache.Get("paris", "2026-09-03")
	assert.True(t, ok)
}

func TestGetWeatherConcurrentRequestsShareState(t *testing.T) {
	clock := clockwork.NewFakeClock()
	provider := &stubProvider{obs: liveObs()}
	src := NewSource(NewCache(DefaultCacheTTL, clock), provider, discardLogger(), nil)

	var wg sync.WaitGroup
	results := make([]types.WeatherObservation, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = src.GetWeather(context.Background(), "Paris", "2026-09-03", false)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
	assert.LessOrEqual(t, provider.callCount(), 8)
}
