// Package weather produces a WeatherObservation for any (location, date)
// pair, guaranteed: the fallback chain cache -> live fetch -> deterministic
// simulation always yields data, and the observation's IsSimulated flag
// accurately reports its provenance even when live and simulated paths
// intermix.
package weather

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"chronos/internal/types"
)

// LiveProvider is the live forecast collaborator. Implementations must
// honor the context deadline; any error is treated as a total miss.
type LiveProvider interface {
	Forecast(ctx context.Context, location, date string) (*types.WeatherObservation, error)
}

// Metrics is the telemetry hook for the source. Implementations must be
// safe for concurrent use. A nil Metrics disables recording.
type Metrics interface {
	RecordCacheLookup(result string)
	RecordWeatherFetch(outcome string)
}

// Source is the weather access point with caching and fallback.
type Source struct {
	cache   *Cache
	live    LiveProvider
	logger  *slog.Logger
	metrics Metrics
	flight  singleflight.Group
}

// NewSource creates a Source. live may be nil, in which case every
// non-simulated request degrades straight to simulation. metrics may be nil.
func NewSource(cache *Cache, live LiveProvider, logger *slog.Logger, metrics Metrics) *Source {
	return &Source{
		cache:   cache,
		live:    live,
		logger:  logger.With("component", "weather"),
		metrics: metrics,
	}
}

// GetWeather returns an observation for (location, date). It never fails:
//
//  1. A cache hit younger than the TTL is returned immediately.
//  2. With simulate set, a deterministic simulated observation is
//     synthesized.
//  3. Otherwise one bounded live fetch is attempted; any failure is
//     swallowed and treated as a total miss.
//  4. A live miss falls back to simulation with IsSimulated forced true,
//     so callers can always distinguish authoritative from estimated data.
//  5. The result is cached before returning.
//
// Concurrent requests for the same key are collapsed into a single fetch.
func (s *Source) GetWeather(ctx context.Context, location, date string, simulate bool) types.WeatherObservation {
	if obs, ok := s.cache.Get(location, date); ok {
		s.recordCache("hit")
		return obs
	}
	s.recordCache("miss")

	v, _, _ := s.flight.Do(Key(location, date), func() (any, error) {
		return s.fetch(ctx, location, date, simulate), nil
	})
	return v.(types.WeatherObservation)
}

func (s *Source) fetch(ctx context.Context, location, date string, simulate bool) types.WeatherObservation {
	var obs types.WeatherObservation

	switch {
	case simulate:
		obs = Simulate(location, date)
		s.recordFetch("simulated")
	case s.live == nil:
		obs = Simulate(location, date)
		obs.IsSimulated = true
		s.recordFetch("degraded")
	default:
		live, err := s.live.Forecast(ctx, location, date)
		if err == nil && live != nil {
			obs = *live
			s.recordFetch("live")
		} else {
			if err != nil {
				s.logger.Warn("live forecast failed, degrading to simulation",
					"location", location, "date", date, "error", err)
			}
			obs = Simulate(location, date)
			obs.IsSimulated = true
			s.recordFetch("degraded")
		}
	}

	s.cache.Put(location, date, obs)
	return obs
}

func (s *Source) recordCache(result string) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(result)
	}
}

func (s *Source) recordFetch(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordWeatherFetch(outcome)
	}
}
