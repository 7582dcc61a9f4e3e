package weather

import (
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"chronos/internal/types"
)

// DefaultCacheTTL is how long a cached observation stays fresh.
const DefaultCacheTTL = 30 * time.Minute

// Cache is a TTL-bounded observation cache keyed by (lowercased location,
// date). Entries are immutable once written and only replaced wholesale on
// expiry. The cache is an explicitly owned, injectable object so tests can
// construct an isolated instance and drive the clock deterministically.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	clock   clockwork.Clock
}

type cacheEntry struct {
	obs      types.WeatherObservation
	storedAt time.Time
}

// NewCache creates a cache with the given TTL and clock.
func NewCache(ttl time.Duration, clock clockwork.Clock) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Key builds the canonical cache key for a (location, date) pair.
func Key(location, date string) string {
	return strings.ToLower(location) + "|" + date
}

// Get returns the cached observation for (location, date) if one exists and
// is younger than the TTL. An expired entry is evicted on lookup.
func (c *Cache) Get(location, date string) (types.WeatherObservation, bool) {
	key := Key(location, date)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return types.WeatherObservation{}, false
	}
	if c.clock.Since(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		return types.WeatherObservation{}, false
	}
	return entry.obs, true
}

// Put stores a fully constructed observation. Writes only happen after the
// observation is complete, so concurrent readers never see partial state.
func (c *Cache) Put(location, date string, obs types.WeatherObservation) {
	key := Key(location, date)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{obs: obs, storedAt: c.clock.Now()}
}

// Clear drops every entry. Useful for tests.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len reports the number of live entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
