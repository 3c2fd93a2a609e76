package cache

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/fuelradar/backend-go/internal/models"
	"github.com/fuelradar/backend-go/internal/station"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// cellSizeDegrees quantizes query origins to roughly 100 m cells, so a
// re-resolution a few meters away reuses the previous Overpass response.
const cellSizeDegrees = 0.001

// entry wraps a cached station batch with its expiry.
type entry struct {
	stations  []models.Station
	expiresAt time.Time
}

// StationCache is an in-process LRU+TTL cache of normalized station batches.
// It coalesces repeat queries for the same area; nothing survives a restart.
// Gets can run concurrently: a superseded fetch may still be in flight when
// the next resolution issues its own, so the counters need their own lock
// (the embedded LRU is already safe).
type StationCache struct {
	lru *lru.Cache[string, entry]
	ttl time.Duration

	statsMu sync.Mutex
	hits    uint64
	misses  uint64
}

func NewStationCache(size int, ttl time.Duration) (*StationCache, error) {
	lruCache, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}
	return &StationCache{lru: lruCache, ttl: ttl}, nil
}

// Key quantizes the origin and radius into a cache key.
func Key(origin models.Coordinate, radiusMeters int) string {
	latCell := int(math.Floor(origin.Lat / cellSizeDegrees))
	lonCell := int(math.Floor(origin.Lon / cellSizeDegrees))
	return fmt.Sprintf("%d:%d:%d", latCell, lonCell, radiusMeters)
}

func (c *StationCache) Get(key string) ([]models.Station, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		c.recordMiss()
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.lru.Remove(key)
		c.recordMiss()
		return nil, false
	}
	c.statsMu.Lock()
	c.hits++
	c.statsMu.Unlock()
	return e.stations, true
}

func (c *StationCache) recordMiss() {
	c.statsMu.Lock()
	c.misses++
	c.statsMu.Unlock()
}

func (c *StationCache) Set(key string, stations []models.Station) {
	c.lru.Add(key, entry{
		stations:  stations,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Stats returns hit/miss counters for logging.
func (c *StationCache) Stats() map[string]uint64 {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return map[string]uint64{
		"hits":   c.hits,
		"misses": c.misses,
	}
}

func (c *StationCache) Clear() {
	c.lru.Purge()
}

// CachingFinder wraps a station.Finder with the cell cache. Errors are never
// cached; a failed fetch leaves the previous good entry intact.
type CachingFinder struct {
	inner station.Finder
	cache *StationCache
}

func NewCachingFinder(inner station.Finder, stationCache *StationCache) *CachingFinder {
	return &CachingFinder{inner: inner, cache: stationCache}
}

func (f *CachingFinder) FindNearby(ctx context.Context, origin models.Coordinate, radiusMeters int) ([]models.Station, error) {
	key := Key(origin, radiusMeters)
	if stations, ok := f.cache.Get(key); ok {
		log.Debug().Str("key", key).Msg("cache HIT for station query")
		return stations, nil
	}
	log.Debug().Str("key", key).Msg("cache MISS for station query")

	stations, err := f.inner.FindNearby(ctx, origin, radiusMeters)
	if err != nil {
		return nil, err
	}
	f.cache.Set(key, stations)
	return stations, nil
}
