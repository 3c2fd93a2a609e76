package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	StationLRUSize       int
	StationLRUTTLMinutes int
}

const (
	defaultStationLRUSize       = 256
	defaultStationLRUTTLMinutes = 10
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		StationLRUSize:       getEnvInt("CACHE_STATION_LRU_SIZE", defaultStationLRUSize),
		StationLRUTTLMinutes: getEnvInt("CACHE_STATION_LRU_TTL_MINUTES", defaultStationLRUTTLMinutes),
	}

	log.Debug().
		Int("StationLRUSize", config.StationLRUSize).
		Int("StationLRUTTLMinutes", config.StationLRUTTLMinutes).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetStationLRUTTL() time.Duration {
	return time.Duration(c.StationLRUTTLMinutes) * time.Minute
}
