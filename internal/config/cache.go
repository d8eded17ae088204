package config

import (
	"time"
)

// CacheConfig defines settings for the read-through user list cache.  When
// Enabled is false or no Redis client is configured, caching is disabled and
// every admin listing hits the database directly.  The cache never holds
// credentials or tokens; only the non-sensitive aggregate view is stored.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 30*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "cache"),
	}
}
