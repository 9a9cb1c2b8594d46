package config

import "time"

// CacheConfig defines settings for the response cache middleware on the
// dashboard API.  When Enabled is false or no Redis client is available,
// caching is disabled and requests pass straight through.
type CacheConfig struct {
	Enabled bool          // master switch
	TTL     time.Duration // lifetime of a cached response
	Prefix  string        // key namespace in Redis
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults: enabled, 60s TTL, "dm" prefix.  The datamart only changes
// once per pipeline run, so even a short TTL absorbs most dashboard load.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: getenv("CACHE_ENABLED", "true") == "true",
		TTL:     parseDur(getenv("CACHE_TTL", "60s")),
		Prefix:  getenv("CACHE_PREFIX", "dm"),
	}
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Minute
	}
	return d
}
