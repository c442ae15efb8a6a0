package config

import (
    "strings"
    "time"
)

// RateLimitConfig describes the token bucket applied per client IP.  The
// bucket holds Capacity tokens and gains RefillTokens every RefillInterval.
// TTL bounds how long idle bucket state is kept in Redis.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    Prefix         string
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig, falling back to defaults that allow bursts of 30
// requests refilled at 10 per second.
func LoadRateLimitConfig() RateLimitConfig {
    return RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       atoi(getenv("RATE_LIMIT_CAPACITY", "30")),
        RefillTokens:   atoi(getenv("RATE_LIMIT_REFILL_TOKENS", "10")),
        RefillInterval: parseDur(getenv("RATE_LIMIT_REFILL_INTERVAL", "1s")),
        TTL:            parseDur(getenv("RATE_LIMIT_TTL", "10m")),
        Prefix:         getenv("RATE_LIMIT_PREFIX", "ratelimit"),
    }
}

func envBool(key string, def bool) bool {
    v := getenv(key, "")
    if v == "" {
        return def
    }
    return strings.EqualFold(v, "true") || v == "1"
}
