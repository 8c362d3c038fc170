package ratelimit

import "time"

// RateLimitConfig bounds request volume per key. Checkpoint terminals retry
// aggressively when offline buffering drains, so the admission surface caps
// per-minute volume per terminal.
type RateLimitConfig struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

type RateLimiter interface {
	Allow(key string, config RateLimitConfig) (bool, error)
	GetRemaining(key string, window time.Duration) (int64, error)
	Reset(key string) error
}
