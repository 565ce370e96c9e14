package ratelimit

import "time"

// Limiter decides whether a request from the given client key may proceed.
type Limiter interface {
	Allow(key string) bool
}

// Clock is the time source used for per-key idle tracking.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// NopLimiter admits every request; used when rate limiting is disabled.
type NopLimiter struct{}

func (NopLimiter) Allow(string) bool { return true }
