package gh

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ThrottleConfig configures the API rate limiter
type ThrottleConfig struct {
	RequestsPerSecond float64 // Token refill rate (default: 5)
	BurstSize         int     // Max tokens available at once (default: 5)
}

// DefaultThrottleConfig returns the defaults for GitHub API calls
func DefaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{
		RequestsPerSecond: 5,
		BurstSize:         5,
	}
}

// ThrottleStats holds counters for throttle activity
type ThrottleStats struct {
	TotalCalls    int64 // Calls admitted by the throttle
	TotalWaitedMs int64 // Milliseconds spent waiting for tokens
}

// Throttle paces GitHub API calls. It does not retry.
type Throttle struct {
	limiter       *rate.Limiter
	totalCalls    atomic.Int64
	totalWaitedMs atomic.Int64
}

// NewThrottle creates a Throttle. Non-positive values fall back to the defaults.
func NewThrottle(cfg ThrottleConfig) *Throttle {
	defaults := DefaultThrottleConfig()
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = defaults.BurstSize
	}
	return &Throttle{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Wait blocks until a token is available or ctx is canceled
func (t *Throttle) Wait(ctx context.Context) error {
	start := time.Now()
	err := t.limiter.Wait(ctx)
	if waited := time.Since(start).Milliseconds(); waited > 0 {
		t.totalWaitedMs.Add(waited)
	}
	if err == nil {
		t.totalCalls.Add(1)
	}
	return err
}

// Stats returns a snapshot of the throttle counters
func (t *Throttle) Stats() ThrottleStats {
	return ThrottleStats{
		TotalCalls:    t.totalCalls.Load(),
		TotalWaitedMs: t.totalWaitedMs.Load(),
	}
}
