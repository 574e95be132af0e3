package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Limiter bounds how often an operation such as an outbound upload may run.
type Limiter interface {
	// Wait blocks until a call is allowed or ctx is done.
	Wait(ctx context.Context) error
}

// RateLimiter allows at most limit calls per interval. It is safe for concurrent use.
type RateLimiter struct {
	mu          sync.Mutex
	limit       int           // calls per window
	interval    time.Duration // window length
	count       int
	windowStart time.Time
	now         func() time.Time
}

// NewRateLimiter creates a RateLimiter. A non-positive limit disables limiting.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:       limit,
		interval:    interval,
		windowStart: time.Now(),
		now:         time.Now,
	}
}

// Wait blocks until a slot is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	delay := rl.reserve()
	if delay <= 0 {
		return nil
	}

	slog.Info("rate limit reached, waiting", "limit", rl.limit, "wait", delay)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// reserve claims a slot and returns how long the caller must wait for it.
func (rl *RateLimiter) reserve() time.Duration {
	if rl.limit <= 0 {
		return 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.windowStart) >= rl.interval {
		rl.windowStart = now
		rl.count = 0
	}

	if rl.count < rl.limit {
		rl.count++
		return rl.windowStart.Sub(now)
	}

	// current window is full; the slot belongs to the next one
	rl.windowStart = rl.windowStart.Add(rl.interval)
	rl.count = 1
	return rl.windowStart.Sub(now)
}
