package bgg

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestInterval is the minimum spacing the remote catalog asks clients to respect.
const DefaultRequestInterval = time.Second

// RateLimiter spaces outbound requests by a fixed interval, across every endpoint.
// One limiter is owned by the Fetcher; it is safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows one request per interval with no burst.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	if interval <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next request may go out and returns how long it waited.
func (r *RateLimiter) Wait(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := r.limiter.Wait(ctx); err != nil {
		return time.Since(start), err
	}
	return time.Since(start), nil
}
