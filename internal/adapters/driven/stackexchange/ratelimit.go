package stackexchange

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ProactiveRate keeps well under the API's 30 requests/second per IP limit.
	ProactiveRate = 5.0

	// ProactiveBurst is the token bucket burst size.
	ProactiveBurst = 5
)

// RateLimiter combines proactive throttling with the backoff the API
// asks for in its responses.
type RateLimiter struct {
	mu        sync.Mutex
	bucket    *rate.Limiter
	backoff   time.Time
	remaining int
}

// NewRateLimiter creates a rate limiter with proactive throttling.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		bucket:    rate.NewLimiter(rate.Limit(ProactiveRate), ProactiveBurst),
		remaining: -1,
	}
}

// Wait blocks until it is safe to send a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	until := r.backoff
	r.mu.Unlock()

	if wait := time.Until(until); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return waitToken(ctx, r.bucket)
}

// waitToken waits for a token. When the wait would outlast ctx's deadline
// the limiter fails early; that is reported as context.DeadlineExceeded.
func waitToken(ctx context.Context, l *rate.Limiter) error {
	err := l.Wait(ctx)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if _, ok := ctx.Deadline(); ok {
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	return err
}

// Update records the backoff and remaining quota reported by a response.
func (r *RateLimiter) Update(backoffSeconds, quotaRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if backoffSeconds > 0 {
		until := time.Now().Add(time.Duration(backoffSeconds) * time.Second)
		if until.After(r.backoff) {
			r.backoff = until
		}
	}
	r.remaining = quotaRemaining
}

// Remaining returns the last reported daily quota, or -1 if unknown.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}
