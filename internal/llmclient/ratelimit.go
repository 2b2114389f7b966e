package llmclient

import (
	"context"
	"sync"
	"time"

	"github.com/summarybot/corebot/internal/summarize"
)

// rateLimiter is a token-bucket limiter enforcing the LLM Client's
// per-process pacing (spec.md §4.7, §5: "Per-client pacing is process-
// wide"). Adapted from internal/tools/web/search.go's tokenBucket.
type rateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

func newRateLimiter(requestsPerSecond float64, burst int) *rateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10 // default: min_request_interval ~= 100ms
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimiter{
		tokens:     float64(burst),
		capacity:   float64(burst),
		refillRate: requestsPerSecond,
		lastRefill: time.Now(),
	}
}

func (r *rateLimiter) takeToken() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refillLocked()
	if r.tokens >= 1 {
		r.tokens--
		return true
	}
	return false
}

func (r *rateLimiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefill).Seconds()
	r.tokens = min(r.capacity, r.tokens+elapsed*r.refillRate)
	r.lastRefill = now
}

// wait blocks until a token is available or ctx is canceled, enforcing the
// minimum interval between outbound requests that spec.md §5 requires:
// "if two concurrent callers request an LLM summary at the same instant,
// the second's request MUST arrive no sooner than min_request_interval
// after the first."
func (r *rateLimiter) wait(ctx context.Context) error {
	for {
		if r.takeToken() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// backoffFor computes the sleep duration before the next retry, per the
// backoff column of spec.md §4.7's retry table: rate-limit errors use the
// server-suggested retry_after as is; everything else backs off
// exponentially as baseDelay*2^attempt (2^attempt seconds with the default
// one-second base), capped at maxDelay.
func backoffFor(err *summarize.Error, attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}

	if err.Kind == summarize.KindRateLimit && err.RetryAfter > 0 {
		return time.Duration(err.RetryAfter * float64(time.Second))
	}

	d := baseDelay * time.Duration(1<<uint(attempt))
	if d > maxDelay {
		return maxDelay
	}
	return d
}
