package llmclient

import (
	"context"
	"testing"
	"time"

	"github.com/summarybot/corebot/internal/summarize"
)

func TestRateLimiterEnforcesMinimumInterval(t *testing.T) {
	rl := newRateLimiter(10, 1) // 10 req/s, burst 1 => ~100ms interval
	ctx := context.Background()

	if err := rl.wait(ctx); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	start := time.Now()
	if err := rl.wait(ctx); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	elapsed := time.Since(start)
	if elapsed < 80*time.Millisecond {
		t.Fatalf("second request arrived too soon: %v", elapsed)
	}
}

func TestRateLimiterRespectsContextCancellation(t *testing.T) {
	rl := newRateLimiter(0.1, 1) // very slow refill
	ctx := context.Background()
	_ = rl.wait(ctx) // drain the initial burst token

	cancelCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := rl.wait(cancelCtx); err == nil {
		t.Fatalf("expected context deadline to interrupt wait")
	}
}

func TestBackoffForRateLimitUsesRetryAfter(t *testing.T) {
	err := summarize.RateLimit("anthropic", 5)
	d := backoffFor(err, 0, time.Second, 30*time.Second)
	if d != 5*time.Second {
		t.Fatalf("backoff = %v, want 5s", d)
	}
}

func TestBackoffForExponential(t *testing.T) {
	err := summarize.Timeout("anthropic", 10)
	d0 := backoffFor(err, 0, time.Second, 30*time.Second)
	d1 := backoffFor(err, 1, time.Second, 30*time.Second)
	d2 := backoffFor(err, 2, time.Second, 30*time.Second)
	if d0 != time.Second || d1 != 2*time.Second || d2 != 4*time.Second {
		t.Fatalf("exponential backoff = %v, %v, %v", d0, d1, d2)
	}
}

func TestBackoffClampedToMaxDelay(t *testing.T) {
	err := summarize.Timeout("anthropic", 10)
	d := backoffFor(err, 10, time.Second, 5*time.Second)
	if d != 5*time.Second {
		t.Fatalf("backoff = %v, want clamped to 5s", d)
	}
}

func TestParseRetryAfterDefaultsTo60(t *testing.T) {
	if got := parseRetryAfter("rate limited, no hint here"); got != 60 {
		t.Fatalf("parseRetryAfter = %v, want 60", got)
	}
	if got := parseRetryAfter("please retry after 12 seconds"); got != 12 {
		t.Fatalf("parseRetryAfter = %v, want 12", got)
	}
}
