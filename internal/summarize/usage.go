package summarize

import (
	"sync"
	"time"
)

// UsageStats is a set of counters owned by one LLM Client instance that
// only grow until Reset is called, mutated on every request or error and
// safe for concurrent readers/writers.
type UsageStats struct {
	mu               sync.Mutex
	TotalRequests    int64
	TotalInputTokens int64
	TotalOutputTokens int64
	TotalCostUSD     float64
	Errors           int64
	RateLimitHits    int64
	LastRequestTime  time.Time
}

// Snapshot is a point-in-time copy of UsageStats safe to hand to callers.
type Snapshot struct {
	TotalRequests     int64
	TotalInputTokens  int64
	TotalOutputTokens int64
	TotalCostUSD      float64
	Errors            int64
	RateLimitHits     int64
	LastRequestTime   time.Time
}

// RecordSuccess accumulates tokens and cost for a completed request.
func (u *UsageStats) RecordSuccess(inputTokens, outputTokens int, costUSD float64, at time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.TotalRequests++
	u.TotalInputTokens += int64(inputTokens)
	u.TotalOutputTokens += int64(outputTokens)
	u.TotalCostUSD += costUSD
	u.LastRequestTime = at
}

// RecordError increments the request and error counters for a failed
// request that was not a rate-limit (use RecordRateLimit for those).
func (u *UsageStats) RecordError(at time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.TotalRequests++
	u.Errors++
	u.LastRequestTime = at
}

// RecordRateLimit increments the request and rate-limit-hit counters.
func (u *UsageStats) RecordRateLimit(at time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.TotalRequests++
	u.RateLimitHits++
	u.LastRequestTime = at
}

// Snap returns a consistent copy of the current counters.
func (u *UsageStats) Snap() Snapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	return Snapshot{
		TotalRequests:     u.TotalRequests,
		TotalInputTokens:  u.TotalInputTokens,
		TotalOutputTokens: u.TotalOutputTokens,
		TotalCostUSD:      u.TotalCostUSD,
		Errors:            u.Errors,
		RateLimitHits:     u.RateLimitHits,
		LastRequestTime:   u.LastRequestTime,
	}
}

// Reset zeroes every counter. Supplemented beyond spec.md to support
// long-running-process metric-window rotation (see SPEC_FULL.md §C).
func (u *UsageStats) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.TotalRequests = 0
	u.TotalInputTokens = 0
	u.TotalOutputTokens = 0
	u.TotalCostUSD = 0
	u.Errors = 0
	u.RateLimitHits = 0
	u.LastRequestTime = time.Time{}
}
