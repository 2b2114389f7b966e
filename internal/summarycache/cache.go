// Package summarycache is a thin typed overlay on a cache backend,
// implementing canonical key construction, options fingerprinting, and
// SummaryResult (de)serialization (spec.md §4.2).
package summarycache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/summarybot/corebot/internal/cachebackend"
	"github.com/summarybot/corebot/internal/summarize"
)

const hourFormat = "2006010215"

// Cache memoizes SummaryResults under a fingerprint-keyed cache entry.
type Cache struct {
	backend cachebackend.Backend
	ttl     int
}

// New wraps a cache backend with the Summary Cache's key scheme. ttlSeconds
// <= 0 means entries never expire.
func New(backend cachebackend.Backend, ttlSeconds int) *Cache {
	return &Cache{backend: backend, ttl: ttlSeconds}
}

// BuildKey returns the colon-joined canonical key for a cache entry: the
// tuple ("summary", channel_id, start_hour, end_hour, options_fingerprint)
// where start_hour/end_hour are truncated to the hour in YYYYMMDDHH, in UTC
// (spec.md §9: "implicit time zones" — all timestamps are UTC). Hour
// truncation deliberately widens the cache-hit window for near-identical
// requests (spec.md §4.2(a)).
func BuildKey(channelID string, start, end time.Time, fingerprint string) string {
	return fmt.Sprintf("summary:%s:%s:%s:%s",
		channelID,
		start.UTC().Format(hourFormat),
		end.UTC().Format(hourFormat),
		fingerprint)
}

// Get looks up a cached SummaryResult by key. A deserialization failure
// removes the offending entry and is reported as a miss.
func (c *Cache) Get(ctx context.Context, key string) (*summarize.SummaryResult, bool) {
	raw, ok := c.backend.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var result summarize.SummaryResult
	if err := json.Unmarshal(raw, &result); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("summary_cache_deserialize_failed")
		c.backend.Delete(ctx, key)
		return nil, false
	}
	return &result, true
}

// Set stores a SummaryResult under key. Store failures are logged and
// discarded per spec.md §7's cache-error propagation policy — they never
// surface to the caller.
func (c *Cache) Set(ctx context.Context, key string, result *summarize.SummaryResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("summary_cache_serialize_failed")
		return
	}
	if err := c.backend.Set(ctx, key, raw, c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("summary_cache_store_failed")
	}
}

// InvalidateChannel removes every summary cache entry for a channel via
// prefix match on "summary:<channel_id>:".
func (c *Cache) InvalidateChannel(ctx context.Context, channelID string) int {
	return c.backend.Clear(ctx, fmt.Sprintf("summary:%s:", channelID))
}

// InvalidateGuild removes the entire summary cache. spec.md §9 notes the
// source does this coarsely; implementations MAY narrow it when the
// backend supports efficient prefix queries, but there is no guild
// component in the canonical key to narrow on, so this clears everything.
func (c *Cache) InvalidateGuild(ctx context.Context, _ string) int {
	return c.backend.Clear(ctx, "")
}

func (c *Cache) HealthCheck(ctx context.Context) bool { return c.backend.HealthCheck(ctx) }

func (c *Cache) Initialize(ctx context.Context) error { return c.backend.Initialize(ctx) }

func (c *Cache) Close(ctx context.Context) error { return c.backend.Close(ctx) }
