// Package permcache memoizes authorization decisions with LRU+TTL
// semantics distinct from the Summary Cache (spec.md §4.3, §9 — the two
// must not be unified: this cache evicts by last-access time, always
// assigns an expiry, and tracks hit/miss statistics).
package permcache

import (
	"regexp"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// entry is the value stored in the LRU core alongside its expiry and the
// bookkeeping needed for introspection (SPEC_FULL.md §C).
type entry struct {
	value       any
	expiresAt   time.Time
	createdAt   time.Time
	accessCount int64
}

// Cache is an LRU-by-last-access permission cache where every entry always
// carries an expiry (never "forever", unlike the Summary Cache's backend).
type Cache struct {
	mu         sync.Mutex
	core       *lru.Cache[string, *entry]
	defaultTTL time.Duration
	maxSize    int
	hits       int64
	misses     int64
}

// Config tunes capacity and default TTL.
type Config struct {
	Capacity int
	TTL      time.Duration
}

// New constructs a Permission Cache. A non-positive capacity defaults to
// 10000 and a non-positive TTL defaults to 3600s, matching spec.md §4.3's
// stated defaults.
func New(cfg Config) (*Cache, error) {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 10000
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	core, err := lru.New[string, *entry](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{core: core, defaultTTL: ttl, maxSize: capacity}, nil
}

// Get returns the cached value for key, advancing its last-accessed
// position in the LRU order on a hit (so it is not the next eviction
// victim), and recording hit/miss statistics. An expired entry is removed
// and reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.core.Get(key)
	if !ok {
		c.misses++
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.core.Remove(key)
		c.misses++
		return nil, false
	}
	e.accessCount++
	c.hits++
	return e.value, true
}

// Set stores value under key with the cache's default TTL. Every entry
// always has an expiry, unlike the Summary Cache's backend.
func (c *Cache) Set(key string, value any) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL override.
func (c *Cache) SetTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	c.core.Add(key, &entry{value: value, expiresAt: now.Add(ttl), createdAt: now})
}

// Invalidate removes a single key. Returns true if it was present.
func (c *Cache) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.core.Remove(key)
}

// InvalidatePattern removes every entry whose key matches pattern, where
// "*" means "any run of characters" (spec.md §4.3). Returns the count
// removed.
func (c *Cache) InvalidatePattern(pattern string) int {
	re := wildcardToRegexp(pattern)
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, k := range c.core.Keys() {
		if re.MatchString(k) {
			c.core.Remove(k)
			n++
		}
	}
	return n
}

func wildcardToRegexp(pattern string) *regexp.Regexp {
	segments := strings.Split(pattern, "*")
	for i, s := range segments {
		segments[i] = regexp.QuoteMeta(s)
	}
	return regexp.MustCompile("^" + strings.Join(segments, ".*") + "$")
}

// CleanupExpired is an explicit sweep, distinct from the lazy expiry
// performed by Get (spec.md §4.3).
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	n := 0
	for _, k := range c.core.Keys() {
		e, ok := c.core.Peek(k)
		if ok && now.After(e.expiresAt) {
			c.core.Remove(k)
			n++
		}
	}
	return n
}

// Stats is a point-in-time snapshot of cache performance.
type Stats struct {
	Size    int
	MaxSize int
	Hits    int64
	Misses  int64
	HitRate float64
	TTL     time.Duration
}

// Stats returns {size, max_size, hits, misses, hit_rate, ttl} per spec.md
// §4.3.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		Size:    c.core.Len(),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
		TTL:     c.defaultTTL,
	}
}

// ResetStats zeroes the hit/miss counters without touching entries.
// Supplemented beyond spec.md per SPEC_FULL.md §C, grounded on
// permissions/cache.py's reset_stats.
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits = 0
	c.misses = 0
}

// EntryInfo reports introspection detail for one entry. Supplemented
// beyond spec.md per SPEC_FULL.md §C, grounded on permissions/cache.py's
// get_entry_info.
type EntryInfo struct {
	Key           string
	RemainingTTL  time.Duration
	AccessCount   int64
	CreatedAt     time.Time
}

// GetEntryInfo returns introspection detail for key without affecting LRU
// order or hit/miss counters.
func (c *Cache) GetEntryInfo(key string) (EntryInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.core.Peek(key)
	if !ok {
		return EntryInfo{}, false
	}
	remaining := time.Until(e.expiresAt)
	if remaining < 0 {
		remaining = 0
	}
	return EntryInfo{Key: key, RemainingTTL: remaining, AccessCount: e.accessCount, CreatedAt: e.createdAt}, true
}

// GetAllKeys returns every non-expired key currently stored, oldest-access
// first. Supplemented beyond spec.md per SPEC_FULL.md §C.
func (c *Cache) GetAllKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	keys := make([]string, 0, c.core.Len())
	for _, k := range c.core.Keys() {
		if e, ok := c.core.Peek(k); ok && now.Before(e.expiresAt) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Len returns the number of entries currently stored, including expired
// ones not yet swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.core.Len()
}

// Contains reports whether key is present and not expired, without
// affecting LRU order or stats.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.core.Peek(key)
	if !ok {
		return false
	}
	return time.Now().Before(e.expiresAt)
}

func (c *Cache) HealthCheck() bool { return true }
