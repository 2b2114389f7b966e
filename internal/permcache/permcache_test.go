package permcache

import (
	"testing"
	"time"
)

func TestGetSetRoundTripAndStats(t *testing.T) {
	c, err := New(Config{Capacity: 10, TTL: time.Minute})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected miss before Set")
	}
	c.Set("k", true)
	v, ok := c.Get("k")
	if !ok || v != true {
		t.Fatalf("Get(k) = %v, %v", v, ok)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("stats = %+v, want 1 hit 1 miss", stats)
	}
	if stats.HitRate != 0.5 {
		t.Fatalf("hit rate = %v, want 0.5", stats.HitRate)
	}
}

func TestLRUByLastAccessNotInsertion(t *testing.T) {
	c, err := New(Config{Capacity: 2, TTL: time.Minute})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Set("a", 1)
	c.Set("b", 2)
	// Touch "a" so it becomes the most-recently-used; "b" becomes the LRU
	// victim despite being inserted more recently than "a".
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected 'b' to be evicted as the least-recently-used entry")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected 'a' to survive since it was accessed most recently")
	}
}

func TestEveryEntryAlwaysExpires(t *testing.T) {
	c, err := New(Config{Capacity: 10, TTL: time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Set("k", "v")
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to have expired")
	}
}

func TestWildcardPatternInvalidation(t *testing.T) {
	c, err := New(Config{Capacity: 10, TTL: time.Minute})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Set("perm:guild-42:user-1", true)
	c.Set("perm:guild-42:user-2", true)
	c.Set("perm:guild-99:user-1", true)

	n := c.InvalidatePattern("*:guild-42:*")
	if n != 2 {
		t.Fatalf("InvalidatePattern removed %d, want 2", n)
	}
	if !c.Contains("perm:guild-99:user-1") {
		t.Fatalf("expected unrelated guild entry to survive")
	}
}

func TestGetEntryInfoDoesNotAffectStats(t *testing.T) {
	c, err := New(Config{Capacity: 10, TTL: time.Minute})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Set("k", "v")
	info, ok := c.GetEntryInfo("k")
	if !ok {
		t.Fatalf("expected entry info to be present")
	}
	if info.AccessCount != 0 {
		t.Fatalf("AccessCount = %d, want 0 before any Get", info.AccessCount)
	}
	if c.Stats().Hits != 0 || c.Stats().Misses != 0 {
		t.Fatalf("GetEntryInfo must not affect hit/miss stats")
	}
}

func TestResetStats(t *testing.T) {
	c, err := New(Config{Capacity: 10, TTL: time.Minute})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Set("k", "v")
	c.Get("k")
	c.Get("missing")
	c.ResetStats()
	stats := c.Stats()
	if stats.Hits != 0 || stats.Misses != 0 {
		t.Fatalf("expected stats reset, got %+v", stats)
	}
}
