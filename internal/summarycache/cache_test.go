package summarycache

import (
	"context"
	"testing"
	"time"

	"github.com/summarybot/corebot/internal/cachebackend"
	"github.com/summarybot/corebot/internal/summarize"
)

func TestBuildKeyDeterministic(t *testing.T) {
	start := time.Date(2026, 3, 5, 14, 37, 0, 0, time.UTC)
	end := time.Date(2026, 3, 5, 16, 2, 0, 0, time.UTC)

	k1 := BuildKey("chan-1", start, end, "abcd1234")
	k2 := BuildKey("chan-1", start, end, "abcd1234")
	if k1 != k2 {
		t.Fatalf("expected identical keys, got %q vs %q", k1, k2)
	}
	if k1 != "summary:chan-1:2026030514:2026030516:abcd1234" {
		t.Fatalf("unexpected key format: %q", k1)
	}
}

func TestOptionsFingerprintStability(t *testing.T) {
	opts := summarize.DefaultSummaryOptions()
	opts.Model = "claude-3-5-sonnet-20241022"

	f1 := OptionsFingerprint(opts)
	f2 := OptionsFingerprint(opts)
	if f1 != f2 {
		t.Fatalf("fingerprint not stable: %q vs %q", f1, f2)
	}
	if len(f1) != 8 {
		t.Fatalf("fingerprint length = %d, want 8", len(f1))
	}

	cosmetic := opts
	cosmetic.MinMessages = opts.MinMessages + 4
	if OptionsFingerprint(cosmetic) != f1 {
		t.Fatalf("a non-fingerprint option changed the fingerprint")
	}

	affecting := opts
	affecting.Temperature = 1.5
	if OptionsFingerprint(affecting) == f1 {
		t.Fatalf("temperature change must alter the fingerprint")
	}
}

func TestCacheRoundTripAndInvalidation(t *testing.T) {
	ctx := context.Background()
	backend := cachebackend.NewMemory(100)
	cache := New(backend, 3600)

	result := &summarize.SummaryResult{
		ID:           "r1",
		ChannelID:    "chan-1",
		MessageCount: 5,
		SummaryText:  "a summary",
	}
	key := BuildKey("chan-1", time.Now(), time.Now(), "fp1")
	cache.Set(ctx, key, result)

	got, ok := cache.Get(ctx, key)
	if !ok {
		t.Fatalf("expected cache hit after Set")
	}
	if got.ID != "r1" || got.SummaryText != "a summary" {
		t.Fatalf("round-tripped result mismatch: %+v", got)
	}

	n := cache.InvalidateChannel(ctx, "chan-1")
	if n != 1 {
		t.Fatalf("InvalidateChannel removed %d, want 1", n)
	}
	if _, ok := cache.Get(ctx, key); ok {
		t.Fatalf("expected miss after invalidation")
	}
}

func TestCacheGetOnCorruptEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	backend := cachebackend.NewMemory(10)
	cache := New(backend, 0)

	_ = backend.Set(ctx, "summary:bad", []byte("not json"), 0)
	if _, ok := cache.Get(ctx, "summary:bad"); ok {
		t.Fatalf("expected corrupt entry to be treated as a miss")
	}
	if _, ok := backend.Get(ctx, "summary:bad"); ok {
		t.Fatalf("expected corrupt entry to be removed from the backend")
	}
}
