package engine

import (
	"context"
	"testing"
	"time"

	"github.com/summarybot/corebot/internal/llmclient"
	"github.com/summarybot/corebot/internal/summarize"
)

type fakeLLM struct {
	calls    int
	response llmclient.Response
	err      *summarize.Error
}

func (f *fakeLLM) CreateSummary(_ context.Context, _, _ string, _ summarize.SummaryOptions) (llmclient.Response, *summarize.Error) {
	f.calls++
	if f.err != nil {
		return llmclient.Response{}, f.err
	}
	return f.response, nil
}

func (f *fakeLLM) HealthCheck(_ context.Context) bool { return f.err == nil }

type fakeCache struct {
	store   map[string]*summarize.SummaryResult
	healthy bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string]*summarize.SummaryResult{}, healthy: true}
}

func (f *fakeCache) Get(_ context.Context, key string) (*summarize.SummaryResult, bool) {
	r, ok := f.store[key]
	return r, ok
}

func (f *fakeCache) Set(_ context.Context, key string, result *summarize.SummaryResult) {
	f.store[key] = result
}

func (f *fakeCache) HealthCheck(_ context.Context) bool { return f.healthy }

func sampleMessages(n int, base time.Time) []summarize.Message {
	msgs := make([]summarize.Message, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, summarize.Message{
			ID:         string(rune('a' + i)),
			AuthorID:   "user-1",
			AuthorName: "Alice",
			Content:    "substantial discussion content here for message",
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		})
	}
	return msgs
}

const validJSONResponse = `{
  "summary_text": "The team discussed the release plan and agreed on next steps.",
  "key_points": ["Release plan agreed", "Next steps assigned"],
  "action_items": [{"description": "Ship the release", "assignee": "Alice", "priority": "high"}],
  "technical_terms": [],
  "participants": [{"display_name": "Alice", "message_count": 3, "key_contributions": ["Proposed plan"]}]
}`

func TestSummarizeInsufficientContentNeverCallsLLM(t *testing.T) {
	llm := &fakeLLM{}
	cache := newFakeCache()
	e := New(llm, cache, Config{})

	opts := summarize.DefaultSummaryOptions()
	opts.MinMessages = 5

	msgs := sampleMessages(2, time.Now())
	_, err := e.Summarize(context.Background(), msgs, opts, nil, "chan-1", "guild-1")
	if err == nil || err.Kind != summarize.KindInsufficientContent {
		t.Fatalf("expected InsufficientContent, got %v", err)
	}
	if llm.calls != 0 {
		t.Fatalf("expected zero LLM calls, got %d", llm.calls)
	}
}

func TestSummarizeCacheHitAvoidsSecondLLMCall(t *testing.T) {
	llm := &fakeLLM{response: llmclient.Response{Content: validJSONResponse, Model: "claude-3-5-sonnet-20241022"}}
	cache := newFakeCache()
	e := New(llm, cache, Config{})

	opts := summarize.DefaultSummaryOptions()
	opts.MinMessages = 1
	msgs := sampleMessages(3, time.Now().UTC().Add(-2*time.Hour))

	first, err := e.Summarize(context.Background(), msgs, opts, nil, "chan-1", "guild-1")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := e.Summarize(context.Background(), msgs, opts, nil, "chan-1", "guild-1")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if llm.calls != 1 {
		t.Fatalf("expected exactly one LLM call, got %d", llm.calls)
	}
	if first.ID != second.ID {
		t.Fatalf("expected identical cached result, got different IDs %s vs %s", first.ID, second.ID)
	}
}

func TestSummarizePromptTooLongWhenBudgetTiny(t *testing.T) {
	llm := &fakeLLM{response: llmclient.Response{Content: validJSONResponse}}
	cache := newFakeCache()
	e := New(llm, cache, Config{MaxPromptTokens: 5})

	opts := summarize.DefaultSummaryOptions()
	opts.MinMessages = 1
	msgs := sampleMessages(20, time.Now().UTC().Add(-2*time.Hour))

	_, err := e.Summarize(context.Background(), msgs, opts, nil, "chan-1", "guild-1")
	if err == nil || err.Kind != summarize.KindPromptTooLong {
		t.Fatalf("expected PromptTooLong, got %v", err)
	}
}

func TestBatchSummarizePreservesOrderAndReportsPartialFailure(t *testing.T) {
	cache := newFakeCache()
	calls := 0
	llm := &fakeLLM{response: llmclient.Response{Content: validJSONResponse}}
	e := New(llm, cache, Config{MaxConcurrency: 2})

	opts := summarize.DefaultSummaryOptions()
	opts.MinMessages = 1
	base := time.Now().UTC().Add(-2 * time.Hour)

	requests := []BatchRequest{
		{Messages: sampleMessages(3, base), Options: opts, ChannelID: "chan-1"},
		{Messages: sampleMessages(0, base), Options: opts, ChannelID: "chan-2"}, // too few -> error result
		{Messages: sampleMessages(3, base.Add(time.Hour)), Options: opts, ChannelID: "chan-3"},
	}

	results := e.BatchSummarize(context.Background(), requests)
	calls++
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].ChannelID != "chan-1" || results[2].ChannelID != "chan-3" {
		t.Fatalf("expected input order preserved, got %+v", results)
	}
	if !results[1].Metadata.Error {
		t.Fatalf("expected request 1 to be a synthesized error result")
	}
	_ = calls
}

func TestHealthCheckDegradesWhenCacheDown(t *testing.T) {
	llm := &fakeLLM{response: llmclient.Response{}}
	cache := newFakeCache()
	cache.healthy = false
	e := New(llm, cache, Config{})

	status := e.HealthCheck(context.Background())
	if status.Status != "degraded" {
		t.Fatalf("expected degraded status, got %s", status.Status)
	}
}

func TestHealthCheckUnhealthyWhenLLMDown(t *testing.T) {
	llm := &fakeLLM{err: summarize.AuthenticationFailed("anthropic")}
	cache := newFakeCache()
	e := New(llm, cache, Config{})

	status := e.HealthCheck(context.Background())
	if status.Status != "unhealthy" {
		t.Fatalf("expected unhealthy status, got %s", status.Status)
	}
}
