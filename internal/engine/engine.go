// Package engine orchestrates the message→prompt→LLM→parsed-summary
// pipeline with caching; it is the sole entry point the outside world
// uses (spec.md §4.8).
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/summarybot/corebot/internal/llmclient"
	"github.com/summarybot/corebot/internal/optimizer"
	"github.com/summarybot/corebot/internal/promptbuilder"
	"github.com/summarybot/corebot/internal/responseparser"
	"github.com/summarybot/corebot/internal/summarize"
	"github.com/summarybot/corebot/internal/summarycache"
)

// Cache is the subset of summarycache.Cache the Engine depends on,
// expressed as an interface so tests can substitute a fake.
type Cache interface {
	Get(ctx context.Context, key string) (*summarize.SummaryResult, bool)
	Set(ctx context.Context, key string, result *summarize.SummaryResult)
	HealthCheck(ctx context.Context) bool
}

// LLM is the subset of llmclient.Client the Engine depends on.
type LLM interface {
	CreateSummary(ctx context.Context, systemPrompt, userPrompt string, opts summarize.SummaryOptions) (llmclient.Response, *summarize.Error)
	HealthCheck(ctx context.Context) bool
}

// Config tunes the Engine's budgets and concurrency.
type Config struct {
	MaxPromptTokens int
	MaxConcurrency  int
}

// Engine is the Summarization Engine of spec.md §4.8.
type Engine struct {
	llm   LLM
	cache Cache
	cfg   Config
}

// New constructs an Engine. A non-positive MaxPromptTokens defaults to
// 100000 and a non-positive MaxConcurrency defaults to 3, matching
// spec.md's stated defaults.
func New(llm LLM, cache Cache, cfg Config) *Engine {
	if cfg.MaxPromptTokens <= 0 {
		cfg.MaxPromptTokens = 100000
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 3
	}
	return &Engine{llm: llm, cache: cache, cfg: cfg}
}

// Summarize runs the full pipeline described in spec.md §4.8.
func (e *Engine) Summarize(ctx context.Context, messages []summarize.Message, opts summarize.SummaryOptions, sctx *summarize.SummarizationContext, channelID, guildID string) (*summarize.SummaryResult, *summarize.Error) {
	now := time.Now()

	filtered := optimizer.FilterByContentQuality(messages, opts, now)
	if len(filtered) == 0 || len(filtered) < opts.MinMessages {
		return nil, summarize.InsufficientContent(len(filtered), opts.MinMessages)
	}

	start, end := timeWindow(filtered)
	fingerprint := summarycache.OptionsFingerprint(opts)
	key := summarycache.BuildKey(channelID, start, end, fingerprint)

	if cached, ok := e.cache.Get(ctx, key); ok {
		return cached, nil
	}

	built := promptbuilder.Build(filtered, opts, sctx)
	estimated := built.EstimatedTokens
	systemPrompt, userPrompt := built.SystemPrompt, built.UserPrompt

	if estimated > e.cfg.MaxPromptTokens {
		systemTokens := promptbuilder.EstimateTokens(systemPrompt)
		userBudget := e.cfg.MaxPromptTokens - systemTokens
		userPrompt = promptbuilder.OptimizePromptLength(userPrompt, userBudget, 0.8)
		estimated = systemTokens + promptbuilder.EstimateTokens(userPrompt)
		if estimated > e.cfg.MaxPromptTokens {
			return nil, summarize.PromptTooLong(estimated, e.cfg.MaxPromptTokens)
		}
	}

	reqStart := time.Now()
	resp, taxErr := e.llm.CreateSummary(ctx, systemPrompt, userPrompt, opts)
	if taxErr != nil {
		return nil, taxErr
	}
	processingSeconds := time.Since(reqStart).Seconds()

	parsed, err := responseparser.Parse(resp.Content, filtered)
	if err != nil {
		return nil, summarize.Wrap(err)
	}

	result := &summarize.SummaryResult{
		ID:             uuid.NewString(),
		ChannelID:      channelID,
		GuildID:        guildID,
		StartTime:      start,
		EndTime:        end,
		MessageCount:   len(filtered),
		SummaryText:    parsed.SummaryText,
		KeyPoints:      parsed.KeyPoints,
		ActionItems:    parsed.ActionItems,
		TechnicalTerms: parsed.TechnicalTerms,
		Participants:   parsed.Participants,
		Metadata: summarize.SummaryMetadata{
			Model:                 resp.Model,
			InputTokens:           resp.InputTokens,
			OutputTokens:          resp.OutputTokens,
			ResponseID:            resp.ResponseID,
			ProcessingTimeSeconds: processingSeconds,
			Parsing:               parsed.Metadata.Parsing,
			Incomplete:            resp.Incomplete(),
		},
		CreatedAt: now.UTC(),
		Context:   sctx,
	}

	e.cache.Set(ctx, key, result)
	return result, nil
}

// timeWindow derives (start, end) from the min/max message timestamps,
// per spec.md §3: "both are derived from messages, not from wall clock."
func timeWindow(messages []summarize.Message) (time.Time, time.Time) {
	start, end := messages[0].Timestamp, messages[0].Timestamp
	for _, m := range messages[1:] {
		if m.Timestamp.Before(start) {
			start = m.Timestamp
		}
		if m.Timestamp.After(end) {
			end = m.Timestamp
		}
	}
	return start, end
}

// BatchRequest is one pipeline invocation within a batch_summarize call.
type BatchRequest struct {
	Messages  []summarize.Message
	Options   summarize.SummaryOptions
	Context   *summarize.SummarizationContext
	ChannelID string
	GuildID   string
}

// BatchSummarize runs at most Config.MaxConcurrency concurrent pipeline
// invocations. Exceptions raised by individual pipelines become
// synthesized error SummaryResults with metadata.error=true so partial
// success is observable; output ordering matches input ordering
// regardless of completion order (spec.md §4.8, §5).
func (e *Engine) BatchSummarize(ctx context.Context, requests []BatchRequest) []*summarize.SummaryResult {
	results := make([]*summarize.SummaryResult, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.MaxConcurrency)

	for i, req := range requests {
		g.Go(func() error {
			result, taxErr := e.Summarize(gctx, req.Messages, req.Options, req.Context, req.ChannelID, req.GuildID)
			if taxErr != nil {
				result = errorResult(req, taxErr)
			}
			results[i] = result
			return nil
		})
	}

	// No pipeline returns a Go error: failures are carried as synthesized
	// error SummaryResults instead, so Wait never aborts the group early.
	_ = g.Wait()
	return results
}

func errorResult(req BatchRequest, err *summarize.Error) *summarize.SummaryResult {
	return &summarize.SummaryResult{
		ChannelID: req.ChannelID,
		GuildID:   req.GuildID,
		CreatedAt: time.Now().UTC(),
		Metadata: summarize.SummaryMetadata{
			Error: true,
		},
		SummaryText: err.UserMessage,
	}
}

// EstimateCost filters the messages, builds a prompt, and prices it with
// the static model-cost registry (summarize.DefaultModelCosts) through
// optimizer.EstimateCost; it never makes a network call (spec.md §4.8).
func (e *Engine) EstimateCost(messages []summarize.Message, opts summarize.SummaryOptions, sctx *summarize.SummarizationContext) (optimizer.CostEstimate, *summarize.Error) {
	filtered := optimizer.FilterByContentQuality(messages, opts, time.Now())
	return optimizer.EstimateCost(filtered, opts, sctx, summarize.DefaultModelCosts())
}

// HealthStatus is the aggregate health report of spec.md §4.8.
type HealthStatus struct {
	Status  string
	LLMUp   bool
	CacheUp bool
}

// HealthCheck aggregates the LLM Client's and cache's health checks.
// status is "healthy" if both are reachable, "degraded" if the cache is
// down but the LLM is up, "unhealthy" if the LLM is down.
func (e *Engine) HealthCheck(ctx context.Context) HealthStatus {
	llmUp := e.llm.HealthCheck(ctx)
	cacheUp := e.cache.HealthCheck(ctx)

	status := "healthy"
	switch {
	case !llmUp:
		status = "unhealthy"
	case !cacheUp:
		status = "degraded"
	}
	return HealthStatus{Status: status, LLMUp: llmUp, CacheUp: cacheUp}
}
