// Package llmclient is a thin, robust adapter over the Anthropic Messages
// API: request shaping, per-process pacing, retry with backoff, error
// taxonomy mapping, and usage accounting (spec.md §4.7). Adapted from the
// teacher's internal/llm/anthropic/client.go, stripped of streaming,
// tool-calling, and extended thinking — all out of scope for this Core
// (spec.md §1 Non-goals).
package llmclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/summarybot/corebot/internal/config"
	"github.com/summarybot/corebot/internal/observability"
	"github.com/summarybot/corebot/internal/summarize"
)

// Response is the wire shape the Engine consumes: {content, model,
// input_tokens, output_tokens, stop_reason, response_id, created_at}
// (spec.md §4.7).
type Response struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
	StopReason   string
	ResponseID   string
	CreatedAt    time.Time
}

// Incomplete reports whether the response was truncated by the model's
// own output budget (stop_reason == "max_tokens"), per spec.md §4.7.
func (r Response) Incomplete() bool { return r.StopReason == "max_tokens" }

// Client is the LLM Client described in spec.md §4.7.
type Client struct {
	sdk        anthropic.Client
	model      string
	apiName    string
	rates      map[string]summarize.ModelRate
	limiter    *rateLimiter
	retry      RetryConfig
	timeout    time.Duration
	usage      summarize.UsageStats
}

// RetryConfig tunes the retry policy (spec.md §4.7).
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// New constructs an LLM Client from configuration, wiring the Anthropic
// SDK the way the teacher's internal/llm/anthropic/client.go does
// (option.WithAPIKey / option.WithHTTPClient / option.WithBaseURL), plus
// a token-bucket rate limiter adapted from
// internal/tools/web/search.go and the retry/cost accounting from
// _examples/original_source/src/summarization/claude_client.py.
func New(cfg config.AnthropicConfig, rl config.RateLimitConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithHTTPClient(httpClient),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(base, "/")))
	}

	return &Client{
		sdk:     anthropic.NewClient(opts...),
		model:   strings.TrimSpace(cfg.Model),
		apiName: "anthropic",
		rates:   summarize.DefaultModelCosts(),
		limiter: newRateLimiter(rl.RequestsPerSecond, rl.BurstSize),
		retry: RetryConfig{
			MaxRetries: rl.MaxRetries,
			BaseDelay:  rl.BaseDelay,
			MaxDelay:   rl.MaxDelay,
		},
		timeout: cfg.Timeout,
	}
}

// UsageStats exposes the Client's accounting, safe for concurrent readers.
func (c *Client) UsageStats() *summarize.UsageStats { return &c.usage }

// HealthCheck reports whether the model registry contains the configured
// model; it performs no network I/O, matching the teacher's pattern of
// cheap local health checks distinct from a live upstream probe.
func (c *Client) HealthCheck(_ context.Context) bool {
	_, ok := c.rates[c.model]
	return ok
}

// CreateSummary sends a single non-streaming completion request, applying
// per-process pacing and the retry policy, and maps the result into the
// Response shape the Engine consumes (spec.md §4.7).
func (c *Client) CreateSummary(ctx context.Context, systemPrompt, userPrompt string, opts summarize.SummaryOptions) (Response, *summarize.Error) {
	model := opts.Model
	if model == "" {
		model = c.model
	}
	if _, ok := c.rates[model]; !ok {
		return Response{}, summarize.ModelUnavailable(model)
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = opts.Length.OutputTokenBudget()
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var lastErr *summarize.Error
	maxRetries := c.retry.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.wait(ctx); err != nil {
			return Response{}, summarize.NetworkErr(c.apiName, err.Error())
		}

		resp, taxErr := c.doRequest(ctx, model, systemPrompt, userPrompt, maxTokens, opts.Temperature)
		if taxErr == nil {
			c.usage.RecordSuccess(resp.InputTokens, resp.OutputTokens, c.estimateCostUSD(model, resp.InputTokens, resp.OutputTokens), time.Now())
			return resp, nil
		}

		lastErr = taxErr
		if taxErr.Kind == summarize.KindRateLimit {
			c.usage.RecordRateLimit(time.Now())
		} else {
			c.usage.RecordError(time.Now())
		}
		if !taxErr.Retryable || attempt == maxRetries {
			break
		}

		delay := backoffFor(taxErr, attempt, c.retry.BaseDelay, c.retry.MaxDelay)
		log := observability.LoggerWithTrace(ctx)
		log.Warn().Str("kind", string(taxErr.Kind)).Int("attempt", attempt+1).Dur("delay", delay).Msg("llmclient_retry")
		select {
		case <-ctx.Done():
			return Response{}, summarize.Timeout(c.apiName, c.timeout.Seconds())
		case <-time.After(delay):
		}
	}

	return Response{}, lastErr
}

func (c *Client) estimateCostUSD(model string, inputTokens, outputTokens int) float64 {
	rate, ok := c.rates[model]
	if !ok {
		return 0
	}
	return (float64(inputTokens)/1000)*rate.InputPer1K + (float64(outputTokens)/1000)*rate.OutputPer1K
}
