package llmclient

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"

	"github.com/summarybot/corebot/internal/observability"
	"github.com/summarybot/corebot/internal/summarize"
)

// doRequest performs one Messages.New call and classifies any error into
// the taxonomy per the retry table in spec.md §4.7.
func (c *Client) doRequest(ctx context.Context, model, systemPrompt, userPrompt string, maxTokens int, temperature float64) (Response, *summarize.Error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if temperature > 0 {
		params.Temperature = anthropic.Float(temperature)
	}

	log := observability.LoggerWithTrace(ctx)
	start := time.Now()
	resp, err := c.sdk.Messages.New(ctx, params)
	dur := time.Since(start)

	if err != nil {
		taxErr := classifyError(c.apiName, err)
		log.Error().Err(err).Str("model", model).Dur("duration", dur).Str("kind", string(taxErr.Kind)).Msg("llmclient_request_error")
		return Response{}, taxErr
	}

	content := extractText(resp)
	out := Response{
		Content:      content,
		Model:        string(resp.Model),
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
		StopReason:   string(resp.StopReason),
		ResponseID:   resp.ID,
		CreatedAt:    time.Now().UTC(),
	}
	log.Debug().
		Str("model", model).
		Dur("duration", dur).
		Int("input_tokens", out.InputTokens).
		Int("output_tokens", out.OutputTokens).
		Str("stop_reason", out.StopReason).
		Msg("llmclient_request_ok")
	return out, nil
}

func extractText(resp *anthropic.Message) string {
	var b strings.Builder
	for _, block := range resp.Content {
		if text := block.Text; text != "" {
			b.WriteString(text)
		}
	}
	return b.String()
}

var retryAfterRe = regexp.MustCompile(`retry.?after[^0-9]*(\d+(?:\.\d+)?)`)

// classifyError maps an SDK error into the Core's error taxonomy per the
// retry table in spec.md §4.7, mirroring
// _examples/original_source/src/summarization/claude_client.py's
// exception-class dispatch with Go's status-code-based SDK errors in
// place of Python's typed exception hierarchy.
func classifyError(apiName string, err error) *summarize.Error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return summarize.AuthenticationFailed(apiName)
		case 429:
			return summarize.RateLimit(apiName, parseRetryAfter(apiErr.Error()))
		case 400:
			msg := apiErr.Error()
			if strings.Contains(strings.ToLower(msg), "maximum context length") ||
				strings.Contains(strings.ToLower(msg), "context length exceeded") {
				return summarize.ContextLengthExceeded(apiName)
			}
			return summarize.BadRequest(apiName, msg)
		case 500, 502, 503, 504:
			return summarize.ServiceUnavailable(apiName)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return summarize.Timeout(apiName, 0)
		}
		return summarize.NetworkErr(apiName, netErr.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return summarize.Timeout(apiName, 0)
	}
	if errors.Is(err, context.Canceled) {
		return summarize.NetworkErr(apiName, "request canceled")
	}

	return summarize.SummarizationFailed(err)
}

// parseRetryAfter extracts a retry-after value in seconds from an error
// message, defaulting to 60s (spec.md §4.7).
func parseRetryAfter(msg string) float64 {
	m := retryAfterRe.FindStringSubmatch(strings.ToLower(msg))
	if len(m) != 2 {
		return 60
	}
	secs, err := strconv.ParseFloat(m[1], 64)
	if err != nil || secs <= 0 {
		return 60
	}
	return secs
}
