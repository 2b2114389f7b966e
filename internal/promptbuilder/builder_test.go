package promptbuilder

import (
	"strings"
	"testing"
	"time"

	"github.com/summarybot/corebot/internal/summarize"
)

func TestBuildRendersSubstantialMessagesOnly(t *testing.T) {
	opts := summarize.DefaultSummaryOptions()
	msgs := []summarize.Message{
		{AuthorName: "alice", Content: "hello world", Timestamp: time.Now()},
		{AuthorName: "bob", Content: "   ", Timestamp: time.Now()},
	}
	res := Build(msgs, opts, nil)
	if res.Metadata.MessagesRendered != 1 {
		t.Fatalf("MessagesRendered = %d, want 1", res.Metadata.MessagesRendered)
	}
	if !strings.Contains(res.UserPrompt, "alice") {
		t.Fatalf("expected rendered prompt to contain author name")
	}
	if strings.Contains(res.UserPrompt, "bob") {
		t.Fatalf("expected blank-content message to be skipped")
	}
}

func TestSystemPromptNegativeInstructions(t *testing.T) {
	opts := summarize.DefaultSummaryOptions()
	opts.ExtractActionItems = false
	opts.ExtractTechnicalTerms = false
	prompt := SystemPrompt(opts)
	if !strings.Contains(prompt, "Do not attempt to identify action items") {
		t.Fatalf("expected negative action-items instruction")
	}
	if !strings.Contains(prompt, "Do not attempt to identify technical terms") {
		t.Fatalf("expected negative technical-terms instruction")
	}
}

func TestOptimizePromptLengthUnchangedWithinBudget(t *testing.T) {
	prompt := "a short prompt"
	got := OptimizePromptLength(prompt, 1000, 0.8)
	if got != prompt {
		t.Fatalf("expected unchanged prompt within budget")
	}
}

func TestOptimizePromptLengthTruncatesMessagesSection(t *testing.T) {
	var b strings.Builder
	b.WriteString("## Context\nChannel: general\n\n")
	b.WriteString(MessagesSectionMarker)
	b.WriteString("\n\n")
	for i := 0; i < 200; i++ {
		b.WriteString("**user** (12:00) this is a fairly long message to pad out the token budget\n\n")
	}
	prompt := b.String()

	out := OptimizePromptLength(prompt, 50, 0.8)
	if EstimateTokens(out) > 50*2 {
		// generous bound: truncation notice adds a little overhead
		t.Fatalf("truncated prompt still far over budget: %d tokens", EstimateTokens(out))
	}
	if !strings.Contains(out, "Truncated") {
		t.Fatalf("expected truncation notice in output")
	}
	if !strings.HasPrefix(out, "## Context") {
		t.Fatalf("expected framing to remain intact")
	}
}

func TestOptimizePromptLengthTooSmallBudget(t *testing.T) {
	prompt := strings.Repeat("x", 10000)
	out := OptimizePromptLength(prompt, 1, 0.8)
	if !strings.Contains(out, "content too long") {
		t.Fatalf("expected minimal too-long prompt, got %q", out)
	}
}
