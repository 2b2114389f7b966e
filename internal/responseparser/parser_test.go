package responseparser

import (
	"testing"
	"time"

	"github.com/summarybot/corebot/internal/summarize"
)

func TestParseJSONFencedBlock(t *testing.T) {
	content := "Here you go:\n```json\n" +
		`{"summary_text": "Ten test messages discussed X.", "key_points": ["A", "B", "C"], ` +
		`"action_items": [{"description": "Follow up", "priority": "high"}], "technical_terms": [], "participants": []}` +
		"\n```\n"
	parsed, err := Parse(content, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.Metadata.Parsing.Method != "json" {
		t.Fatalf("parsing method = %q, want json", parsed.Metadata.Parsing.Method)
	}
	if parsed.SummaryText != "Ten test messages discussed X." {
		t.Fatalf("summary_text = %q", parsed.SummaryText)
	}
	if len(parsed.ActionItems) != 1 || parsed.ActionItems[0].Priority != summarize.PriorityHigh {
		t.Fatalf("action items = %+v", parsed.ActionItems)
	}
}

func TestParseJSONInvalidPriorityCoercesToMedium(t *testing.T) {
	content := `{"summary_text": "x", "action_items": [{"description": "d", "priority": "urgent!"}]}`
	parsed, err := Parse(content, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.ActionItems[0].Priority != summarize.PriorityMedium {
		t.Fatalf("priority = %q, want medium", parsed.ActionItems[0].Priority)
	}
}

func TestParseMarkdownFallback(t *testing.T) {
	content := "## Summary\nTopic was X.\n\n## Key Points\n- Point A\n- Point B\n"
	parsed, err := Parse(content, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.Metadata.Parsing.Method != "markdown" {
		t.Fatalf("parsing method = %q, want markdown", parsed.Metadata.Parsing.Method)
	}
	if parsed.SummaryText != "Topic was X." {
		t.Fatalf("summary_text = %q", parsed.SummaryText)
	}
	if len(parsed.KeyPoints) != 2 {
		t.Fatalf("key_points = %v, want 2", parsed.KeyPoints)
	}
}

func TestParseFreeformFallback(t *testing.T) {
	content := "This is a plain freeform response with no structure at all and it just rambles on."
	parsed, err := Parse(content, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.Metadata.Parsing.Method != "freeform" {
		t.Fatalf("parsing method = %q, want freeform", parsed.Metadata.Parsing.Method)
	}
}

func TestParseEmptyContentFails(t *testing.T) {
	_, err := Parse("   ", nil)
	if err == nil {
		t.Fatalf("expected parse error for empty content")
	}
	e, ok := summarize.AsTaxonomy(err)
	if !ok || e.Kind != summarize.KindResponseParseFailed {
		t.Fatalf("expected RESPONSE_PARSE_FAILED, got %v", err)
	}
}

func TestValidateAndCleanCaps(t *testing.T) {
	parsed := summarize.ParsedSummary{
		SummaryText: string(make([]byte, 3000)),
	}
	for i := 0; i < 30; i++ {
		parsed.KeyPoints = append(parsed.KeyPoints, "sufficiently long key point text")
	}
	validateAndClean(&parsed)
	if len(parsed.SummaryText) != summarize.MaxSummaryTextChars {
		t.Fatalf("summary_text length = %d, want %d", len(parsed.SummaryText), summarize.MaxSummaryTextChars)
	}
	if len(parsed.KeyPoints) != summarize.MaxKeyPoints {
		t.Fatalf("key_points length = %d, want %d", len(parsed.KeyPoints), summarize.MaxKeyPoints)
	}
}

func TestEnhanceWithMessageAnalysisInsertsMissingParticipants(t *testing.T) {
	msgs := []summarize.Message{
		{AuthorName: "alice", Content: "hi", Timestamp: time.Now()},
		{AuthorName: "alice", Content: "again", Timestamp: time.Now()},
		{AuthorName: "bob", Content: "yo", Timestamp: time.Now()},
	}
	parsed := summarize.ParsedSummary{
		SummaryText:  "x",
		Participants: []summarize.Participant{{DisplayName: "alice", MessageCount: 99}},
	}
	enhanceWithMessageAnalysis(&parsed, msgs)

	if len(parsed.Participants) != 2 {
		t.Fatalf("expected bob to be inserted, got %+v", parsed.Participants)
	}
	// alice has more messages (2) than bob (1), so alice sorts first.
	if parsed.Participants[0].DisplayName != "alice" || parsed.Participants[0].MessageCount != 2 {
		t.Fatalf("alice not recomputed correctly: %+v", parsed.Participants[0])
	}
}
