package responseparser

import (
	"regexp"
	"strings"

	"github.com/summarybot/corebot/internal/summarize"
)

const minFreeformSentenceChars = 20

var sentenceSplitRe = regexp.MustCompile(`(?:[.!?]\s+|\n)`)

// parseFreeform treats the entire content as summary_text. It extracts
// bullet/numbered lines as key_points; if none exist, it splits into
// sentences and keeps up to five whose length exceeds a small threshold
// (spec.md §4.5). This strategy is total: it always succeeds on any
// non-empty content, terminating the fallback chain.
func parseFreeform(content string) (summarize.ParsedSummary, bool, string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return summarize.ParsedSummary{}, false, "freeform: response content is empty"
	}

	parsed := summarize.ParsedSummary{SummaryText: trimmed}

	if points := listItems(content); len(points) > 0 {
		parsed.KeyPoints = points
		return parsed, true, ""
	}

	var sentences []string
	for _, s := range sentenceSplitRe.Split(trimmed, -1) {
		s = strings.TrimSpace(s)
		if len(s) > minFreeformSentenceChars {
			sentences = append(sentences, s)
		}
		if len(sentences) == 5 {
			break
		}
	}
	parsed.KeyPoints = sentences
	return parsed, true, ""
}
