// Package optimizer performs content-quality filtering, content-hash
// deduplication, smart truncation, and cost estimation ahead of
// summarization (spec.md §4.6).
package optimizer

import (
	"strings"
	"time"

	"github.com/summarybot/corebot/internal/summarize"
)

// MaxMessageAgeDays is the filter's maximum retained message age.
const MaxMessageAgeDays = 90

// FilterByContentQuality drops messages with no substantial content,
// bot-origin messages (unless include_bots), excluded-user messages, and
// messages older than 90 days, per spec.md §4.6.
func FilterByContentQuality(messages []summarize.Message, opts summarize.SummaryOptions, now time.Time) []summarize.Message {
	cutoff := now.AddDate(0, 0, -MaxMessageAgeDays)
	kept := make([]summarize.Message, 0, len(messages))
	for _, m := range messages {
		if !hasSubstantialContent(m, opts) {
			continue
		}
		if m.IsBot && !opts.IncludeBots {
			continue
		}
		if _, excluded := opts.ExcludedUsers[m.AuthorID]; excluded {
			continue
		}
		if m.Timestamp.Before(cutoff) {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

// hasSubstantialContent mirrors the GLOSSARY definition shared with the
// Prompt Builder: non-empty after whitespace normalization, or carrying an
// attachment when attachments are enabled.
func hasSubstantialContent(m summarize.Message, opts summarize.SummaryOptions) bool {
	if strings.TrimSpace(m.Content) != "" {
		return true
	}
	return opts.IncludeAttachments && len(m.Attachments) > 0
}
