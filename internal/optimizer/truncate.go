package optimizer

import (
	"sort"
	"time"

	"github.com/summarybot/corebot/internal/summarize"
)

// SmartTruncate scores each message and keeps the top n, then re-sorts the
// kept set chronologically (spec.md §4.6). Scoring is additive:
//   - content-length score: min(len(clean_content)/100, 10)
//   - author-activity score: min(author_message_count/5, 5)
//   - +3 if attachments present
//   - +2 if any code block present
//   - +2 if created within the last hour
//   - +3 if the message starts a thread (its id equals its thread's
//     starter id)
//
// Tie-breaking uses a stable sort so equal-score items preserve their
// relative input order.
func SmartTruncate(messages []summarize.Message, n int, now time.Time) []summarize.Message {
	if n <= 0 || len(messages) <= n {
		return messages
	}

	authorCounts := make(map[string]int, len(messages))
	for _, m := range messages {
		authorCounts[m.AuthorID]++
	}

	type scored struct {
		idx   int
		msg   summarize.Message
		score float64
	}
	items := make([]scored, len(messages))
	for i, m := range messages {
		items[i] = scored{idx: i, msg: m, score: messageScore(m, authorCounts[m.AuthorID], now)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})
	items = items[:n]

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].msg.Timestamp.Before(items[j].msg.Timestamp)
	})

	out := make([]summarize.Message, n)
	for i, it := range items {
		out[i] = it.msg
	}
	return out
}

func messageScore(m summarize.Message, authorMessageCount int, now time.Time) float64 {
	score := min(float64(len(m.Content))/100, 10)
	score += min(float64(authorMessageCount)/5, 5)
	if len(m.Attachments) > 0 {
		score += 3
	}
	if len(m.CodeBlocks) > 0 {
		score += 2
	}
	if now.Sub(m.Timestamp) < time.Hour {
		score += 2
	}
	if m.Thread != nil && m.ID == m.Thread.StarterID {
		score += 3
	}
	return score
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
