package optimizer

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/summarybot/corebot/internal/summarize"
)

// contentHash computes a 16-hex-char digest of
// lowercase(author) + ":" + whitespace-stripped-lowercase(content),
// per spec.md §4.6.
func contentHash(m summarize.Message) string {
	author := strings.ToLower(m.AuthorName)
	content := strings.ToLower(stripWhitespace(m.Content))
	sum := md5.Sum([]byte(author + ":" + content))
	return hex.EncodeToString(sum[:])[:16]
}

func stripWhitespace(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DeduplicateByContentHash keeps the first occurrence of each content
// hash, preserving input order.
func DeduplicateByContentHash(messages []summarize.Message) []summarize.Message {
	seen := make(map[string]struct{}, len(messages))
	kept := make([]summarize.Message, 0, len(messages))
	for _, m := range messages {
		h := contentHash(m)
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		kept = append(kept, m)
	}
	return kept
}
