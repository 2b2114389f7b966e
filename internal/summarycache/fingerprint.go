package summarycache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/summarybot/corebot/internal/summarize"
)

// OptionsFingerprint returns a stable 8-hex-character digest of the subset
// of SummaryOptions that affects LLM output: length, model, temperature,
// max_tokens, the two extraction flags, include_bots, include_attachments,
// and the excluded-user set. Two requests differing only in a
// non-fingerprint option (e.g. min_messages) share a fingerprint and
// therefore a cache entry, per spec.md §4.2(b).
//
// The Python original computed two different hashes for this purpose — an
// 8-char hash derived from a stored summary's metadata at write time, and a
// separate 16-char hash derived from requested options at lookup time.
// Using two different algorithms for the same conceptual key cannot satisfy
// spec.md's cache-key-determinism invariant (the two would rarely agree),
// so this implementation uses one canonical fingerprint function for both
// the write and the lookup path.
func OptionsFingerprint(opts summarize.SummaryOptions) string {
	excluded := make([]string, 0, len(opts.ExcludedUsers))
	for u := range opts.ExcludedUsers {
		excluded = append(excluded, u)
	}
	sort.Strings(excluded)

	parts := []string{
		string(opts.Length),
		opts.Model,
		fmt.Sprintf("%.3f", opts.Temperature),
		fmt.Sprintf("%d", opts.MaxTokens),
		fmt.Sprintf("%t", opts.ExtractActionItems),
		fmt.Sprintf("%t", opts.ExtractTechnicalTerms),
		fmt.Sprintf("%t", opts.IncludeBots),
		fmt.Sprintf("%t", opts.IncludeAttachments),
		strings.Join(excluded, ","),
	}
	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:8]
}
