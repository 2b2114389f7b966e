package optimizer

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/summarybot/corebot/internal/summarycache"
	"github.com/summarybot/corebot/internal/summarize"
)

// Request is one summarization request as seen by the batch deduplicator.
type Request struct {
	ChannelID string
	GuildID   string
	Messages  []summarize.Message
	Options   summarize.SummaryOptions
}

// requestSignature builds a 16-hex-char digest of
// (channel_id, guild_id, message_count, fingerprint(options), min/max
// message timestamps), per spec.md §4.6.
func requestSignature(r Request) string {
	var minTS, maxTS time.Time
	for i, m := range r.Messages {
		if i == 0 || m.Timestamp.Before(minTS) {
			minTS = m.Timestamp
		}
		if i == 0 || m.Timestamp.After(maxTS) {
			maxTS = m.Timestamp
		}
	}
	raw := fmt.Sprintf("%s|%s|%d|%s|%d|%d",
		r.ChannelID, r.GuildID, len(r.Messages),
		summarycache.OptionsFingerprint(r.Options),
		minTS.UTC().Unix(), maxTS.UTC().Unix())
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}

// BatchStats reports how many duplicate requests OptimizeBatchRequests
// removed. Supplemented beyond spec.md per SPEC_FULL.md §C.
type BatchStats struct {
	Total            int
	DuplicatesRemoved int
}

// OptimizeBatchRequests drops duplicate requests (same signature),
// keeping the first occurrence, per spec.md §4.6.
func OptimizeBatchRequests(requests []Request) ([]Request, BatchStats) {
	seen := make(map[string]struct{}, len(requests))
	kept := make([]Request, 0, len(requests))
	for _, r := range requests {
		sig := requestSignature(r)
		if _, ok := seen[sig]; ok {
			continue
		}
		seen[sig] = struct{}{}
		kept = append(kept, r)
	}
	return kept, BatchStats{Total: len(requests), DuplicatesRemoved: len(requests) - len(kept)}
}
