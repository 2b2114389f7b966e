// Package responseparser converts a raw LLM response string into a
// summarize.ParsedSummary, resilient to format drift via a fallback chain
// of total (never-throwing) strategies (spec.md §4.5).
package responseparser

import (
	"sort"
	"strings"

	"github.com/summarybot/corebot/internal/summarize"
)

// strategy is one parser in the fallback chain. It never errors; a failed
// attempt returns ok=false plus a warning describing why.
type strategy struct {
	name string
	run  func(content string) (summarize.ParsedSummary, bool, string)
}

// Parse runs the fallback chain (JSON → markdown → freeform) in order,
// returning the first successful parse. Each attempt's failure is
// recorded in parsing_metadata.warnings but does not abort the chain. If
// every parser fails, it returns a RESPONSE_PARSE_FAILED error.
func Parse(content string, messages []summarize.Message) (summarize.ParsedSummary, error) {
	chain := []strategy{
		{"json", parseJSON},
		{"markdown", parseMarkdown},
		{"freeform", parseFreeform},
	}

	var warnings []string
	for _, s := range chain {
		parsed, ok, warning := s.run(content)
		if warning != "" {
			warnings = append(warnings, warning)
		}
		if !ok {
			continue
		}
		parsed.Metadata.Parsing = summarize.ParsingMetadata{Method: s.name, Warnings: warnings}
		enhanceWithMessageAnalysis(&parsed, messages)
		validateAndClean(&parsed)
		return parsed, nil
	}

	return summarize.ParsedSummary{}, summarize.ResponseParseFailed(nil)
}

// enhanceWithMessageAnalysis walks the original messages, computing
// per-author message counts and up to three top content snippets
// (truncated to 50 characters). Authors present in messages but missing
// from the parsed participants are inserted; authors present in both have
// their message_count and key_contributions overwritten by the computed
// values. Participants are sorted by message_count descending (spec.md
// §4.5).
func enhanceWithMessageAnalysis(parsed *summarize.ParsedSummary, messages []summarize.Message) {
	if len(messages) == 0 {
		return
	}

	type agg struct {
		count     int
		snippets  []string
	}
	byAuthor := make(map[string]*agg)
	order := make([]string, 0)
	for _, m := range messages {
		a, ok := byAuthor[m.AuthorName]
		if !ok {
			a = &agg{}
			byAuthor[m.AuthorName] = a
			order = append(order, m.AuthorName)
		}
		a.count++
		if len(a.snippets) < 3 {
			content := strings.TrimSpace(m.Content)
			if content != "" {
				a.snippets = append(a.snippets, truncate(content, 50))
			}
		}
	}

	existing := make(map[string]int) // name -> index into parsed.Participants
	for i, p := range parsed.Participants {
		existing[p.DisplayName] = i
	}

	for _, name := range order {
		a := byAuthor[name]
		if i, ok := existing[name]; ok {
			parsed.Participants[i].MessageCount = a.count
			parsed.Participants[i].KeyContributions = a.snippets
			continue
		}
		parsed.Participants = append(parsed.Participants, summarize.Participant{
			DisplayName:      name,
			MessageCount:     a.count,
			KeyContributions: a.snippets,
		})
	}

	sort.SliceStable(parsed.Participants, func(i, j int) bool {
		return parsed.Participants[i].MessageCount > parsed.Participants[j].MessageCount
	})
}

// validateAndClean applies spec.md §3/§4.5's caps: summary_text truncated
// to 2000 chars (replaced by a fallback notice if empty), key_points
// capped at 10 (dropping entries shorter than 6 characters),
// action_items at 20, technical_terms at 15.
func validateAndClean(parsed *summarize.ParsedSummary) {
	if strings.TrimSpace(parsed.SummaryText) == "" {
		parsed.SummaryText = "No summary could be generated from the available messages."
	}
	if len(parsed.SummaryText) > summarize.MaxSummaryTextChars {
		parsed.SummaryText = parsed.SummaryText[:summarize.MaxSummaryTextChars]
	}

	kept := make([]string, 0, len(parsed.KeyPoints))
	for _, kp := range parsed.KeyPoints {
		if len(strings.TrimSpace(kp)) < summarize.MinKeyPointChars {
			continue
		}
		kept = append(kept, kp)
		if len(kept) == summarize.MaxKeyPoints {
			break
		}
	}
	parsed.KeyPoints = kept

	if len(parsed.ActionItems) > summarize.MaxActionItems {
		parsed.ActionItems = parsed.ActionItems[:summarize.MaxActionItems]
	}
	if len(parsed.TechnicalTerms) > summarize.MaxTechnicalTerms {
		parsed.TechnicalTerms = parsed.TechnicalTerms[:summarize.MaxTechnicalTerms]
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
