package responseparser

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/summarybot/corebot/internal/summarize"
)

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// wireActionItem and wireParticipant accept either the documented object
// shape or, for action items, a bare string — the JSON parser coerces a
// plain string into a minimal ActionItem.
type wireActionItem struct {
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
	Priority    string `json:"priority"`
	Completed   bool   `json:"completed"`
}

type wireTechnicalTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Context    string `json:"context"`
}

type wireParticipant struct {
	DisplayName      string   `json:"display_name"`
	MessageCount     int      `json:"message_count"`
	KeyContributions []string `json:"key_contributions"`
}

type wireSummary struct {
	SummaryText    string            `json:"summary_text"`
	KeyPoints      []string          `json:"key_points"`
	ActionItems    []json.RawMessage `json:"action_items"`
	TechnicalTerms []wireTechnicalTerm `json:"technical_terms"`
	Participants   []wireParticipant `json:"participants"`
}

// parseJSON extracts JSON by (a) a fenced-code-block regex, else (b) the
// substring between the first '{' and the last '}', then decodes it.
func parseJSON(content string) (summarize.ParsedSummary, bool, string) {
	raw, found := extractJSON(content)
	if !found {
		return summarize.ParsedSummary{}, false, "json: no JSON object found in response"
	}

	var w wireSummary
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return summarize.ParsedSummary{}, false, "json: decode failed: " + err.Error()
	}

	parsed := summarize.ParsedSummary{
		SummaryText: w.SummaryText,
		KeyPoints:   w.KeyPoints,
	}
	for _, t := range w.TechnicalTerms {
		parsed.TechnicalTerms = append(parsed.TechnicalTerms, summarize.TechnicalTerm{
			Term: t.Term, Definition: t.Definition, Context: t.Context,
		})
	}
	for _, p := range w.Participants {
		parsed.Participants = append(parsed.Participants, summarize.Participant{
			DisplayName: p.DisplayName, MessageCount: p.MessageCount, KeyContributions: p.KeyContributions,
		})
	}
	for _, raw := range w.ActionItems {
		item, ok := decodeActionItem(raw)
		if ok {
			parsed.ActionItems = append(parsed.ActionItems, item)
		}
	}

	if strings.TrimSpace(parsed.SummaryText) == "" {
		return summarize.ParsedSummary{}, false, "json: summary_text missing or empty"
	}
	return parsed, true, ""
}

// decodeActionItem accepts either an object matching wireActionItem or a
// bare string, per spec.md §4.5.
func decodeActionItem(raw json.RawMessage) (summarize.ActionItem, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return summarize.ActionItem{}, false
		}
		return summarize.ActionItem{Description: s, Priority: summarize.PriorityMedium}, true
	}

	var w wireActionItem
	if err := json.Unmarshal(raw, &w); err != nil {
		return summarize.ActionItem{}, false
	}
	if strings.TrimSpace(w.Description) == "" {
		return summarize.ActionItem{}, false
	}
	return summarize.ActionItem{
		Description: w.Description,
		Assignee:    w.Assignee,
		Priority:    summarize.ParsePriority(w.Priority),
		Completed:   w.Completed,
	}, true
}

func extractJSON(content string) (string, bool) {
	if m := fencedJSONRe.FindStringSubmatch(content); len(m) == 2 {
		return m[1], true
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < 0 || end < start {
		return "", false
	}
	return content[start : end+1], true
}
