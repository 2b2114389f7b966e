package responseparser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/summarybot/corebot/internal/summarize"
)

var (
	headerRe    = regexp.MustCompile(`(?m)^##\s+(Summary|Key Points|Action Items|Technical Terms|Participants)\s*$`)
	listItemRe  = regexp.MustCompile(`^\s*(?:[-*]|\d+[.)])\s+(.*)$`)
	participantRe = regexp.MustCompile(`^(.+?)\s*\((\d+)\s+messages?\)\s*:\s*(.*)$`)
	termRe      = regexp.MustCompile(`^(.+?):\s*(.*)$`)
)

// parseMarkdown extracts sections by header regex, then reads bulleted or
// numbered list items under each (spec.md §4.5).
func parseMarkdown(content string) (summarize.ParsedSummary, bool, string) {
	sections := splitSections(content)
	if len(sections) == 0 {
		return summarize.ParsedSummary{}, false, "markdown: no recognized section headers found"
	}

	parsed := summarize.ParsedSummary{}
	if s, ok := sections["Summary"]; ok {
		parsed.SummaryText = strings.TrimSpace(s)
	}
	if s, ok := sections["Key Points"]; ok {
		parsed.KeyPoints = listItems(s)
	}
	if s, ok := sections["Action Items"]; ok {
		for _, item := range listItems(s) {
			parsed.ActionItems = append(parsed.ActionItems, summarize.ActionItem{
				Description: item, Priority: summarize.PriorityMedium,
			})
		}
	}
	if s, ok := sections["Technical Terms"]; ok {
		for _, item := range listItems(s) {
			m := termRe.FindStringSubmatch(item)
			if m == nil {
				parsed.TechnicalTerms = append(parsed.TechnicalTerms, summarize.TechnicalTerm{Term: item})
				continue
			}
			parsed.TechnicalTerms = append(parsed.TechnicalTerms, summarize.TechnicalTerm{
				Term: strings.TrimSpace(m[1]), Definition: strings.TrimSpace(m[2]),
			})
		}
	}
	if s, ok := sections["Participants"]; ok {
		for _, item := range listItems(s) {
			m := participantRe.FindStringSubmatch(item)
			if m == nil {
				parsed.Participants = append(parsed.Participants, summarize.Participant{DisplayName: item})
				continue
			}
			count, _ := strconv.Atoi(m[2])
			contribution := strings.TrimSpace(m[3])
			p := summarize.Participant{DisplayName: strings.TrimSpace(m[1]), MessageCount: count}
			if contribution != "" {
				p.KeyContributions = []string{contribution}
			}
			parsed.Participants = append(parsed.Participants, p)
		}
	}

	if strings.TrimSpace(parsed.SummaryText) == "" {
		return summarize.ParsedSummary{}, false, "markdown: no Summary section found"
	}
	return parsed, true, ""
}

// splitSections returns the body text following each recognized header,
// up to the next recognized header or end of content.
func splitSections(content string) map[string]string {
	matches := headerRe.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}
	sections := make(map[string]string)
	for i, m := range matches {
		name := content[m[2]:m[3]]
		bodyStart := m[1]
		bodyEnd := len(content)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		sections[name] = content[bodyStart:bodyEnd]
	}
	return sections
}

func listItems(section string) []string {
	var items []string
	for _, line := range strings.Split(section, "\n") {
		m := listItemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[1])
		if text != "" {
			items = append(items, text)
		}
	}
	return items
}
