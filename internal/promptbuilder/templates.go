package promptbuilder

import (
	"fmt"
	"strings"

	"github.com/summarybot/corebot/internal/summarize"
)

// jsonSchemaBlock is the JSON response-format contract embedded in every
// system prompt template, per spec.md §4.4.
const jsonSchemaBlock = `Respond with a single JSON object, and nothing else, of this shape:
{
  "summary_text": "string",
  "key_points": ["string", ...],
  "action_items": [{"description": "string", "assignee": "string or null", "priority": "low|medium|high|critical", "completed": false}, ...],
  "technical_terms": [{"term": "string", "definition": "string", "context": "string"}, ...],
  "participants": [{"display_name": "string", "message_count": 0, "key_contributions": ["string", ...]}, ...]
}`

var lengthGuidance = map[summarize.SummaryLength]string{
	summarize.LengthBrief:         "Keep the summary to a short paragraph covering only the most important points.",
	summarize.LengthDetailed:      "Write a thorough summary covering the main discussion threads, decisions, and outcomes.",
	summarize.LengthComprehensive: "Write an exhaustive summary capturing every notable topic, decision, disagreement, and follow-up.",
}

// SystemPrompt builds the system prompt for a given length tier and
// extraction flags. extract_action_items=false or
// extract_technical_terms=false append negative instructions, per
// spec.md §4.4.
func SystemPrompt(opts summarize.SummaryOptions) string {
	guidance, ok := lengthGuidance[opts.Length]
	if !ok {
		guidance = lengthGuidance[summarize.LengthBrief]
	}

	var b strings.Builder
	b.WriteString("You are a precise assistant that summarizes chat conversations.\n")
	b.WriteString(guidance)
	b.WriteString("\n\n")
	b.WriteString(jsonSchemaBlock)

	if !opts.ExtractActionItems {
		b.WriteString("\n\nDo not attempt to identify action items; return an empty action_items array.")
	}
	if !opts.ExtractTechnicalTerms {
		b.WriteString("\n\nDo not attempt to identify technical terms; return an empty technical_terms array.")
	}
	return b.String()
}

// FormatInstructions restates the target length and bot/attachment policy,
// the second of the user prompt's four sections (spec.md §4.4).
func FormatInstructions(opts summarize.SummaryOptions) string {
	var b strings.Builder
	b.WriteString("## Format Instructions\n")
	b.WriteString(fmt.Sprintf("Target length: %s.\n", opts.Length))
	if opts.IncludeBots {
		b.WriteString("Include messages from bot accounts.\n")
	} else {
		b.WriteString("Ignore messages from bot accounts.\n")
	}
	if opts.IncludeAttachments {
		b.WriteString("Note attachments where relevant.\n")
	} else {
		b.WriteString("Do not reference attachments.\n")
	}
	return b.String()
}
