// Package summarize holds the data model shared by every Summarization Core
// component: messages in, summaries out, the options that shape a request,
// and the error taxonomy that replaces the source's exception hierarchy.
package summarize

import "time"

// Attachment describes a file or media item attached to a Message.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// CodeBlock describes a fenced code block embedded in a Message.
type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// Thread describes the thread a Message belongs to, if any.
type Thread struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StarterID string `json:"starter_id"`
}

// Message is an immutable snapshot of one chat-platform message. Callers
// never mutate a Message after handing it to the Engine.
type Message struct {
	ID          string       `json:"id"`
	AuthorName  string       `json:"author_name"`
	AuthorID    string       `json:"author_id"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CodeBlocks  []CodeBlock  `json:"code_blocks,omitempty"`
	Thread      *Thread      `json:"thread,omitempty"`
	IsBot       bool         `json:"is_bot"`
}

// SummaryLength selects the system-prompt template and output token budget.
type SummaryLength string

const (
	LengthBrief         SummaryLength = "brief"
	LengthDetailed      SummaryLength = "detailed"
	LengthComprehensive SummaryLength = "comprehensive"
)

// OutputTokenBudget returns the output token cap associated with a length
// tier, defaulting to the brief budget for an unrecognized value.
func (l SummaryLength) OutputTokenBudget() int {
	switch l {
	case LengthDetailed:
		return 4000
	case LengthComprehensive:
		return 8000
	default:
		return 1000
	}
}

// SummaryOptions holds every option recognized by the Core. Exhaustive per
// the spec: no option outside this set affects summarization behavior.
type SummaryOptions struct {
	Length                SummaryLength
	IncludeBots            bool
	IncludeAttachments     bool
	ExcludedUsers          map[string]struct{}
	MinMessages            int
	ExtractActionItems     bool
	ExtractTechnicalTerms  bool
	Model                  string
	Temperature            float64
	MaxTokens              int
}

// DefaultSummaryOptions returns the documented defaults: length=brief,
// include_bots=false, include_attachments=true, min_messages=1, extraction
// flags on, temperature=0.3, and no model (the LLM Client's configured
// model is used).
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{
		Length:                LengthBrief,
		IncludeBots:           false,
		IncludeAttachments:    true,
		ExcludedUsers:         map[string]struct{}{},
		MinMessages:           1,
		ExtractActionItems:    true,
		ExtractTechnicalTerms: true,
		Temperature:           0.3,
	}
}

// SummarizationContext carries framing detail consumed only by the Prompt
// Builder; it never affects the cache key.
type SummarizationContext struct {
	ChannelName      string
	GuildName        string
	TotalParticipants int
	TimeSpanHours    float64
	Topic            string
	ChannelType      string
}

// Priority is the urgency tier of an ActionItem.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ParsePriority coerces a free-form string into a Priority, defaulting to
// medium for anything unrecognized, matching the Response Parser's
// coercion rule.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return Priority(s)
	default:
		return PriorityMedium
	}
}

// ActionItem is one actionable follow-up extracted from a conversation.
type ActionItem struct {
	Description string   `json:"description"`
	Assignee    string   `json:"assignee,omitempty"`
	Priority    Priority `json:"priority"`
	Completed   bool     `json:"completed"`
}

// TechnicalTerm is a jargon term surfaced by the summarizer with a plain
// explanation and the context it was used in.
type TechnicalTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Context    string `json:"context,omitempty"`
}

// Participant aggregates one author's contribution to a summarized window.
type Participant struct {
	DisplayName      string   `json:"display_name"`
	MessageCount     int      `json:"message_count"`
	KeyContributions []string `json:"key_contributions,omitempty"`
}

// ParsingMetadata records which parser in the fallback chain succeeded and
// any non-fatal warnings encountered along the way.
type ParsingMetadata struct {
	Method   string   `json:"method"`
	Warnings []string `json:"warnings,omitempty"`
}

// SummaryMetadata carries LLM accounting and parsing telemetry for a
// SummaryResult.
type SummaryMetadata struct {
	Model                 string          `json:"model,omitempty"`
	InputTokens           int             `json:"input_tokens"`
	OutputTokens          int             `json:"output_tokens"`
	ResponseID            string          `json:"response_id,omitempty"`
	ProcessingTimeSeconds float64         `json:"processing_time_seconds"`
	Parsing               ParsingMetadata `json:"parsing"`
	Incomplete             bool           `json:"incomplete"`
	Error                  bool           `json:"error"`
}

// ParsedSummary is the intermediate structure produced by the Response
// Parser: identical to SummaryResult minus the framing fields the Engine
// supplies (channel id, guild id, time range, message count).
type ParsedSummary struct {
	SummaryText    string          `json:"summary_text"`
	KeyPoints      []string        `json:"key_points,omitempty"`
	ActionItems    []ActionItem    `json:"action_items,omitempty"`
	TechnicalTerms []TechnicalTerm `json:"technical_terms,omitempty"`
	Participants   []Participant   `json:"participants,omitempty"`
	Metadata       SummaryMetadata `json:"metadata"`
}

// SummaryResult is the Engine's output: a complete, immutable summary of a
// message window.
type SummaryResult struct {
	ID             string                 `json:"id"`
	ChannelID      string                 `json:"channel_id"`
	GuildID        string                 `json:"guild_id"`
	StartTime      time.Time              `json:"start_time"`
	EndTime        time.Time              `json:"end_time"`
	MessageCount   int                    `json:"message_count"`
	SummaryText    string                 `json:"summary_text"`
	KeyPoints      []string               `json:"key_points,omitempty"`
	ActionItems    []ActionItem           `json:"action_items,omitempty"`
	TechnicalTerms []TechnicalTerm        `json:"technical_terms,omitempty"`
	Participants   []Participant          `json:"participants,omitempty"`
	Metadata       SummaryMetadata        `json:"metadata"`
	CreatedAt      time.Time              `json:"created_at"`
	Context        *SummarizationContext  `json:"context,omitempty"`
}

// Field caps enforced by the Response Parser's validation step (spec §3
// invariants, §4.5 validation & cleanup).
const (
	MaxSummaryTextChars = 2000
	MaxKeyPoints        = 10
	MaxActionItems       = 20
	MaxTechnicalTerms    = 15
	MinKeyPointChars     = 6
)
