// Package promptbuilder assembles a deterministic, length-aware prompt
// from a filtered message batch and options (spec.md §4.4).
package promptbuilder

import (
	"fmt"
	"strings"

	"github.com/summarybot/corebot/internal/summarize"
)

// MessagesSectionMarker delimits the Messages section of the user prompt;
// optimize_prompt_length truncates only after this marker (spec.md §4.4).
const MessagesSectionMarker = "## Messages to Summarize:"

// Metadata records build-time telemetry about the assembled prompt.
type Metadata struct {
	MessagesRendered int
	Truncated        bool
	TruncatedChars   int
}

// Result is the four-tuple spec.md §4.4 describes: system+user prompt,
// an estimated token count for the combined prompt, and build metadata.
type Result struct {
	SystemPrompt     string
	UserPrompt       string
	EstimatedTokens  int
	Metadata         Metadata
}

// Build assembles the prompt for a message batch. ctx may be nil; its
// fields only ever appear in the Context section and never affect the
// cache key (spec.md §3).
func Build(messages []summarize.Message, opts summarize.SummaryOptions, ctx *summarize.SummarizationContext) Result {
	system := SystemPrompt(opts)

	var b strings.Builder
	writeContextSection(&b, ctx)
	b.WriteString(FormatInstructions(opts))
	b.WriteString("\n")
	b.WriteString(MessagesSectionMarker)
	b.WriteString("\n\n")

	rendered := 0
	for _, m := range messages {
		if !substantialContent(m, opts) {
			continue
		}
		b.WriteString(renderMessage(m, opts))
		b.WriteString("\n\n")
		rendered++
	}

	b.WriteString("Return valid JSON only.\n")

	user := b.String()
	estimated := EstimateTokens(system) + EstimateTokens(user)

	return Result{
		SystemPrompt:    system,
		UserPrompt:      user,
		EstimatedTokens: estimated,
		Metadata:        Metadata{MessagesRendered: rendered},
	}
}

func writeContextSection(b *strings.Builder, ctx *summarize.SummarizationContext) {
	if ctx == nil {
		return
	}
	b.WriteString("## Context\n")
	if ctx.ChannelName != "" {
		fmt.Fprintf(b, "Channel: %s\n", ctx.ChannelName)
	}
	if ctx.GuildName != "" {
		fmt.Fprintf(b, "Server: %s\n", ctx.GuildName)
	}
	if ctx.TotalParticipants > 0 {
		fmt.Fprintf(b, "Participants: %d\n", ctx.TotalParticipants)
	}
	if ctx.TimeSpanHours > 0 {
		fmt.Fprintf(b, "Time span: %.1f hours\n", ctx.TimeSpanHours)
	}
	if ctx.Topic != "" {
		fmt.Fprintf(b, "Topic: %s\n", ctx.Topic)
	}
	b.WriteString("\n")
}

// substantialContent mirrors the Optimizer's "substantial content"
// definition (GLOSSARY): non-empty after whitespace normalization, or
// carrying an attachment when attachments are enabled.
func substantialContent(m summarize.Message, opts summarize.SummaryOptions) bool {
	if strings.TrimSpace(m.Content) != "" {
		return true
	}
	return opts.IncludeAttachments && len(m.Attachments) > 0
}

func renderMessage(m summarize.Message, opts summarize.SummaryOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (%s) %s", m.AuthorName, m.Timestamp.UTC().Format("15:04"), strings.TrimSpace(m.Content))
	if opts.IncludeAttachments && len(m.Attachments) > 0 {
		fmt.Fprintf(&b, " [Attachments: %d]", len(m.Attachments))
	}
	for _, cb := range m.CodeBlocks {
		fmt.Fprintf(&b, " [Code Block (%s): %d chars]", cb.Language, len(cb.Code))
	}
	if m.Thread != nil {
		fmt.Fprintf(&b, " [Thread: %s]", m.Thread.Name)
	}
	return b.String()
}
