package promptbuilder

import (
	"strconv"
	"strings"
)

// OptimizePromptLength returns a prompt whose estimated tokens do not
// exceed maxTokens, per spec.md §4.4:
//  1. If already within budget, return unchanged.
//  2. Keep everything before the Messages section marker intact.
//  3. Truncate within the Messages section to a hard character budget
//     derived from maxTokens, preferring to cut at a message boundary —
//     but only when that boundary doesn't give up more than
//     (1-preserveRatio) of the already-tight budget; otherwise fall back
//     to the raw hard cut. The ratio never enlarges the budget past
//     maxTokens.
//  4. Append a single truncation notice.
//
// The Builder itself never fails: if the budget is smaller than the
// non-messages framing, it returns a minimal "content too long" prompt
// that the Engine rejects downstream as PromptTooLong.
func OptimizePromptLength(prompt string, maxTokens int, preserveRatio float64) string {
	if EstimateTokens(prompt) <= maxTokens {
		return prompt
	}
	if preserveRatio <= 0 {
		preserveRatio = 0.8
	}

	idx := strings.Index(prompt, MessagesSectionMarker)
	if idx < 0 {
		// No Messages section to truncate within; nothing safe to cut.
		return minimalTooLongPrompt(prompt)
	}

	framing := prompt[:idx]
	messagesSection := prompt[idx:]

	framingTokens := EstimateTokens(framing)
	if framingTokens >= maxTokens {
		return minimalTooLongPrompt(prompt)
	}

	// Reserve room for the truncation notice so the final prompt, notice
	// included, stays within maxTokens.
	noticeReserve := len("\n\n[Truncated  characters to fit limits]\n") + 20
	budgetChars := (maxTokens-framingTokens)*4 - noticeReserve
	if budgetChars <= 0 {
		return minimalTooLongPrompt(prompt)
	}
	if budgetChars >= len(messagesSection) {
		return prompt
	}

	hardCut := messagesSection[:budgetChars]
	truncated := hardCut
	// Prefer cutting at a message boundary: a blank line preceding a new
	// "**<author>**" marker. Accept it only if it keeps at least
	// preserveRatio of the hard-cut budget; a boundary further back than
	// that would waste too much of an already-scarce allowance, so fall
	// back to the raw cut instead.
	if cut := lastMessageBoundary(hardCut); cut > 0 && float64(cut) >= float64(budgetChars)*preserveRatio {
		truncated = hardCut[:cut]
	}

	removedChars := len(messagesSection) - len(truncated)
	notice := "\n\n[Truncated " + strconv.Itoa(removedChars) + " characters to fit limits]\n"

	return framing + truncated + notice
}

// lastMessageBoundary finds the last "\n\n**" occurrence, i.e. a blank
// line immediately preceding a new message marker, and returns the index
// to cut at (keeping the blank line, dropping the incomplete message
// after it). Returns -1 if no boundary is found.
func lastMessageBoundary(s string) int {
	idx := strings.LastIndex(s, "\n\n**")
	if idx < 0 {
		return -1
	}
	return idx + 2
}

func minimalTooLongPrompt(original string) string {
	return "[content too long]\n\n" + MessagesSectionMarker + "\n\n[Truncated " + strconv.Itoa(len(original)) + " characters to fit limits]\n"
}

