package optimizer

import (
	"time"

	"github.com/summarybot/corebot/internal/promptbuilder"
	"github.com/summarybot/corebot/internal/summarize"
)

// CostEstimate is the result of EstimateCost: no LLM call is made.
type CostEstimate struct {
	EstimatedCostUSD float64
	InputTokens      int
	OutputTokens     int
	Model            string
	MessageCount     int
}

// EstimateCost builds the prompt, counts tokens, assumes output tokens
// equal opts.MaxTokens when set and otherwise the length tier's output
// budget, and multiplies by the model's
// per-1000-token rates, per spec.md §4.6. It never makes a network call.
func EstimateCost(messages []summarize.Message, opts summarize.SummaryOptions, ctx *summarize.SummarizationContext, rates map[string]summarize.ModelRate) (CostEstimate, *summarize.Error) {
	rate, ok := rates[opts.Model]
	if !ok {
		return CostEstimate{}, summarize.ModelUnavailable(opts.Model)
	}

	result := promptbuilder.Build(messages, opts, ctx)
	inputTokens := result.EstimatedTokens
	outputTokens := opts.MaxTokens
	if outputTokens <= 0 {
		outputTokens = opts.Length.OutputTokenBudget()
	}

	cost := (float64(inputTokens)/1000)*rate.InputPer1K + (float64(outputTokens)/1000)*rate.OutputPer1K

	return CostEstimate{
		EstimatedCostUSD: cost,
		InputTokens:      inputTokens,
		OutputTokens:     outputTokens,
		Model:            opts.Model,
		MessageCount:     len(messages),
	}, nil
}

// OptimizationBenefit reports how much the filter+dedup stages reduced a
// message set, before any truncation. Supplemented beyond spec.md per
// SPEC_FULL.md §C, grounded on optimization.py's
// estimate_optimization_benefit.
type OptimizationBenefit struct {
	OriginalCount     int
	FilteredCount     int
	DeduplicatedCount int
	ReductionPct      float64
}

// EstimateOptimizationBenefit runs the filter and dedup stages (without
// truncation) and reports the resulting counts and overall reduction.
func EstimateOptimizationBenefit(messages []summarize.Message, opts summarize.SummaryOptions, now time.Time) OptimizationBenefit {
	filtered := FilterByContentQuality(messages, opts, now)
	deduped := DeduplicateByContentHash(filtered)

	benefit := OptimizationBenefit{
		OriginalCount:     len(messages),
		FilteredCount:     len(filtered),
		DeduplicatedCount: len(deduped),
	}
	if benefit.OriginalCount > 0 {
		benefit.ReductionPct = (1 - float64(benefit.DeduplicatedCount)/float64(benefit.OriginalCount)) * 100
	}
	return benefit
}
