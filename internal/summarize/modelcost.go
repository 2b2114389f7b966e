package summarize

// ModelRate is a model's per-1000-token input/output pricing, shared by
// the Optimizer's cost estimator and the LLM Client's usage accounting
// (spec.md §4.6, §4.7).
type ModelRate struct {
	InputPer1K  float64
	OutputPer1K float64
}

// DefaultModelCosts returns the static model→rate registry. Attempts to
// use an unlisted model fail with ModelUnavailable before any network I/O
// (spec.md §4.7). Rates are USD per 1000 tokens.
func DefaultModelCosts() map[string]ModelRate {
	return map[string]ModelRate{
		"claude-3-5-sonnet-20241022": {InputPer1K: 0.003, OutputPer1K: 0.015},
		"claude-3-5-haiku-20241022":  {InputPer1K: 0.0008, OutputPer1K: 0.004},
		"claude-3-opus-20240229":     {InputPer1K: 0.015, OutputPer1K: 0.075},
		"claude-3-haiku-20240307":    {InputPer1K: 0.00025, OutputPer1K: 0.00125},
	}
}
