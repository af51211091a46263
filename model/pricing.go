package model

import "github.com/reins-ai/reins"

// ChatPricing contains pricing per 1000 tokens (USD) for chat models.
// Zero rates mean the model is not cost-accounted (unknown or free).
type ChatPricing struct {
	// InputPer1K is the input token rate in USD per 1000 tokens.
	InputPer1K float64
	// OutputPer1K is the output token rate in USD per 1000 tokens.
	OutputPer1K float64
}

// IsZero returns true when no rates are set.
func (p ChatPricing) IsZero() bool {
	return p.InputPer1K == 0 && p.OutputPer1K == 0
}

// CalculateCost returns the USD cost of the given usage at the given rates:
// tokens / 1000 * rate, per direction. Token counts upstream are themselves
// estimates unless the provider reported exact usage.
func CalculateCost(usage reins.Usage, pricing ChatPricing) float64 {
	return float64(usage.InputTokens)/1000*pricing.InputPer1K +
		float64(usage.OutputTokens)/1000*pricing.OutputPer1K
}

// SearchPricing is flat per-query pricing (USD) for search providers.
type SearchPricing struct {
	// PerQuery is the USD cost of one executed query.
	PerQuery float64
}
