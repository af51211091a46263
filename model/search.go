package model

import "github.com/reins-ai/reins"

// SearchModel represents a web search API priced per query.
type SearchModel struct {
	id       string
	provider reins.Provider
	pricing  SearchPricing
}

// String returns the identifier used in the usage ledger.
func (m SearchModel) String() string { return m.id }

// Provider returns which provider this search model belongs to.
func (m SearchModel) Provider() reins.Provider { return m.provider }

// Pricing returns the pricing for this search model.
func (m SearchModel) Pricing() SearchPricing { return m.pricing }

// Cost returns the USD cost of the given number of queries.
func (m SearchModel) Cost(queries int) float64 {
	return float64(queries) * m.pricing.PerQuery
}

// Google Custom Search JSON API: $5 per 1000 queries beyond the free tier.
// Pricing last verified: December 14, 2025
var GoogleCSE = SearchModel{
	id:       "customsearch",
	provider: reins.ProviderGoogleSearch,
	pricing:  SearchPricing{PerQuery: 0.005},
}
