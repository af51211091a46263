package reins

import "context"

// SearchItem is a single web search result.
type SearchItem struct {
	// Title is the result's document title.
	Title string `json:"title"`

	// Link is the result URL.
	Link string `json:"link"`

	// Snippet is a short excerpt around the match.
	Snippet string `json:"snippet"`
}

// SearchResults holds the outcome of one search query.
type SearchResults struct {
	// Query is the query as sent.
	Query string `json:"query"`

	// Items are the returned results, best match first.
	Items []SearchItem `json:"items"`

	// TotalResults is the backend's estimate of matching documents.
	TotalResults int64 `json:"total_results"`
}

// SearchOptions holds per-search settings.
type SearchOptions struct {
	// Num caps how many results to return. Zero means the backend default.
	Num int
}

// SearchOption is a functional option for a single search.
type SearchOption func(*SearchOptions)

// WithNum caps the number of results returned.
func WithNum(n int) SearchOption {
	return func(o *SearchOptions) {
		o.Num = n
	}
}

// ApplySearchOptions folds options into a SearchOptions struct.
func ApplySearchOptions(opts ...SearchOption) SearchOptions {
	var options SearchOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// SearchProvider is the interface implemented by web search backends.
type SearchProvider interface {
	// Search runs one query and returns its results.
	Search(ctx context.Context, query string, opts ...SearchOption) (*SearchResults, error)
}
