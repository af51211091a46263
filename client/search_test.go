package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reins-ai/reins"
	"github.com/reins-ai/reins/ratelimit"
)

type stubSearchProvider struct {
	mu      sync.Mutex
	calls   int
	results *reins.SearchResults
	err     error
}

func (s *stubSearchProvider) Search(ctx context.Context, query string, opts ...reins.SearchOption) (*reins.SearchResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.results != nil {
		return s.results, nil
	}
	return &reins.SearchResults{Query: query}, nil
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("results flow through and the query is charged", func(t *testing.T) {
		c := newTestClient(t, Config{})
		c.searchProvider = &stubSearchProvider{results: &reins.SearchResults{
			Query:        "golang",
			Items:        []reins.SearchItem{{Title: "Go", Link: "https://go.dev"}},
			TotalResults: 42,
		}}

		results, err := c.Search(ctx, "golang")
		require.NoError(t, err)
		require.Len(t, results.Items, 1)
		assert.Equal(t, "Go", results.Items[0].Title)

		rec := c.UsageToday()["googlesearch"]["customsearch"]
		assert.Equal(t, 1, rec.Requests)
		assert.Equal(t, 0, rec.Tokens)
		assert.InDelta(t, 0.005, rec.Cost, 1e-9)
	})

	t.Run("missing credentials", func(t *testing.T) {
		c := newTestClient(t, Config{})
		var errMissing *ErrMissingAPIKey
		_, err := c.Search(ctx, "golang")
		require.ErrorAs(t, err, &errMissing)
		assert.Equal(t, "googlesearch", errMissing.Provider)
	})

	t.Run("search draws on its own budget", func(t *testing.T) {
		c := newTestClient(t, Config{
			ModelLimits: map[string]ratelimit.Limit{
				"googlesearch/customsearch": {MaxRequests: 2, Window: time.Hour},
			},
		})
		stub := &stubSearchProvider{}
		c.searchProvider = stub

		for i := 0; i < 2; i++ {
			_, err := c.Search(ctx, "golang")
			require.NoError(t, err)
		}
		_, err := c.Search(ctx, "golang")
		require.Error(t, err)
		assert.True(t, reins.IsRateLimit(err))
		assert.Equal(t, 2, stub.calls, "denied query never reaches the API")
	})

	t.Run("failed queries are not charged", func(t *testing.T) {
		c := newTestClient(t, Config{
			RetryConfig: nil, // default config retries; error below is permanent
		})
		c.searchProvider = &stubSearchProvider{
			err: reins.NewPermanentError("API key invalid", 403, nil),
		}

		_, err := c.Search(ctx, "golang")
		require.Error(t, err)
		assert.Empty(t, c.UsageToday())
	})
}
