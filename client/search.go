package client

import (
	"context"

	"github.com/reins-ai/reins"
	"github.com/reins-ai/reins/govern"
	"github.com/reins-ai/reins/model"
)

// Search runs one web query through the search governor. Each query is
// accounted at the per-query rate; results are never cached.
func (c *Client) Search(ctx context.Context, query string, opts ...reins.SearchOption) (*reins.SearchResults, error) {
	searchProvider, err := c.getSearchProvider()
	if err != nil {
		return nil, err
	}

	g := c.governors.For(model.GoogleCSE.Provider(), model.GoogleCSE.String())
	return govern.Do(ctx, g, func(ctx context.Context) (*reins.SearchResults, govern.Usage, error) {
		results, err := searchProvider.Search(ctx, query, opts...)
		if err != nil {
			return nil, govern.Usage{}, err
		}
		return results, govern.Usage{Cost: model.GoogleCSE.Cost(1)}, nil
	})
}
