// Package search provides a Google Custom Search client implementing
// reins.SearchProvider. Google ships no Go SDK for the JSON API, so this
// package speaks the REST endpoint directly.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/reins-ai/reins"
)

// DefaultBaseURL is the Custom Search JSON API endpoint.
const DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// maxResults is the API's hard cap on the num parameter.
const maxResults = 10

// Client calls the Google Custom Search JSON API.
type Client struct {
	httpClient *http.Client
	key        string
	cx         string
	baseURL    string
}

// New creates a search client for one API key and engine id (cx).
func New(key, cx string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		key:        key,
		cx:         cx,
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the search client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client, e.g. to set timeouts.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL points the client at a different endpoint. Used by tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// searchResponse mirrors the slice of the API response we consume. The API
// reports totalResults as a decimal string.
type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
	SearchInformation struct {
		TotalResults string `json:"totalResults"`
	} `json:"searchInformation"`
}

// errorResponse mirrors the API's error envelope.
type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Search runs one query and returns its results.
func (c *Client) Search(ctx context.Context, query string, opts ...reins.SearchOption) (*reins.SearchResults, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", reins.ErrEmptyInput)
	}
	options := reins.ApplySearchOptions(opts...)

	params := url.Values{}
	params.Set("key", c.key)
	params.Set("cx", c.cx)
	params.Set("q", query)
	if options.Num > 0 {
		n := options.Num
		if n > maxResults {
			n = maxResults
		}
		params.Set("num", strconv.Itoa(n))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp, body)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, reins.NewTransientError(
			fmt.Sprintf("google search: malformed response: %v", err), resp.StatusCode, err)
	}

	results := &reins.SearchResults{Query: query}
	for _, item := range parsed.Items {
		results.Items = append(results.Items, reins.SearchItem{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	if total, err := strconv.ParseInt(parsed.SearchInformation.TotalResults, 10, 64); err == nil {
		results.TotalResults = total
	}
	return results, nil
}

var _ reins.SearchProvider = (*Client)(nil)
