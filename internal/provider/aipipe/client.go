// Package aipipe provides a chat client for AI Pipe, a workflow proxy that
// fronts many upstream models behind an OpenAI-compatible completions API.
// Requests authenticate with an AI Pipe token and name models by their
// routed id, e.g. "openai/gpt-4o-mini".
package aipipe

import (
	"github.com/reins-ai/reins"
	"github.com/reins-ai/reins/internal/provider/openai"
)

// DefaultBaseURL is the hosted AI Pipe OpenRouter-compatible endpoint.
const DefaultBaseURL = "https://aipipe.org/openrouter/v1"

// DefaultModel is used when neither the client nor the request names one.
const DefaultModel = "openai/gpt-4o-mini"

// Client implements reins.ChatProvider against an AI Pipe deployment. The
// wire protocol is OpenAI's, so it is a configured openai client.
type Client struct {
	*openai.Client
}

// Option configures the AI Pipe client.
type Option func(*settings)

type settings struct {
	baseURL string
	model   string
}

// WithBaseURL points the client at a self-hosted AI Pipe deployment.
func WithBaseURL(url string) Option {
	return func(s *settings) {
		s.baseURL = url
	}
}

// WithModel sets the default routed model id for requests.
func WithModel(model string) Option {
	return func(s *settings) {
		s.model = model
	}
}

// New creates an AI Pipe client with the given token.
func New(token string, opts ...Option) *Client {
	s := settings{
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &Client{
		Client: openai.New(token,
			openai.WithBaseURL(s.baseURL),
			openai.WithModel(s.model),
		),
	}
}

var _ reins.ChatProvider = (*Client)(nil)
