package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/reins-ai/reins"
	"github.com/reins-ai/reins/govern"
	"github.com/reins-ai/reins/internal/provider/aipipe"
	"github.com/reins-ai/reins/internal/provider/anthropic"
	"github.com/reins-ai/reins/internal/provider/google"
	"github.com/reins-ai/reins/internal/provider/openai"
	"github.com/reins-ai/reins/internal/provider/search"
	"github.com/reins-ai/reins/model"
	"github.com/reins-ai/reins/ratelimit"
	"github.com/reins-ai/reins/retry"
	"github.com/reins-ai/reins/store"
	"github.com/reins-ai/reins/usage"
)

// DefaultRateLimit applies to every provider/model identity that has no
// override: 10 requests per minute.
var DefaultRateLimit = ratelimit.Limit{MaxRequests: 10, Window: time.Minute}

// GoogleSearchKeys holds Custom Search credentials: the API key and the
// search engine id (cx).
type GoogleSearchKeys struct {
	Key string
	CX  string
}

// AIPipeKeys holds AI Pipe credentials. BaseURL is optional and overrides
// the hosted endpoint for self-hosted deployments.
type AIPipeKeys struct {
	Token   string
	BaseURL string
}

// APIKeys holds API keys for different providers.
// Only configure keys for providers you intend to use.
type APIKeys struct {
	Anthropic    string
	OpenAI       string
	Google       string
	GoogleSearch GoogleSearchKeys
	AIPipe       AIPipeKeys
}

// Defaults holds default models for each capability.
// The model's provider determines which backend is used.
type Defaults struct {
	Chat model.ChatModel
}

// Config holds configuration for creating a governed client.
type Config struct {
	// APIKeys contains authentication keys for each provider.
	// Only configure keys for providers you intend to use.
	APIKeys APIKeys

	// Defaults contains default models for each capability.
	Defaults Defaults

	// RetryConfig configures retry behavior for transient errors.
	// If nil, uses the default retry configuration.
	RetryConfig *retry.Config

	// RateLimit is the admission ceiling applied per provider/model
	// identity. The zero value means DefaultRateLimit.
	RateLimit ratelimit.Limit

	// ModelLimits overrides RateLimit for specific identities, keyed
	// "provider/model", e.g. "openai/gpt-5.2".
	ModelLimits map[string]ratelimit.Limit

	// Store persists the usage ledger. If nil, usage is tracked in
	// memory only. The client takes ownership and closes it on Close.
	Store store.Adapter

	// StorageKey overrides the ledger's slot name in the store.
	StorageKey string

	// ExtraModels registers chat models beyond the built-in catalog,
	// e.g. AI Pipe routed models created with model.NewChatModel.
	ExtraModels []model.ChatModel

	// Events is an optional channel for governor events. Events are
	// sent non-blocking; if the channel is full, events are dropped.
	Events chan<- govern.Event
}

// ErrMissingAPIKey is returned when a model is used but no API key
// is configured for that model's provider.
type ErrMissingAPIKey struct {
	Provider string
	Model    string
}

func (e *ErrMissingAPIKey) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("no API key configured for %s (required by model %q)", e.Provider, e.Model)
	}
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// ErrNoModel is returned when no model is specified and no default is configured.
type ErrNoModel struct {
	Operation string
}

func (e *ErrNoModel) Error() string {
	return fmt.Sprintf("no model specified for %s: set client.Config Defaults.Chat or use reins.WithModel()", e.Operation)
}

// ErrUnknownModel is returned when a requested model id is in neither the
// built-in catalog nor Config.ExtraModels, so its provider and pricing
// cannot be resolved.
type ErrUnknownModel struct {
	Model string
}

func (e *ErrUnknownModel) Error() string {
	return fmt.Sprintf("unknown model %q: register it via Config.ExtraModels with model.NewChatModel", e.Model)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultTemperature sets the default temperature for chat requests.
// Per-request options override this default.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, reins.WithTemperature(t))
	}
}

// WithDefaultMaxTokens sets the default max tokens for chat requests.
// Per-request options override this default.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, reins.WithMaxTokens(n))
	}
}

// WithDefaultChatOptions sets default options for all chat requests.
// Per-request options override these defaults.
func WithDefaultChatOptions(opts ...reins.Option) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, opts...)
	}
}

// Client is a governed interface to every configured provider. Each call
// passes through the provider/model identity's governor: sliding-window
// admission, retry with linear backoff, and usage accounting. Provider
// clients are lazily initialized when first needed.
type Client struct {
	apiKeys         APIKeys
	defaults        Defaults
	defaultChatOpts []reins.Option
	extraModels     map[string]model.ChatModel

	governors *govern.Registry
	tracker   *usage.Tracker
	adapter   store.Adapter

	// Lazy-initialized providers (protected by mutex)
	mu             sync.RWMutex
	chatProviders  map[reins.Provider]reins.ChatProvider
	searchProvider reins.SearchProvider
	googleInitErr  error
}

// New creates a governed client with the given configuration. The usage
// ledger is loaded from the configured store before New returns; a corrupt
// ledger is a construction error.
func New(ctx context.Context, cfg Config, opts ...ClientOption) (*Client, error) {
	limit := cfg.RateLimit
	if limit == (ratelimit.Limit{}) {
		limit = DefaultRateLimit
	}
	limits, err := ratelimit.NewRegistry(limit)
	if err != nil {
		return nil, err
	}
	for key, l := range cfg.ModelLimits {
		if err := limits.SetLimit(key, l); err != nil {
			return nil, fmt.Errorf("model limit for %s: %w", key, err)
		}
	}

	retryConfig := retry.DefaultConfig()
	if cfg.RetryConfig != nil {
		retryConfig = *cfg.RetryConfig
	}

	adapter := cfg.Store
	if adapter == nil {
		adapter = store.NewMemoryAdapter()
	}
	var trackerOpts []usage.TrackerOption
	if cfg.StorageKey != "" {
		trackerOpts = append(trackerOpts, usage.WithStorageKey(cfg.StorageKey))
	}
	tracker, err := usage.NewTracker(ctx, adapter, trackerOpts...)
	if err != nil {
		return nil, err
	}

	governors, err := govern.NewRegistry(govern.RegistryConfig{
		Limits:  limits,
		Retry:   retryConfig,
		Tracker: tracker,
		Events:  cfg.Events,
	})
	if err != nil {
		return nil, err
	}

	extras := make(map[string]model.ChatModel, len(cfg.ExtraModels))
	for _, m := range cfg.ExtraModels {
		extras[m.String()] = m
	}

	c := &Client{
		apiKeys:       cfg.APIKeys,
		defaults:      cfg.Defaults,
		extraModels:   extras,
		governors:     governors,
		tracker:       tracker,
		adapter:       adapter,
		chatProviders: make(map[reins.Provider]reins.ChatProvider),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// lookupModel resolves a model id to its catalog entry, extras first so
// callers can override built-ins.
func (c *Client) lookupModel(id string) (model.ChatModel, bool) {
	if m, ok := c.extraModels[id]; ok {
		return m, true
	}
	if c.defaults.Chat.String() == id {
		return c.defaults.Chat, true
	}
	return model.ChatByID(id)
}

// getChatProvider returns the chat backend for a provider, initializing it
// on first use.
func (c *Client) getChatProvider(ctx context.Context, provider reins.Provider, modelID string) (reins.ChatProvider, error) {
	c.mu.RLock()
	if p, ok := c.chatProviders[provider]; ok {
		defer c.mu.RUnlock()
		return p, nil
	}
	if provider == reins.ProviderGoogle && c.googleInitErr != nil {
		defer c.mu.RUnlock()
		return nil, c.googleInitErr
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if p, ok := c.chatProviders[provider]; ok {
		return p, nil
	}

	var p reins.ChatProvider
	switch provider {
	case reins.ProviderAnthropic:
		if c.apiKeys.Anthropic == "" {
			return nil, &ErrMissingAPIKey{Provider: provider.String(), Model: modelID}
		}
		p = anthropic.New(c.apiKeys.Anthropic)
	case reins.ProviderOpenAI:
		if c.apiKeys.OpenAI == "" {
			return nil, &ErrMissingAPIKey{Provider: provider.String(), Model: modelID}
		}
		p = openai.New(c.apiKeys.OpenAI)
	case reins.ProviderAIPipe:
		if c.apiKeys.AIPipe.Token == "" {
			return nil, &ErrMissingAPIKey{Provider: provider.String(), Model: modelID}
		}
		var aipipeOpts []aipipe.Option
		if c.apiKeys.AIPipe.BaseURL != "" {
			aipipeOpts = append(aipipeOpts, aipipe.WithBaseURL(c.apiKeys.AIPipe.BaseURL))
		}
		p = aipipe.New(c.apiKeys.AIPipe.Token, aipipeOpts...)
	case reins.ProviderGoogle:
		if c.googleInitErr != nil {
			return nil, c.googleInitErr
		}
		if c.apiKeys.Google == "" {
			return nil, &ErrMissingAPIKey{Provider: provider.String(), Model: modelID}
		}
		client, err := google.New(ctx, c.apiKeys.Google)
		if err != nil {
			c.googleInitErr = fmt.Errorf("failed to initialize Google client: %w", err)
			return nil, c.googleInitErr
		}
		p = client
	default:
		return nil, fmt.Errorf("provider %s does not serve chat", provider)
	}

	c.chatProviders[provider] = p
	return p, nil
}

// getSearchProvider returns the search backend, initializing it on first use.
func (c *Client) getSearchProvider() (reins.SearchProvider, error) {
	c.mu.RLock()
	if c.searchProvider != nil {
		defer c.mu.RUnlock()
		return c.searchProvider, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.searchProvider != nil {
		return c.searchProvider, nil
	}

	keys := c.apiKeys.GoogleSearch
	if keys.Key == "" || keys.CX == "" {
		return nil, &ErrMissingAPIKey{Provider: reins.ProviderGoogleSearch.String()}
	}

	c.searchProvider = search.New(keys.Key, keys.CX)
	return c.searchProvider, nil
}

// Close releases the client's resources. The ledger needs no flush, it is
// persisted on every mutation; Close closes the usage store.
func (c *Client) Close() error {
	return c.adapter.Close()
}
