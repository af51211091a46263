package govern

import (
	"sync"

	"github.com/reins-ai/reins"
	"github.com/reins-ai/reins/ratelimit"
	"github.com/reins-ai/reins/retry"
	"github.com/reins-ai/reins/usage"
)

// RegistryConfig carries the pieces every governor in a registry shares.
type RegistryConfig struct {
	// Limits resolves each identity's admission window. Nil disables
	// admission control.
	Limits *ratelimit.Registry
	// Retry is the retry policy applied to every governed call. The zero
	// value disables retries.
	Retry retry.Config
	// Tracker records successful calls. Nil disables accounting.
	Tracker *usage.Tracker
	// Events receives governor events. Nil disables emission.
	Events chan<- Event
}

// Registry hands out one Governor per provider/model identity, all sharing
// the registry's limits, retry policy, tracker, and event channel. Safe for
// concurrent use.
type Registry struct {
	mu        sync.Mutex
	cfg       RegistryConfig
	governors map[string]*Governor
}

// NewRegistry validates the shared configuration and returns an empty
// registry.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	if cfg.Retry == (retry.Config{}) {
		cfg.Retry = retry.Disabled()
	}
	if err := cfg.Retry.Validate(); err != nil {
		return nil, err
	}
	return &Registry{
		cfg:       cfg,
		governors: make(map[string]*Governor),
	}, nil
}

// For returns the governor for an identity, creating it on first use.
// Repeated calls with the same identity return the same governor, so every
// call site draws on the same budget.
func (r *Registry) For(provider reins.Provider, model string) *Governor {
	key := provider.String() + "/" + model

	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.governors[key]; ok {
		return g
	}

	g := &Governor{
		provider: provider,
		model:    model,
		retry:    r.cfg.Retry,
		tracker:  r.cfg.Tracker,
		events:   r.cfg.Events,
	}
	if r.cfg.Limits != nil {
		g.window = r.cfg.Limits.Window(key)
	}
	r.governors[key] = g
	return g
}
