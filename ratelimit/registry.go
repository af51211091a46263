package ratelimit

import (
	"sync"
	"time"
)

// Registry hands out one Window per caller identity, creating each on first
// use with the limit resolved for that key: a per-key override when one was
// registered, the default otherwise. Safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	defaults  Limit
	overrides map[string]Limit
	windows   map[string]*Window
	now       func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryClock overrides the time source for every window the registry
// creates. Used by tests.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates a registry with the given default limit.
func NewRegistry(defaults Limit, opts ...RegistryOption) (*Registry, error) {
	if err := defaults.validate(); err != nil {
		return nil, err
	}
	r := &Registry{
		defaults:  defaults,
		overrides: make(map[string]Limit),
		windows:   make(map[string]*Window),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// SetLimit registers a per-key override. It has no effect on a window
// already created for the key; call it during initialization.
func (r *Registry) SetLimit(key string, limit Limit) error {
	if err := limit.validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[key] = limit
	return nil
}

// Window returns the window for the given identity key, creating it on
// first use. Repeated calls with the same key return the same window.
func (r *Registry) Window(key string) *Window {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.windows[key]; ok {
		return w
	}

	limit, ok := r.overrides[key]
	if !ok {
		limit = r.defaults
	}
	// limits were validated when registered, construction cannot fail
	w, _ := NewWindow(limit, WithClock(r.now))
	r.windows[key] = w
	return w
}
