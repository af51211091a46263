// Package govern composes admission control, retry, and usage accounting
// around arbitrary outbound calls.
//
// A Governor owns the budget for one caller identity (a provider/model
// pair): it checks the identity's sliding window before a call is attempted,
// runs the call through the retry policy, and records the successful call's
// usage in the ledger. The governor is call-shape-agnostic; it never builds
// requests itself.
package govern

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reins-ai/reins"
	"github.com/reins-ai/reins/ratelimit"
	"github.com/reins-ai/reins/retry"
	"github.com/reins-ai/reins/usage"
)

// Usage is what a successful operation reports for accounting.
type Usage struct {
	// Tokens consumed by the call, provider-reported or estimated.
	Tokens int
	// Cost is the estimated USD cost of the call.
	Cost float64
}

// Operation is one governed outbound call. On success it reports the call's
// usage so the governor can account for it.
type Operation[T any] func(ctx context.Context) (T, Usage, error)

// Governor guards one caller identity. Construct one per provider/model
// pair at startup and hand it to call sites; identities never serialize
// against each other.
type Governor struct {
	provider reins.Provider
	model    string
	window   *ratelimit.Window
	retry    retry.Config
	tracker  *usage.Tracker
	events   chan<- Event
}

// Option configures a Governor.
type Option func(*Governor) error

// WithLimit gives the governor its own admission window. Negative
// parameters are configuration errors.
func WithLimit(maxRequests int, window time.Duration) Option {
	return func(g *Governor) error {
		w, err := ratelimit.NewWindow(ratelimit.Limit{MaxRequests: maxRequests, Window: window})
		if err != nil {
			return err
		}
		g.window = w
		return nil
	}
}

// WithWindow installs an existing admission window, typically one handed
// out by a ratelimit.Registry.
func WithWindow(w *ratelimit.Window) Option {
	return func(g *Governor) error {
		g.window = w
		return nil
	}
}

// WithRetry sets the retry policy. Without it the operation runs once.
func WithRetry(cfg retry.Config) Option {
	return func(g *Governor) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		g.retry = cfg
		return nil
	}
}

// WithTracker enables usage accounting through the given tracker.
func WithTracker(t *usage.Tracker) Option {
	return func(g *Governor) error {
		g.tracker = t
		return nil
	}
}

// WithEvents sets the observability channel. Emission never blocks; a full
// channel drops events.
func WithEvents(ch chan<- Event) Option {
	return func(g *Governor) error {
		g.events = ch
		return nil
	}
}

// New creates a governor for one provider/model identity. Without options
// it admits everything, never retries, and accounts nothing.
func New(provider reins.Provider, model string, opts ...Option) (*Governor, error) {
	g := &Governor{
		provider: provider,
		model:    model,
		retry:    retry.Disabled(),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Key returns the identity string, "provider/model".
func (g *Governor) Key() string {
	return g.provider.String() + "/" + g.model
}

// Provider returns the identity's provider tag.
func (g *Governor) Provider() reins.Provider { return g.provider }

// Model returns the identity's model id.
func (g *Governor) Model() string { return g.model }

// admit runs the sliding-window check. A denial reports how long until the
// window frees up and leaves the window untouched.
func (g *Governor) admit(requestID string) error {
	if g.window == nil {
		return nil
	}
	d := g.window.Allow()
	if d.Allowed {
		return nil
	}

	limit := g.window.Limit()
	err := &reins.RateLimitError{
		Key:        g.Key(),
		Limit:      limit.MaxRequests,
		Window:     limit.Window,
		RetryAfter: d.RetryAfter,
	}
	g.emit(Event{
		Type:      EventAdmissionDenied,
		RequestID: requestID,
		Error:     err,
	})
	return err
}

// track records a successful call. Accounting is best-effort: a persistence
// failure is surfaced as an event, never as an error to the caller.
func (g *Governor) track(ctx context.Context, requestID string, u Usage) {
	if g.tracker == nil {
		return
	}
	err := g.tracker.Track(ctx, g.provider.String(), g.model, u.Tokens, u.Cost)
	if err != nil {
		g.emit(Event{
			Type:      EventTrackError,
			RequestID: requestID,
			Usage:     &u,
			Error:     err,
		})
		return
	}
	g.emit(Event{
		Type:      EventUsageTracked,
		RequestID: requestID,
		Usage:     &u,
	})
}

// outcome carries an operation's value and usage through the retry loop.
type outcome[T any] struct {
	value T
	usage Usage
}

// Do runs one governed call: admission, then the operation under the retry
// policy, then accounting. Admission denials return *reins.RateLimitError
// and are never retried here; retry wraps the operation, not the check. A
// failed call is not charged.
func Do[T any](ctx context.Context, g *Governor, op Operation[T]) (T, error) {
	var zero T

	requestID := uuid.New().String()
	if err := g.admit(requestID); err != nil {
		return zero, err
	}

	start := time.Now()
	g.emit(Event{
		Type:      EventCallStart,
		RequestID: requestID,
	})

	var retryEvents chan retry.Event
	if g.events != nil {
		retryEvents = make(chan retry.Event, 10)
		go g.forwardRetryEvents(requestID, retryEvents)
	}

	result, err := retry.DoWithEvents(ctx, g.retry, retryEvents, func() (outcome[T], error) {
		value, u, err := op(ctx)
		return outcome[T]{value: value, usage: u}, err
	})

	if retryEvents != nil {
		close(retryEvents)
	}

	if err != nil {
		g.emit(Event{
			Type:      EventCallError,
			RequestID: requestID,
			Duration:  time.Since(start),
			Error:     err,
		})
		return zero, err
	}

	g.emit(Event{
		Type:      EventCallComplete,
		RequestID: requestID,
		Duration:  time.Since(start),
		Usage:     &result.usage,
	})

	g.track(ctx, requestID, result.usage)
	return result.value, nil
}
