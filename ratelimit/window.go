package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/reins-ai/reins"
)

// Limit is the admission budget for one caller identity.
type Limit struct {
	// MaxRequests is the call ceiling per window. Zero denies every call.
	MaxRequests int
	// Window is the trailing interval the ceiling applies to. Zero disables
	// throttling: every admitted call is immediately outside every window.
	Window time.Duration
}

func (l Limit) validate() error {
	if l.MaxRequests < 0 {
		return fmt.Errorf("%w: max requests must be >= 0, got %d", reins.ErrInvalidConfig, l.MaxRequests)
	}
	if l.Window < 0 {
		return fmt.Errorf("%w: window must be >= 0, got %s", reins.ErrInvalidConfig, l.Window)
	}
	return nil
}

// Decision reports the outcome of one admission check.
type Decision struct {
	// Allowed is true when the call was admitted and its timestamp recorded.
	Allowed bool
	// Remaining is the number of further admissions currently available.
	Remaining int
	// RetryAfter is the time until the oldest recorded call leaves the
	// window. Only set on denial; zero when the ceiling itself is zero.
	RetryAfter time.Duration
}

// Window is sliding-window admission state for a single caller identity.
// It lives in memory for the life of the process and is never serialized.
// Safe for concurrent use.
type Window struct {
	mu     sync.Mutex
	limit  Limit
	stamps []time.Time
	now    func() time.Time
}

// Option configures a Window.
type Option func(*Window)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(w *Window) {
		w.now = now
	}
}

// NewWindow creates a window enforcing the given limit. Negative limit
// parameters are configuration errors.
func NewWindow(limit Limit, opts ...Option) (*Window, error) {
	if err := limit.validate(); err != nil {
		return nil, err
	}
	w := &Window{
		limit: limit,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Allow decides admission for one call. Expired timestamps are pruned, then
// the retained count is checked against the ceiling: at the ceiling the call
// is denied and no timestamp is recorded; below it the call is admitted and
// stamped now.
func (w *Window) Allow() Decision {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.prune(now)

	if len(w.stamps) >= w.limit.MaxRequests {
		d := Decision{Allowed: false}
		if len(w.stamps) > 0 {
			d.RetryAfter = w.stamps[0].Add(w.limit.Window).Sub(now)
		}
		return d
	}

	w.stamps = append(w.stamps, now)
	return Decision{
		Allowed:   true,
		Remaining: w.limit.MaxRequests - len(w.stamps),
	}
}

// Limit returns the budget the window enforces.
func (w *Window) Limit() Limit {
	return w.limit
}

// prune drops timestamps no longer inside the trailing window. Retained
// stamps satisfy now - t < window, strictly. Caller holds the lock.
func (w *Window) prune(now time.Time) {
	cutoff := now.Add(-w.limit.Window)
	i := 0
	for i < len(w.stamps) && !w.stamps[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return
	}
	n := copy(w.stamps, w.stamps[i:])
	w.stamps = w.stamps[:n]
}
