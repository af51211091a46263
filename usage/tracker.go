package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/reins-ai/reins"
	"github.com/reins-ai/reins/store"
)

// DefaultStorageKey is the slot the serialized ledger lives under.
const DefaultStorageKey = "reins:usage"

// Tracker owns the in-memory ledger and its persistence. Safe for
// concurrent use; each mutation is one atomic step under the tracker's lock.
type Tracker struct {
	mu      sync.Mutex
	ledger  Ledger
	adapter store.Adapter
	key     string
	now     func() time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock overrides the time source. Used by tests to pin the date key.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithStorageKey overrides the storage slot name.
func WithStorageKey(key string) TrackerOption {
	return func(t *Tracker) {
		t.key = key
	}
}

// NewTracker loads the ledger from the adapter, starting empty when the
// slot is absent. A present but unreadable slot is an error: better to stop
// than to silently zero the books.
func NewTracker(ctx context.Context, adapter store.Adapter, opts ...TrackerOption) (*Tracker, error) {
	t := &Tracker{
		ledger:  make(Ledger),
		adapter: adapter,
		key:     DefaultStorageKey,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	data, ok, err := adapter.Get(ctx, t.key)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if ok {
		if err := json.Unmarshal(data, &t.ledger); err != nil {
			return nil, fmt.Errorf("decode ledger: %w", err)
		}
	}
	return t, nil
}

// Track adds one call's usage to today's entry for provider/model and writes
// the ledger through to storage. The in-memory ledger is updated even when
// the write fails, so the returned error is advisory: callers keep serving
// and surface it through observability.
func (t *Tracker) Track(ctx context.Context, provider, model string, tokens int, cost float64) error {
	if tokens < 0 || cost < 0 {
		return fmt.Errorf("%w: usage must be non-negative, got tokens=%d cost=%g", reins.ErrInvalidConfig, tokens, cost)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	date := DateKey(t.now())
	day, ok := t.ledger[date]
	if !ok {
		day = make(DayUsage)
		t.ledger[date] = day
	}
	models, ok := day[provider]
	if !ok {
		models = make(map[string]Record)
		day[provider] = models
	}

	rec := models[model]
	rec.Tokens += tokens
	rec.Cost += cost
	rec.Requests++
	models[model] = rec

	return t.persistLocked(ctx)
}

// persistLocked serializes the whole ledger into its slot. Caller holds the lock.
func (t *Tracker) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(t.ledger)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := t.adapter.Set(ctx, t.key, data); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// Today returns a copy of today's provider -> model usage. Empty, non-nil
// when nothing has been tracked yet today.
func (t *Tracker) Today() DayUsage {
	return t.Day(DateKey(t.now()))
}

// Day returns a copy of the usage recorded under the given date key.
func (t *Tracker) Day(date string) DayUsage {
	t.mu.Lock()
	defer t.mu.Unlock()

	day, ok := t.ledger[date]
	if !ok {
		return make(DayUsage)
	}
	return day.clone()
}

// All returns a copy of the entire ledger, for reporting.
func (t *Tracker) All() Ledger {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.clone()
}
