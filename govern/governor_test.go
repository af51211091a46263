package govern

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reins-ai/reins"
	"github.com/reins-ai/reins/retry"
	"github.com/reins-ai/reins/store"
	"github.com/reins-ai/reins/usage"
)

// flakyAdapter wraps a memory adapter and fails writes on demand.
type flakyAdapter struct {
	*store.MemoryAdapter
	failWrites bool
}

func (f *flakyAdapter) Set(ctx context.Context, key string, value json.RawMessage) error {
	if f.failWrites {
		return errors.New("store unavailable")
	}
	return f.MemoryAdapter.Set(ctx, key, value)
}

func newTestTracker(t *testing.T) *usage.Tracker {
	t.Helper()
	tracker, err := usage.NewTracker(context.Background(), store.NewMemoryAdapter())
	require.NoError(t, err)
	return tracker
}

// collectEvents reads n events off the channel, failing the test if they do
// not arrive. Retry events cross a goroutine, so a bare non-blocking read
// would race.
func collectEvents(t *testing.T, ch <-chan Event, n int) []Event {
	t.Helper()
	events := make([]Event, 0, n)
	deadline := time.After(2 * time.Second)
	for len(events) < n {
		select {
		case e := <-ch:
			events = append(events, e)
		case <-deadline:
			t.Fatalf("timed out waiting for %d events, got %d: %+v", n, len(events), events)
		}
	}
	return events
}

func eventTypes(events []Event) []EventType {
	types := make([]EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

// nonRetry drops forwarded retry events. Direct emissions keep their order
// on the channel; forwarded ones interleave arbitrarily.
func nonRetry(events []Event) []Event {
	var out []Event
	for _, e := range events {
		if e.Type != EventRetry {
			out = append(out, e)
		}
	}
	return out
}

func TestNew(t *testing.T) {
	t.Run("defaults admit everything and run once", func(t *testing.T) {
		g, err := New(reins.ProviderOpenAI, "gpt-4o")
		require.NoError(t, err)

		calls := 0
		_, err = Do(context.Background(), g, func(ctx context.Context) (string, Usage, error) {
			calls++
			return "", Usage{}, errors.New("boom")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls, "retries are disabled by default")
	})

	t.Run("identity accessors", func(t *testing.T) {
		g, err := New(reins.ProviderAnthropic, "claude-sonnet-4-5")
		require.NoError(t, err)
		assert.Equal(t, "anthropic/claude-sonnet-4-5", g.Key())
		assert.Equal(t, reins.ProviderAnthropic, g.Provider())
		assert.Equal(t, "claude-sonnet-4-5", g.Model())
	})

	t.Run("rejects invalid limit", func(t *testing.T) {
		_, err := New(reins.ProviderOpenAI, "gpt-4o", WithLimit(-1, time.Minute))
		assert.ErrorIs(t, err, reins.ErrInvalidConfig)
	})

	t.Run("rejects invalid retry config", func(t *testing.T) {
		_, err := New(reins.ProviderOpenAI, "gpt-4o", WithRetry(retry.Config{MaxAttempts: 0}))
		assert.ErrorIs(t, err, reins.ErrInvalidConfig)
	})
}

func TestDoSuccess(t *testing.T) {
	tracker := newTestTracker(t)
	events := make(chan Event, 16)
	g, err := New(reins.ProviderOpenAI, "gpt-4o",
		WithLimit(5, time.Minute),
		WithTracker(tracker),
		WithEvents(events),
	)
	require.NoError(t, err)

	got, err := Do(context.Background(), g, func(ctx context.Context) (string, Usage, error) {
		return "hello", Usage{Tokens: 120, Cost: 0.0021}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	t.Run("usage lands in the ledger", func(t *testing.T) {
		rec := tracker.Today()["openai"]["gpt-4o"]
		assert.Equal(t, 1, rec.Requests)
		assert.Equal(t, 120, rec.Tokens)
		assert.InDelta(t, 0.0021, rec.Cost, 1e-9)
	})

	t.Run("events carry the identity and usage", func(t *testing.T) {
		// call_start, forwarded attempt_start and success, call_complete,
		// usage_tracked
		all := collectEvents(t, events, 5)
		seen := nonRetry(all)
		assert.Equal(t, []EventType{EventCallStart, EventCallComplete, EventUsageTracked}, eventTypes(seen))

		for _, e := range all {
			assert.Equal(t, "openai/gpt-4o", e.Key)
			assert.Equal(t, "openai", e.Provider)
			assert.Equal(t, "gpt-4o", e.Model)
			assert.Equal(t, seen[0].RequestID, e.RequestID)
			assert.NotEmpty(t, e.RequestID)
			assert.False(t, e.Timestamp.IsZero())
		}
		require.NotNil(t, seen[1].Usage)
		assert.Equal(t, 120, seen[1].Usage.Tokens)
	})
}

func TestDoAdmission(t *testing.T) {
	t.Run("denial returns a rate limit error without invoking the operation", func(t *testing.T) {
		g, err := New(reins.ProviderOpenAI, "gpt-4o", WithLimit(1, time.Hour))
		require.NoError(t, err)

		ok := func(ctx context.Context) (int, Usage, error) { return 42, Usage{}, nil }
		_, err = Do(context.Background(), g, ok)
		require.NoError(t, err)

		calls := 0
		_, err = Do(context.Background(), g, func(ctx context.Context) (int, Usage, error) {
			calls++
			return 0, Usage{}, nil
		})
		require.Error(t, err)
		assert.Equal(t, 0, calls)
		assert.True(t, reins.IsRateLimit(err))

		var rle *reins.RateLimitError
		require.ErrorAs(t, err, &rle)
		assert.Equal(t, "openai/gpt-4o", rle.Key)
		assert.Equal(t, 1, rle.Limit)
		assert.Equal(t, time.Hour, rle.Window)
		assert.Greater(t, rle.RetryAfter, time.Duration(0))
	})

	t.Run("denial is not retried", func(t *testing.T) {
		events := make(chan Event, 16)
		g, err := New(reins.ProviderOpenAI, "gpt-4o",
			WithLimit(0, time.Minute),
			WithRetry(retry.Config{MaxAttempts: 3, Delay: time.Millisecond}),
			WithEvents(events),
		)
		require.NoError(t, err)

		calls := 0
		start := time.Now()
		_, err = Do(context.Background(), g, func(ctx context.Context) (int, Usage, error) {
			calls++
			return 0, Usage{}, nil
		})
		require.Error(t, err)
		assert.True(t, reins.IsRateLimit(err))
		assert.Equal(t, 0, calls)
		assert.Less(t, time.Since(start), 500*time.Millisecond, "no backoff sleeps for a denial")

		seen := collectEvents(t, events, 1)
		assert.Equal(t, EventAdmissionDenied, seen[0].Type)
		assert.True(t, reins.IsRateLimit(seen[0].Error))
	})

	t.Run("failed call still consumes an admission", func(t *testing.T) {
		g, err := New(reins.ProviderOpenAI, "gpt-4o", WithLimit(1, time.Hour))
		require.NoError(t, err)

		_, err = Do(context.Background(), g, func(ctx context.Context) (int, Usage, error) {
			return 0, Usage{}, errors.New("boom")
		})
		require.Error(t, err)
		require.False(t, reins.IsRateLimit(err))

		_, err = Do(context.Background(), g, func(ctx context.Context) (int, Usage, error) {
			return 42, Usage{}, nil
		})
		assert.True(t, reins.IsRateLimit(err), "the attempt above used the window's only slot")
	})
}

func TestDoRetry(t *testing.T) {
	t.Run("recovers after transient failures and charges once", func(t *testing.T) {
		tracker := newTestTracker(t)
		g, err := New(reins.ProviderAnthropic, "claude-sonnet-4-5",
			WithRetry(retry.Config{MaxAttempts: 3, Delay: time.Millisecond}),
			WithTracker(tracker),
		)
		require.NoError(t, err)

		calls := 0
		got, err := Do(context.Background(), g, func(ctx context.Context) (string, Usage, error) {
			calls++
			if calls < 3 {
				return "", Usage{}, errors.New("transient")
			}
			return "done", Usage{Tokens: 50, Cost: 0.001}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "done", got)
		assert.Equal(t, 3, calls)

		rec := tracker.Today()["anthropic"]["claude-sonnet-4-5"]
		assert.Equal(t, 1, rec.Requests, "only the successful call is charged")
		assert.Equal(t, 50, rec.Tokens)
	})

	t.Run("exhaustion returns the last error unchanged and charges nothing", func(t *testing.T) {
		tracker := newTestTracker(t)
		events := make(chan Event, 32)
		g, err := New(reins.ProviderAnthropic, "claude-sonnet-4-5",
			WithRetry(retry.Config{MaxAttempts: 2, Delay: time.Millisecond}),
			WithTracker(tracker),
			WithEvents(events),
		)
		require.NoError(t, err)

		opErr := errors.New("boom")
		calls := 0
		_, err = Do(context.Background(), g, func(ctx context.Context) (int, Usage, error) {
			calls++
			return 0, Usage{Tokens: 10, Cost: 0.1}, opErr
		})
		assert.Same(t, opErr, err)
		assert.Equal(t, 2, calls)
		assert.Empty(t, tracker.Today())

		// call_start and call_error, plus six forwarded retry events:
		// two attempt_starts, two attempt_faileds, retrying, exhausted
		seen := nonRetry(collectEvents(t, events, 8))
		require.Equal(t, []EventType{EventCallStart, EventCallError}, eventTypes(seen))
		assert.Same(t, opErr, seen[1].Error)
		assert.GreaterOrEqual(t, seen[1].Duration, time.Duration(0))
	})

	t.Run("permanent errors stop immediately", func(t *testing.T) {
		g, err := New(reins.ProviderAnthropic, "claude-sonnet-4-5",
			WithRetry(retry.Config{MaxAttempts: 5, Delay: time.Millisecond}),
		)
		require.NoError(t, err)

		calls := 0
		_, err = Do(context.Background(), g, func(ctx context.Context) (int, Usage, error) {
			calls++
			return 0, Usage{}, reins.NewPermanentError("invalid api key", 401, nil)
		})
		require.Error(t, err)
		assert.True(t, reins.IsPermanent(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("forwards retry events with the request id", func(t *testing.T) {
		events := make(chan Event, 32)
		g, err := New(reins.ProviderAnthropic, "claude-sonnet-4-5",
			WithRetry(retry.Config{MaxAttempts: 2, Delay: time.Millisecond}),
			WithEvents(events),
		)
		require.NoError(t, err)

		calls := 0
		_, err = Do(context.Background(), g, func(ctx context.Context) (string, Usage, error) {
			calls++
			if calls == 1 {
				return "", Usage{}, errors.New("transient")
			}
			return "ok", Usage{}, nil
		})
		require.NoError(t, err)

		// call_start, attempt_start, attempt_failed, retrying,
		// attempt_start, success, call_complete
		seen := collectEvents(t, events, 7)
		var retries []Event
		for _, e := range seen {
			assert.Equal(t, seen[0].RequestID, e.RequestID)
			if e.Type == EventRetry {
				retries = append(retries, e)
			}
		}
		require.Len(t, retries, 5)
		require.NotNil(t, retries[0].RetryEvent)
		assert.Equal(t, retry.EventAttemptStart, retries[0].RetryEvent.Type)
		assert.Equal(t, retry.EventAttemptFailed, retries[1].RetryEvent.Type)
		assert.Equal(t, retry.EventRetrying, retries[2].RetryEvent.Type)
	})
}

func TestDoTrackFailure(t *testing.T) {
	adapter := &flakyAdapter{MemoryAdapter: store.NewMemoryAdapter()}
	tracker, err := usage.NewTracker(context.Background(), adapter)
	require.NoError(t, err)
	adapter.failWrites = true

	events := make(chan Event, 16)
	g, err := New(reins.ProviderOpenAI, "gpt-4o",
		WithTracker(tracker),
		WithEvents(events),
	)
	require.NoError(t, err)

	got, err := Do(context.Background(), g, func(ctx context.Context) (string, Usage, error) {
		return "ok", Usage{Tokens: 10, Cost: 0.001}, nil
	})
	require.NoError(t, err, "a persistence failure never fails the call")
	assert.Equal(t, "ok", got)

	seen := nonRetry(collectEvents(t, events, 5))
	require.Equal(t, []EventType{EventCallStart, EventCallComplete, EventTrackError}, eventTypes(seen))
	assert.Error(t, seen[2].Error)
	require.NotNil(t, seen[2].Usage)
	assert.Equal(t, 10, seen[2].Usage.Tokens)

	t.Run("the in-memory ledger still advanced", func(t *testing.T) {
		rec := tracker.Today()["openai"]["gpt-4o"]
		assert.Equal(t, 1, rec.Requests)
	})
}

func TestDoRequestIDsDistinct(t *testing.T) {
	events := make(chan Event, 16)
	g, err := New(reins.ProviderOpenAI, "gpt-4o", WithEvents(events))
	require.NoError(t, err)

	op := func(ctx context.Context) (int, Usage, error) { return 1, Usage{}, nil }
	_, err = Do(context.Background(), g, op)
	require.NoError(t, err)
	_, err = Do(context.Background(), g, op)
	require.NoError(t, err)

	var starts []Event
	for _, e := range collectEvents(t, events, 8) {
		if e.Type == EventCallStart {
			starts = append(starts, e)
		}
	}
	require.Len(t, starts, 2)
	assert.NotEqual(t, starts[0].RequestID, starts[1].RequestID)
}

func TestEmitNeverBlocks(t *testing.T) {
	events := make(chan Event) // unbuffered, nobody reading
	g, err := New(reins.ProviderOpenAI, "gpt-4o", WithEvents(events))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Do(context.Background(), g, func(ctx context.Context) (int, Usage, error) {
			return 1, Usage{}, nil
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Do blocked on event emission")
	}
}
