package usage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reins-ai/reins"
	"github.com/reins-ai/reins/store"
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

func newTestTracker(t *testing.T, opts ...TrackerOption) (*Tracker, *store.MemoryAdapter) {
	t.Helper()
	adapter := store.NewMemoryAdapter()
	tracker, err := NewTracker(context.Background(), adapter, opts...)
	require.NoError(t, err)
	return tracker, adapter
}

func TestTrackAccumulates(t *testing.T) {
	day1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	now := day1
	tracker, _ := newTestTracker(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, tracker.Track(ctx, "openai", "gpt-4", 100, 0.003))
	require.NoError(t, tracker.Track(ctx, "openai", "gpt-4", 100, 0.003))

	rec := tracker.Today()["openai"]["gpt-4"]
	assert.Equal(t, 2, rec.Requests)
	assert.Equal(t, 200, rec.Tokens)
	assert.InDelta(t, 0.006, rec.Cost, 1e-9)

	t.Run("a new day starts from zero", func(t *testing.T) {
		now = day1.AddDate(0, 0, 1)
		require.NoError(t, tracker.Track(ctx, "openai", "gpt-4", 100, 0.003))

		rec := tracker.Today()["openai"]["gpt-4"]
		assert.Equal(t, 1, rec.Requests)
		assert.Equal(t, 100, rec.Tokens)
		assert.InDelta(t, 0.003, rec.Cost, 1e-9)

		yesterday := tracker.Day(DateKey(day1))["openai"]["gpt-4"]
		assert.Equal(t, 2, yesterday.Requests, "the previous day's entry is untouched")
	})

	t.Run("providers and models are independent leaves", func(t *testing.T) {
		require.NoError(t, tracker.Track(ctx, "anthropic", "claude-sonnet-4-5", 50, 0.001))
		require.NoError(t, tracker.Track(ctx, "openai", "gpt-5.2", 10, 0.0001))

		today := tracker.Today()
		assert.Equal(t, 1, today["anthropic"]["claude-sonnet-4-5"].Requests)
		assert.Equal(t, 1, today["openai"]["gpt-5.2"].Requests)
		assert.Equal(t, 1, today["openai"]["gpt-4"].Requests)
	})
}

func TestTodayBeforeAnyTrack(t *testing.T) {
	tracker, _ := newTestTracker(t)

	today := tracker.Today()
	require.NotNil(t, today)
	assert.Empty(t, today)

	t.Run("returned map is a copy", func(t *testing.T) {
		today["openai"] = map[string]Record{"gpt-4": {Requests: 99}}
		assert.Empty(t, tracker.Today())
	})
}

func TestLedgerPersistedAfterEveryMutation(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tracker, adapter := newTestTracker(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	readBack := func() Ledger {
		data, ok, err := adapter.Get(ctx, DefaultStorageKey)
		require.NoError(t, err)
		require.True(t, ok, "ledger must be written through")
		var l Ledger
		require.NoError(t, json.Unmarshal(data, &l))
		return l
	}

	require.NoError(t, tracker.Track(ctx, "openai", "gpt-4", 100, 0.003))
	assert.Equal(t, 1, readBack()["2025-06-01"]["openai"]["gpt-4"].Requests)

	require.NoError(t, tracker.Track(ctx, "openai", "gpt-4", 100, 0.003))
	assert.Equal(t, 2, readBack()["2025-06-01"]["openai"]["gpt-4"].Requests)
}

func TestTrackerLoadsExistingLedger(t *testing.T) {
	ctx := context.Background()
	adapter := store.NewMemoryAdapter()
	seed := `{"2025-06-01":{"google":{"gemini-2.5-flash":{"tokens":500,"cost":0.01,"requests":5}}}}`
	require.NoError(t, adapter.Set(ctx, DefaultStorageKey, json.RawMessage(seed)))

	now := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	tracker, err := NewTracker(ctx, adapter, WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	rec := tracker.Today()["google"]["gemini-2.5-flash"]
	assert.Equal(t, 5, rec.Requests)
	assert.Equal(t, 500, rec.Tokens)

	t.Run("new tracking continues the loaded counters", func(t *testing.T) {
		require.NoError(t, tracker.Track(ctx, "google", "gemini-2.5-flash", 100, 0.002))
		rec := tracker.Today()["google"]["gemini-2.5-flash"]
		assert.Equal(t, 6, rec.Requests)
		assert.Equal(t, 600, rec.Tokens)
		assert.InDelta(t, 0.012, rec.Cost, 1e-9)
	})
}

func TestTrackerRejectsCorruptLedger(t *testing.T) {
	ctx := context.Background()
	adapter := store.NewMemoryAdapter()
	require.NoError(t, adapter.Set(ctx, DefaultStorageKey, json.RawMessage(`{not json`)))

	_, err := NewTracker(ctx, adapter)
	assert.Error(t, err)
}

func TestTrackKeepsMemoryOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyAdapter{MemoryAdapter: store.NewMemoryAdapter()}
	tracker, err := NewTracker(ctx, flaky)
	require.NoError(t, err)

	flaky.failWrites = true
	err = tracker.Track(ctx, "openai", "gpt-4", 100, 0.003)
	require.Error(t, err, "the persistence failure is reported")

	rec := tracker.Today()["openai"]["gpt-4"]
	assert.Equal(t, 1, rec.Requests, "the in-memory ledger keeps the record")
	assert.Equal(t, 100, rec.Tokens)
}

func TestTrackRejectsNegativeUsage(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	assert.True(t, errors.Is(tracker.Track(ctx, "openai", "gpt-4", -1, 0), reins.ErrInvalidConfig))
	assert.True(t, errors.Is(tracker.Track(ctx, "openai", "gpt-4", 1, -0.1), reins.ErrInvalidConfig))
	assert.Empty(t, tracker.Today())
}

func TestTrackConcurrent(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tracker.Track(ctx, "openai", "gpt-4", 10, 0.001)
		}()
	}
	wg.Wait()

	rec := tracker.Today()["openai"]["gpt-4"]
	assert.Equal(t, 50, rec.Requests)
	assert.Equal(t, 500, rec.Tokens)
	assert.InDelta(t, 0.05, rec.Cost, 1e-9)
}

func TestDateKey(t *testing.T) {
	t.Run("formats UTC dates", func(t *testing.T) {
		assert.Equal(t, "2025-06-01", DateKey(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("days split at UTC midnight", func(t *testing.T) {
		zone := time.FixedZone("UTC-5", -5*3600)
		late := time.Date(2025, 6, 1, 23, 30, 0, 0, zone)
		assert.Equal(t, "2025-06-02", DateKey(late))
	})
}
