package govern

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reins-ai/reins"
	"github.com/reins-ai/reins/ratelimit"
	"github.com/reins-ai/reins/retry"
)

func TestNewRegistry(t *testing.T) {
	t.Run("zero retry config means a single attempt", func(t *testing.T) {
		r, err := NewRegistry(RegistryConfig{})
		require.NoError(t, err)

		g := r.For(reins.ProviderOpenAI, "gpt-4o")
		calls := 0
		_, err = Do(context.Background(), g, func(ctx context.Context) (int, Usage, error) {
			calls++
			return 0, Usage{}, errors.New("boom")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("rejects invalid retry config", func(t *testing.T) {
		_, err := NewRegistry(RegistryConfig{Retry: retry.Config{MaxAttempts: -1}})
		assert.ErrorIs(t, err, reins.ErrInvalidConfig)
	})
}

func TestRegistryFor(t *testing.T) {
	limits, err := ratelimit.NewRegistry(ratelimit.Limit{MaxRequests: 1, Window: time.Hour})
	require.NoError(t, err)
	require.NoError(t, limits.SetLimit("openai/gpt-4o-mini", ratelimit.Limit{MaxRequests: 5, Window: time.Hour}))

	tracker := newTestTracker(t)
	r, err := NewRegistry(RegistryConfig{Limits: limits, Tracker: tracker})
	require.NoError(t, err)

	t.Run("same identity gets the same governor", func(t *testing.T) {
		a := r.For(reins.ProviderOpenAI, "gpt-4o")
		b := r.For(reins.ProviderOpenAI, "gpt-4o")
		assert.Same(t, a, b)
	})

	t.Run("identities do not share budgets", func(t *testing.T) {
		ok := func(ctx context.Context) (int, Usage, error) { return 1, Usage{}, nil }

		_, err := Do(context.Background(), r.For(reins.ProviderOpenAI, "gpt-4o"), ok)
		require.NoError(t, err)
		_, err = Do(context.Background(), r.For(reins.ProviderOpenAI, "gpt-4o"), ok)
		assert.True(t, reins.IsRateLimit(err), "gpt-4o allows one request per hour")

		_, err = Do(context.Background(), r.For(reins.ProviderAnthropic, "claude-sonnet-4-5"), ok)
		assert.NoError(t, err, "another identity still has its own slot")
	})

	t.Run("per-key overrides apply", func(t *testing.T) {
		g := r.For(reins.ProviderOpenAI, "gpt-4o-mini")
		ok := func(ctx context.Context) (int, Usage, error) { return 1, Usage{}, nil }
		for i := 0; i < 5; i++ {
			_, err := Do(context.Background(), g, ok)
			require.NoError(t, err)
		}
		_, err := Do(context.Background(), g, ok)
		assert.True(t, reins.IsRateLimit(err))
	})

	t.Run("governors share the tracker", func(t *testing.T) {
		day := tracker.Today()
		assert.Equal(t, 1, day["openai"]["gpt-4o"].Requests)
		assert.Equal(t, 5, day["openai"]["gpt-4o-mini"].Requests)
		assert.Equal(t, 1, day["anthropic"]["claude-sonnet-4-5"].Requests)
	})
}

func TestRegistryForConcurrent(t *testing.T) {
	r, err := NewRegistry(RegistryConfig{})
	require.NoError(t, err)

	const goroutines = 50
	results := make(chan *Governor, goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			results <- r.For(reins.ProviderGoogle, "gemini-2.5-flash")
		}()
	}

	first := <-results
	for i := 1; i < goroutines; i++ {
		assert.Same(t, first, <-results)
	}
}
