package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Delay)
}

func TestDisabled(t *testing.T) {
	cfg := Disabled()
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Zero(t, cfg.Delay)
	assert.NoError(t, cfg.Validate())
}

func TestBackoff(t *testing.T) {
	cfg := Config{MaxAttempts: 4, Delay: 100 * time.Millisecond}

	tests := []struct {
		name    string
		attempt int
		want    time.Duration
	}{
		{name: "first failure", attempt: 0, want: 100 * time.Millisecond},
		{name: "second failure", attempt: 1, want: 200 * time.Millisecond},
		{name: "third failure", attempt: 2, want: 300 * time.Millisecond},
		{name: "negative clamps to first", attempt: -3, want: 100 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.Backoff(tt.attempt))
		})
	}
}

func TestBackoffWorstCaseTotal(t *testing.T) {
	// Total suspension across a full run is Delay * (1 + 2 + ... + (n-1)).
	cfg := Config{MaxAttempts: 4, Delay: 10 * time.Millisecond}

	var total time.Duration
	for i := 0; i < cfg.MaxAttempts-1; i++ {
		total += cfg.Backoff(i)
	}
	assert.Equal(t, 60*time.Millisecond, total)
}
