package retry

import (
	"fmt"
	"time"

	"github.com/reins-ai/reins"
)

// Config holds retry configuration parameters.
type Config struct {
	// MaxAttempts is the number of attempts allowed, the initial call
	// included. Must be positive.
	MaxAttempts int

	// Delay is the base backoff unit. The wait after failed attempt i
	// (0-indexed) is Delay * (i + 1): linear backoff, not exponential.
	Delay time.Duration
}

// DefaultConfig returns the default retry configuration:
// 3 attempts with a 1 second base delay.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		Delay:       1 * time.Second,
	}
}

// Disabled returns a configuration that disables retries (single attempt).
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Backoff returns the wait after a failed attempt (0-indexed).
func (c Config) Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return c.Delay * time.Duration(attempt+1)
}

// Validate reports whether the configuration is usable. Do rejects an
// invalid configuration before the first attempt.
func (c Config) Validate() error {
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be positive, got %d", reins.ErrInvalidConfig, c.MaxAttempts)
	}
	if c.Delay < 0 {
		return fmt.Errorf("%w: delay must be >= 0, got %s", reins.ErrInvalidConfig, c.Delay)
	}
	return nil
}
