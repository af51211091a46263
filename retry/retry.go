// Package retry provides linear-backoff retry for transient failures.
//
// Every error is retried unless it is explicitly categorized as permanent or
// invalid input via the root error taxonomy; classification happens at the
// provider boundary, not here. The final attempt's error is propagated to
// the caller unchanged.
package retry

import (
	"context"
	"time"

	"github.com/reins-ai/reins"
)

// effectiveDelay returns the backoff to use, honoring a server-provided
// Retry-After when it exceeds the configured delay.
func effectiveDelay(configured time.Duration, err error) time.Duration {
	if server := reins.RetryAfterOf(err); server > configured {
		return server
	}
	return configured
}

// giveUp reports whether the error is explicitly non-retryable.
// Uncategorized errors are assumed transient and retried.
func giveUp(err error) bool {
	return reins.IsPermanent(err) || reins.IsUserInput(err)
}

// Do executes fn up to cfg.MaxAttempts times, sleeping Backoff(i) after
// failed attempt i. It returns the result of the first success, or the last
// error unchanged once attempts are exhausted. A non-positive MaxAttempts is
// a configuration error; fn is never invoked. Backoff waits respect context
// cancellation and return ctx.Err() immediately.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	return DoWithEvents(ctx, cfg, nil, fn)
}

// DoWithEvents is like Do but emits events for observability.
// Events are sent non-blocking; if the channel is full, events are dropped.
// Pass nil for events to disable event emission (equivalent to Do).
func DoWithEvents[T any](ctx context.Context, cfg Config, events chan<- Event, fn func() (T, error)) (T, error) {
	var zero T

	if err := cfg.Validate(); err != nil {
		return zero, err
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		emit(events, Event{
			Type:        EventAttemptStart,
			Attempt:     attempt + 1,
			MaxAttempts: cfg.MaxAttempts,
		})

		result, err := fn()
		if err == nil {
			emit(events, Event{
				Type:        EventSuccess,
				Attempt:     attempt + 1,
				MaxAttempts: cfg.MaxAttempts,
			})
			return result, nil
		}

		lastErr = err
		retryable := !giveUp(err)

		emit(events, Event{
			Type:        EventAttemptFailed,
			Attempt:     attempt + 1,
			MaxAttempts: cfg.MaxAttempts,
			Error:       err,
			Retryable:   retryable,
		})

		if !retryable {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxAttempts-1 {
			delay := effectiveDelay(cfg.Backoff(attempt), err)

			emit(events, Event{
				Type:        EventRetrying,
				Attempt:     attempt + 1,
				MaxAttempts: cfg.MaxAttempts,
				Delay:       delay,
			})

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	emit(events, Event{
		Type:        EventExhausted,
		Attempt:     cfg.MaxAttempts,
		MaxAttempts: cfg.MaxAttempts,
		Error:       lastErr,
	})

	return zero, lastErr
}
