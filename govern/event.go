package govern

import (
	"time"

	"github.com/reins-ai/reins/retry"
)

// EventType identifies the kind of governor event.
type EventType string

const (
	// EventAdmissionDenied fires when the sliding window rejects a call
	// before any attempt is made.
	EventAdmissionDenied EventType = "admission_denied"
	// EventCallStart fires when an admitted call begins.
	EventCallStart EventType = "call_start"
	// EventCallComplete fires when a call succeeds.
	EventCallComplete EventType = "call_complete"
	// EventCallError fires when a call fails after the retry policy is
	// exhausted or stopped.
	EventCallError EventType = "call_error"
	// EventRetry carries a retry-layer event for an in-flight call.
	EventRetry EventType = "retry"
	// EventUsageTracked fires after a successful call's usage lands in
	// the ledger.
	EventUsageTracked EventType = "usage_tracked"
	// EventTrackError fires when the ledger update or its persistence
	// fails. The call itself still succeeded.
	EventTrackError EventType = "track_error"
)

// Event is an observability record emitted by a Governor. Key, Provider,
// and Model identify the governed identity; RequestID ties together every
// event of one Do call.
type Event struct {
	Type      EventType
	Key       string
	Provider  string
	Model     string
	RequestID string
	Duration  time.Duration
	Usage     *Usage
	Error     error
	// RetryEvent is set on EventRetry and carries the underlying
	// retry-layer event.
	RetryEvent *retry.Event
	Timestamp  time.Time
}

// emit stamps and sends an event without blocking. Events are dropped when
// no channel is configured or the channel is full.
func (g *Governor) emit(e Event) {
	if g.events == nil {
		return
	}
	e.Key = g.Key()
	e.Provider = g.provider.String()
	e.Model = g.model
	e.Timestamp = time.Now()
	select {
	case g.events <- e:
	default:
	}
}

// forwardRetryEvents republishes retry-layer events on the governor channel
// until the retry channel closes.
func (g *Governor) forwardRetryEvents(requestID string, ch <-chan retry.Event) {
	for re := range ch {
		re := re
		g.emit(Event{
			Type:       EventRetry,
			RequestID:  requestID,
			RetryEvent: &re,
		})
	}
}
