// Package usage keeps the per-day accounting of governed API calls: tokens
// consumed, estimated USD cost, and request counts, keyed by date, provider,
// and model. The ledger is loaded from durable storage once at construction
// and written back synchronously after every mutation, so a crash loses at
// most the in-flight call's record.
package usage

import "time"

// Record is the cumulative usage for one provider/model on one date.
// All three counters only ever grow for a given date key.
type Record struct {
	Tokens   int     `json:"tokens"`
	Cost     float64 `json:"cost"`
	Requests int     `json:"requests"`
}

// DayUsage maps provider -> model -> record for one date key.
type DayUsage map[string]map[string]Record

// clone returns a deep copy so callers can't mutate tracker state.
func (d DayUsage) clone() DayUsage {
	out := make(DayUsage, len(d))
	for provider, models := range d {
		m := make(map[string]Record, len(models))
		for model, rec := range models {
			m[model] = rec
		}
		out[provider] = m
	}
	return out
}

// Ledger is the full accounting book: date key -> provider -> model -> record.
type Ledger map[string]DayUsage

func (l Ledger) clone() Ledger {
	out := make(Ledger, len(l))
	for date, day := range l {
		out[date] = day.clone()
	}
	return out
}

// DateKey formats an instant as the ledger's date key. Days split at UTC
// midnight regardless of the caller's zone.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
