package client

import "github.com/reins-ai/reins/usage"

// UsageToday returns today's ledger slice: provider, then model, then the
// accumulated counters. The returned mapping is a copy.
func (c *Client) UsageToday() usage.DayUsage {
	return c.tracker.Today()
}

// UsageOn returns the ledger slice for a specific date key ("2006-01-02").
func (c *Client) UsageOn(date string) usage.DayUsage {
	return c.tracker.Day(date)
}

// UsageAll returns the full ledger across all recorded days.
func (c *Client) UsageAll() usage.Ledger {
	return c.tracker.All()
}
