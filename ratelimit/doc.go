// Package ratelimit provides sliding-window admission control for outbound
// API calls.
//
// A Window admits at most MaxRequests calls in any trailing interval of its
// configured duration, evaluated continuously against "now" rather than in
// fixed, aligned buckets. A Registry hands out one Window per caller
// identity (typically a provider/model pair) so independent callers never
// serialize against each other.
//
// Basic usage:
//
//	reg, err := ratelimit.NewRegistry(ratelimit.Limit{MaxRequests: 60, Window: time.Minute})
//	if err != nil {
//	    return err
//	}
//
//	d := reg.Window("openai/gpt-4o").Allow()
//	if !d.Allowed {
//	    return fmt.Errorf("denied, retry after %s", d.RetryAfter)
//	}
package ratelimit
