package search

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/reins-ai/reins"
)

// statusError converts a non-2xx API response into a categorized error,
// pulling the message out of the error envelope when one is present.
func statusError(resp *http.Response, body []byte) error {
	code := resp.StatusCode

	msg := fmt.Sprintf("google search: status %d", code)
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		msg = fmt.Sprintf("google search: status %d: %s", code, envelope.Error.Message)
	}

	if retryAfter := parseRetryAfter(resp); retryAfter > 0 {
		return reins.NewTransientErrorWithRetry(msg, code, retryAfter, nil)
	}

	switch categorizeStatusCode(code) {
	case reins.ErrorTransient:
		return reins.NewTransientError(msg, code, nil)
	case reins.ErrorUserInput:
		return reins.NewUserInputError(msg, code, nil)
	default:
		return reins.NewPermanentError(msg, code, nil)
	}
}

// categorizeStatusCode determines the error category from an HTTP status code.
func categorizeStatusCode(code int) reins.ErrorCategory {
	switch {
	case code == 429:
		return reins.ErrorTransient // Rate limited
	case code >= 500 && code < 600:
		return reins.ErrorTransient // Server error
	case code == 401 || code == 403:
		return reins.ErrorPermanent // Authentication/authorization
	case code == 400 || code == 404 || code == 422:
		return reins.ErrorUserInput // Bad request or not found
	default:
		return reins.ErrorPermanent // Default to permanent for unknown codes
	}
}

// parseRetryAfter extracts the Retry-After duration from an HTTP response.
// Returns 0 if the header is not present or cannot be parsed.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		delay := time.Until(t)
		if delay > 0 {
			return delay
		}
	}

	return 0
}
