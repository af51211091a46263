package openai

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/openai/openai-go"

	"github.com/reins-ai/reins"
)

// wrapError wraps an OpenAI SDK error with reins error categorization.
// It extracts status codes and Retry-After headers for proper retry handling.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		// Not an API error, likely a network failure. Leave it uncategorized
		// so the retry layer treats it as retryable.
		return err
	}

	code := apiErr.StatusCode
	retryAfter := parseRetryAfter(apiErr.Response)

	msg := err.Error()
	if retryAfter > 0 {
		return reins.NewTransientErrorWithRetry(msg, code, retryAfter, err)
	}

	switch categorizeStatusCode(code) {
	case reins.ErrorTransient:
		return reins.NewTransientError(msg, code, err)
	case reins.ErrorPermanent:
		return reins.NewPermanentError(msg, code, err)
	case reins.ErrorUserInput:
		return reins.NewUserInputError(msg, code, err)
	default:
		return err
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

	// Seconds form first, it is the common one.
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	// HTTP-date form (RFC 7231).
	if t, err := http.ParseTime(header); err == nil {
		delay := time.Until(t)
		if delay > 0 {
			return delay
		}
	}

	return 0
}
