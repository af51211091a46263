package google

import (
	"errors"

	"google.golang.org/genai"

	"github.com/reins-ai/reins"
)

// wrapError wraps a Google GenAI error with reins error categorization.
// Note: genai.APIError does not expose response headers, so Retry-After is
// not available here.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		// Not an API error, likely a network failure. Leave it uncategorized
		// so the retry layer treats it as retryable.
		return err
	}

	code := apiErr.Code
	msg := err.Error()

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
