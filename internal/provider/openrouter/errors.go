package openrouter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrorType classifies LLM API errors for the retry strategy.
type ErrorType int

const (
	ErrRateLimit          ErrorType = iota // HTTP 429
	ErrProviderOverloaded                  // HTTP 502, 503
	ErrCredits                             // HTTP 402, insufficient credits
	ErrAuth                                // HTTP 401, 403
	ErrMalformedResponse                   // JSON parse failure
	ErrTimeout                             // Request deadline exceeded
	ErrUnknown                             // Anything else
)

// String returns the human-readable name of the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrRateLimit:
		return "rate_limit"
	case ErrProviderOverloaded:
		return "provider_overloaded"
	case ErrCredits:
		return "insufficient_credits"
	case ErrAuth:
		return "auth_error"
	case ErrMalformedResponse:
		return "malformed_response"
	case ErrTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ClassifiedError wraps an API error with its classification and metadata.
type ClassifiedError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	RetryAfter time.Duration // Only set for rate limit errors
}

func (e *ClassifiedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("openrouter %s (HTTP %d): %s (retry after %s)", e.Type, e.StatusCode, e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("openrouter %s (HTTP %d): %s", e.Type, e.StatusCode, e.Message)
}

// Retryable returns true if this error type supports automatic retry.
// Credit and auth failures never resolve on their own.
func (e *ClassifiedError) Retryable() bool {
	switch e.Type {
	case ErrRateLimit, ErrProviderOverloaded, ErrTimeout, ErrMalformedResponse:
		return true
	default:
		return false
	}
}

// MaxRetries returns the maximum number of retries for this error type.
func (e *ClassifiedError) MaxRetries() int {
	switch e.Type {
	case ErrRateLimit:
		return 5
	case ErrProviderOverloaded:
		return 5
	case ErrMalformedResponse:
		return 3
	case ErrTimeout:
		return 1
	default:
		return 0
	}
}

// apiErrorBody is the JSON error body returned by OpenRouter.
type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// classifyHTTPError classifies an HTTP response as a specific error type.
func classifyHTTPError(resp *http.Response) *ClassifiedError {
	body, _ := io.ReadAll(resp.Body)

	var errBody apiErrorBody
	json.Unmarshal(body, &errBody) //nolint:errcheck // best-effort parse

	msg := errBody.Error.Message
	if msg == "" {
		msg = string(body)
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return &ClassifiedError{
			Type:       ErrRateLimit,
			StatusCode: resp.StatusCode,
			Message:    msg,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}

	case http.StatusPaymentRequired:
		return &ClassifiedError{
			Type:       ErrCredits,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}

	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return &ClassifiedError{
			Type:       ErrProviderOverloaded,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}

	case http.StatusUnauthorized, http.StatusForbidden:
		return &ClassifiedError{
			Type:       ErrAuth,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}

	default:
		// Some providers report exhausted credits as 400/403 body text.
		lowered := strings.ToLower(errBody.Error.Code + " " + errBody.Error.Type + " " + msg)
		if strings.Contains(lowered, "insufficient credits") || strings.Contains(lowered, "credit balance") {
			return &ClassifiedError{
				Type:       ErrCredits,
				StatusCode: resp.StatusCode,
				Message:    msg,
			}
		}
		return &ClassifiedError{
			Type:       ErrUnknown,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}
}

// parseRetryAfter parses the Retry-After header value as seconds.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil {
		return 0
	}
	return time.Duration(secs) * time.Second
}
