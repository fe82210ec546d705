package insights

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for configuration validation.
var (
	ErrMissingPublicKey = errors.New("insights: public key is required")
	ErrMissingSecretKey = errors.New("insights: secret key is required")
	ErrMissingBaseURL   = errors.New("insights: base URL is required")
	ErrInvalidConfig    = errors.New("insights: invalid configuration")
	ErrNilConfig        = errors.New("insights: config cannot be nil")
	ErrNoSnapshot       = errors.New("insights: no snapshot loaded")
)

// Sentinel APIError values for use with errors.Is().
// These match on status code only.
var (
	ErrNotFound     = &APIError{StatusCode: 404}
	ErrUnauthorized = &APIError{StatusCode: 401}
	ErrForbidden    = &APIError{StatusCode: 403}
	ErrRateLimited  = &APIError{StatusCode: 429}
)

// APIError represents an error response from the Langfuse API.
// It supports error wrapping via Unwrap() and comparison via Is().
type APIError struct {
	StatusCode   int           `json:"statusCode"`
	Message      string        `json:"message"`
	ErrorMessage string        `json:"error"`
	RetryAfter   time.Duration `json:"-"` // From Retry-After header
	Err          error         `json:"-"` // Underlying error for wrapping
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.ErrorMessage
	}
	if msg != "" {
		return fmt.Sprintf("insights: API error (status %d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("insights: API error (status %d)", e.StatusCode)
}

// Unwrap returns the underlying error for error chain support.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for errors.Is().
// It matches on status code, allowing comparisons like:
//
//	if errors.Is(err, insights.ErrRateLimited) { ... }
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode
}

// IsNotFound returns true if the error is a 404 Not Found error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsRateLimited returns true if the error is a 429 Too Many Requests error.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsServerError returns true if the error is a 5xx server error.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IngestionError is the terminal error for a failed ingestion run: a request
// that exhausted its retry budget, or a pagination loop that could not make
// progress. A failed run must surface loudly rather than return a silently
// empty record set, since empty input would corrupt every derived aggregate.
// Callers are expected to fall back to their last good Snapshot.
type IngestionError struct {
	Endpoint string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *IngestionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("insights: ingestion of %s failed after %d attempts: %v", e.Endpoint, e.Attempts, e.Err)
	}
	return fmt.Sprintf("insights: ingestion of %s failed after %d attempts", e.Endpoint, e.Attempts)
}

// Unwrap returns the underlying error.
func (e *IngestionError) Unwrap() error {
	return e.Err
}

// AsAPIError extracts an APIError from the error chain.
// Returns the APIError and true if found, nil and false otherwise.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// AsIngestionError extracts an IngestionError from the error chain.
// Returns the IngestionError and true if found, nil and false otherwise.
func AsIngestionError(err error) (*IngestionError, bool) {
	var ingErr *IngestionError
	if errors.As(err, &ingErr) {
		return ingErr, true
	}
	return nil, false
}

// IsRetryable returns true if the error represents a retryable condition:
// rate limiting (429), server errors (5xx), or network failures. Client
// errors other than 429 are not retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.IsRateLimited() || apiErr.IsServerError()
	}
	// Non-API errors (network blips) are retryable.
	return true
}

// RetryAfter returns the suggested retry delay from a rate limit error.
// Returns 0 if the error is not a rate limit error or has no Retry-After hint.
func RetryAfter(err error) time.Duration {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.RetryAfter
	}
	return 0
}
