package worker

import (
	"errors"
	"fmt"
)

// Sentinel worker errors. The first three are retryable with another
// credential; the rest fail the dispatch immediately.
var (
	// ErrRateLimited indicates the credential hit a rate limit.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrQuotaExhausted indicates the credential's quota is spent.
	ErrQuotaExhausted = errors.New("quota exhausted")

	// ErrInvalidCredential indicates the credential was rejected.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrInvalidRequest indicates the request itself was malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrServer indicates a worker-side failure unrelated to the credential.
	ErrServer = errors.New("worker server error")
)

// APIError is an HTTP-shaped worker error carrying the upstream status code.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("worker api error (code %d): %s", e.Code, e.Message)
}

// IsRetryable reports whether the error is worth retrying with a different
// credential: rate limits, quota exhaustion, and credential rejection are;
// malformed requests and server failures are not.
func (e *APIError) IsRetryable() bool {
	switch e.Code {
	case 401, 403, 429:
		return true
	default:
		return false
	}
}

// Unwrap maps the status code onto the sentinel taxonomy so errors.Is works
// across the HTTP boundary.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case 401, 403:
		return ErrInvalidCredential
	case 429:
		return ErrRateLimited
	case 400:
		return ErrInvalidRequest
	default:
		if e.Code >= 500 {
			return ErrServer
		}
		return nil
	}
}
