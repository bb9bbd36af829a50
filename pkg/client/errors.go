package client

import (
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when every attempt failed with a
	// transport timeout.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during
	// a retry backoff.
	ErrContextCancelled = errors.New("context cancelled")
)

// StatusError is returned by typed endpoint wrappers when the API answers
// with a non-success status that is not handled internally.
type StatusError struct {
	StatusCode int
	Status     string
	Endpoint   string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("moltbook api error: %s (status %d) on %s",
			e.Status, e.StatusCode, e.Endpoint)
	}
	return fmt.Sprintf("moltbook api error: %s (status %d)", e.Status, e.StatusCode)
}

// RetryableStatus reports whether a status code is transient and worth
// retrying: rate limiting (429) and the gateway-style 5xx family.
func RetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// isTimeout reports whether a transport error is a timeout. Only timeouts
// are retried; other transport failures surface immediately.
func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
