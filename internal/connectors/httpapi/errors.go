package httpapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

// ErrTooManyRedirects indicates a redirect target redirected again.
var ErrTooManyRedirects = errors.New("httpapi: too many redirects")

// RateLimitError represents an HTTP 429 response.
type RateLimitError struct {
	URL        string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("httpapi: rate limited (retry after %s): %s", e.RetryAfter, e.URL)
	}
	return fmt.Sprintf("httpapi: rate limited: %s", e.URL)
}

// Is reports whether the target is domain.ErrRateLimited.
func (e *RateLimitError) Is(target error) bool {
	return target == domain.ErrRateLimited
}

// APIError represents a non-2xx response other than 429.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("httpapi: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Is reports whether the target is domain.ErrTransport.
func (e *APIError) Is(target error) bool {
	return target == domain.ErrTransport
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsNotFound checks if the error indicates a missing resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsServerError checks if the error is a 5xx response.
func IsServerError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return false
}

// transportError wraps a network or decode failure so it satisfies
// errors.Is(err, domain.ErrTransport) while keeping the cause.
func transportError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrTransport, err)
}
