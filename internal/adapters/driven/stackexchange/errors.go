package stackexchange

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

const serviceName = "stackexchange"

// API error ids, see https://api.stackexchange.com/docs/error-handling.
const (
	errIDAccessTokenRequired = 401
	errIDInvalidAccessToken  = 402
	errIDAccessDenied        = 403
	errIDNoMethod            = 404
	errIDKeyRequired         = 405
	errIDThrottleViolation   = 502
)

// APIError is an error envelope returned by the API.
type APIError struct {
	StatusCode int
	ID         int
	Name       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stackexchange: API error %d %s: %s (HTTP %d)", e.ID, e.Name, e.Message, e.StatusCode)
}

// classify turns an API error into a domain error.
func classify(op string, apiErr *APIError, backoff int) error {
	switch apiErr.ID {
	case errIDThrottleViolation:
		return &domain.QuotaError{
			Service:    serviceName,
			RetryAfter: time.Duration(backoff) * time.Second,
			Message:    apiErr.Message,
		}
	case errIDAccessTokenRequired, errIDInvalidAccessToken, errIDAccessDenied, errIDKeyRequired:
		return &domain.ExternalError{Service: serviceName, Op: op, Err: errors.Join(domain.ErrMissingCredentials, apiErr)}
	case errIDNoMethod:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrNotFound, apiErr)
	default:
		return &domain.ExternalError{Service: serviceName, Op: op, Err: apiErr}
	}
}

// IsThrottled reports whether an HTTP status is a throttling response.
func IsThrottled(status int) bool {
	return status == http.StatusTooManyRequests
}
