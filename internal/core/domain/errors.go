package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Check Errors.

	// ErrExternalUnavailable indicates the search provider or the post lookup
	// service could not be reached or failed at the transport level.
	ErrExternalUnavailable = errors.New("external service unavailable")

	// ErrQuotaExceeded indicates an external service refused the request
	// because a quota or throttle was hit.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrMalformedPost indicates the post to check has no body to segment.
	ErrMalformedPost = errors.New("malformed post")

	// ErrUnusableCandidate indicates a single candidate could not be scored.
	// It never aborts a check.
	ErrUnusableCandidate = errors.New("unusable candidate")

	// ErrCheckIncomplete indicates the check's deadline elapsed or it was
	// cancelled before all candidates were scored.
	ErrCheckIncomplete = errors.New("check incomplete")

	// ErrMissingCredentials indicates an adapter was built without the
	// keys it needs.
	ErrMissingCredentials = errors.New("missing credentials")
)

// QuotaError is returned when an external service asks the caller to back off.
type QuotaError struct {
	// Service names the external service (e.g. "google", "stackexchange").
	Service string

	// RetryAfter is how long the service asked to wait, zero if unknown.
	RetryAfter time.Duration

	// Message is the service's own description.
	Message string
}

func (e *QuotaError) Error() string {
	msg := fmt.Sprintf("%s: quota exceeded", e.Service)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	return msg
}

// Is makes QuotaError match ErrQuotaExceeded.
func (e *QuotaError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// ExternalError wraps a transport or API failure of an external service.
type ExternalError struct {
	Service string
	Op      string
	Err     error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Service, e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

// Is makes ExternalError match ErrExternalUnavailable.
func (e *ExternalError) Is(target error) bool {
	return target == ErrExternalUnavailable
}

// IsQuotaExceeded returns true if the error indicates quota exhaustion.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// IsExternalUnavailable returns true if the error indicates an unreachable
// or failing external service. Quota errors are reported separately.
func IsExternalUnavailable(err error) bool {
	return errors.Is(err, ErrExternalUnavailable) && !IsQuotaExceeded(err)
}
