package google

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

const serviceName = "google"

// quotaReasons are the googleapi error reasons that mean the daily or
// per-minute quota is used up.
var quotaReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"dailyLimitExceeded":    true,
	"quotaExceeded":         true,
	"RATE_LIMIT_EXCEEDED":   true,
	"RESOURCE_EXHAUSTED":    true,
}

// IsRateLimited returns true if the error indicates rate limiting or an
// exhausted quota.
func IsRateLimited(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	if gerr.Code == http.StatusTooManyRequests {
		return true
	}
	if gerr.Code != http.StatusForbidden {
		return false
	}
	for _, item := range gerr.Errors {
		if quotaReasons[item.Reason] {
			return true
		}
	}
	return strings.Contains(strings.ToLower(gerr.Message), "quota")
}

// WrapError converts a Google API error into a domain error.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &domain.ExternalError{Service: serviceName, Op: op, Err: err}
	}

	if IsRateLimited(err) {
		return &domain.QuotaError{
			Service:    serviceName,
			RetryAfter: retryAfter(gerr.Header),
			Message:    gerr.Message,
		}
	}

	switch gerr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &domain.ExternalError{
			Service: serviceName,
			Op:      op,
			Err:     errors.Join(domain.ErrMissingCredentials, err),
		}
	default:
		return &domain.ExternalError{Service: serviceName, Op: op, Err: err}
	}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
