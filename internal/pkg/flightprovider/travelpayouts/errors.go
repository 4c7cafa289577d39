package travelpayouts

import (
	"net/http"

	"github.com/mytrippers/flight-search-service/internal/pkg/exception"
)

// ErrInitFailure means the submit call did not yield a session id.
// Fatal for the request, not retried.
var ErrInitFailure = exception.ApplicationError{
	StatusCode: http.StatusBadGateway,
	Message:    "provider did not return a search session id",
}

// ErrNoResults means the poll loop exhausted without results. This is an
// expected outcome, remapped to an empty success by the boundary layer.
var ErrNoResults = exception.ApplicationError{
	StatusCode: http.StatusNotFound,
	Message:    "no flight results returned from provider",
}

var ErrRateLimitExceeded = exception.ApplicationError{
	StatusCode: http.StatusTooManyRequests,
	Message:    "provider rate limit exceeded",
}

func initFailure(cause error) error {
	failure := ErrInitFailure
	failure.Cause = cause

	return failure
}

// providerError wraps an explicit error field of a poll response.
// Fatal, not retried.
func providerError(message string) error {
	return exception.ApplicationError{
		StatusCode: http.StatusBadGateway,
		Message:    "provider error: " + message,
	}
}
