package wm

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"wm-pickup/internal/apperr"
)

// StatusError is returned for non-2xx provider responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wm gateway: %s %s: status %d", e.Method, e.Path, e.Code)
}

// Unwrap maps auth and lookup failures onto apperr sentinels.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.Unauthorized
	case http.StatusNotFound:
		return apperr.NotFound
	default:
		return nil
	}
}

// isRetryable reports whether a failed call may succeed when repeated.
func isRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
