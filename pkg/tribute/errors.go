package tribute

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMissingAPIKey    = errors.New("tribute: api key is required")
	ErrInvalidBaseURL   = errors.New("tribute: invalid api base url")
	ErrEmptyUserID      = errors.New("tribute: telegram user id is required")
	ErrUnexpectedStatus = errors.New("tribute: unexpected response status")
	ErrInvalidResponse  = errors.New("tribute: invalid response body")
	ErrUnavailable      = errors.New("tribute: api unavailable")
	ErrInvalidEvent     = errors.New("tribute: invalid webhook event")
	ErrInvalidUserID    = errors.New("tribute: unreadable user id in webhook event")
)

// StatusError reports a non-2xx API response. It matches ErrUnexpectedStatus.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrUnexpectedStatus, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Temporary reports whether the status points at the provider rather than the request.
func (e *StatusError) Temporary() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests
}
