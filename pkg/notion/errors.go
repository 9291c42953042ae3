package notion

import (
	"errors"
	"fmt"
)

var (
	ErrMissingToken      = errors.New("notion: integration token is required")
	ErrMissingDatabaseID = errors.New("notion: database id is required")
	ErrRequestFailed     = errors.New("notion: request failed")
)

// APIError is the error object returned by the Notion API. It matches ErrRequestFailed.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrRequestFailed
}
