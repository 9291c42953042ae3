package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler: nil response")

// HTTPError is an error with a status code and an i18n message key.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string {
	return e.Key
}

// NewHTTPError returns an error rendered with status code and message key.
func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}

// Errors shared by the API modules. Keys are i18n catalog keys.
var (
	ErrBadRequest           = HTTPError{Code: http.StatusBadRequest, Key: "errors.bad_request"}
	ErrUnauthorized         = HTTPError{Code: http.StatusUnauthorized, Key: "auth.required"}
	ErrInvalidInitData      = HTTPError{Code: http.StatusUnauthorized, Key: "auth.invalid_data"}
	ErrSubscriptionRequired = HTTPError{Code: http.StatusForbidden, Key: "auth.subscription_required"}
	ErrPageNotFound         = HTTPError{Code: http.StatusNotFound, Key: "content.not_found"}
	ErrSlugRequired         = HTTPError{Code: http.StatusBadRequest, Key: "content.slug_required"}
	ErrQueryTooShort        = HTTPError{Code: http.StatusBadRequest, Key: "search.query_too_short"}
	ErrSignatureMissing     = HTTPError{Code: http.StatusUnauthorized, Key: "webhook.signature_missing"}
	ErrSignatureInvalid     = HTTPError{Code: http.StatusUnauthorized, Key: "webhook.signature_invalid"}
	ErrTooManyRequests      = HTTPError{Code: http.StatusTooManyRequests, Key: "errors.too_many_requests"}
	ErrInternal             = HTTPError{Code: http.StatusInternalServerError, Key: "errors.server_error"}
)
