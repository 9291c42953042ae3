package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("binder: unsupported media type")
	ErrInvalidJSON          = errors.New("binder: invalid JSON body")
	ErrBodyTooLarge         = errors.New("binder: request body too large")
	ErrInvalidQuery         = errors.New("binder: invalid query parameter")
	ErrInvalidTarget        = errors.New("binder: target must be a non-nil pointer to struct")
)
