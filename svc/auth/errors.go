package auth

import "errors"

var (
	ErrWeakSecret      = errors.New("auth: session secret must be at least 32 bytes")
	ErrEmptyUserID     = errors.New("auth: session requires a telegram user id")
	ErrInvalidInitData = errors.New("auth: invalid telegram init data")
)
