package telegram

import "errors"

var (
	ErrMissingBotToken = errors.New("telegram: bot token is empty")
	ErrMalformed       = errors.New("telegram: malformed init data")
	ErrMissingHash     = errors.New("telegram: init data has no hash")
	ErrInvalidAuthDate = errors.New("telegram: auth_date is not a unix timestamp")
	ErrInvalidUser     = errors.New("telegram: user field is not valid JSON")
	ErrExpired         = errors.New("telegram: init data is older than the allowed age")
	ErrHashMismatch    = errors.New("telegram: init data hash mismatch")
)
