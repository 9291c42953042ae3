package webhook

import "errors"

var (
	ErrMissingSecret    = errors.New("webhook: signing secret is not configured")
	ErrMissingSignature = errors.New("webhook: signature is missing")
	ErrInvalidSignature = errors.New("webhook: signature does not match payload")
)
