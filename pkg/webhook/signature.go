// Package webhook holds the signature primitives for inbound provider
// webhooks: a hex encoded HMAC-SHA256 of the raw request body, carried in a
// provider specific header.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultMaxBodySize caps the body read by ReadSigned.
const DefaultMaxBodySize int64 = 1 << 20

// SignHex returns the lowercase hex HMAC-SHA256 of body keyed by secret.
func SignHex(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyHexSignature checks signature against the HMAC of body.
// Hex case is ignored; the comparison itself is constant time.
func VerifyHexSignature(secret string, body []byte, signature string) error {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return ErrMissingSignature
	}
	if secret == "" {
		return ErrMissingSecret
	}

	expected := SignHex(secret, body)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return fmt.Errorf("%w: digest mismatch", ErrInvalidSignature)
	}

	return nil
}

// ReadSigned reads the raw request body (up to maxBytes, DefaultMaxBodySize
// when zero) and returns it along with the value of the signature header.
// The body must be verified before it is decoded.
func ReadSigned(r *http.Request, header string, maxBytes int64) ([]byte, string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return nil, "", fmt.Errorf("webhook: read body: %w", err)
	}

	return body, r.Header.Get(header), nil
}
