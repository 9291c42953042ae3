package jwt

import (
	"net/http"
	"strings"
)

// TokenExtractorFunc pulls a raw token out of a request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// BearerTokenExtractor reads "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func BearerTokenExtractor(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// HeaderTokenExtractor reads the token from a custom header.
func HeaderTokenExtractor(name string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		if token := r.Header.Get(name); token != "" {
			return token, nil
		}
		return "", ErrMissingToken
	}
}

// ChainExtractors returns the first token any extractor finds.
func ChainExtractors(extractors ...TokenExtractorFunc) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		err := ErrMissingToken
		for _, ex := range extractors {
			token, exErr := ex(r)
			if exErr == nil {
				return token, nil
			}
			err = exErr
		}
		return "", err
	}
}
