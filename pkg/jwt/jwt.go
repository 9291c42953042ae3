// Package jwt signs and parses HS256 JSON Web Tokens on top of
// github.com/golang-jwt/jwt/v5. Claim types embed jwt.RegisteredClaims
// (re-exported here) and add their own fields.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// MinKeyLength is the shortest accepted HMAC key.
const MinKeyLength = 32

type (
	// Claims is any claim set golang-jwt can validate.
	Claims = gojwt.Claims
	// RegisteredClaims holds the RFC 7519 registered claims.
	RegisteredClaims = gojwt.RegisteredClaims
	// NumericDate is a unix-seconds timestamp.
	NumericDate = gojwt.NumericDate
)

// NewNumericDate truncates t to whole seconds.
func NewNumericDate(t time.Time) *NumericDate {
	return gojwt.NewNumericDate(t)
}

// Service signs and verifies tokens with a single symmetric key.
type Service struct {
	key    []byte
	now    func() time.Time
	leeway time.Duration
}

// Option configures Service.
type Option func(*Service)

// WithClock overrides the time source used for exp/iat validation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLeeway tolerates small clock skew on time-based claims.
func WithLeeway(d time.Duration) Option {
	return func(s *Service) { s.leeway = d }
}

// New creates a Service. The key must be at least MinKeyLength bytes.
func New(key []byte, opts ...Option) (*Service, error) {
	if len(key) == 0 {
		return nil, ErrMissingSigningKey
	}
	if len(key) < MinKeyLength {
		return nil, ErrWeakSigningKey
	}
	s := &Service{key: key, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generate signs claims with HS256 and returns the compact token.
func (s *Service) Generate(claims Claims) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return token, nil
}

// Parse verifies token and decodes it into claims. Only HS256 is accepted
// and an exp claim is required. Errors are mapped to this package's sentinels.
func (s *Service) Parse(token string, claims Claims) error {
	if token == "" {
		return ErrMissingToken
	}
	if claims == nil {
		return ErrMissingClaims
	}

	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithIssuedAt(),
		gojwt.WithTimeFunc(s.now),
		gojwt.WithLeeway(s.leeway),
	)

	_, err := parser.ParseWithClaims(token, claims, func(t *gojwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		return mapError(err)
	}
	return nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenMalformed):
		return errors.Join(ErrMalformedToken, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return errors.Join(ErrInvalidSignature, err)
	case errors.Is(err, gojwt.ErrTokenExpired):
		return errors.Join(ErrExpiredToken, err)
	case errors.Is(err, gojwt.ErrTokenUnverifiable):
		return errors.Join(ErrUnexpectedSigningMethod, err)
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}
