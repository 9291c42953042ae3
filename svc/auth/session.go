// Package auth issues and verifies the short-lived session tokens handed to
// the Mini App after a Telegram launch has been verified.
package auth

import (
	"errors"
	"time"

	"github.com/tgpaywall/tgpaywall/pkg/jwt"
)

// MinSecretLength is the shortest accepted JWT_SECRET.
const MinSecretLength = jwt.MinKeyLength

// DefaultSessionTTL is the lifetime of an issued session.
const DefaultSessionTTL = 10 * time.Minute

// SessionPayload is what a session asserts about its holder.
type SessionPayload struct {
	TelegramUserID string
	IsSubscribed   bool
}

// SessionClaims is the token body: telegramUserId, isSubscribed, iat, exp.
type SessionClaims struct {
	TelegramUserID string `json:"telegramUserId"`
	IsSubscribed   bool   `json:"isSubscribed"`
	jwt.RegisteredClaims
}

// SessionService is stateless and safe for concurrent use. There is no
// revocation: subscription truth enters a session only when it is issued.
type SessionService struct {
	tokens *jwt.Service
	ttl    time.Duration
	now    func() time.Time
}

type sessionOptions struct {
	ttl time.Duration
	now func() time.Time
}

// SessionOption configures a SessionService.
type SessionOption func(*sessionOptions)

// WithSessionTTL overrides the token lifetime. Non-positive values are ignored.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(o *sessionOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithSessionClock overrides time.Now for both issuance and verification.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(o *sessionOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NewSessionService returns ErrWeakSecret for secrets shorter than MinSecretLength.
func NewSessionService(secret []byte, opts ...SessionOption) (*SessionService, error) {
	o := sessionOptions{ttl: DefaultSessionTTL, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	tokens, err := jwt.New(secret, jwt.WithClock(o.now))
	if err != nil {
		if errors.Is(err, jwt.ErrMissingSigningKey) || errors.Is(err, jwt.ErrWeakSigningKey) {
			return nil, ErrWeakSecret
		}
		return nil, err
	}

	return &SessionService{tokens: tokens, ttl: o.ttl, now: o.now}, nil
}

// Issue signs a session for payload. exp - iat equals the session TTL.
func (s *SessionService) Issue(payload SessionPayload) (string, error) {
	token, _, err := s.issue(payload)
	return token, err
}

func (s *SessionService) issue(payload SessionPayload) (string, time.Time, error) {
	if payload.TelegramUserID == "" {
		return "", time.Time{}, ErrEmptyUserID
	}

	now := s.now()
	expiresAt := jwt.NewNumericDate(now.Add(s.ttl))
	token, err := s.tokens.Generate(SessionClaims{
		TelegramUserID: payload.TelegramUserID,
		IsSubscribed:   payload.IsSubscribed,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: expiresAt,
		},
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt.Time, nil
}

// Verify returns the claims of a valid session. Malformed, tampered,
// expired, foreign-algorithm and subject-less tokens all yield false.
func (s *SessionService) Verify(token string) (*SessionClaims, bool) {
	var claims SessionClaims
	if err := s.tokens.Parse(token, &claims); err != nil {
		return nil, false
	}
	if claims.TelegramUserID == "" {
		return nil, false
	}
	return &claims, true
}

// TTL is the lifetime of issued sessions.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}
