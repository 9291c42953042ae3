// Package access decides whether a session token may read a page.
package access

import (
	"errors"
	"net/http"

	"github.com/tgpaywall/tgpaywall/pkg/jwt"
	"github.com/tgpaywall/tgpaywall/svc/auth"
	"github.com/tgpaywall/tgpaywall/svc/content"
)

var (
	ErrUnauthorized = errors.New("access: session token required")
	ErrForbidden    = errors.New("access: active subscription required")
)

// TokenVerifier is satisfied by auth.SessionService.
type TokenVerifier interface {
	Verify(token string) (*auth.SessionClaims, bool)
}

// Decision is the outcome of an authorization check. Status is the HTTP
// status to answer with when Allowed is false, and http.StatusOK otherwise.
type Decision struct {
	Allowed bool
	Status  int
	Reason  error
	Claims  *auth.SessionClaims
}

// Gate is stateless and never consults the subscription store: the
// subscription flag baked into the token is authoritative until it expires.
type Gate struct {
	verifier TokenVerifier
}

// NewGate returns a Gate that verifies bearer tokens with verifier.
func NewGate(verifier TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authorize checks bearerToken against the access level of a page.
// Public content is always allowed; the verified claims are still attached
// when the token is good. Any level other than public is treated as premium.
func (g *Gate) Authorize(level content.Access, bearerToken string) Decision {
	return g.Decide(level, g.Claims(bearerToken))
}

// Claims verifies token and returns its claims, or nil.
func (g *Gate) Claims(token string) *auth.SessionClaims {
	if token == "" || g.verifier == nil {
		return nil
	}
	claims, ok := g.verifier.Verify(token)
	if !ok {
		return nil
	}
	return claims
}

// Decide is Authorize for claims that were already verified.
func (g *Gate) Decide(level content.Access, claims *auth.SessionClaims) Decision {
	switch {
	case level == content.AccessPublic:
		return Decision{Allowed: true, Status: http.StatusOK, Claims: claims}
	case claims == nil:
		return Decision{Status: http.StatusUnauthorized, Reason: ErrUnauthorized}
	case !claims.IsSubscribed:
		return Decision{Status: http.StatusForbidden, Reason: ErrForbidden, Claims: claims}
	default:
		return Decision{Allowed: true, Status: http.StatusOK, Claims: claims}
	}
}

// BearerToken returns the token of an "Authorization: Bearer" header, or "".
func BearerToken(r *http.Request) string {
	token, err := jwt.BearerTokenExtractor(r)
	if err != nil {
		return ""
	}
	return token
}
