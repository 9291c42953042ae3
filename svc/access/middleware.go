package access

import (
	"context"
	"net/http"

	"github.com/tgpaywall/tgpaywall/pkg/jwt"
	"github.com/tgpaywall/tgpaywall/svc/auth"
)

// Middleware verifies an optional bearer token and stores its claims in the
// request context. Requests without a valid token pass through untouched;
// handlers decide with Gate.Decide.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := g.Claims(BearerToken(r)); claims != nil {
			r = r.WithContext(jwt.SetClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromContext returns the claims stored by Middleware.
func ClaimsFromContext(ctx context.Context) *auth.SessionClaims {
	claims, ok := jwt.GetClaims[*auth.SessionClaims](ctx)
	if !ok {
		return nil
	}
	return claims
}

// Subscribed reports whether ctx carries claims of a subscribed user.
func Subscribed(ctx context.Context) bool {
	c := ClaimsFromContext(ctx)
	return c != nil && c.IsSubscribed
}
