package jwt

import "context"

type contextKey struct{ name string }

var (
	tokenKey  = &contextKey{name: "jwt"}
	claimsKey = &contextKey{name: "jwt_claims"}
)

// SetToken stores the raw token string in ctx.
func SetToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// GetToken returns the raw token stored by SetToken.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}

// SetClaims stores verified claims in ctx.
func SetClaims(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaims returns the claims stored by SetClaims when they are of type T.
func GetClaims[T any](ctx context.Context) (T, bool) {
	claims, ok := ctx.Value(claimsKey).(T)
	return claims, ok
}
