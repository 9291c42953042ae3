// Package clientip resolves the address of the client behind the reverse
// proxy that fronts the Mini App API.
package clientip

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Headers checked before RemoteAddr, most specific first.
var forwardHeaders = []string{"CF-Connecting-IP", "X-Real-IP"}

// GetIP returns the client IP: CF-Connecting-IP, X-Real-IP, the first valid
// entry of X-Forwarded-For, then RemoteAddr. Invalid values are skipped.
// Returns "" when nothing parses.
func GetIP(r *http.Request) string {
	for _, h := range forwardHeaders {
		if ip := parse(r.Header.Get(h)); ip != "" {
			return ip
		}
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for part := range strings.SplitSeq(fwd, ",") {
			if ip := parse(part); ip != "" {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return parse(host)
	}
	return parse(r.RemoteAddr)
}

func parse(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().String()
}

type ctxKey struct{}

// SetIPToContext stores ip in ctx.
func SetIPToContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKey{}, ip)
}

// GetIPFromContext returns the ip stored by SetIPToContext, or "".
func GetIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ctxKey{}).(string)
	return ip
}

// Middleware stores the client IP in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(SetIPToContext(r.Context(), GetIP(r))))
	})
}
