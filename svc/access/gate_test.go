package access_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgpaywall/tgpaywall/svc/access"
	"github.com/tgpaywall/tgpaywall/svc/auth"
	"github.com/tgpaywall/tgpaywall/svc/content"
)

func newGate(t *testing.T) (*access.Gate, *auth.SessionService) {
	t.Helper()
	sessions, err := auth.NewSessionService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return access.NewGate(sessions), sessions
}

func issue(t *testing.T, s *auth.SessionService, subscribed bool) string {
	t.Helper()
	token, err := s.Issue(auth.SessionPayload{TelegramUserID: "7", IsSubscribed: subscribed})
	require.NoError(t, err)
	return token
}

func TestGate_Authorize(t *testing.T) {
	t.Parallel()

	gate, sessions := newGate(t)
	subscriber := issue(t, sessions, true)
	guest := issue(t, sessions, false)

	tests := []struct {
		name    string
		level   content.Access
		token   string
		allowed bool
		status  int
		reason  error
	}{
		{name: "public without token", level: content.AccessPublic, allowed: true, status: http.StatusOK},
		{name: "public with garbage token", level: content.AccessPublic, token: "garbage", allowed: true, status: http.StatusOK},
		{name: "premium without token", level: content.AccessPremium, status: http.StatusUnauthorized, reason: access.ErrUnauthorized},
		{name: "premium with invalid token", level: content.AccessPremium, token: subscriber + "x", status: http.StatusUnauthorized, reason: access.ErrUnauthorized},
		{name: "premium unsubscribed", level: content.AccessPremium, token: guest, status: http.StatusForbidden, reason: access.ErrForbidden},
		{name: "premium subscribed", level: content.AccessPremium, token: subscriber, allowed: true, status: http.StatusOK},
		{name: "unknown level treated as premium", level: content.Access("vip"), token: guest, status: http.StatusForbidden, reason: access.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := gate.Authorize(tt.level, tt.token)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.status, d.Status)
			if tt.reason != nil {
				assert.ErrorIs(t, d.Reason, tt.reason)
			} else {
				assert.NoError(t, d.Reason)
			}
		})
	}
}

func TestGate_PublicKeepsClaims(t *testing.T) {
	t.Parallel()

	gate, sessions := newGate(t)
	d := gate.Authorize(content.AccessPublic, issue(t, sessions, true))
	require.NotNil(t, d.Claims)
	assert.Equal(t, "7", d.Claims.TelegramUserID)
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, access.BearerToken(r))

	r.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, access.BearerToken(r))

	r.Header.Set("Authorization", "Bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", access.BearerToken(r))
}

func TestGate_Middleware(t *testing.T) {
	t.Parallel()

	gate, sessions := newGate(t)

	var got *auth.SessionClaims
	var subscribed bool
	h := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = access.ClaimsFromContext(r.Context())
		subscribed = access.Subscribed(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+issue(t, sessions, true))
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.NotNil(t, got)
	assert.True(t, subscribed)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer bogus")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Nil(t, got)
	assert.False(t, subscribed)
}
