package auth_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgpaywall/tgpaywall/svc/auth"
)

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")
	issuedAt   = time.Unix(1_750_000_000, 0)
)

func newSessions(t *testing.T, now func() time.Time) *auth.SessionService {
	t.Helper()
	s, err := auth.NewSessionService(testSecret, auth.WithSessionClock(now))
	require.NoError(t, err)
	return s
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewSessionService(t *testing.T) {
	t.Parallel()

	_, err := auth.NewSessionService([]byte("short"))
	assert.ErrorIs(t, err, auth.ErrWeakSecret)

	_, err = auth.NewSessionService(nil)
	assert.ErrorIs(t, err, auth.ErrWeakSecret)

	s, err := auth.NewSessionService(testSecret)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, s.TTL())
}

func TestSessionService_IssueVerify(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		s := newSessions(t, fixedClock(issuedAt))
		token, err := s.Issue(auth.SessionPayload{TelegramUserID: "42", IsSubscribed: true})
		require.NoError(t, err)

		claims, ok := s.Verify(token)
		require.True(t, ok)
		assert.Equal(t, "42", claims.TelegramUserID)
		assert.True(t, claims.IsSubscribed)
		assert.Equal(t, int64(600), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())
	})

	t.Run("wire claims", func(t *testing.T) {
		t.Parallel()

		s := newSessions(t, fixedClock(issuedAt))
		token, err := s.Issue(auth.SessionPayload{TelegramUserID: "42", IsSubscribed: false})
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)

		header, err := base64.RawURLEncoding.DecodeString(parts[0])
		require.NoError(t, err)
		assert.JSONEq(t, `{"alg":"HS256","typ":"JWT"}`, string(header))

		body, err := base64.RawURLEncoding.DecodeString(parts[1])
		require.NoError(t, err)
		var claims map[string]any
		require.NoError(t, json.Unmarshal(body, &claims))
		assert.Equal(t, "42", claims["telegramUserId"])
		assert.Equal(t, false, claims["isSubscribed"])
		assert.InDelta(t, float64(issuedAt.Unix()), claims["iat"], 0)
		assert.InDelta(t, float64(issuedAt.Unix()+600), claims["exp"], 0)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		token, err := newSessions(t, fixedClock(issuedAt)).Issue(auth.SessionPayload{TelegramUserID: "42", IsSubscribed: true})
		require.NoError(t, err)

		later := newSessions(t, fixedClock(issuedAt.Add(11*time.Minute)))
		claims, ok := later.Verify(token)
		assert.False(t, ok)
		assert.Nil(t, claims)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		t.Parallel()

		other, err := auth.NewSessionService([]byte("ffffffffffffffffffffffffffffffff"), auth.WithSessionClock(fixedClock(issuedAt)))
		require.NoError(t, err)
		token, err := other.Issue(auth.SessionPayload{TelegramUserID: "42", IsSubscribed: true})
		require.NoError(t, err)

		_, ok := newSessions(t, fixedClock(issuedAt)).Verify(token)
		assert.False(t, ok)
	})

	t.Run("tampered payload", func(t *testing.T) {
		t.Parallel()

		s := newSessions(t, fixedClock(issuedAt))
		token, err := s.Issue(auth.SessionPayload{TelegramUserID: "42", IsSubscribed: false})
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		forged := base64.RawURLEncoding.EncodeToString(
			[]byte(`{"telegramUserId":"42","isSubscribed":true,"iat":1750000000,"exp":1750000600}`))
		_, ok := s.Verify(parts[0] + "." + forged + "." + parts[2])
		assert.False(t, ok)
	})

	t.Run("foreign algorithm", func(t *testing.T) {
		t.Parallel()

		claims := auth.SessionClaims{TelegramUserID: "42", IsSubscribed: true}
		claims.IssuedAt = gojwt.NewNumericDate(issuedAt)
		claims.ExpiresAt = gojwt.NewNumericDate(issuedAt.Add(time.Minute))
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString(testSecret)
		require.NoError(t, err)

		_, ok := newSessions(t, fixedClock(issuedAt)).Verify(token)
		assert.False(t, ok)
	})

	t.Run("malformed tokens", func(t *testing.T) {
		t.Parallel()

		s := newSessions(t, fixedClock(issuedAt))
		for _, token := range []string{"", "abc", "a.b.c", "....", "eyJhbGciOiJIUzI1NiJ9..sig"} {
			claims, ok := s.Verify(token)
			assert.False(t, ok, token)
			assert.Nil(t, claims, token)
		}
	})

	t.Run("empty user id is not issued", func(t *testing.T) {
		t.Parallel()

		_, err := newSessions(t, fixedClock(issuedAt)).Issue(auth.SessionPayload{})
		assert.ErrorIs(t, err, auth.ErrEmptyUserID)
	})
}
