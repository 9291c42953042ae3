package jwt_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgpaywall/tgpaywall/pkg/jwt"
)

func TestBearerTokenExtractor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
		err    error
	}{
		{"missing", "", "", jwt.ErrMissingToken},
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"lowercase scheme", "bearer abc", "abc", nil},
		{"basic scheme", "Basic abc", "", jwt.ErrInvalidToken},
		{"no token", "Bearer   ", "", jwt.ErrInvalidToken},
		{"padded token", "Bearer   abc ", "abc", nil},
		{"scheme only", "Bearer", "", jwt.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, err := jwt.BearerTokenExtractor(r)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChainExtractors(t *testing.T) {
	t.Parallel()
	extract := jwt.ChainExtractors(jwt.BearerTokenExtractor, jwt.HeaderTokenExtractor("X-Session-Token"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Session-Token", "tok")
	got, err := extract(r)
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	_, err = extract(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, jwt.ErrMissingToken)
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()
	type claims struct{ ID string }

	ctx := jwt.SetClaims(jwt.SetToken(context.Background(), "raw"), claims{ID: "42"})

	token, ok := jwt.GetToken(ctx)
	assert.True(t, ok)
	assert.Equal(t, "raw", token)

	got, ok := jwt.GetClaims[claims](ctx)
	assert.True(t, ok)
	assert.Equal(t, "42", got.ID)

	_, ok = jwt.GetClaims[*claims](ctx)
	assert.False(t, ok)
}
