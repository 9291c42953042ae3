package content_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgpaywall/tgpaywall/svc/content"
)

func TestSeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemStore()

	pages, err := content.Seed(ctx, store)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	want := []struct {
		slug   string
		access content.Access
		sort   int
	}{
		{"welcome", content.AccessPublic, 0},
		{"getting-started", content.AccessPublic, 1},
		{"premium-content", content.AccessPremium, 2},
	}
	for i, w := range want {
		assert.Equal(t, w.slug, pages[i].Slug)
		assert.Equal(t, w.access, pages[i].Access)
		assert.Equal(t, w.sort, pages[i].Sort)
		assert.True(t, pages[i].Published())
		assert.NotEmpty(t, pages[i].ContentMD)
		assert.NotEmpty(t, pages[i].ID)
	}

	again, err := content.Seed(ctx, store)
	require.NoError(t, err)
	for i := range again {
		assert.Equal(t, pages[i].ID, again[i].ID)
	}
	assert.Len(t, store.pages, 3)
}

func TestSeed_StoreError(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.failOn = "getting-started"

	_, err := content.Seed(context.Background(), store)
	assert.ErrorIs(t, err, content.ErrStoreFailure)
}
