package content_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgpaywall/tgpaywall/svc/content"
)

func TestNormalizeQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "  go  ", want: "go"},
		{in: "ёж", want: "ёж"},
		{in: " a ", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := content.NormalizeQuery(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, content.ErrQueryTooShort, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestClampLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, content.DefaultSearchLimit, content.ClampLimit(0))
	assert.Equal(t, content.DefaultSearchLimit, content.ClampLimit(-3))
	assert.Equal(t, 7, content.ClampLimit(7))
	assert.Equal(t, content.MaxSearchLimit, content.ClampLimit(1000))
}

func TestSearch_Scoring(t *testing.T) {
	t.Parallel()

	pages := []content.Page{
		{ID: "1", Slug: "setup", Title: "Настройка бота", Excerpt: "Как подключить бота", ContentMD: "Откройте BotFather. Настройка бота занимает минуту."},
		{ID: "2", Slug: "faq", Title: "Вопросы", Excerpt: "Частые вопросы про бота", ContentMD: "Ответы."},
		{ID: "3", Slug: "other", Title: "Другое", Excerpt: "Ничего", ContentMD: "Пусто."},
	}

	results := content.Search(pages, "НАСТРОЙКА бота", 10)
	require.Len(t, results, 2)

	// title phrase 100, two title words 100, one excerpt word 20, body phrase 10
	assert.Equal(t, "setup", results[0].Slug)
	assert.Equal(t, 230, results[0].Score)
	assert.Equal(t, "Настройка бота занимает минуту", results[0].Preview)

	assert.Equal(t, "faq", results[1].Slug)
	assert.Equal(t, 20, results[1].Score)
	assert.Equal(t, "Ответы", results[1].Preview)
}

func TestSearch_TiesOrderedByTitle(t *testing.T) {
	t.Parallel()

	pages := []content.Page{
		{Slug: "b", Title: "Beta go"},
		{Slug: "a", Title: "Alpha go"},
	}
	results := content.Search(pages, "go", 10)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Slug)
	assert.Equal(t, "b", results[1].Slug)
}

func TestSearch_Limit(t *testing.T) {
	t.Parallel()

	pages := make([]content.Page, 5)
	for i := range pages {
		pages[i] = content.Page{Slug: string(rune('a' + i)), Title: "match " + string(rune('a'+i))}
	}
	assert.Len(t, content.Search(pages, "match", 3), 3)
	assert.Empty(t, content.Search(pages, "absent", 3))
}

func TestSearch_PreviewTruncated(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("я", 250)
	results := content.Search([]content.Page{{Slug: "long", Title: "Long", ContentMD: long}}, "long", 1)
	require.Len(t, results, 1)
	assert.Equal(t, strings.Repeat("я", 200)+"...", results[0].Preview)
}
