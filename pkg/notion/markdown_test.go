package notion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tgpaywall/tgpaywall/pkg/notion"
)

func text(s string) *notion.TextBlock {
	return &notion.TextBlock{RichText: []notion.RichText{{PlainText: s}}}
}

func TestToMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		blocks []notion.Block
		want   string
	}{
		{
			name: "headings and paragraph",
			blocks: []notion.Block{
				{Type: "heading_2", Heading2: text("Раздел")},
				{Type: "paragraph", Paragraph: text("Текст")},
				{Type: "heading_3", Heading3: text("Подраздел")},
			},
			want: "## Раздел\n\nТекст\n\n### Подраздел\n",
		},
		{
			name: "numbered list restarts after other block",
			blocks: []notion.Block{
				{Type: "numbered_list_item", NumberedListItem: text("a")},
				{Type: "numbered_list_item", NumberedListItem: text("b")},
				{Type: "divider"},
				{Type: "numbered_list_item", NumberedListItem: text("c")},
			},
			want: "1. a\n2. b\n\n---\n\n1. c\n",
		},
		{
			name: "todo and quote",
			blocks: []notion.Block{
				{Type: "to_do", ToDo: &notion.TextBlock{RichText: []notion.RichText{{PlainText: "done"}}, Checked: true}},
				{Type: "to_do", ToDo: text("open")},
				{Type: "quote", Quote: text("цитата")},
			},
			want: "- [x] done\n- [ ] open\n\n> цитата\n",
		},
		{
			name: "code block",
			blocks: []notion.Block{
				{Type: "code", Code: &notion.TextBlock{RichText: []notion.RichText{{PlainText: "fmt.Println()"}}, Language: "go"}},
			},
			want: "```go\nfmt.Println()\n```\n",
		},
		{
			name: "unsupported blocks are skipped",
			blocks: []notion.Block{
				{Type: "image"},
				{Type: "paragraph", Paragraph: text("ok")},
			},
			want: "ok\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, notion.ToMarkdown(tt.blocks))
		})
	}
}

func TestRichTextToMarkdown(t *testing.T) {
	t.Parallel()

	got := notion.RichTextToMarkdown([]notion.RichText{
		{PlainText: "bold", Annotations: notion.Annotations{Bold: true}},
		{PlainText: " and "},
		{PlainText: "code", Annotations: notion.Annotations{Code: true}},
		{PlainText: " "},
		{PlainText: "link", Href: "https://example.com", Annotations: notion.Annotations{Italic: true}},
		{PlainText: " "},
		{PlainText: "old", Annotations: notion.Annotations{Strikethrough: true}},
	})
	assert.Equal(t, "**bold** and `code` [_link_](https://example.com) ~~old~~", got)
}
