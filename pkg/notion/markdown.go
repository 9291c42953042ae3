package notion

import (
	"strconv"
	"strings"
)

// ToMarkdown renders blocks as Markdown. Supported types: paragraph,
// heading_1..3, bulleted and numbered list items, to_do, quote, code and
// divider. Other block types are skipped. Nested children of list items
// are indented; other children follow their parent.
func ToMarkdown(blocks []Block) string {
	var b strings.Builder
	render(&b, blocks, 0)
	return strings.TrimSpace(b.String()) + "\n"
}

func render(b *strings.Builder, blocks []Block, depth int) {
	indent := strings.Repeat("  ", depth)
	number := 0
	inList := false

	for _, blk := range blocks {
		if blk.Type != "numbered_list_item" {
			number = 0
		}
		if isListItem(blk.Type) {
			inList = true
		} else if inList {
			b.WriteString("\n")
			inList = false
		}

		switch blk.Type {
		case "paragraph":
			writeBlock(b, indent, "", blk.Paragraph)
		case "heading_1":
			writeBlock(b, indent, "# ", blk.Heading1)
		case "heading_2":
			writeBlock(b, indent, "## ", blk.Heading2)
		case "heading_3":
			writeBlock(b, indent, "### ", blk.Heading3)
		case "quote":
			writeBlock(b, indent, "> ", blk.Quote)
		case "bulleted_list_item":
			writeItem(b, indent, "- ", blk.BulletedListItem)
			render(b, blk.Children, depth+1)
			continue
		case "numbered_list_item":
			number++
			writeItem(b, indent, strconv.Itoa(number)+". ", blk.NumberedListItem)
			render(b, blk.Children, depth+1)
			continue
		case "to_do":
			mark := "- [ ] "
			if blk.ToDo != nil && blk.ToDo.Checked {
				mark = "- [x] "
			}
			writeItem(b, indent, mark, blk.ToDo)
			render(b, blk.Children, depth+1)
			continue
		case "code":
			if blk.Code != nil {
				b.WriteString(indent + "```" + blk.Code.Language + "\n")
				b.WriteString(plain(blk.Code.RichText) + "\n")
				b.WriteString(indent + "```\n\n")
			}
		case "divider":
			b.WriteString(indent + "---\n\n")
		default:
			continue
		}
		render(b, blk.Children, depth)
	}
}

func isListItem(typ string) bool {
	switch typ {
	case "bulleted_list_item", "numbered_list_item", "to_do":
		return true
	}
	return false
}

func writeBlock(b *strings.Builder, indent, prefix string, tb *TextBlock) {
	if tb == nil {
		return
	}
	b.WriteString(indent + prefix + RichTextToMarkdown(tb.RichText) + "\n\n")
}

func writeItem(b *strings.Builder, indent, marker string, tb *TextBlock) {
	if tb == nil {
		return
	}
	b.WriteString(indent + marker + RichTextToMarkdown(tb.RichText) + "\n")
}

// RichTextToMarkdown renders styled runs with inline Markdown markers.
func RichTextToMarkdown(rt []RichText) string {
	var b strings.Builder
	for _, t := range rt {
		text := t.PlainText
		if text == "" {
			continue
		}
		a := t.Annotations
		if a.Code {
			text = "`" + text + "`"
		}
		if a.Bold {
			text = "**" + text + "**"
		}
		if a.Italic {
			text = "_" + text + "_"
		}
		if a.Strikethrough {
			text = "~~" + text + "~~"
		}
		if t.Href != "" {
			text = "[" + text + "](" + t.Href + ")"
		}
		b.WriteString(text)
	}
	return b.String()
}
