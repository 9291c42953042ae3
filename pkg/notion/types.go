package notion

import (
	"strings"
	"time"
)

// Page is a database row.
type Page struct {
	ID             string              `json:"id"`
	Parent         Parent              `json:"parent"`
	Properties     map[string]Property `json:"properties"`
	LastEditedTime time.Time           `json:"last_edited_time"`
	Archived       bool                `json:"archived"`
}

// Text returns the plain text of the named title or rich_text property.
func (p Page) Text(name string) string {
	return p.Properties[name].PlainText()
}

// SelectName returns the option name of the named select or status property.
func (p Page) SelectName(name string) string {
	prop := p.Properties[name]
	switch {
	case prop.Select != nil:
		return prop.Select.Name
	case prop.Status != nil:
		return prop.Status.Name
	}
	return ""
}

// Number returns the named number property, zero when unset.
func (p Page) Number(name string) float64 {
	if n := p.Properties[name].Number; n != nil {
		return *n
	}
	return 0
}

// Parent identifies where a page or block lives.
type Parent struct {
	Type       string `json:"type"`
	PageID     string `json:"page_id,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
}

// Property is the subset of property values the importer reads.
type Property struct {
	Type     string     `json:"type"`
	Title    []RichText `json:"title,omitempty"`
	RichText []RichText `json:"rich_text,omitempty"`
	Select   *Option    `json:"select,omitempty"`
	Status   *Option    `json:"status,omitempty"`
	Number   *float64   `json:"number,omitempty"`
}

// PlainText joins the plain text of a title or rich_text property.
func (p Property) PlainText() string {
	if len(p.Title) > 0 {
		return plain(p.Title)
	}
	return plain(p.RichText)
}

type Option struct {
	Name string `json:"name"`
}

// RichText is one styled text run.
type RichText struct {
	PlainText   string      `json:"plain_text"`
	Href        string      `json:"href,omitempty"`
	Annotations Annotations `json:"annotations"`
}

type Annotations struct {
	Bold          bool `json:"bold"`
	Italic        bool `json:"italic"`
	Strikethrough bool `json:"strikethrough"`
	Code          bool `json:"code"`
}

func plain(rt []RichText) string {
	var b strings.Builder
	for _, t := range rt {
		b.WriteString(t.PlainText)
	}
	return b.String()
}

// Block is a content block. Only the fields of supported block types are decoded.
type Block struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	HasChildren      bool       `json:"has_children"`
	Paragraph        *TextBlock `json:"paragraph,omitempty"`
	Heading1         *TextBlock `json:"heading_1,omitempty"`
	Heading2         *TextBlock `json:"heading_2,omitempty"`
	Heading3         *TextBlock `json:"heading_3,omitempty"`
	BulletedListItem *TextBlock `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextBlock `json:"numbered_list_item,omitempty"`
	ToDo             *TextBlock `json:"to_do,omitempty"`
	Quote            *TextBlock `json:"quote,omitempty"`
	Code             *TextBlock `json:"code,omitempty"`

	// Children is filled by Client.PageBlocks for blocks with HasChildren.
	Children []Block `json:"-"`
}

// TextBlock is the payload shared by text-bearing blocks. Checked applies to
// to_do blocks and Language to code blocks.
type TextBlock struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked,omitempty"`
	Language string     `json:"language,omitempty"`
}

type listResponse[T any] struct {
	Results    []T    `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}
