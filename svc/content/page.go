// Package content serves the Markdown knowledge base: page lookup, the
// navigation tree, search and the seed and Notion import paths that fill it.
package content

import (
	"errors"
	"time"
)

// Access is the audience of a page.
type Access string

const (
	AccessPublic  Access = "public"
	AccessPremium Access = "premium"
)

// Valid reports whether a is a known access level.
func (a Access) Valid() bool {
	return a == AccessPublic || a == AccessPremium
}

// Status is the publication state of a page.
type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
)

var (
	ErrNotFound       = errors.New("content: page not found")
	ErrEmptySlug      = errors.New("content: slug is required")
	ErrQueryTooShort  = errors.New("content: search query is too short")
	ErrInvalidPage    = errors.New("content: invalid page")
	ErrStoreFailure   = errors.New("content: store failure")
	ErrImportFailed   = errors.New("content: import failed")
	ErrSourceRequired = errors.New("content: import source is required")
)

// Page is one Markdown document of the knowledge base.
type Page struct {
	ID        string    `json:"id"`
	ParentID  *string   `json:"parentId,omitempty"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	ContentMD string    `json:"contentMd"`
	Status    Status    `json:"status"`
	Access    Access    `json:"access"`
	Sort      int       `json:"sort"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Published reports whether the page is visible to readers.
func (p Page) Published() bool {
	return p.Status == StatusPublished
}

// Validate checks the fields required to persist p.
func (p Page) Validate() error {
	switch {
	case p.Slug == "":
		return errors.Join(ErrInvalidPage, ErrEmptySlug)
	case p.Title == "":
		return errors.Join(ErrInvalidPage, errors.New("content: title is required"))
	case p.Status != StatusPublished && p.Status != StatusDraft:
		return errors.Join(ErrInvalidPage, errors.New("content: unknown status "+string(p.Status)))
	case !p.Access.Valid():
		return errors.Join(ErrInvalidPage, errors.New("content: unknown access "+string(p.Access)))
	}
	return nil
}
