package content

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tgpaywall/tgpaywall/pkg/pg"
)

// Store reads and writes pages.
type Store interface {
	FindPageBySlug(ctx context.Context, slug string) (Page, error)
	FindPageByID(ctx context.Context, id string) (Page, error)
	// ListPublishedPages returns published pages ordered by sort, then title.
	ListPublishedPages(ctx context.Context) ([]Page, error)
	// UpsertPage inserts p or updates the page with the same slug.
	UpsertPage(ctx context.Context, p Page) (Page, error)
}

// PGStore is the PostgreSQL Store backed by the pages table.
type PGStore struct {
	db pg.DB
}

// NewPGStore returns a Store backed by the pages table.
func NewPGStore(db pg.DB) *PGStore {
	return &PGStore{db: db}
}

const pageColumns = `id, parent_id, slug, title, excerpt, content_md, status, access, sort, created_at, updated_at`

func scanPage(row pgx.Row) (Page, error) {
	var p Page
	err := row.Scan(
		&p.ID, &p.ParentID, &p.Slug, &p.Title, &p.Excerpt, &p.ContentMD,
		&p.Status, &p.Access, &p.Sort, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// FindPageBySlug returns ErrNotFound for unknown slugs.
func (s *PGStore) FindPageBySlug(ctx context.Context, slug string) (Page, error) {
	if slug == "" {
		return Page{}, ErrEmptySlug
	}
	return s.findOne(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = $1`, slug)
}

// FindPageByID returns ErrNotFound for unknown ids.
func (s *PGStore) FindPageByID(ctx context.Context, id string) (Page, error) {
	return s.findOne(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = $1`, id)
}

func (s *PGStore) findOne(ctx context.Context, query string, arg string) (Page, error) {
	p, err := scanPage(s.db.QueryRow(ctx, query, arg))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Page{}, ErrNotFound
		}
		return Page{}, errors.Join(ErrStoreFailure, err)
	}
	return p, nil
}

// ListPublishedPages returns published pages ordered by sort, then title.
func (s *PGStore) ListPublishedPages(ctx context.Context) ([]Page, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE status = $1 ORDER BY sort ASC, title ASC`,
		StatusPublished,
	)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, errors.Join(ErrStoreFailure, err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return pages, nil
}

const upsertPageQuery = `
INSERT INTO pages (id, parent_id, slug, title, excerpt, content_md, status, access, sort)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (slug) DO UPDATE SET
    parent_id  = EXCLUDED.parent_id,
    title      = EXCLUDED.title,
    excerpt    = EXCLUDED.excerpt,
    content_md = EXCLUDED.content_md,
    status     = EXCLUDED.status,
    access     = EXCLUDED.access,
    sort       = EXCLUDED.sort,
    updated_at = now()
RETURNING ` + pageColumns

// UpsertPage keeps the existing id of a page whose slug is already taken.
// A page without an id gets a random UUID on insert.
func (s *PGStore) UpsertPage(ctx context.Context, p Page) (Page, error) {
	if err := p.Validate(); err != nil {
		return Page{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	saved, err := scanPage(s.db.QueryRow(ctx, upsertPageQuery,
		p.ID, p.ParentID, p.Slug, p.Title, p.Excerpt, p.ContentMD, p.Status, p.Access, p.Sort,
	))
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return Page{}, errors.Join(ErrInvalidPage, errors.New("content: unknown parent page"), err)
		}
		return Page{}, errors.Join(ErrStoreFailure, err)
	}
	return saved, nil
}
