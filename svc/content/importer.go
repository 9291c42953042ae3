package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/tgpaywall/tgpaywall/pkg/logger"
	"github.com/tgpaywall/tgpaywall/pkg/notion"
	"github.com/tgpaywall/tgpaywall/pkg/slug"
)

// Notion database property names read by Importer.
const (
	PropertyName    = "Name"
	PropertySlug    = "Slug"
	PropertyExcerpt = "Excerpt"
	PropertyStatus  = "Status"
	PropertyAccess  = "Access"
	PropertySort    = "Sort"
)

// NotionSource is the part of notion.Client used by Importer.
type NotionSource interface {
	QueryDatabase(ctx context.Context, databaseID string) ([]notion.Page, error)
	PageMarkdown(ctx context.Context, pageID string) (string, error)
}

// Invalidator drops cached content after an import.
type Invalidator interface {
	InvalidateAll(ctx context.Context) error
}

// ImportReport summarizes one Import run.
type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Slugs    []string `json:"slugs"`
}

// Importer copies the rows of a Notion database into the page store.
type Importer struct {
	source      NotionSource
	store       Store
	databaseID  string
	invalidator Invalidator
	logger      *slog.Logger
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithInvalidator drops cached content after a successful import.
func WithInvalidator(inv Invalidator) ImporterOption {
	return func(i *Importer) {
		i.invalidator = inv
	}
}

// WithImportLogger sets the logger for per-page progress.
func WithImportLogger(l *slog.Logger) ImporterOption {
	return func(i *Importer) {
		if l != nil {
			i.logger = l
		}
	}
}

// NewImporter imports the pages of the Notion database databaseID into store.
func NewImporter(source NotionSource, store Store, databaseID string, opts ...ImporterOption) *Importer {
	i := &Importer{
		source:     source,
		store:      store,
		databaseID: databaseID,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import upserts every titled page of the database by slug. Parents are
// imported before their children so a page_id parent always resolves to a
// stored page. Rows without a title are skipped.
func (i *Importer) Import(ctx context.Context) (ImportReport, error) {
	if i.source == nil || i.store == nil {
		return ImportReport{}, ErrSourceRequired
	}

	rows, err := i.source.QueryDatabase(ctx, i.databaseID)
	if err != nil {
		return ImportReport{}, errors.Join(ErrImportFailed, err)
	}

	var report ImportReport
	// Notion page id to stored page id.
	stored := make(map[string]string, len(rows))

	for _, row := range parentsFirst(rows) {
		title := strings.TrimSpace(row.Text(PropertyName))
		if title == "" {
			report.Skipped++
			i.logger.WarnContext(ctx, "notion page without title skipped",
				logger.Component("importer"), slog.String("notion_id", row.ID))
			continue
		}

		body, err := i.source.PageMarkdown(ctx, row.ID)
		if err != nil {
			return report, errors.Join(ErrImportFailed, fmt.Errorf("content: fetch %s: %w", row.ID, err))
		}

		page := pageFromNotion(row, title, body)
		page.ParentID = i.resolveParent(ctx, row.Parent, stored)

		saved, err := i.store.UpsertPage(ctx, page)
		if err != nil {
			return report, errors.Join(ErrImportFailed, fmt.Errorf("content: upsert %s: %w", page.Slug, err))
		}
		stored[row.ID] = saved.ID
		report.Imported++
		report.Slugs = append(report.Slugs, saved.Slug)
	}

	if i.invalidator != nil {
		if err := i.invalidator.InvalidateAll(ctx); err != nil {
			i.logger.WarnContext(ctx, "content cache invalidation failed",
				logger.Component("importer"), logger.Error(err))
		}
	}

	i.logger.InfoContext(ctx, "notion import finished",
		logger.Component("importer"),
		slog.Int("imported", report.Imported),
		slog.Int("skipped", report.Skipped),
	)
	return report, nil
}

func (i *Importer) resolveParent(ctx context.Context, parent notion.Parent, stored map[string]string) *string {
	if parent.Type != "page_id" || parent.PageID == "" {
		return nil
	}
	if id, ok := stored[parent.PageID]; ok {
		return &id
	}
	p, err := i.store.FindPageByID(ctx, parent.PageID)
	if err != nil {
		return nil
	}
	return &p.ID
}

func pageFromNotion(row notion.Page, title, body string) Page {
	s := strings.TrimSpace(row.Text(PropertySlug))
	if s == "" {
		s = slug.Make(title)
	}

	p := Page{
		ID:        row.ID,
		Slug:      s,
		Title:     title,
		Excerpt:   strings.TrimSpace(row.Text(PropertyExcerpt)),
		ContentMD: body,
		Status:    StatusDraft,
		Access:    AccessPublic,
		Sort:      int(math.Round(row.Number(PropertySort))),
	}
	if strings.EqualFold(row.SelectName(PropertyStatus), "published") {
		p.Status = StatusPublished
	}
	if strings.EqualFold(row.SelectName(PropertyAccess), "premium") {
		p.Access = AccessPremium
	}
	return p
}

// parentsFirst orders rows so that a row whose parent is in the batch comes
// after that parent. Cycles and unknown parents keep query order.
func parentsFirst(rows []notion.Page) []notion.Page {
	byID := make(map[string]int, len(rows))
	for idx, r := range rows {
		byID[r.ID] = idx
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(rows))
	ordered := make([]notion.Page, 0, len(rows))

	var visit func(idx int)
	visit = func(idx int) {
		if state[idx] != unvisited {
			return
		}
		state[idx] = visiting
		if pid := rows[idx].Parent.PageID; pid != "" {
			if p, ok := byID[pid]; ok {
				visit(p)
			}
		}
		state[idx] = done
		ordered = append(ordered, rows[idx])
	}
	for idx := range rows {
		visit(idx)
	}
	return ordered
}
