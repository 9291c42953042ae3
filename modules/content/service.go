// Package content mounts the knowledge base endpoints: page lookup, the
// navigation trees and search. Premium pages and the full tree go through
// the access gate.
package content

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tgpaywall/tgpaywall/handler"
	"github.com/tgpaywall/tgpaywall/pkg/binder"
	"github.com/tgpaywall/tgpaywall/svc/access"
	contentsvc "github.com/tgpaywall/tgpaywall/svc/content"
)

// Reader is satisfied by contentsvc.Reader.
type Reader interface {
	Page(ctx context.Context, slug string) (contentsvc.Page, error)
	Tree(ctx context.Context) ([]*contentsvc.TreeNode, error)
	PublicTree(ctx context.Context) ([]*contentsvc.TreeNode, error)
	Search(ctx context.Context, q string, subscribed bool, limit int) ([]contentsvc.SearchResult, error)
}

type Service struct {
	reader       Reader
	gate         *access.Gate
	errorHandler handler.ErrorHandler[handler.Context]
}

// NewService returns the content module guarded by gate.
func NewService(reader Reader, gate *access.Gate, errorHandler handler.ErrorHandler[handler.Context]) *Service {
	return &Service{reader: reader, gate: gate, errorHandler: errorHandler}
}

// Handle returns the gated routes. Mount it under /api/content.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(s.gate.Middleware)

	r.Get("/page", handler.Wrap(s.page,
		handler.WithBinders[handler.Context, pageRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, pageRequest](s.errorHandler),
	))
	r.Get("/tree", handler.Wrap(s.tree,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	r.Get("/search", handler.Wrap(s.search,
		handler.WithBinders[handler.Context, searchRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, searchRequest](s.errorHandler),
	))

	return r
}

// HandlePublic returns the routes that need no session. Mount it under /api/public.
func (s *Service) HandlePublic() http.Handler {
	r := chi.NewRouter()
	r.Get("/content-tree", handler.Wrap(s.publicTree,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	return r
}

type pageRequest struct {
	Slug string `query:"slug"`
}

func (s *Service) page(ctx handler.Context, req pageRequest) handler.Response {
	if req.Slug == "" {
		return handler.Error(handler.ErrSlugRequired)
	}

	page, err := s.reader.Page(ctx, req.Slug)
	if err != nil {
		return handler.Error(mapError(err))
	}

	if d := s.gate.Decide(page.Access, access.ClaimsFromContext(ctx)); !d.Allowed {
		return handler.Error(denied(d))
	}

	return handler.JSON(map[string]any{"page": page})
}

func (s *Service) tree(ctx handler.Context, _ struct{}) handler.Response {
	if d := s.gate.Decide(contentsvc.AccessPremium, access.ClaimsFromContext(ctx)); !d.Allowed {
		return handler.Error(denied(d))
	}

	tree, err := s.reader.Tree(ctx)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(map[string]any{"tree": tree})
}

func (s *Service) publicTree(ctx handler.Context, _ struct{}) handler.Response {
	tree, err := s.reader.PublicTree(ctx)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(map[string]any{"tree": tree})
}

type searchRequest struct {
	Query string `query:"q"`
	Limit int    `query:"limit"`
}

type searchResponse struct {
	Query   string                    `json:"query"`
	Results []contentsvc.SearchResult `json:"results"`
	Total   int                       `json:"total"`
}

func (s *Service) search(ctx handler.Context, req searchRequest) handler.Response {
	q, err := contentsvc.NormalizeQuery(req.Query)
	if err != nil {
		return handler.Error(mapError(err))
	}

	results, err := s.reader.Search(ctx, q, access.Subscribed(ctx), req.Limit)
	if err != nil {
		return handler.Error(mapError(err))
	}
	if results == nil {
		results = []contentsvc.SearchResult{}
	}

	return handler.JSON(searchResponse{Query: q, Results: results, Total: len(results)})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, contentsvc.ErrNotFound):
		return handler.ErrPageNotFound
	case errors.Is(err, contentsvc.ErrEmptySlug):
		return handler.ErrSlugRequired
	case errors.Is(err, contentsvc.ErrQueryTooShort):
		return handler.ErrQueryTooShort
	default:
		return err
	}
}

func denied(d access.Decision) error {
	if d.Status == http.StatusForbidden {
		return handler.ErrSubscriptionRequired
	}
	return handler.ErrUnauthorized
}
