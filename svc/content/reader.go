package content

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/tgpaywall/tgpaywall/pkg/cache"
	"github.com/tgpaywall/tgpaywall/pkg/logger"
)

// Cache keys and TTLs used by Reader.
const (
	TreeCacheKey         = "content:tree"
	PublicTreeCacheKey   = "public:content:tree"
	PageCacheKeyPrefix   = "content:page:"
	SearchCacheKeyPrefix = "search:"

	DefaultTreeTTL   = 60 * time.Second
	DefaultPageTTL   = 60 * time.Second
	DefaultSearchTTL = 300 * time.Second
)

// Reader serves pages, trees and search results through a cache in front
// of the Store. Cache failures are logged and bypassed.
type Reader struct {
	store     Store
	cache     cache.Cache
	logger    *slog.Logger
	treeTTL   time.Duration
	pageTTL   time.Duration
	searchTTL time.Duration
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithCache sets the cache for pages, trees and search results.
func WithCache(c cache.Cache) ReaderOption {
	return func(r *Reader) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithLogger sets the logger used for cache failures.
func WithLogger(l *slog.Logger) ReaderOption {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTTLs overrides the tree, page and search TTLs. Zero keeps the default.
func WithTTLs(tree, page, search time.Duration) ReaderOption {
	return func(r *Reader) {
		if tree > 0 {
			r.treeTTL = tree
		}
		if page > 0 {
			r.pageTTL = page
		}
		if search > 0 {
			r.searchTTL = search
		}
	}
}

// NewReader returns a Reader over store. Without WithCache every call hits the store.
func NewReader(store Store, opts ...ReaderOption) *Reader {
	r := &Reader{
		store:     store,
		cache:     cache.Noop{},
		logger:    logger.Discard(),
		treeTTL:   DefaultTreeTTL,
		pageTTL:   DefaultPageTTL,
		searchTTL: DefaultSearchTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Page returns the published page with slug. Drafts are reported as ErrNotFound.
func (r *Reader) Page(ctx context.Context, slug string) (Page, error) {
	if slug == "" {
		return Page{}, ErrEmptySlug
	}

	key := PageCacheKeyPrefix + slug
	return cached(ctx, r, key, r.pageTTL, func() (Page, error) {
		p, err := r.store.FindPageBySlug(ctx, slug)
		if err != nil {
			return Page{}, err
		}
		if !p.Published() {
			return Page{}, ErrNotFound
		}
		return p, nil
	})
}

// Tree returns the navigation tree over every published page.
func (r *Reader) Tree(ctx context.Context) ([]*TreeNode, error) {
	return cached(ctx, r, TreeCacheKey, r.treeTTL, func() ([]*TreeNode, error) {
		pages, err := r.store.ListPublishedPages(ctx)
		if err != nil {
			return nil, err
		}
		return BuildTree(pages), nil
	})
}

// PublicTree returns the navigation tree over published public pages.
func (r *Reader) PublicTree(ctx context.Context) ([]*TreeNode, error) {
	return cached(ctx, r, PublicTreeCacheKey, r.treeTTL, func() ([]*TreeNode, error) {
		pages, err := r.publishedPages(ctx, false)
		if err != nil {
			return nil, err
		}
		return BuildTree(pages), nil
	})
}

// Search runs Search over published pages. Premium pages are included only
// for subscribers.
func (r *Reader) Search(ctx context.Context, q string, subscribed bool, limit int) ([]SearchResult, error) {
	q, err := NormalizeQuery(q)
	if err != nil {
		return nil, err
	}
	limit = ClampLimit(limit)

	key := SearchCacheKeyPrefix + q + ":" + strconv.FormatBool(subscribed) + ":" + strconv.Itoa(limit)
	return cached(ctx, r, key, r.searchTTL, func() ([]SearchResult, error) {
		pages, err := r.publishedPages(ctx, subscribed)
		if err != nil {
			return nil, err
		}
		return Search(pages, q, limit), nil
	})
}

// InvalidateAll drops every cached page, tree and search result.
func (r *Reader) InvalidateAll(ctx context.Context) error {
	var errs []error
	for _, prefix := range []string{"content:", "public:content:", SearchCacheKeyPrefix} {
		if err := r.cache.DeletePrefix(ctx, prefix); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Reader) publishedPages(ctx context.Context, includePremium bool) ([]Page, error) {
	pages, err := r.store.ListPublishedPages(ctx)
	if err != nil || includePremium {
		return pages, err
	}

	public := pages[:0:0]
	for _, p := range pages {
		if p.Access == AccessPublic {
			public = append(public, p)
		}
	}
	return public, nil
}

// cached serves key from the cache or computes, stores and returns it.
func cached[T any](ctx context.Context, r *Reader, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	v, err := cache.GetJSON[T](ctx, r.cache, key)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		r.logger.WarnContext(ctx, "content cache read failed",
			logger.Component("content"), logger.CacheKey(key), logger.Error(err))
	}

	v, err = load()
	if err != nil {
		return v, err
	}

	if err := cache.SetJSON(ctx, r.cache, key, v, ttl); err != nil {
		r.logger.WarnContext(ctx, "content cache write failed",
			logger.Component("content"), logger.CacheKey(key), logger.Error(err))
	}
	return v, nil
}
