package content_test

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"

	"github.com/tgpaywall/tgpaywall/svc/content"
)

// memStore is an in-memory content.Store keyed by slug.
type memStore struct {
	mu     sync.Mutex
	pages  map[string]content.Page
	lists  int
	seq    int
	failOn string
}

func newMemStore(pages ...content.Page) *memStore {
	s := &memStore{pages: map[string]content.Page{}}
	for _, p := range pages {
		s.pages[p.Slug] = p
	}
	return s
}

func (s *memStore) FindPageBySlug(_ context.Context, slug string) (content.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[slug]
	if !ok {
		return content.Page{}, content.ErrNotFound
	}
	return p, nil
}

func (s *memStore) FindPageByID(_ context.Context, id string) (content.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pages {
		if p.ID == id {
			return p, nil
		}
	}
	return content.Page{}, content.ErrNotFound
}

func (s *memStore) ListPublishedPages(_ context.Context) ([]content.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.failOn == "list" {
		return nil, content.ErrStoreFailure
	}
	var out []content.Page
	for _, p := range s.pages {
		if p.Published() {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b content.Page) int {
		return cmp.Or(cmp.Compare(a.Sort, b.Sort), cmp.Compare(a.Title, b.Title))
	})
	return out, nil
}

func (s *memStore) UpsertPage(_ context.Context, p content.Page) (content.Page, error) {
	if err := p.Validate(); err != nil {
		return content.Page{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn == p.Slug {
		return content.Page{}, errors.Join(content.ErrStoreFailure, errors.New("boom"))
	}
	if existing, ok := s.pages[p.Slug]; ok {
		p.ID = existing.ID
	} else if p.ID == "" {
		s.seq++
		p.ID = "page-" + strconv.Itoa(s.seq)
	}
	s.pages[p.Slug] = p
	return p, nil
}

func (s *memStore) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

func ptr(s string) *string { return &s }
