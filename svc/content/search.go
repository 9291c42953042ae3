package content

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// MinQueryLength is the shortest accepted query, in characters, after trimming.
const (
	MinQueryLength     = 2
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
	previewLength      = 200
)

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// SearchResult is a scored page match.
type SearchResult struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Access    Access    `json:"access"`
	UpdatedAt time.Time `json:"updatedAt"`
	Score     int       `json:"score"`
	Preview   string    `json:"preview"`
}

// NormalizeQuery trims q and checks its length.
func NormalizeQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return "", ErrQueryTooShort
	}
	return q, nil
}

// ClampLimit maps non-positive limits to DefaultSearchLimit and caps at MaxSearchLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultSearchLimit
	case limit > MaxSearchLimit:
		return MaxSearchLimit
	default:
		return limit
	}
}

// Search scores pages against q:
//
//	+100 title contains the whole query
//	 +50 per query word found in the title
//	 +20 per query word found in the excerpt
//	 +10 content contains the whole query
//
// Matching is case-insensitive. Pages scoring zero are dropped; the rest are
// ordered by score, then title, and cut to limit.
func Search(pages []Page, q string, limit int) []SearchResult {
	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(q))
	words := strings.Fields(query)
	if query == "" {
		return []SearchResult{}
	}

	results := []SearchResult{}
	for _, p := range pages {
		title := fold.String(p.Title)
		excerpt := fold.String(p.Excerpt)
		body := fold.String(p.ContentMD)

		score := 0
		if strings.Contains(title, query) {
			score += 100
		}
		for _, w := range words {
			if strings.Contains(title, w) {
				score += 50
			}
			if strings.Contains(excerpt, w) {
				score += 20
			}
		}
		if strings.Contains(body, query) {
			score += 10
		}
		if score == 0 {
			continue
		}

		results = append(results, SearchResult{
			ID:        p.ID,
			Slug:      p.Slug,
			Title:     p.Title,
			Excerpt:   p.Excerpt,
			Access:    p.Access,
			UpdatedAt: p.UpdatedAt,
			Score:     score,
			Preview:   preview(p.ContentMD, words, fold),
		})
	}

	slices.SortStableFunc(results, func(a, b SearchResult) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), cmp.Compare(a.Title, b.Title))
	})

	if limit = ClampLimit(limit); len(results) > limit {
		results = results[:limit]
	}
	return results
}

// preview returns the first sentence mentioning a query word, or the first
// sentence at all, truncated to previewLength characters.
func preview(content string, words []string, fold cases.Caser) string {
	var first string
	for _, s := range sentenceSplit.Split(content, -1) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if first == "" {
			first = s
		}
		folded := fold.String(s)
		for _, w := range words {
			if strings.Contains(folded, w) {
				return truncate(s)
			}
		}
	}
	return truncate(first)
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= previewLength {
		return s
	}
	return string([]rune(s)[:previewLength]) + "..."
}
