package wiki

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// guessSearchLimit is how many search hits are considered when a guess does
// not resolve directly.
const guessSearchLimit = 10

// FindPage resolves free-form player input to an article. It tries an exact
// resolve first and falls back to a search, taking the best match. Returns
// ErrNotFound when nothing plausible matches.
func FindPage(ctx context.Context, source Source, query string) (*Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidTitle
	}

	article, err := source.Resolve(ctx, query)
	if err == nil {
		return article, nil
	}
	if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrAmbiguousQuery) {
		return nil, err
	}

	results, err := source.Search(ctx, query, guessSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("find page %q: %w", query, err)
	}

	best := BestMatch(results, query)
	if best == nil {
		return nil, fmt.Errorf("find page %q: %w", query, ErrNotFound)
	}
	return best, nil
}

// BestMatch picks the best search result for a query: an exact
// case-insensitive title match first, then a substring match. Returns nil
// when no result qualifies.
func BestMatch(results []*Article, query string) *Article {
	normalized := strings.ToLower(strings.TrimSpace(query))

	for _, result := range results {
		if normalized == strings.ToLower(strings.TrimSpace(result.Title)) {
			return result
		}
	}
	for _, result := range results {
		if strings.Contains(strings.ToLower(strings.TrimSpace(result.Title)), normalized) {
			return result
		}
	}
	return nil
}
