package wiki

import (
	"context"
	"time"
)

// Source is the knowledge source consumed by the candidate provider and the
// game session. Production code uses *Client; tests substitute fakes.
//
// Search results are shallow: only the Title field is guaranteed to be set.
// Callers needing excerpt, links or categories must Resolve the title.
type Source interface {
	// Resolve returns the full article for an exact title, following
	// redirects. Fails with ErrNotFound, ErrInvalidTitle or
	// ErrAmbiguousQuery (disambiguation pages).
	Resolve(ctx context.Context, title string) (*Article, error)

	// Search returns up to limit articles matching the query, best first.
	Search(ctx context.Context, query string, limit int) ([]*Article, error)

	// ByCategory returns shallow articles tagged with every named category.
	ByCategory(ctx context.Context, categories []string) ([]*Article, error)

	// RandomPopular returns an article drawn from the most-read pages of the
	// given date.
	RandomPopular(ctx context.Context, date time.Time) (*Article, error)

	// CategoryExists reports whether a category page exists.
	CategoryExists(ctx context.Context, name string) (bool, error)
}
