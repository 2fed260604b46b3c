package wiki

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math/rand"
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultRandomAttempts bounds the retry loop in unconstrained random mode.
const DefaultRandomAttempts = 8

// ProviderConfig holds the optional selection constraints. Constraints are
// fixed at construction and validated eagerly so typos surface immediately.
type ProviderConfig struct {
	// Titles restricts the candidate pool to exactly these articles.
	Titles []string
	// Categories requires every returned article to carry all of these.
	Categories []string
	// RandomAttempts overrides the random-mode retry ceiling.
	RandomAttempts int
}

// Provider hands out articles matching its constraints, never repeating one
// until ClearCache is called. A provider instance owns its served set; it is
// not meant to be shared across independent game launches.
type Provider struct {
	source     Source
	categories []string
	attempts   int

	// titlePool holds the resolved articles for a title-constrained provider.
	titlePool []*Article

	mu     sync.Mutex
	served map[string]struct{}
}

// NewProvider validates the constraints against the knowledge source and
// returns a ready provider. A nonexistent category or an unresolvable title
// fails with ErrInvalidConstraint.
func NewProvider(ctx context.Context, source Source, cfg *ProviderConfig) (*Provider, error) {
	if cfg == nil {
		cfg = &ProviderConfig{}
	}

	attempts := cfg.RandomAttempts
	if attempts <= 0 {
		attempts = DefaultRandomAttempts
	}

	p := &Provider{
		source:     source,
		categories: append([]string(nil), cfg.Categories...),
		attempts:   attempts,
		served:     make(map[string]struct{}),
	}

	for _, category := range cfg.Categories {
		ok, err := source.CategoryExists(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("validate category %q: %w", category, err)
		}
		if !ok {
			return nil, fmt.Errorf("category %q does not exist: %w", category, ErrInvalidConstraint)
		}
	}

	for _, title := range cfg.Titles {
		article, err := source.Resolve(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("title %q: %w", title, ErrInvalidConstraint)
		}
		p.titlePool = append(p.titlePool, article)
	}

	return p, nil
}

// FetchArticle returns the next unserved article satisfying the constraints.
// Selection priority: explicit titles, then category intersection, then the
// bounded-retry most-read random pool. Fails with ErrExhausted when no
// candidate remains; callers must ClearCache before retrying.
func (p *Provider) FetchArticle(ctx context.Context) (*Article, error) {
	switch {
	case len(p.titlePool) > 0:
		return p.fromTitles()
	case len(p.categories) > 0:
		return p.fromCategories(ctx)
	default:
		return p.fromRandom(ctx)
	}
}

// ClearCache empties the served set, allowing repeats. Used by long-running
// providers such as quiz series once their pool is exhausted.
func (p *Provider) ClearCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.served = make(map[string]struct{})
}

// Articles exposes the provider as a lazy article sequence. The sequence
// ends only when FetchArticle fails: finite when the constraints are finite
// and fully exhausted, effectively infinite in unconstrained random mode.
func (p *Provider) Articles(ctx context.Context) iter.Seq2[*Article, error] {
	return func(yield func(*Article, error) bool) {
		for {
			article, err := p.FetchArticle(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(article, nil) {
				return
			}
		}
	}
}

func (p *Provider) fromTitles() (*Article, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var candidates []*Article
	for _, article := range p.titlePool {
		if _, done := p.served[article.Title]; done {
			continue
		}
		if !article.HasCategories(p.categories) {
			continue
		}
		candidates = append(candidates, article)
	}
	if len(candidates) == 0 {
		return nil, ErrExhausted
	}

	article := candidates[rand.Intn(len(candidates))]
	p.served[article.Title] = struct{}{}
	return article, nil
}

func (p *Provider) fromCategories(ctx context.Context) (*Article, error) {
	shallow, err := p.source.ByCategory(ctx, p.categories)
	if err != nil {
		return nil, fmt.Errorf("fetch by category: %w", err)
	}

	p.mu.Lock()
	candidates := make([]*Article, 0, len(shallow))
	for _, article := range shallow {
		if _, done := p.served[article.Title]; !done {
			candidates = append(candidates, article)
		}
	}
	p.mu.Unlock()

	// Resolution can reject a candidate (deleted page, disambiguation); keep
	// drawing from the remainder rather than failing the whole fetch.
	for len(candidates) > 0 {
		i := rand.Intn(len(candidates))
		picked := candidates[i]
		candidates = append(candidates[:i], candidates[i+1:]...)

		article, err := p.source.Resolve(ctx, picked.Title)
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAmbiguousQuery) || errors.Is(err, ErrInvalidTitle) {
				log.Debug().Err(err).Str("title", picked.Title).Msg("Skipping unresolvable category member")
				continue
			}
			return nil, fmt.Errorf("resolve candidate %q: %w", picked.Title, err)
		}

		p.mu.Lock()
		p.served[article.Title] = struct{}{}
		p.mu.Unlock()
		return article, nil
	}

	return nil, ErrExhausted
}

func (p *Provider) fromRandom(ctx context.Context) (*Article, error) {
	for attempt := 0; attempt < p.attempts; attempt++ {
		article, err := p.source.RandomPopular(ctx, RandHistoryDate())
		if err != nil {
			log.Debug().Err(err).Int("attempt", attempt+1).Msg("Random article fetch missed")
			continue
		}
		if !IsArticleTitle(article.Title) {
			continue
		}

		p.mu.Lock()
		_, done := p.served[article.Title]
		if !done {
			p.served[article.Title] = struct{}{}
		}
		p.mu.Unlock()

		if done {
			continue
		}
		return article, nil
	}
	return nil, ErrExhausted
}
