package wiki

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// fakeSource is an in-memory Source backed by a fixed article set.
type fakeSource struct {
	articles map[string]*Article
	// categoryNames is the set of categories CategoryExists acknowledges.
	categoryNames map[string]bool
	// randomPool feeds RandomPopular round-robin.
	randomPool []string
	randomIdx  int
}

func newFakeSource(articles ...*Article) *fakeSource {
	s := &fakeSource{
		articles:      make(map[string]*Article),
		categoryNames: make(map[string]bool),
	}
	for _, a := range articles {
		s.articles[a.Title] = a
		s.randomPool = append(s.randomPool, a.Title)
		for _, c := range a.Categories {
			s.categoryNames[strings.ToLower(c)] = true
		}
	}
	return s
}

func (s *fakeSource) Resolve(_ context.Context, title string) (*Article, error) {
	if a, ok := s.articles[title]; ok {
		return a, nil
	}
	return nil, ErrNotFound
}

func (s *fakeSource) Search(_ context.Context, query string, limit int) ([]*Article, error) {
	var out []*Article
	q := strings.ToLower(query)
	for _, a := range s.articles {
		if strings.Contains(strings.ToLower(a.Title), q) {
			out = append(out, &Article{Title: a.Title})
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *fakeSource) ByCategory(_ context.Context, categories []string) ([]*Article, error) {
	var out []*Article
	for _, a := range s.articles {
		if a.HasCategories(categories) {
			out = append(out, &Article{Title: a.Title})
		}
	}
	return out, nil
}

func (s *fakeSource) RandomPopular(_ context.Context, _ time.Time) (*Article, error) {
	if len(s.randomPool) == 0 {
		return nil, ErrNotFound
	}
	title := s.randomPool[s.randomIdx%len(s.randomPool)]
	s.randomIdx++
	return s.articles[title], nil
}

func (s *fakeSource) CategoryExists(_ context.Context, name string) (bool, error) {
	return s.categoryNames[strings.ToLower(name)], nil
}

func composerArticle(title string, categories ...string) *Article {
	return &Article{
		Title:      title,
		Sentences:  []string{title + " was a composer", "More detail follows"},
		Links:      []string{"Music", "Orchestra"},
		Categories: categories,
	}
}

func TestNewProviderRejectsUnknownCategory(t *testing.T) {
	source := newFakeSource(composerArticle("Beethoven", "Composers"))

	_, err := NewProvider(context.Background(), source, &ProviderConfig{
		Categories: []string{"No such category"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConstraint)
}

func TestNewProviderRejectsUnknownTitle(t *testing.T) {
	source := newFakeSource(composerArticle("Beethoven", "Composers"))

	_, err := NewProvider(context.Background(), source, &ProviderConfig{
		Titles: []string{"Beethoven", "Not an article"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConstraint)
}

func TestProviderTitleConstraint(t *testing.T) {
	source := newFakeSource(
		composerArticle("Beethoven", "Composers"),
		composerArticle("Mozart", "Composers"),
		composerArticle("Kafka", "Writers"),
	)

	p, err := NewProvider(context.Background(), source, &ProviderConfig{
		Titles: []string{"Beethoven", "Mozart"},
	})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 2; i++ {
		a, err := p.FetchArticle(context.Background())
		require.NoError(t, err)
		assert.Contains(t, []string{"Beethoven", "Mozart"}, a.Title)
		assert.False(t, seen[a.Title], "article %q served twice", a.Title)
		seen[a.Title] = true
	}

	_, err = p.FetchArticle(context.Background())
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestProviderCategoryConstraint(t *testing.T) {
	source := newFakeSource(
		composerArticle("Beethoven", "Composers"),
		composerArticle("Mozart", "Composers"),
		composerArticle("Kafka", "Writers"),
	)

	p, err := NewProvider(context.Background(), source, &ProviderConfig{
		Categories: []string{"Composers"},
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		a, err := p.FetchArticle(context.Background())
		require.NoError(t, err)
		assert.True(t, a.HasCategories([]string{"Composers"}),
			"article %q does not carry the requested category", a.Title)
	}

	_, err = p.FetchArticle(context.Background())
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestProviderTitleAndCategoryIntersection(t *testing.T) {
	source := newFakeSource(
		composerArticle("Beethoven", "Composers"),
		composerArticle("Kafka", "Writers"),
	)

	p, err := NewProvider(context.Background(), source, &ProviderConfig{
		Titles:     []string{"Beethoven", "Kafka"},
		Categories: []string{"Composers"},
	})
	require.NoError(t, err)

	a, err := p.FetchArticle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Beethoven", a.Title)

	_, err = p.FetchArticle(context.Background())
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestProviderClearCacheAllowsRepeats(t *testing.T) {
	source := newFakeSource(composerArticle("Beethoven", "Composers"))

	p, err := NewProvider(context.Background(), source, &ProviderConfig{
		Titles: []string{"Beethoven"},
	})
	require.NoError(t, err)

	first, err := p.FetchArticle(context.Background())
	require.NoError(t, err)

	_, err = p.FetchArticle(context.Background())
	require.ErrorIs(t, err, ErrExhausted)

	p.ClearCache()

	again, err := p.FetchArticle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Title, again.Title)
}

func TestProviderRandomBoundedRetry(t *testing.T) {
	// Only reserved-namespace pages in the pool: every attempt is rejected
	// and the bounded loop must give up rather than spin.
	source := newFakeSource(
		composerArticle("Category:Composers"),
		composerArticle("List of composers"),
	)

	p, err := NewProvider(context.Background(), source, &ProviderConfig{
		RandomAttempts: 4,
	})
	require.NoError(t, err)

	_, err = p.FetchArticle(context.Background())
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestProviderRandomSkipsServed(t *testing.T) {
	source := newFakeSource(
		composerArticle("Beethoven", "Composers"),
		composerArticle("Mozart", "Composers"),
	)

	p, err := NewProvider(context.Background(), source, nil)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 2; i++ {
		a, err := p.FetchArticle(context.Background())
		require.NoError(t, err)
		assert.False(t, seen[a.Title], "article %q served twice", a.Title)
		seen[a.Title] = true
	}
}

func TestProviderArticlesSequence(t *testing.T) {
	source := newFakeSource(
		composerArticle("Beethoven", "Composers"),
		composerArticle("Mozart", "Composers"),
		composerArticle("Haydn", "Composers"),
	)

	p, err := NewProvider(context.Background(), source, &ProviderConfig{
		Titles: []string{"Beethoven", "Mozart", "Haydn"},
	})
	require.NoError(t, err)

	var titles []string
	var finalErr error
	for a, err := range p.Articles(context.Background()) {
		if err != nil {
			finalErr = err
			break
		}
		titles = append(titles, a.Title)
	}

	assert.Len(t, titles, 3)
	assert.ErrorIs(t, finalErr, ErrExhausted)
}

func TestProviderArticlesEarlyStop(t *testing.T) {
	source := newFakeSource(
		composerArticle("Beethoven", "Composers"),
		composerArticle("Mozart", "Composers"),
	)

	p, err := NewProvider(context.Background(), source, nil)
	require.NoError(t, err)

	count := 0
	for _, err := range p.Articles(context.Background()) {
		require.NoError(t, err)
		count++
		if count == 1 {
			break
		}
	}
	assert.Equal(t, 1, count)
}

// TestProviderNoRepeatsProperty checks that for any distinct title pool the
// provider serves each title exactly once before reporting exhaustion.
func TestProviderNoRepeatsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "n")

		articles := make([]*Article, n)
		titles := make([]string, n)
		for i := 0; i < n; i++ {
			title := rapid.StringMatching(`[A-Z][a-z]{3,10}`).Draw(t, "title") + "-" + string(rune('a'+i))
			articles[i] = composerArticle(title, "Pool")
			titles[i] = title
		}

		source := newFakeSource(articles...)
		p, err := NewProvider(context.Background(), source, &ProviderConfig{Titles: titles})
		if err != nil {
			t.Fatalf("provider construction failed: %v", err)
		}

		seen := make(map[string]bool)
		for i := 0; i < n; i++ {
			a, err := p.FetchArticle(context.Background())
			if err != nil {
				t.Fatalf("fetch %d failed: %v", i, err)
			}
			if seen[a.Title] {
				t.Fatalf("article %q served twice", a.Title)
			}
			seen[a.Title] = true
		}

		if _, err := p.FetchArticle(context.Background()); err == nil {
			t.Fatal("expected exhaustion after serving the full pool")
		}
	})
}
