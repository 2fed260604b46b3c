package wiki

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestMatch(t *testing.T) {
	results := []*Article{
		{Title: "Ludwig van Beethoven"},
		{Title: "Beethoven (film)"},
		{Title: "Beethoven"},
	}

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"exact match wins", "Beethoven", "Beethoven"},
		{"exact match is case insensitive", "bEETHOVEN", "Beethoven"},
		{"exact full title", "ludwig van beethoven", "Ludwig van Beethoven"},
		{"substring falls back to first hit", "van beet", "Ludwig van Beethoven"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BestMatch(results, tt.query)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Title)
		})
	}
}

func TestBestMatchNoResult(t *testing.T) {
	results := []*Article{{Title: "Beethoven"}}
	assert.Nil(t, BestMatch(results, "Mozart"))
	assert.Nil(t, BestMatch(nil, "Mozart"))
}

func TestFindPageExactResolve(t *testing.T) {
	source := newFakeSource(composerArticle("Beethoven", "Composers"))

	got, err := FindPage(context.Background(), source, "Beethoven")
	require.NoError(t, err)
	assert.Equal(t, "Beethoven", got.Title)
	assert.NotEmpty(t, got.Sentences, "exact resolve returns the full article")
}

func TestFindPageSearchFallback(t *testing.T) {
	source := newFakeSource(composerArticle("Ludwig van Beethoven", "Composers"))

	got, err := FindPage(context.Background(), source, "van Beethoven")
	require.NoError(t, err)
	assert.Equal(t, "Ludwig van Beethoven", got.Title)
}

func TestFindPageNotFound(t *testing.T) {
	source := newFakeSource(composerArticle("Beethoven", "Composers"))

	_, err := FindPage(context.Background(), source, "Zzyzx")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindPageEmptyQuery(t *testing.T) {
	source := newFakeSource()

	_, err := FindPage(context.Background(), source, "   ")
	assert.ErrorIs(t, err, ErrInvalidTitle)
}
