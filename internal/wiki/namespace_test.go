package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIsArticleTitle tests namespace filtering of candidate titles.
func TestIsArticleTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"plain article", "Ludwig van Beethoven", true},
		{"article with colon in name", "Star Wars: A New Hope", true},
		{"category page", "Category:Composers", false},
		{"template page", "Template:Infobox", false},
		{"template talk page", "Template talk:Infobox", false},
		{"talk page", "Talk:Beethoven", false},
		{"user page", "User:SomeEditor", false},
		{"user talk page", "User talk:SomeEditor", false},
		{"project page", "Wikipedia:Manual of Style", false},
		{"file page", "File:Beethoven.jpg", false},
		{"portal page", "Portal:Classical music", false},
		{"draft page", "Draft:Upcoming article", false},
		{"help page", "Help:Editing", false},
		{"module page", "Module:Citation", false},
		{"special page", "Special:RecentChanges", false},
		{"mediawiki page", "MediaWiki:Sidebar", false},
		{"list article", "List of sovereign states", false},
		{"disambiguation page", "Mercury (disambiguation)", false},
		{"empty title", "", false},
		{"whitespace only", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsArticleTitle(tt.title))
		})
	}
}

// TestFilterArticleTitles tests that filtering preserves order and drops
// duplicates along with reserved-namespace pages.
func TestFilterArticleTitles(t *testing.T) {
	in := []string{
		"Beethoven",
		"Category:Composers",
		"Mozart",
		"Beethoven",
		"Talk:Mozart",
		"Haydn",
		"List of compositions",
	}

	got := FilterArticleTitles(in)
	assert.Equal(t, []string{"Beethoven", "Mozart", "Haydn"}, got)
}

func TestFilterArticleTitlesEmpty(t *testing.T) {
	assert.Empty(t, FilterArticleTitles(nil))
	assert.Empty(t, FilterArticleTitles([]string{"Category:Only", "Talk:Pages"}))
}
