package wiki

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestExcerpt(t *testing.T) {
	article := &Article{
		Title:     "Testing",
		Sentences: []string{"First", "Second", "Third"},
	}

	tests := []struct {
		name string
		n    int
		want string
	}{
		{"zero sentences", 0, ""},
		{"negative", -1, ""},
		{"one sentence", 1, "First."},
		{"two sentences", 2, "First. Second."},
		{"all sentences", 3, "First. Second. Third."},
		{"past the end clamps", 10, "First. Second. Third."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, article.Excerpt(tt.n))
		})
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"single sentence", "Hello world.", []string{"Hello world"}},
		{"two sentences", "First. Second.", []string{"First", "Second"}},
		{"no trailing period", "First. Second", []string{"First", "Second"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.in))
		})
	}
}

// TestExcerptSplitRoundTrip checks that splitting is monotone with respect
// to Excerpt: the first n sentences of a split excerpt rebuild a prefix of
// the original text.
func TestExcerptSplitRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(1, 8).Draw(t, "count")
		sentences := make([]string, count)
		for i := range sentences {
			sentences[i] = rapid.StringMatching(`[A-Za-z][a-z]{2,12}( [a-z]{2,12}){0,4}`).Draw(t, "sentence")
		}

		article := &Article{Title: "X", Sentences: sentences}
		full := article.Excerpt(count)

		got := SplitSentences(full)
		if len(got) != count {
			t.Fatalf("split %q into %d sentences, want %d", full, len(got), count)
		}
		for n := 1; n <= count; n++ {
			if !strings.HasPrefix(full, strings.TrimSuffix(article.Excerpt(n), ".")) {
				t.Fatalf("excerpt(%d) is not a prefix of the full excerpt", n)
			}
		}
	})
}

func TestHasCategories(t *testing.T) {
	article := &Article{
		Title:      "Beethoven",
		Categories: []string{"German composers", "Classical era"},
	}

	tests := []struct {
		name string
		want bool
		cats []string
	}{
		{"no constraint", true, nil},
		{"single match", true, []string{"German composers"}},
		{"case insensitive", true, []string{"german COMPOSERS"}},
		{"all match", true, []string{"German composers", "Classical era"}},
		{"one missing", false, []string{"German composers", "Jazz musicians"}},
		{"none match", false, []string{"Jazz musicians"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, article.HasCategories(tt.cats))
		})
	}
}

func TestCensorTitle(t *testing.T) {
	tests := []struct {
		name    string
		excerpt string
		title   string
		want    string
	}{
		{
			"single word title",
			"Beethoven was a composer. beethoven died in 1827.",
			"Beethoven",
			"~~CENSORED~~ was a composer. ~~CENSORED~~ died in 1827.",
		},
		{
			"multi word title censors each word",
			"Ludwig van Beethoven was born in Bonn.",
			"Ludwig van Beethoven",
			"~~CENSORED~~ ~~CENSORED~~ ~~CENSORED~~ was born in Bonn.",
		},
		{
			"single letter words are kept",
			"A cat sat.",
			"A Cat",
			"A ~~CENSORED~~ sat.",
		},
		{
			"no occurrence",
			"Nothing to hide here.",
			"Beethoven",
			"Nothing to hide here.",
		},
		{
			"multi-byte runes before the match keep alignment",
			"İİİİİ Paris is the capital.",
			"Paris",
			"İİİİİ ~~CENSORED~~ is the capital.",
		},
		{
			"case folding that changes byte width",
			"ȺȺȺȺȺ Paris",
			"Paris",
			"ȺȺȺȺȺ ~~CENSORED~~",
		},
		{
			"non-ascii title word",
			"Besançon lies on the Doubs. BESANÇON is old.",
			"Besançon",
			"~~CENSORED~~ lies on the Doubs. ~~CENSORED~~ is old.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CensorTitle(tt.excerpt, tt.title))
		})
	}
}

// TestCensorTitleNeverLeaksTitle checks that no title word of length >= 2
// survives censoring, regardless of casing.
func TestCensorTitleNeverLeaksTitle(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[A-Za-zÀ-öø-ÿȺⱥİ]{2,10}`).Draw(t, "word")
		prefix := rapid.StringMatching(`[a-zà-öø-ÿȺⱥİ ]{0,20}`).Draw(t, "prefix")
		suffix := rapid.StringMatching(`[a-zà-öø-ÿȺⱥİ ]{0,20}`).Draw(t, "suffix")

		excerpt := prefix + word + suffix
		censored := CensorTitle(excerpt, word)

		if strings.Contains(strings.ToLower(censored), strings.ToLower(word)) {
			// The marker itself or surrounding text may coincidentally contain
			// the word only if it was drawn from the marker alphabet.
			if !strings.Contains(strings.ToLower(CensorMarker+prefix+suffix), strings.ToLower(word)) {
				t.Fatalf("censored text %q still contains title word %q", censored, word)
			}
		}
	})
}
