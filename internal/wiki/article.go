// Package wiki provides the knowledge-source client and the constrained
// article candidate provider backing the guessing game.
package wiki

import (
	"strings"
	"unicode/utf8"
)

// Article is an immutable snapshot of an encyclopedia article. It is owned
// exclusively by the game session that fetched it and is never shared.
type Article struct {
	Title      string
	Sentences  []string // excerpt text, in order
	Links      []string // outbound article-namespace link titles, deduped
	Categories []string
	ImageURL   string // optional, empty when no page image exists
	URL        string
}

// Excerpt joins the first n sentences back into display text. n is clamped
// to the sentence count.
func (a *Article) Excerpt(n int) string {
	if n > len(a.Sentences) {
		n = len(a.Sentences)
	}
	if n <= 0 {
		return ""
	}
	return strings.Join(a.Sentences[:n], ". ") + "."
}

// HasCategories reports whether the article carries every named category,
// compared case-insensitively.
func (a *Article) HasCategories(categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(a.Categories))
	for _, c := range a.Categories {
		have[strings.ToLower(c)] = struct{}{}
	}
	for _, want := range categories {
		if _, ok := have[strings.ToLower(want)]; !ok {
			return false
		}
	}
	return true
}

// SplitSentences segments excerpt text into sentences. Segmentation is the
// simple ". " split the game is balanced around, not a linguistic one.
func SplitSentences(excerpt string) []string {
	excerpt = strings.TrimSpace(excerpt)
	if excerpt == "" {
		return nil
	}
	parts := strings.Split(excerpt, ". ")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSuffix(strings.TrimSpace(p), ".")
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// CensorMarker replaces title words in the visible excerpt.
const CensorMarker = "~~CENSORED~~"

// CensorTitle blanks every word of the article title out of the excerpt so
// the answer is not handed to the player. Matching is case-insensitive and
// applies per title word.
func CensorTitle(excerpt, title string) string {
	for _, word := range strings.Fields(title) {
		if len(word) < 2 {
			continue
		}
		excerpt = replaceFold(excerpt, word, CensorMarker)
	}
	return excerpt
}

// replaceFold replaces all occurrences of old in s with new, comparing
// under Unicode case folding. Matching is rune-aligned; case conversion can
// change a rune's byte length, so byte offsets must never cross between the
// two strings.
func replaceFold(s, old, new string) string {
	if old == "" {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		if n := foldPrefixLen(s[i:], old); n > 0 {
			b.WriteString(new)
			i += n
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}

// foldPrefixLen returns the byte length of the prefix of s that matches old
// under case folding, or 0 when s does not start with old.
func foldPrefixLen(s, old string) int {
	i := 0
	for range old {
		if i >= len(s) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	if strings.EqualFold(s[:i], old) {
		return i
	}
	return 0
}
