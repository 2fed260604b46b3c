package wiki

import "strings"

// reservedPrefixes are namespace markers that identify non-article pages.
// A candidate carrying one of these is rejected whether it came from a link
// list, a backlink scan, or the random provider.
var reservedPrefixes = []string{
	"Category:",
	"Template:",
	"Template talk:",
	"Talk:",
	"User:",
	"User talk:",
	"Wikipedia:",
	"File:",
	"Portal:",
	"Draft:",
	"Help:",
	"Module:",
	"Special:",
	"MediaWiki:",
	"List of",
}

// IsArticleTitle reports whether a title names a plain article rather than a
// reserved-namespace page or a disambiguation list.
func IsArticleTitle(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(title, prefix) {
			return false
		}
	}
	return !strings.Contains(title, "(disambiguation)")
}

// FilterArticleTitles returns the titles that pass IsArticleTitle, preserving
// order and dropping duplicates.
func FilterArticleTitles(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if !IsArticleTitle(t) {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
