package sources

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const snippetMaxLen = 220

var (
	tagRegex   = regexp.MustCompile(`<[^>]+>`)
	spaceRegex = regexp.MustCompile(`\s+`)
)

func htmlToText(html string) string {
	text := tagRegex.ReplaceAllString(html, " ")
	return strings.TrimSpace(spaceRegex.ReplaceAllString(text, " "))
}

// MakeSnippet flattens description HTML into a short plain-text teaser,
// cut at a word boundary.
func MakeSnippet(html string) string {
	text := htmlToText(html)
	if len(text) <= snippetMaxLen {
		return text
	}
	end := snippetMaxLen
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	cut := text[:end]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
