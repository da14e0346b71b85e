package fetcher

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// Markdown constructs stripped from reader-proxy output, in application order
	mdCodeFenceRegex  = regexp.MustCompile("(?s)```.*?```")
	mdInlineCodeRegex = regexp.MustCompile("`([^`]*)`")
	mdImageRegex      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdLinkRegex       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdHeadingRegex    = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	mdEmphasisRegex   = regexp.MustCompile(`(\*{1,3}|_{1,3}|~~)([^*_~]+)(\*{1,3}|_{1,3}|~~)`)
	mdBlockquoteRegex = regexp.MustCompile(`(?m)^>\s?`)
	mdListMarkerRegex = regexp.MustCompile(`(?m)^\s*([-*+]|\d+\.)\s+`)
	mdRuleRegex       = regexp.MustCompile(`(?m)^([-*_]\s*){3,}$`)
)

// normalizeWhitespace collapses all whitespace runs to single spaces and
// trims the result. Length gates are always applied to normalized text so
// padding never counts toward acceptance.
func normalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// stripMarkdown reduces a markdown-like document to plain text. The reader
// proxy returns rendered pages as markdown; downstream extraction only wants
// the prose.
func stripMarkdown(text string) string {
	text = mdCodeFenceRegex.ReplaceAllString(text, " ")
	text = mdImageRegex.ReplaceAllString(text, " ")
	text = mdLinkRegex.ReplaceAllString(text, "$1")
	text = mdInlineCodeRegex.ReplaceAllString(text, "$1")
	text = mdHeadingRegex.ReplaceAllString(text, "")
	text = mdEmphasisRegex.ReplaceAllString(text, "$2")
	text = mdBlockquoteRegex.ReplaceAllString(text, "")
	text = mdRuleRegex.ReplaceAllString(text, "")
	text = mdListMarkerRegex.ReplaceAllString(text, "")
	return text
}

// capLength truncates text to at most max bytes without splitting a rune,
// reporting whether truncation happened. Bounds downstream token cost.
func capLength(text string, max int) (string, bool) {
	if max <= 0 || len(text) <= max {
		return text, false
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut], true
}
