// Package sanitize turns free-form, possibly HTML-laden text into a single
// line of plain text that is safe to embed in a prompt.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultLimit is the ceiling applied to book descriptions.
	DefaultLimit = 2000
	// Ellipsis marks text that was cut at the ceiling.
	Ellipsis = "..."
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	entityPattern     = regexp.MustCompile(`(?i)&#?[a-z0-9]+;`)
	whitespacePattern = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// Text strips tags and entities, collapses whitespace and caps the result at
// limit characters (runes). A non-positive limit disables truncation.
// The output of Text is always a fixed point of Text with the same limit.
func Text(raw string, limit int) string {
	if raw == "" {
		return ""
	}

	s := tagPattern.ReplaceAllString(raw, " ")
	s = entityPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if limit <= 0 {
		return s
	}

	n := utf8.RuneCountInString(s)
	if n <= limit {
		return s
	}
	// Already cut on a previous pass.
	if strings.HasSuffix(s, Ellipsis) && n <= limit+utf8.RuneCountInString(Ellipsis) {
		return s
	}

	return string([]rune(s)[:limit]) + Ellipsis
}

// Description sanitizes a book description with DefaultLimit.
func Description(raw string) string {
	return Text(raw, DefaultLimit)
}
