package monitor

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MessagePreviewLen      = 100
	AnnouncementPreviewLen = 150
	Ellipsis               = "..."
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes every <...> span and trims surrounding whitespace.
func StripHTML(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// Truncate trims s and cuts it to limit runes, appending Ellipsis when
// anything was cut.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + Ellipsis
}

// Preview is StripHTML followed by Truncate.
func Preview(s string, limit int) string {
	return Truncate(StripHTML(s), limit)
}
