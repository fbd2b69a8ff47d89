// Package htmlsanitize strips markup from free text before it is stored.
//
// Lesson-plan cells and header fields are plain text: templates escape them on
// output, so the only job here is to keep tags pasted from rich editors out of
// the database.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText removes every tag, keeping the text between them. Entities that
// bluemonday escapes ("&", "<" in prose) are unescaped again so "a < b" stays
// "a < b".
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	return html.UnescapeString(strict.Sanitize(s))
}

// Line is PlainText for single-line fields: it also collapses runs of
// whitespace (including newlines) to one space and trims the ends.
func Line(s string) string {
	return strings.Join(strings.Fields(PlainText(s)), " ")
}
