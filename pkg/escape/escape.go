// Package escape holds the output-escaping helpers applied to user-supplied
// text before it is interpolated into rendered output or outbound payloads.
package escape

import (
	"html"
	"strings"
)

// HTML escapes the five HTML-significant characters in s.
func HTML(s string) string {
	return html.EscapeString(s)
}

// Field trims surrounding whitespace and escapes the result. Used for
// free-text form fields that end up in order payloads and rendered pages.
func Field(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
