// internal/notify/text.go
package notify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// NormalizeInput repairs incoming chat text and collapses whitespace.
func NormalizeInput(s string) string {
	s = fixEncoding(s)
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}

// fixEncoding decodes text that arrived as windows-1251 instead of UTF-8.
func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	decoder := charmap.Windows1251.NewDecoder()
	fixed, err := decoder.String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}

	return strings.ToValidUTF8(s, "")
}
