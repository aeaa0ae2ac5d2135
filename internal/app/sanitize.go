package app

import (
	"regexp"
	"strings"
)

var contentLabel = regexp.MustCompile(`^Content\s*:\s*`)

// SanitizeWebhookText turns the loosely formatted webhook reply into text a
// strict JSON parser accepts: code fences and a leading "Content:" label are
// removed, then raw newlines inside string literals are escaped.
func SanitizeWebhookText(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.TrimSpace(strings.ReplaceAll(s, "```", ""))
	s = strings.TrimSpace(contentLabel.ReplaceAllString(s, ""))
	return EscapeNewlinesInStrings(s)
}

// EscapeNewlinesInStrings rewrites every raw '\n' found between double quotes
// as the two bytes `\n`. A quote toggles the in-string state unless the last
// emitted byte is a backslash. Newlines outside strings are left alone.
//
// Working on bytes is safe for UTF-8 input: '"', '\\' and '\n' never occur
// inside a multi-byte sequence.
func EscapeNewlinesInStrings(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 16)

	inside := false
	var last byte
	emit := func(c byte) {
		b.WriteByte(c)
		last = c
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"' && (b.Len() == 0 || last != '\\'):
			inside = !inside
			emit(c)
		case c == '\n' && inside:
			emit('\\')
			emit('n')
		default:
			emit(c)
		}
	}
	return b.String()
}
