package normalizer

import (
	"strings"

	"golang.org/x/net/html"
)

// stripHTML extracts plain text from an HTML fragment, collapsing runs of
// whitespace to single spaces and leaking no entities.
func stripHTML(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return collapseWhitespace(b.String())
		case html.TextToken:
			b.WriteString(string(tokenizer.Text()))
			b.WriteByte(' ')
		}
	}
}

// collapseWhitespace replaces every run of whitespace with a single space
// and trims the result.
func collapseWhitespace(s string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
