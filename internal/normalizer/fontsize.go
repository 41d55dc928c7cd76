package normalizer

import "regexp"

// defaultFontSize is used when an element's HTML carries no recognizable
// inline font-size style.
const defaultFontSize = 12

var fontSizePattern = regexp.MustCompile(`font-size:\s*(\d+)px`)

// extractFontSize recovers an element's font size from its inline style,
// defaulting to defaultFontSize when none is present.
func extractFontSize(html string) int {
	m := fontSizePattern.FindStringSubmatch(html)
	if len(m) != 2 {
		return defaultFontSize
	}
	size := 0
	for _, c := range m[1] {
		size = size*10 + int(c-'0')
	}
	if size <= 0 {
		return defaultFontSize
	}
	return size
}
