package structure

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bluecalif/bookforge/internal/normalizer"
)

// chapterRegexes are tried in order; the first capture group of whichever
// matches carries the chapter number.
var chapterRegexes = []*regexp.Regexp{
	regexp.MustCompile(`제\s*(\d+)\s*[장강부]`),
	regexp.MustCompile(`(?i)CHAPTER\s*(\d+)`),
	regexp.MustCompile(`(?i)Part\s*(\d+)`),
	regexp.MustCompile(`^(\d+)\s*[장강부]`),
	regexp.MustCompile(`^(\d+)\.\s*[가-힣]`),
}

var chapterKeywordTokens = []string{"제", "장", "강", "부", "chapter", "part"}

// footerSet returns every element belonging to a physical page's footer:
// category == "footer" or y0 > 0.9, sorted bottom-most first.
func footerSet(elements []normalizer.Element) []normalizer.Element {
	var out []normalizer.Element
	for _, el := range elements {
		if el.Category == "footer" || el.BBox.Y0 > 0.9 {
			out = append(out, el)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].BBox.Y0 < out[j].BBox.Y0; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// classifyFooter tags a single footer element four
// branches.
func classifyFooter(el normalizer.Element) footer {
	text := strings.TrimSpace(el.Text)

	if num, ok := matchChapterRegex(text); ok {
		return footer{kind: footerChapterMarker, chapterNumber: num}
	}
	if el.BBox.X0 < 0.05 && isPageNumber(text) {
		return footer{kind: footerPageNumber}
	}
	if el.BBox.X0 > 0.05 && el.BBox.X0 < 0.5 && containsChapterKeyword(text) {
		return footer{kind: footerChapterMarker, chapterNumber: 0}
	}
	return footer{kind: footerOther}
}

func matchChapterRegex(text string) (int, bool) {
	for _, re := range chapterRegexes {
		if m := re.FindStringSubmatch(text); len(m) == 2 {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func isPageNumber(text string) bool {
	if len(text) < 1 || len(text) > 3 {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 1000
}

func containsChapterKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range chapterKeywordTokens {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// classifiedFooters classifies every element in a page's footer set.
func classifiedFooters(elements []normalizer.Element) []footer {
	set := footerSet(elements)
	out := make([]footer, 0, len(set))
	for _, el := range set {
		out = append(out, classifyFooter(el))
	}
	return out
}

func hasChapterMarker(footers []footer) bool {
	for _, f := range footers {
		if f.kind == footerChapterMarker {
			return true
		}
	}
	return false
}

// firstChapterNumber returns the number carried by the first
// footerChapterMarker in footers: the first chapter_marker footer element,
// its capture group parsed. The keyword-only branch (no regex capture) is
// a marker but carries no number, so the page receives None in that case.
func firstChapterNumber(footers []footer) (int, bool) {
	for _, f := range footers {
		if f.kind == footerChapterMarker {
			return f.chapterNumber, f.chapterNumber > 0
		}
	}
	return 0, false
}
