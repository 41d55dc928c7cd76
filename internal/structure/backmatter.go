package structure

import (
	"strings"

	"github.com/bluecalif/bookforge/internal/normalizer"
)

// backMatterKeywords trigger back-matter detection on a first-hit basis
// . These are plain substrings, not word-bounded: "주"
// (notes) and "index"/"notes" as English substrings can over-match inside
// unrelated words. This is a known, documented limitation carried over
// unchanged rather than silently tightened.
var backMatterKeywords = []string{
	"맺음말", "에필로그", "참고문헌", "부록", "색인", "주", "미주", "각주",
	"epilogue", "conclusion", "references", "bibliography", "appendix", "index", "notes", "endnotes",
}

// detectBackMatterStart scans odd pages from max(bodyStart, floor(0.5*N))
// forward, concatenating each page's footer text and searching
// case-insensitively for a back-matter keyword. Absent, the body runs to
// the last page.
func detectBackMatterStart(pages []normalizer.NormalizedPage, bodyStart int) int {
	n := len(pages)
	if n == 0 {
		return bodyStart
	}
	scanFrom := bodyStart
	if half := n / 2; half > scanFrom {
		scanFrom = half
	}

	for _, page := range pages {
		if page.PageNumber < scanFrom || page.PageNumber%2 == 0 {
			continue
		}
		footerText := concatFooterText(page.Elements)
		if containsBackMatterKeyword(footerText) {
			return page.PageNumber
		}
	}
	return pages[n-1].PageNumber + 1 // body runs through the last page
}

func concatFooterText(elements []normalizer.Element) string {
	set := footerSet(elements)
	var b strings.Builder
	for i, el := range set {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(el.Text)
	}
	return b.String()
}

func containsBackMatterKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range backMatterKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
