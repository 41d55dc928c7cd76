package structure

import (
	"strings"

	"github.com/bluecalif/bookforge/internal/normalizer"
)

// frontMatterKeywords are searched case-sensitively against Korean tokens
// and case-insensitively against English ones.
var frontMatterKeywords = []string{
	"작가", "저자", "지은이", "추천", "서문", "머리말", "프롤로그", "들어가며", "차례", "목차",
	"author", "preface", "foreword", "prologue", "introduction", "contents", "dedication", "acknowledgment", "copyright",
}

// defaultBodyStart is used when no qualifying page is found.
const defaultBodyStart = 3

// detectBodyStart scans odd-numbered logical pages from page 3 onward for
// the first with a chapter_marker footer and no front-matter keyword in its
// full text.
func detectBodyStart(pages []normalizer.NormalizedPage) int {
	for _, page := range pages {
		if page.PageNumber < 3 || page.PageNumber%2 == 0 {
			continue
		}
		footers := classifiedFooters(page.Elements)
		if !hasChapterMarker(footers) {
			continue
		}
		if containsFrontMatterKeyword(page.RawText) {
			continue
		}
		return page.PageNumber
	}
	return defaultBodyStart
}

func containsFrontMatterKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range frontMatterKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
