package structure

import (
	"fmt"
	"sort"

	"github.com/bluecalif/bookforge/internal/normalizer"
)

// pageChapter pairs an odd body page with its raw extracted chapter
// number. number == 0 means None.
type pageChapter struct {
	pageNumber int
	number     int
}

// extractChapterNumbers walks every odd body page, taking the first
// chapter_marker footer element's parsed number.
func extractChapterNumbers(pages []normalizer.NormalizedPage, bodyStart, bodyEnd int) []pageChapter {
	var out []pageChapter
	for _, page := range pages {
		if page.PageNumber < bodyStart || page.PageNumber > bodyEnd || page.PageNumber%2 == 0 {
			continue
		}
		footers := classifiedFooters(page.Elements)
		num, ok := firstChapterNumber(footers)
		if !ok {
			num = 0
		}
		out = append(out, pageChapter{pageNumber: page.PageNumber, number: num})
	}
	return out
}

// applyContinuityFilter finds the longest chain of consecutive integer
// values v, v+1, v+2, ... occurring in list order among the non-None
// numbers, and resets any page whose number falls outside that chain's
// value range to None. A repeated value (the common case: every odd page
// of a chapter repeats its chapter number) does not break the chain, and
// an outlier value interleaved between chain members (a misread footer)
// neither extends nor breaks it — it simply fails to ever start a longer
// chain of its own.
func applyContinuityFilter(pages []pageChapter) []pageChapter {
	var present []int
	for _, pc := range pages {
		if pc.number > 0 {
			present = append(present, pc.number)
		}
	}
	if len(present) == 0 {
		return pages
	}

	// chainLen[v] is the longest chain ending at value v found so far
	// while scanning in list order: a fresh occurrence of v extends
	// whatever chain already ends at v-1, and a duplicate occurrence of v
	// cannot improve on a chain v already achieves.
	chainLen := make(map[int]int, len(present))
	bestLen, bestEnd := 0, 0
	for _, n := range present {
		length := chainLen[n-1] + 1
		if length > chainLen[n] {
			chainLen[n] = length
		}
		if chainLen[n] > bestLen {
			bestLen, bestEnd = chainLen[n], n
		}
	}
	bestStart := bestEnd - bestLen + 1

	out := make([]pageChapter, len(pages))
	copy(out, pages)
	for i := range out {
		if out[i].number > 0 && (out[i].number < bestStart || out[i].number > bestEnd) {
			out[i].number = 0
		}
	}
	return out
}

// buildBoundaries walks the filtered pages in order, opening a new chapter
// whenever the chapter number changes to a new non-None value and closing
// the previous chapter at the previous page. The final chapter closes at
// bodyEnd.
func buildBoundaries(pages []pageChapter, bodyEnd int) []Chapter {
	var chapters []Chapter
	var current *Chapter

	for i, pc := range pages {
		if pc.number == 0 {
			continue
		}
		if current == nil || pc.number != current.Number {
			if current != nil {
				if i > 0 {
					current.EndPage = pages[i-1].pageNumber
				}
				chapters = append(chapters, *current)
			}
			current = &Chapter{
				OrderIndex: len(chapters),
				Number:     pc.number,
				StartPage:  pc.pageNumber,
			}
		}
	}
	if current != nil {
		current.EndPage = bodyEnd
		chapters = append(chapters, *current)
	}
	return chapters
}

// applyEvenPageBridging extends each chapter's end page to include the
// even page immediately following its last odd page, unless that even
// page is the next chapter's start.
func applyEvenPageBridging(chapters []Chapter, bodyEnd int) {
	for i := range chapters {
		bridge := chapters[i].EndPage + 1
		if bridge > bodyEnd {
			continue
		}
		if i+1 < len(chapters) && bridge == chapters[i+1].StartPage {
			continue
		}
		chapters[i].EndPage = bridge
	}
}

// assignTitles fills in a default title for chapters with no explicit
// layout-recovered title.
func assignTitles(chapters []Chapter) {
	for i := range chapters {
		if chapters[i].Title == "" {
			chapters[i].Title = fmt.Sprintf("제%d장", chapters[i].Number)
		}
	}
}

// sortChaptersByStartPage is a defensive ordering pass; buildBoundaries
// already emits chapters in page order, but callers that merge candidate
// sets should not assume that invariant holds without re-sorting.
func sortChaptersByStartPage(chapters []Chapter) {
	sort.Slice(chapters, func(i, j int) bool {
		return chapters[i].StartPage < chapters[j].StartPage
	})
	for i := range chapters {
		chapters[i].OrderIndex = i
	}
}
