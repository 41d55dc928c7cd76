package structure

import (
	"github.com/bluecalif/bookforge/internal/normalizer"
)

// maxSampleTitlePages bounds how many pages a ChapterCandidate surfaces
// for operator review.
const maxSampleTitlePages = 3

// Analyze determines a book's body span and chapter partition from its
// normalized pages. When fewer than one
// chapter is recovered, Structure's Chapters is empty and BodyStart/BodyEnd
// still span the whole detected body, which the caller treats as a
// recoverable state permitting operator override.
func Analyze(pages []normalizer.NormalizedPage) Structure {
	bodyStart := detectBodyStart(pages)
	backMatterStart := detectBackMatterStart(pages, bodyStart)

	bodyEnd := backMatterStart - 1
	if len(pages) > 0 && backMatterStart > pages[len(pages)-1].PageNumber {
		bodyEnd = pages[len(pages)-1].PageNumber
	}
	if bodyEnd < bodyStart {
		bodyEnd = bodyStart
	}

	raw := extractChapterNumbers(pages, bodyStart, bodyEnd)
	filtered := applyContinuityFilter(raw)
	chapters := buildBoundaries(filtered, bodyEnd)
	applyEvenPageBridging(chapters, bodyEnd)
	assignTitles(chapters)

	return Structure{BodyStart: bodyStart, BodyEnd: bodyEnd, Chapters: chapters}
}

// BuildCandidates derives operator-review evidence for each chapter in s:
// a title hint and up to maxSampleTitlePages sample page numbers drawn
// from its span.
func BuildCandidates(s Structure) Candidates {
	out := Candidates{Chapters: make([]ChapterCandidate, 0, len(s.Chapters))}
	for _, ch := range s.Chapters {
		out.Chapters = append(out.Chapters, ChapterCandidate{
			OrderIndex:  ch.OrderIndex,
			TitleHint:   ch.Title,
			SamplePages: sampleRange(ch.StartPage, ch.EndPage, maxSampleTitlePages),
		})
	}
	return out
}

func sampleRange(start, end, max int) []int {
	if end < start {
		return nil
	}
	total := end - start + 1
	if total <= max {
		out := make([]int, 0, total)
		for p := start; p <= end; p++ {
			out = append(out, p)
		}
		return out
	}

	out := make([]int, 0, max)
	step := float64(total-1) / float64(max-1)
	for i := 0; i < max; i++ {
		out = append(out, start+int(float64(i)*step))
	}
	return out
}
