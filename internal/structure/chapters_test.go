package structure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyContinuityFilterSuppressesIsolatedFalsePositives(t *testing.T) {
	// Every chapter number repeats across its two odd body pages (the
	// common case), with two isolated footer misreads (100, 200)
	// interleaved. The duplicates must not break the 1,2,3,4 chain.
	pages := []pageChapter{
		{pageNumber: 1, number: 1},
		{pageNumber: 3, number: 1},
		{pageNumber: 5, number: 2},
		{pageNumber: 7, number: 2},
		{pageNumber: 9, number: 100}, // isolated false positive
		{pageNumber: 11, number: 3},
		{pageNumber: 13, number: 3},
		{pageNumber: 15, number: 200}, // isolated false positive
		{pageNumber: 17, number: 4},
		{pageNumber: 19, number: 4},
	}
	filtered := applyContinuityFilter(pages)

	require.Equal(t, 1, filtered[0].number)
	require.Equal(t, 1, filtered[1].number)
	require.Equal(t, 2, filtered[2].number)
	require.Equal(t, 2, filtered[3].number)
	require.Equal(t, 0, filtered[4].number, "100 is not part of the longest chain and must reset to None")
	require.Equal(t, 3, filtered[5].number)
	require.Equal(t, 3, filtered[6].number)
	require.Equal(t, 0, filtered[7].number, "200 is not part of the longest chain and must reset to None")
	require.Equal(t, 4, filtered[8].number)
	require.Equal(t, 4, filtered[9].number)
}

func TestApplyContinuityFilterKeepsLongestRunWhenMultipleCandidates(t *testing.T) {
	pages := []pageChapter{
		{pageNumber: 1, number: 10},
		{pageNumber: 3, number: 20}, // length-1 run
		{pageNumber: 5, number: 1},
		{pageNumber: 7, number: 2},
		{pageNumber: 9, number: 3}, // length-3 run, should win
	}
	filtered := applyContinuityFilter(pages)
	require.Equal(t, 0, filtered[0].number)
	require.Equal(t, 0, filtered[1].number)
	require.Equal(t, 1, filtered[2].number)
	require.Equal(t, 2, filtered[3].number)
	require.Equal(t, 3, filtered[4].number)
}

func TestBuildBoundariesOrdersChaptersAndClosesAtBodyEnd(t *testing.T) {
	pages := []pageChapter{
		{pageNumber: 5, number: 1},
		{pageNumber: 7, number: 1},
		{pageNumber: 9, number: 2},
		{pageNumber: 11, number: 2},
	}
	chapters := buildBoundaries(pages, 12)
	require.Len(t, chapters, 2)

	require.Equal(t, 0, chapters[0].OrderIndex)
	require.Equal(t, 5, chapters[0].StartPage)
	require.Equal(t, 7, chapters[0].EndPage)

	require.Equal(t, 1, chapters[1].OrderIndex)
	require.Equal(t, 9, chapters[1].StartPage)
	require.Equal(t, 12, chapters[1].EndPage)

	for i := 1; i < len(chapters); i++ {
		require.Greater(t, chapters[i].StartPage, chapters[i-1].StartPage)
		require.LessOrEqual(t, chapters[i-1].StartPage, chapters[i-1].EndPage)
	}
}

func TestApplyEvenPageBridgingExtendsUnlessNextChapterStarts(t *testing.T) {
	chapters := []Chapter{
		{OrderIndex: 0, StartPage: 5, EndPage: 7},
		{OrderIndex: 1, StartPage: 8, EndPage: 11},
	}
	applyEvenPageBridging(chapters, 20)
	require.Equal(t, 7, chapters[0].EndPage, "bridging is skipped because page 8 is the next chapter's start")
	require.Equal(t, 12, chapters[1].EndPage, "page 12 bridges in because it is not claimed by a following chapter")
}

func TestApplyEvenPageBridgingDoesNotExceedBodyEnd(t *testing.T) {
	chapters := []Chapter{{OrderIndex: 0, StartPage: 5, EndPage: 9}}
	applyEvenPageBridging(chapters, 9)
	require.Equal(t, 9, chapters[0].EndPage)
}

func TestAssignTitlesFillsDefaultWhenMissing(t *testing.T) {
	chapters := []Chapter{{Number: 3}}
	assignTitles(chapters)
	require.Equal(t, "제3장", chapters[0].Title)
}

func TestAssignTitlesPreservesExplicitTitle(t *testing.T) {
	chapters := []Chapter{{Number: 1, Title: "Introduction"}}
	assignTitles(chapters)
	require.Equal(t, "Introduction", chapters[0].Title)
}
