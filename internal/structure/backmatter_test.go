package structure

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bluecalif/bookforge/internal/normalizer"
)

func TestDetectBackMatterStartFindsFirstKeywordHit(t *testing.T) {
	pages := []normalizer.NormalizedPage{
		footerPage(5, "", 0, "body"),
		footerPage(6, "", 0, "body"),
		footerPage(7, "", 0, "body"),
		footerPage(9, "Bibliography", 0.3, "back matter starts"),
	}
	start := detectBackMatterStart(pages, 5)
	require.Equal(t, 9, start)
}

func TestDetectBackMatterStartAbsentRunsToLastPage(t *testing.T) {
	pages := []normalizer.NormalizedPage{
		footerPage(5, "", 0, "body"),
		footerPage(7, "", 0, "body"),
		footerPage(9, "", 0, "body"),
	}
	start := detectBackMatterStart(pages, 5)
	require.Equal(t, 10, start, "absent back matter must report one past the last page")
}

func TestDetectBackMatterStartIgnoresEvenPages(t *testing.T) {
	pages := []normalizer.NormalizedPage{
		footerPage(5, "", 0, "body"),
		footerPage(6, "Appendix", 0.3, "even page hit must be ignored"),
		footerPage(7, "", 0, "body"),
	}
	start := detectBackMatterStart(pages, 5)
	require.Equal(t, 8, start)
}

func TestDetectBackMatterStartScansFromHalfwayPointWhenLaterThanBodyStart(t *testing.T) {
	var pages []normalizer.NormalizedPage
	for i := 1; i <= 19; i += 2 {
		pages = append(pages, footerPage(i, "", 0, "body"))
	}
	// A spurious keyword hit before the halfway point must be ignored.
	pages[1] = footerPage(pages[1].PageNumber, "index", 0.3, "body")

	start := detectBackMatterStart(pages, 3)
	require.NotEqual(t, pages[1].PageNumber, start, "a hit before the scan window must not trigger back matter")
}
