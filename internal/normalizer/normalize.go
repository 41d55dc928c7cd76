package normalizer

import "github.com/bluecalif/bookforge/internal/digitization"

// Normalize transforms a digitization response's raw elements into
// logical, reading-order pages: text extraction, font-size recovery,
// bbox computation, two-up splitting at the page centerline, and
// renumbering from 1.
func Normalize(resp digitization.Response) []NormalizedPage {
	byPage := groupByPage(resp.Elements)

	pageNumbers := make([]int, 0, len(byPage))
	for pn := range byPage {
		pageNumbers = append(pageNumbers, pn)
	}
	sortInts(pageNumbers)

	var pages []NormalizedPage
	for _, physicalPage := range pageNumbers {
		elements := normalizeElements(byPage[physicalPage])
		left, right := splitTwoUp(elements)

		switch {
		case len(left) == 0:
			pages = append(pages, buildPage(right, physicalPage))
		case len(right) == 0:
			pages = append(pages, buildPage(left, physicalPage))
		default:
			pages = append(pages, buildPage(left, physicalPage))
			pages = append(pages, buildPage(right, physicalPage))
		}
	}

	for i := range pages {
		pages[i].PageNumber = i + 1
	}
	return pages
}

func normalizeElements(raw []digitization.Element) []Element {
	out := make([]Element, 0, len(raw))
	for _, el := range raw {
		out = append(out, Element{
			ID:         el.ID,
			SourcePage: el.Page,
			Category:   el.Category,
			Text:       stripHTML(el.HTML),
			FontSize:   extractFontSize(el.HTML),
			BBox:       computeBBox(el.Polygon),
		})
	}
	return out
}

func buildPage(elements []Element, sourcePage int) NormalizedPage {
	sortReadingOrder(elements)
	return NormalizedPage{
		SourcePage:        sourcePage,
		Elements:          elements,
		RawText:           joinText(elements),
		NormalizerVersion: version,
	}
}

func joinText(elements []Element) string {
	if len(elements) == 0 {
		return ""
	}
	total := 0
	for _, el := range elements {
		total += len(el.Text) + 1
	}
	b := make([]byte, 0, total)
	for i, el := range elements {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, el.Text...)
	}
	return string(b)
}

func groupByPage(elements []digitization.Element) map[int][]digitization.Element {
	grouped := make(map[int][]digitization.Element)
	for _, el := range elements {
		grouped[el.Page] = append(grouped[el.Page], el)
	}
	return grouped
}

func sortInts(nums []int) {
	for i := 1; i < len(nums); i++ {
		for j := i; j > 0 && nums[j-1] > nums[j]; j-- {
			nums[j-1], nums[j] = nums[j], nums[j-1]
		}
	}
}
