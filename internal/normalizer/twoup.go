package normalizer

import "sort"

// centerline is the normalized x-axis split point between a two-up scan's
// left and right logical pages.
const centerline = 0.5

// splitTwoUp partitions a physical page's elements into left and right
// logical pages by bbox.x0 against centerline. A physical page with all
// elements on one side yields an empty slice for the other, so the caller emits
// exactly one logical page for it.
func splitTwoUp(elements []Element) (left, right []Element) {
	for _, el := range elements {
		if el.BBox.X0 < centerline {
			left = append(left, el)
		} else {
			right = append(right, el)
		}
	}
	return left, right
}

// sortReadingOrder orders elements by (y0, x0) to yield reading order
// within a logical page.
func sortReadingOrder(elements []Element) {
	sort.SliceStable(elements, func(i, j int) bool {
		a, b := elements[i].BBox, elements[j].BBox
		if a.Y0 != b.Y0 {
			return a.Y0 < b.Y0
		}
		return a.X0 < b.X0
	})
}
