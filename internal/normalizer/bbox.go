package normalizer

import "github.com/bluecalif/bookforge/internal/digitization"

// computeBBox returns the axis-aligned minimum bounding rectangle of
// polygon in the normalized [0,1]^2 space. An empty polygon
// yields the zero-value BBox.
func computeBBox(polygon []digitization.Point) BBox {
	if len(polygon) == 0 {
		return BBox{}
	}

	box := BBox{X0: polygon[0].X, Y0: polygon[0].Y, X1: polygon[0].X, Y1: polygon[0].Y}
	for _, p := range polygon[1:] {
		if p.X < box.X0 {
			box.X0 = p.X
		}
		if p.X > box.X1 {
			box.X1 = p.X
		}
		if p.Y < box.Y0 {
			box.Y0 = p.Y
		}
		if p.Y > box.Y1 {
			box.Y1 = p.Y
		}
	}
	return box
}
