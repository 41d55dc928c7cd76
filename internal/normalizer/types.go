// Package normalizer deterministically transforms digitization elements
// into a page-indexed normalized stream: text extraction, font-size
// recovery, bounding-box computation, and two-up page splitting
// .
package normalizer

// version is exposed on every NormalizedPage so downstream consumers can
// tell which revision of the normalization algorithm produced it, without
// that revision forcing cache invalidation on its own ( open
// question: normalizer versioning does not invalidate existing cache
// entries by itself).
const version = "v1"

// BBox is an axis-aligned bounding rectangle in the normalized [0,1]^2
// space.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Element is one normalized layout element: recovered plain text, font
// size, and bounding box, still attributed to its physical source page.
type Element struct {
	ID         int
	SourcePage int // the physical page this element was reported on
	Category   string
	Text       string
	FontSize   int
	BBox       BBox
}

// NormalizedPage is one logical page of the normalized stream: ordered,
// reading-order elements plus their whitespace-joined raw text.
type NormalizedPage struct {
	PageNumber        int // renumbered from 1 across the logical stream
	SourcePage        int // the physical page this logical page was split from
	Elements          []Element
	RawText           string
	NormalizerVersion string
}
