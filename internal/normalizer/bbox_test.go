package normalizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bluecalif/bookforge/internal/digitization"
)

func TestComputeBBoxReturnsMinimumBoundingRectangle(t *testing.T) {
	polygon := []digitization.Point{
		{X: 0.2, Y: 0.3},
		{X: 0.5, Y: 0.1},
		{X: 0.4, Y: 0.6},
	}
	box := computeBBox(polygon)
	require.Equal(t, BBox{X0: 0.2, Y0: 0.1, X1: 0.5, Y1: 0.6}, box)
}

func TestComputeBBoxEmptyPolygonYieldsZeroValue(t *testing.T) {
	require.Equal(t, BBox{}, computeBBox(nil))
}
