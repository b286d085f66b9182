package contour

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastools/tasplan/configspace"
	"github.com/tastools/tasplan/geom"
)

const eps = 1e-9

func rasterWithRect(w, h, x0, y0, x1, y1 int, id uint8) *configspace.Raster {
	r := configspace.NewRaster(w, h)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			r.Set(x, y, id)
		}
	}
	return r
}

func TestTraceRectangle(t *testing.T) {
	r := rasterWithRect(16, 16, 4, 5, 9, 11, 1)
	contours := Trace(r)
	require.Len(t, contours, 1)

	c := contours[0]
	assert.Equal(t, uint8(1), c.ID)
	assert.True(t, c.Points.IsCCW())

	// the boundary stays on the rectangle edge
	for _, p := range c.Points {
		onX := p[0] == 4 || p[0] == 9
		onY := p[1] == 5 || p[1] == 11
		assert.True(t, onX || onY, "vertex %v must lie on the boundary", p)
	}

	// simplification reduces the pixel chain to the four corners
	simplified := Simplify(c.Points, 3, geom.EpsAngular, eps)
	assert.Len(t, simplified, 4)
}

func TestTraceTwoRegions(t *testing.T) {
	r := rasterWithRect(20, 20, 2, 2, 5, 5, 1)
	for y := 10; y <= 14; y++ {
		for x := 12; x <= 17; x++ {
			r.Set(x, y, 2)
		}
	}
	contours := Trace(r)
	require.Len(t, contours, 2)
	ids := []uint8{contours[0].ID, contours[1].ID}
	assert.Contains(t, ids, uint8(1))
	assert.Contains(t, ids, uint8(2))
}

func TestTraceSinglePixel(t *testing.T) {
	r := configspace.NewRaster(8, 8)
	r.Set(3, 3, 7)
	contours := Trace(r)
	require.Len(t, contours, 1)
	assert.Len(t, contours[0].Points, 1)
}

func TestSimplifyDropsCollinear(t *testing.T) {
	poly := geom.Polygon{
		geom.V(0, 0), geom.V(1, 0), geom.V(2, 0), geom.V(3, 0),
		geom.V(3, 3), geom.V(0, 3),
	}
	out := Simplify(poly, 0.5, geom.EpsAngular, eps)
	assert.Len(t, out, 4)
}

func TestSimplifyRemovesStaircase(t *testing.T) {
	// a 45-degree edge rasterised as one-cell steps
	poly := geom.Polygon{
		geom.V(0, 0), geom.V(4, 0), geom.V(4, 1),
		geom.V(3, 1), geom.V(3, 2),
		geom.V(2, 2), geom.V(2, 3),
		geom.V(1, 3), geom.V(1, 4), geom.V(0, 4),
	}
	out := Simplify(poly, 3, 0.05, eps)
	assert.Less(t, len(out), len(poly))
}

func TestConvexSplitLShape(t *testing.T) {
	l := geom.Polygon{
		geom.V(0, 0), geom.V(4, 0), geom.V(4, 2),
		geom.V(2, 2), geom.V(2, 4), geom.V(0, 4),
	}
	require.True(t, l.IsCCW())

	parts := ConvexSplit(l, eps)
	require.NotEmpty(t, parts)

	totalArea := 0.0
	for _, p := range parts {
		require.GreaterOrEqual(t, len(p), 3)
		assert.True(t, p.IsConvex(1e-6), "split part %v must be convex", p)
		totalArea += math.Abs(p.SignedArea())
	}
	assert.InDelta(t, math.Abs(l.SignedArea()), totalArea, 1e-6,
		"the split parts cover the input polygon")
}

func TestConvexSplitNearestCrossing(t *testing.T) {
	// the extension of the first reflex corner's incoming edge crosses
	// three edges here; the cut must run to the nearest crossing (6,5),
	// not to the first crossed edge in traversal order (the wall at
	// x=10), which would slice through the upper notch void
	poly := geom.Polygon{
		geom.V(0, 8), geom.V(0, 5), geom.V(2, 5), geom.V(2, 4),
		geom.V(0, 4), geom.V(0, 0), geom.V(10, 0), geom.V(10, 8),
		geom.V(8, 8), geom.V(8, 2), geom.V(6, 2), geom.V(6, 8),
	}
	require.True(t, poly.IsCCW())

	parts := ConvexSplit(poly, eps)
	require.NotEmpty(t, parts)

	total := 0.0
	for _, p := range parts {
		require.GreaterOrEqual(t, len(p), 3)
		assert.True(t, p.IsConvex(1e-6), "split part %v must be convex", p)
		total += math.Abs(p.SignedArea())
	}
	assert.InDelta(t, math.Abs(poly.SignedArea()), total, 1e-6,
		"the split parts cover the input polygon exactly")

	// the literal hit point ends up as a vertex of the split
	foundHit := false
	for _, p := range parts {
		for _, v := range p {
			if geom.VecEqual(v, geom.V(6, 5), 1e-9) {
				foundHit = true
			}
		}
	}
	assert.True(t, foundHit, "expected the chord to end at (6,5)")
}

func TestConvexSplitConvexInputUnchanged(t *testing.T) {
	square := geom.Polygon{geom.V(0, 0), geom.V(2, 0), geom.V(2, 2), geom.V(0, 2)}
	assert.Nil(t, ConvexSplit(square, eps))

	tri := geom.Polygon{geom.V(0, 0), geom.V(2, 0), geom.V(1, 2)}
	assert.Nil(t, ConvexSplit(tri, eps))
}

func TestConvexSplitTinyPolygonsDiscarded(t *testing.T) {
	assert.Nil(t, ConvexSplit(geom.Polygon{geom.V(0, 0), geom.V(1, 0)}, eps))
	assert.Nil(t, ConvexSplit(nil, eps))
}
