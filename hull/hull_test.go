package hull

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastools/tasplan/geom"
)

const eps = 1e-9

var algorithms = map[string]func([]geom.Vec2, float64) []geom.Vec2{
	"recursive": Recursive,
	"iterative": Iterative,
	"contour":   Contour,
}

func TestSquareWithCentroid(t *testing.T) {
	pts := []geom.Vec2{
		geom.V(0, 0), geom.V(1, 0), geom.V(1, 1), geom.V(0, 1),
		geom.V(0.5, 0.5),
	}
	want := []geom.Vec2{geom.V(0, 0), geom.V(0, 1), geom.V(1, 1), geom.V(1, 0)}

	for name, algo := range algorithms {
		t.Run(name, func(t *testing.T) {
			h := algo(pts, eps)
			require.Len(t, h, 4, "the centroid must be excluded")
			assertSameHull(t, want, h)
		})
	}
}

func TestAlgorithmsAgree(t *testing.T) {
	sets := [][]geom.Vec2{
		{geom.V(0, 0), geom.V(3, 1), geom.V(1, 4), geom.V(-2, 2), geom.V(1, 1), geom.V(2, 2)},
		{geom.V(0, 0), geom.V(5, 0), geom.V(5, 5), geom.V(0, 5), geom.V(2, 1), geom.V(3, 4), geom.V(1, 2)},
		{geom.V(-3, 0), geom.V(0, -3), geom.V(3, 0), geom.V(0, 3), geom.V(1, 1), geom.V(-1, -1), geom.V(2, -1)},
		{geom.V(0.1, 0.7), geom.V(2.3, 1.9), geom.V(-1.2, 0.4), geom.V(0.9, -2.1), geom.V(1.5, 2.8), geom.V(-0.7, 1.3), geom.V(0.2, 0.1)},
	}
	for i, pts := range sets {
		t.Run(fmt.Sprintf("set%d", i), func(t *testing.T) {
			reference := Contour(pts, eps)
			require.GreaterOrEqual(t, len(reference), 3)
			for name, algo := range algorithms {
				assertSameHull(t, reference, algo(pts, eps), "algorithm %s", name)
			}
		})
	}
}

func TestHullProperties(t *testing.T) {
	pts := []geom.Vec2{
		geom.V(0, 0), geom.V(4, 1), geom.V(2, 5), geom.V(-1, 3),
		geom.V(1, 2), geom.V(2, 2), geom.V(3, 2), geom.V(1, 1),
	}
	for name, algo := range algorithms {
		t.Run(name, func(t *testing.T) {
			h := algo(pts, eps)
			require.GreaterOrEqual(t, len(h), 3)

			// the hull winds counter-clockwise
			assert.True(t, geom.Polygon(h).IsCCW())

			// every non-hull input point lies inside
			for _, p := range pts {
				if containsPoint(h, p) {
					continue
				}
				assert.True(t, geom.Polygon(h).Contains(p, eps),
					"point %v must be inside the hull", p)
			}

			// every hull vertex is an input point
			for _, v := range h {
				assert.True(t, containsPoint(pts, v))
			}
		})
	}
}

func TestHullOfHullIsIdempotent(t *testing.T) {
	pts := []geom.Vec2{
		geom.V(0, 0), geom.V(4, 1), geom.V(2, 5), geom.V(-1, 3), geom.V(1, 2),
	}
	for name, algo := range algorithms {
		t.Run(name, func(t *testing.T) {
			h := algo(pts, eps)
			again := algo(h, eps)
			assertSameHull(t, h, again)
		})
	}
}

func TestBoundaryCases(t *testing.T) {
	for name, algo := range algorithms {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, algo(nil, eps))
			assert.Len(t, algo([]geom.Vec2{geom.V(1, 2)}, eps), 1)
			assert.Len(t, algo([]geom.Vec2{geom.V(1, 2), geom.V(3, 4)}, eps), 2)

			// collinear points reduce to the two extremes
			collinear := []geom.Vec2{geom.V(0, 0), geom.V(1, 1), geom.V(2, 2), geom.V(3, 3)}
			h := algo(collinear, eps)
			assert.Len(t, h, 2)
			assert.True(t, containsPoint(h, geom.V(0, 0)))
			assert.True(t, containsPoint(h, geom.V(3, 3)))

			// duplicates are dropped before hulling
			dup := []geom.Vec2{geom.V(0, 0), geom.V(0, 0), geom.V(1, 0), geom.V(0, 1), geom.V(1, 0)}
			assert.Len(t, algo(dup, eps), 3)
		})
	}
}

// assertSameHull compares two hulls as vertex sets; rotation of the
// starting vertex does not matter.
func assertSameHull(t *testing.T, want, got []geom.Vec2, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, len(want), len(got), msgAndArgs...)
	for _, w := range want {
		assert.True(t, containsPoint(got, w), "hull misses vertex %v", w)
	}
}

func containsPoint(pts []geom.Vec2, p geom.Vec2) bool {
	for _, q := range pts {
		if geom.VecEqual(q, p, 1e-6) {
			return true
		}
	}
	return false
}
