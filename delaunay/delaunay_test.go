package delaunay

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastools/tasplan/geom"
)

const eps = 1e-9

var variants = map[string]func([]geom.Vec2, float64) *Triangulation{
	"lifted":    Lifted,
	"iterative": Iterative,
	"parabolic": Parabolic,
}

func square() []geom.Vec2 {
	return []geom.Vec2{geom.V(0, 0), geom.V(1, 0), geom.V(1, 1), geom.V(0, 1)}
}

func TestSquare(t *testing.T) {
	for name, variant := range variants {
		t.Run(name, func(t *testing.T) {
			tri := variant(square(), eps)
			require.Len(t, tri.Triangles, 2, "a square splits into two triangles")

			// both triangles share one diagonal, so their circumcentres
			// coincide in the square's centre
			for _, c := range tri.Circumcentres {
				assert.InDelta(t, 0.5, c[0], 1e-6)
				assert.InDelta(t, 0.5, c[1], 1e-6)
			}

			// each triangle's only neighbour is the other one
			require.Len(t, tri.Neighbours, 2)
			assert.Equal(t, []int{1}, tri.Neighbours[0])
			assert.Equal(t, []int{0}, tri.Neighbours[1])
		})
	}
}

func TestDelaunayProperty(t *testing.T) {
	sets := [][]geom.Vec2{
		{geom.V(0, 0), geom.V(3, 0), geom.V(1.5, 2.5), geom.V(1.5, 0.8)},
		{geom.V(0, 0), geom.V(4, 0), geom.V(5, 3), geom.V(2, 5), geom.V(-1, 3), geom.V(2, 2)},
		{geom.V(0.3, 0.1), geom.V(2.7, 0.4), geom.V(1.9, 2.2), geom.V(0.2, 1.8), geom.V(1.2, 1.1), geom.V(3.4, 1.9)},
	}
	for i, pts := range sets {
		for name, variant := range variants {
			t.Run(fmt.Sprintf("%s/set%d", name, i), func(t *testing.T) {
				tri := variant(pts, eps)
				require.NotEmpty(t, tri.Triangles)
				assert.True(t, tri.Check(1e-6),
					"no point may lie inside a circumcircle")
				assertCCW(t, tri)
			})
		}
	}
}

func TestRetriangulationIsIdempotent(t *testing.T) {
	pts := []geom.Vec2{
		geom.V(0, 0), geom.V(4, 0), geom.V(5, 3), geom.V(2, 5), geom.V(-1, 3), geom.V(2, 2),
	}
	for name, variant := range variants {
		t.Run(name, func(t *testing.T) {
			first := variant(pts, eps)
			second := variant(first.Points, eps)
			assert.Equal(t, len(first.Triangles), len(second.Triangles))
			assert.InDelta(t, totalArea(first), totalArea(second), 1e-6)
		})
	}
}

func TestBoundaryCases(t *testing.T) {
	for name, variant := range variants {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, variant(nil, eps).Triangles)
			assert.Empty(t, variant([]geom.Vec2{geom.V(0, 0)}, eps).Triangles)
			assert.Empty(t, variant([]geom.Vec2{geom.V(0, 0), geom.V(1, 0)}, eps).Triangles)

			single := variant([]geom.Vec2{geom.V(0, 0), geom.V(1, 0), geom.V(0, 1)}, eps)
			assert.Len(t, single.Triangles, 1)
			assert.Empty(t, single.Neighbours[0])

			// collinear input has no triangulation
			collinear := variant([]geom.Vec2{geom.V(0, 0), geom.V(1, 1), geom.V(2, 2)}, eps)
			assert.Empty(t, collinear.Triangles)

			// duplicates collapse first
			dup := variant([]geom.Vec2{geom.V(0, 0), geom.V(0, 0), geom.V(1, 0), geom.V(0, 1)}, eps)
			assert.Len(t, dup.Triangles, 1)
		})
	}
}

func assertCCW(t *testing.T, tri *Triangulation) {
	t.Helper()
	for _, tr := range tri.Triangles {
		a, b, c := tri.Points[tr[0]], tri.Points[tr[1]], tri.Points[tr[2]]
		assert.Greater(t, orient(a, b, c), 0.0, "triangles are CCW")
	}
}

func totalArea(tri *Triangulation) float64 {
	sum := 0.0
	for _, tr := range tri.Triangles {
		a, b, c := tri.Points[tr[0]], tri.Points[tr[1]], tri.Points[tr[2]]
		sum += orient(a, b, c) / 2
	}
	return sum
}
