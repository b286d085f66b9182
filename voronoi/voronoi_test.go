package voronoi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastools/tasplan/geom"
)

const (
	eps     = 1e-9
	edgeEps = 0.05
)

func seg(x1, y1, x2, y2 float64) geom.Segment {
	return geom.Segment{A: geom.V(x1, y1), B: geom.V(x2, y2)}
}

// twoNearest returns the two smallest distances from q to the input
// segments.
func twoNearest(q geom.Vec2, segs []geom.Segment) (float64, float64) {
	d1, d2 := math.Inf(1), math.Inf(1)
	for _, s := range segs {
		d := geom.DistPointSegment(q, s)
		if d < d1 {
			d1, d2 = d, d1
		} else if d < d2 {
			d2 = d
		}
	}
	return d1, d2
}

func TestTwoParallelSegments(t *testing.T) {
	segs := []geom.Segment{
		seg(0, 0, 1, 0),
		seg(0, 2, 1, 2),
	}
	d := Calc(segs, eps, edgeEps, nil, BackendFloat)

	// a single infinite linear bisector on y=1, nothing parabolic, no
	// finite roadmap vertices
	require.Len(t, d.Linear, 1)
	assert.Empty(t, d.Parabolic)
	assert.Empty(t, d.Vertices)
	assert.Equal(t, 0, d.Graph.NumVertices())

	bis := d.Linear[0]
	assert.Equal(t, -1, bis.VertA)
	assert.Equal(t, -1, bis.VertB)
	assert.InDelta(t, 1, bis.Seg.A[1], 1e-6)
	assert.InDelta(t, 1, bis.Seg.B[1], 1e-6)
}

func TestBisectorEquidistance(t *testing.T) {
	// two square obstacles side by side
	segs := []geom.Segment{
		seg(0, 0, 2, 0), seg(2, 0, 2, 2), seg(2, 2, 0, 2), seg(0, 2, 0, 0),
		seg(5, 0, 7, 0), seg(7, 0, 7, 2), seg(7, 2, 5, 2), seg(5, 2, 5, 0),
	}
	regions := &Regions{
		GroupLines: true,
		Groups:     [][2]int{{0, 4}, {4, 8}},
	}
	d := Calc(segs, eps, edgeEps, regions, BackendFloat)
	require.NotEmpty(t, d.Linear)

	// every point of every linear bisector is equidistant from its two
	// nearest sites
	samples := 0
	for _, e := range d.Linear {
		for _, tt := range []float64{0.25, 0.5, 0.75} {
			q := e.Seg.At(tt)
			d1, d2 := twoNearest(q, segs)
			assert.InDelta(t, d1, d2, 0.1, "point %v on a linear bisector", q)
			samples++
		}
	}
	for _, e := range d.Parabolic {
		q := e.Polyline[len(e.Polyline)/2]
		d1, d2 := twoNearest(q, segs)
		assert.InDelta(t, d1, d2, 0.1, "point %v on a parabolic bisector", q)
		samples++
	}
	assert.NotZero(t, samples)
}

func TestPointBisectorBetweenSquares(t *testing.T) {
	segs := []geom.Segment{
		seg(0, 0, 2, 0), seg(2, 0, 2, 2), seg(2, 2, 0, 2), seg(0, 2, 0, 0),
		seg(5, 0, 7, 0), seg(7, 0, 7, 2), seg(7, 2, 5, 2), seg(5, 2, 5, 0),
	}
	regions := &Regions{GroupLines: true, Groups: [][2]int{{0, 4}, {4, 8}}}
	d := Calc(segs, eps, edgeEps, regions, BackendFloat)

	// the straight bisector between the facing walls runs on x=3.5
	found := false
	for _, e := range d.Linear {
		mid := e.Seg.Mid()
		if math.Abs(mid[0]-3.5) < 0.05 && mid[1] > 0 && mid[1] < 2 {
			found = true
		}
	}
	assert.True(t, found, "expected a vertical bisector at x=3.5")
}

func TestSameGroupEdgesDiscarded(t *testing.T) {
	// one square alone produces no inter-group bisectors at all
	segs := []geom.Segment{
		seg(0, 0, 2, 0), seg(2, 0, 2, 2), seg(2, 2, 0, 2), seg(0, 2, 0, 0),
	}
	regions := &Regions{GroupLines: true, Groups: [][2]int{{0, 4}}}
	d := Calc(segs, eps, edgeEps, regions, BackendFloat)
	assert.Empty(t, d.Linear)
	assert.Empty(t, d.Parabolic)
	assert.Empty(t, d.Vertices)
}

func TestSingleSegment(t *testing.T) {
	d := Calc([]geom.Segment{seg(0, 0, 1, 0)}, eps, edgeEps, nil, BackendFloat)
	assert.Empty(t, d.Linear)
	assert.Empty(t, d.Parabolic)
	assert.Empty(t, d.Vertices)
}

func TestRoadmapGraphMatchesVertices(t *testing.T) {
	segs := []geom.Segment{
		seg(0, 0, 2, 0), seg(2, 0, 2, 2), seg(2, 2, 0, 2), seg(0, 2, 0, 0),
		seg(5, 0, 7, 0), seg(7, 0, 7, 2), seg(7, 2, 5, 2), seg(5, 2, 5, 0),
		seg(2, 6, 4, 6), seg(4, 6, 4, 8), seg(4, 8, 2, 8), seg(2, 8, 2, 6),
	}
	regions := &Regions{
		GroupLines: true,
		Groups:     [][2]int{{0, 4}, {4, 8}, {8, 12}},
	}
	d := Calc(segs, eps, edgeEps, regions, BackendFloat)

	// indices correspond one to one
	assert.Equal(t, len(d.Vertices), d.Graph.NumVertices())

	// all edge references stay in range after compaction
	for _, e := range d.Linear {
		assert.Less(t, e.VertA, len(d.Vertices))
		assert.Less(t, e.VertB, len(d.Vertices))
	}
	for _, e := range d.Parabolic {
		assert.GreaterOrEqual(t, e.VertA, 0)
		assert.GreaterOrEqual(t, e.VertB, 0)
		assert.Less(t, e.VertA, len(d.Vertices))
		assert.Less(t, e.VertB, len(d.Vertices))
	}

	// graph weights are the chord lengths of their edges
	for _, e := range d.Linear {
		if e.VertA < 0 || e.VertB < 0 || e.VertA == e.VertB {
			continue
		}
		w, ok := d.Graph.Weight(e.VertA, e.VertB)
		if !ok {
			continue
		}
		assert.InDelta(t, e.Seg.Length(), w, 1e-6)
	}
}

func TestNoIsolatedVertices(t *testing.T) {
	segs := []geom.Segment{
		seg(0, 0, 2, 0), seg(2, 0, 2, 2), seg(2, 2, 0, 2), seg(0, 2, 0, 0),
		seg(5, 0, 7, 0), seg(7, 0, 7, 2), seg(7, 2, 5, 2), seg(5, 2, 5, 0),
		seg(2, 6, 4, 6), seg(4, 6, 4, 8), seg(4, 8, 2, 8), seg(2, 8, 2, 6),
	}
	groups := [][2]int{{0, 4}, {4, 8}, {8, 12}}

	t.Run("unfiltered", func(t *testing.T) {
		d := Calc(segs, eps, edgeEps, &Regions{GroupLines: true, Groups: groups}, BackendFloat)
		require.NotEmpty(t, d.Vertices)
		for i := range d.Vertices {
			assert.NotEmpty(t, d.Graph.Neighbours(i),
				"vertex %d has no incident roadmap edge", i)
		}
	})

	// a forbidden half-plane kills some edges; their surviving partner
	// endpoints must be dropped too, not left as degree-zero vertices
	t.Run("region filtered", func(t *testing.T) {
		d := Calc(segs, eps, edgeEps, &Regions{
			GroupLines:     true,
			Groups:         groups,
			RemoveVertices: true,
			RegionFunc:     func(q geom.Vec2) bool { return q[1] > 4.5 },
		}, BackendFloat)
		for i := range d.Vertices {
			assert.NotEmpty(t, d.Graph.Neighbours(i),
				"vertex %d has no incident roadmap edge", i)
		}
	})
}

func TestIntScaledBackendAgrees(t *testing.T) {
	segs := []geom.Segment{
		seg(0, 0, 2, 0), seg(2, 0, 2, 2), seg(2, 2, 0, 2), seg(0, 2, 0, 0),
		seg(5, 0, 7, 0), seg(7, 0, 7, 2), seg(7, 2, 5, 2), seg(5, 2, 5, 0),
	}
	regions := &Regions{GroupLines: true, Groups: [][2]int{{0, 4}, {4, 8}}}

	float := Calc(segs, eps, edgeEps, regions, BackendFloat)
	scaled := Calc(segs, eps, edgeEps, regions, BackendIntScaled)

	// the inputs already sit on the lattice, so both backends see the
	// same geometry
	assert.Equal(t, len(float.Vertices), len(scaled.Vertices))
	assert.Equal(t, len(float.Linear), len(scaled.Linear))
	assert.Equal(t, len(float.Parabolic), len(scaled.Parabolic))
}
