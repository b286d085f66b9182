package intersect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastools/tasplan/geom"
)

const eps = 1e-9

func seg(x1, y1, x2, y2 float64) geom.Segment {
	return geom.Segment{A: geom.V(x1, y1), B: geom.V(x2, y2)}
}

func TestSingleCrossing(t *testing.T) {
	segs := []geom.Segment{
		seg(0, 0, 2, 2),
		seg(0, 2, 2, 0),
	}
	for name, algo := range map[string]func([]geom.Segment, float64) []Intersection{
		"naive": Naive, "sweep": Sweep,
	} {
		t.Run(name, func(t *testing.T) {
			xs := algo(segs, eps)
			require.Len(t, xs, 1)
			assert.Equal(t, 0, xs[0].I)
			assert.Equal(t, 1, xs[0].J)
			assert.InDelta(t, 1, xs[0].P[0], 1e-6)
			assert.InDelta(t, 1, xs[0].P[1], 1e-6)
		})
	}
}

func TestNoCrossing(t *testing.T) {
	segs := []geom.Segment{
		seg(0, 0, 1, 0),
		seg(0, 1, 1, 1),
		seg(3, 3, 4, 4),
	}
	assert.Empty(t, Naive(segs, eps))
	assert.Empty(t, Sweep(segs, eps))
}

func TestImplementationsAgree(t *testing.T) {
	sets := [][]geom.Segment{
		{
			seg(0, 0, 4, 4), seg(0, 4, 4, 0), seg(1, 0, 1, 4), seg(0, 2.5, 4, 2.5),
		},
		{
			seg(0, 1, 6, 1.5), seg(1, 0, 1.2, 5), seg(2, 0, 2.5, 5),
			seg(0, 3, 6, 2.2), seg(5, 0, 4.2, 5),
		},
		{
			seg(0, 0, 10, 0.5), seg(5, -3, 5.2, 3),
		},
	}
	for _, segs := range sets {
		naive := Naive(segs, eps)
		sweep := Sweep(segs, eps)
		require.Equal(t, len(naive), len(sweep))
		for i := range naive {
			assert.Equal(t, naive[i].I, sweep[i].I)
			assert.Equal(t, naive[i].J, sweep[i].J)
			assert.InDelta(t, naive[i].P[0], sweep[i].P[0], 1e-5)
			assert.InDelta(t, naive[i].P[1], sweep[i].P[1], 1e-5)
		}
	}
}

func TestCollinearOverlapSharedEndpoint(t *testing.T) {
	// collinear segments sharing one endpoint report it once
	segs := []geom.Segment{
		seg(0, 0, 2, 0),
		seg(2, 0, 4, 0),
	}
	for name, algo := range map[string]func([]geom.Segment, float64) []Intersection{
		"naive": Naive, "sweep": Sweep,
	} {
		t.Run(name, func(t *testing.T) {
			xs := algo(segs, eps)
			require.Len(t, xs, 1)
			assert.InDelta(t, 2, xs[0].P[0], 1e-6)
			assert.InDelta(t, 0, xs[0].P[1], 1e-6)
		})
	}
}
