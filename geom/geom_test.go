package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircularIndex(t *testing.T) {
	n := 3
	expected := []int{0, 1, 2, 0, 1, 2, 0, 1, 2}
	for i := -3; i < 6; i++ {
		assert.Equal(t, expected[i+3], CircularIndex(i, n))
	}
}

func TestModPos(t *testing.T) {
	assert.InDelta(t, 1.5, ModPos(1.5, 2*math.Pi), Eps)
	assert.InDelta(t, 2*math.Pi-1, ModPos(-1, 2*math.Pi), Eps)
	assert.InDelta(t, 0.5, ModPos(2*math.Pi+0.5, 2*math.Pi), Eps)
}

func TestTurnAngle(t *testing.T) {
	// straight continuation turns by zero
	assert.InDelta(t, 0,
		TurnAngle(V(0, 0), V(1, 0), V(1, 0), V(2, 0)), Eps)
	// left turn by 90 degrees
	assert.InDelta(t, math.Pi/2,
		TurnAngle(V(0, 0), V(1, 0), V(1, 0), V(1, 1)), Eps)
	// right turn by 90 degrees
	assert.InDelta(t, -math.Pi/2,
		TurnAngle(V(0, 0), V(1, 0), V(1, 0), V(1, -1)), Eps)
}

func TestPolygonSignedArea(t *testing.T) {
	square := Polygon{V(0, 0), V(1, 0), V(1, 1), V(0, 1)}
	assert.InDelta(t, 1.0, square.SignedArea(), Eps)
	assert.True(t, square.IsCCW())

	cw := square.Reverse()
	assert.InDelta(t, -1.0, cw.SignedArea(), Eps)
	assert.False(t, cw.IsCCW())
}

func TestPolygonContains(t *testing.T) {
	square := Polygon{V(0, 0), V(4, 0), V(4, 4), V(0, 4)}
	assert.True(t, square.Contains(V(2, 2), Eps))
	assert.False(t, square.Contains(V(5, 2), Eps))
	assert.False(t, square.Contains(V(-1, -1), Eps))
	// boundary points are not strictly inside
	assert.False(t, square.Contains(V(0, 2), Eps))
}

func TestPolygonIsConvex(t *testing.T) {
	square := Polygon{V(0, 0), V(4, 0), V(4, 4), V(0, 4)}
	assert.True(t, square.IsConvex(Eps))

	lShape := Polygon{V(0, 0), V(4, 0), V(4, 2), V(2, 2), V(2, 4), V(0, 4)}
	assert.False(t, lShape.IsConvex(Eps))
}

func TestIntersectLines(t *testing.T) {
	p, ok := IntersectLines(V(0, 0), V(2, 2), V(0, 2), V(2, 0), true, Eps)
	assert.True(t, ok)
	assert.InDelta(t, 1, p[0], Eps)
	assert.InDelta(t, 1, p[1], Eps)

	// parallel lines never intersect
	_, ok = IntersectLines(V(0, 0), V(1, 0), V(0, 1), V(1, 1), false, Eps)
	assert.False(t, ok)

	// crossing lines whose segments do not touch
	_, ok = IntersectLines(V(0, 0), V(1, 0), V(5, -1), V(5, 1), true, Eps)
	assert.False(t, ok)
}

func TestDistPointSegment(t *testing.T) {
	s := Segment{V(0, 0), V(2, 0)}
	assert.InDelta(t, 1, DistPointSegment(V(1, 1), s), Eps)
	// beyond an endpoint the distance goes to that endpoint
	assert.InDelta(t, math.Sqrt(2), DistPointSegment(V(3, 1), s), Eps)
}

func TestProjectLine(t *testing.T) {
	proj, dist, param := ProjectLine(V(1, 1), V(0, 0), V(1, 0))
	assert.InDelta(t, 1, proj[0], Eps)
	assert.InDelta(t, 0, proj[1], Eps)
	assert.InDelta(t, 1, dist, Eps)
	assert.InDelta(t, 1, param, Eps)
}

func TestDedupPoints(t *testing.T) {
	pts := []Vec2{V(0, 0), V(1, 0), V(0, 0), V(1, 0.0000001)}
	out := DedupPoints(pts, 1e-5)
	assert.Len(t, out, 2)
}

func TestPoseAt(t *testing.T) {
	// rotate a point by 90 degrees about the origin
	m := PoseAt(V(0, 0), math.Pi/2, V(0, 0))
	p := TransformVec(m, V(1, 0))
	assert.InDelta(t, 0, p[0], Eps)
	assert.InDelta(t, 1, p[1], Eps)
}
