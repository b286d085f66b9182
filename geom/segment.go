package geom

import "math"

// Segment is an ordered pair of 2D points. Intersection treats it as
// unoriented; the Voronoi stage cares about the side.
type Segment struct {
	A, B Vec2
}

func (s Segment) Dir() Vec2 {
	return s.B.Sub(s.A)
}

func (s Segment) Length() float64 {
	return s.Dir().Len()
}

func (s Segment) Mid() Vec2 {
	return s.A.Add(s.B).Mul(0.5)
}

// At evaluates the segment at parameter t, with t in [0, 1] on the
// segment proper.
func (s Segment) At(t float64) Vec2 {
	return s.A.Add(s.Dir().Mul(t))
}

// ProjectLine drops pt onto the line through origin with unit direction
// dir. Returns the projected point, the distance from pt to it and the
// line parameter of the projection.
func ProjectLine(pt, origin, dir Vec2) (proj Vec2, dist, param float64) {
	param = pt.Sub(origin).Dot(dir)
	proj = origin.Add(dir.Mul(param))
	dist = pt.Sub(proj).Len()
	return proj, dist, param
}

// DistPointSegment is the distance from pt to the closest point of s.
func DistPointSegment(pt Vec2, s Segment) float64 {
	d := s.Dir()
	l2 := d.Dot(d)
	if l2 == 0 {
		return pt.Sub(s.A).Len()
	}
	t := pt.Sub(s.A).Dot(d) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return pt.Sub(s.At(t)).Len()
}

// DistPointLine is the perpendicular distance from pt to the supporting
// line of s.
func DistPointLine(pt Vec2, s Segment) float64 {
	d := s.Dir()
	l := d.Len()
	if l == 0 {
		return pt.Sub(s.A).Len()
	}
	return math.Abs(Cross(d, pt.Sub(s.A))) / l
}

// IntersectLines intersects the lines through (p1a, p1b) and (p2a, p2b).
// With segmentsOnly both parameters must fall into [0, 1] up to eps.
// Parallel lines do not intersect, coincident ones neither (the sweep
// handles collinear overlap separately).
func IntersectLines(p1a, p1b, p2a, p2b Vec2, segmentsOnly bool, eps float64) (Vec2, bool) {
	d1 := p1b.Sub(p1a)
	d2 := p2b.Sub(p2a)
	denom := Cross(d1, d2)
	if math.Abs(denom) < eps*eps {
		return Vec2{}, false
	}
	diff := p2a.Sub(p1a)
	t1 := Cross(diff, d2) / denom
	t2 := Cross(diff, d1) / denom
	if segmentsOnly {
		if t1 < -eps || t1 > 1+eps || t2 < -eps || t2 > 1+eps {
			return Vec2{}, false
		}
	}
	return p1a.Add(d1.Mul(t1)), true
}

// IntersectRaySegment shoots a ray from origin along dir and intersects
// it with s. Returns the ray parameter (>= 0) and the segment parameter
// in [0, 1).
func IntersectRaySegment(origin, dir Vec2, s Segment, eps float64) (tRay, tSeg float64, ok bool) {
	d2 := s.Dir()
	denom := Cross(dir, d2)
	if math.Abs(denom) < eps*eps {
		return 0, 0, false
	}
	diff := s.A.Sub(origin)
	tRay = Cross(diff, d2) / denom
	tSeg = Cross(diff, dir) / denom
	if tRay < eps || tSeg < -eps || tSeg >= 1-eps {
		return 0, 0, false
	}
	if tSeg < 0 {
		tSeg = 0
	}
	return tRay, tSeg, true
}
