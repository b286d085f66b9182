package geom

import "math"

// Polygon is a finite vertex sequence interpreted as a closed loop; the
// last vertex connects implicitly back to the first.
type Polygon []Vec2

// SignedArea is positive for counter-clockwise winding.
func (p Polygon) SignedArea() float64 {
	area := 0.0
	n := len(p)
	for i := 0; i < n; i++ {
		j := CircularIndex(i+1, n)
		area += Cross(p[i], p[j])
	}
	return area / 2
}

func (p Polygon) IsCCW() bool {
	return p.SignedArea() > 0
}

// Reverse returns the polygon with opposite winding.
func (p Polygon) Reverse() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

func (p Polygon) Centroid() Vec2 {
	var c Vec2
	if len(p) == 0 {
		return c
	}
	for _, v := range p {
		c = c.Add(v)
	}
	return c.Mul(1 / float64(len(p)))
}

// Contains tests whether pt lies strictly inside the polygon, by the
// even-odd ray crossing rule. Points on the boundary (within eps) are
// not inside.
func (p Polygon) Contains(pt Vec2, eps float64) bool {
	n := len(p)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		if DistPointSegment(pt, Segment{p[i], p[CircularIndex(i+1, n)]}) < eps {
			return false
		}
	}
	inside := false
	for i := 0; i < n; i++ {
		a := p[i]
		b := p[CircularIndex(i+1, n)]
		if (a[1] > pt[1]) != (b[1] > pt[1]) {
			x := a[0] + (pt[1]-a[1])/(b[1]-a[1])*(b[0]-a[0])
			if pt[0] < x {
				inside = !inside
			}
		}
	}
	return inside
}

// IsConvex reports whether every turn of the (CCW) polygon is a left
// turn up to eps.
func (p Polygon) IsConvex(eps float64) bool {
	n := len(p)
	if n < 4 {
		return true
	}
	for i := 0; i < n; i++ {
		a := p[i]
		b := p[CircularIndex(i+1, n)]
		c := p[CircularIndex(i+2, n)]
		if Cross(b.Sub(a), c.Sub(b)) < -eps {
			return false
		}
	}
	return true
}

// Segments cuts the closed loop into its edges.
func (p Polygon) Segments() []Segment {
	segs := make([]Segment, 0, len(p))
	for i := range p {
		segs = append(segs, Segment{p[i], p[CircularIndex(i+1, len(p))]})
	}
	return segs
}

// DedupPoints drops points that coincide within eps with an already kept
// one. Order is preserved.
func DedupPoints(pts []Vec2, eps float64) []Vec2 {
	out := make([]Vec2, 0, len(pts))
	for _, p := range pts {
		dup := false
		for _, q := range out {
			if VecEqual(p, q, eps) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the points.
func Bounds(pts []Vec2) (min, max Vec2) {
	min = Vec2{math.Inf(1), math.Inf(1)}
	max = Vec2{math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		min[0] = math.Min(min[0], p[0])
		min[1] = math.Min(min[1], p[1])
		max[0] = math.Max(max[0], p[0])
		max[1] = math.Max(max[1], p[1])
	}
	return min, max
}
