package contour

import (
	"math"

	"github.com/tastools/tasplan/geom"
)

// ConvexSplit decomposes a simple CCW polygon into convex sub-polygons:
// the incoming edge of the first reflex corner is extended until it
// first meets the contour again, the polygon is cut along the chord
// from the reflex corner to that hit point, and both halves are split
// recursively. A nil result means the polygon was already convex (or
// too small to split); sub-polygons with fewer than three vertices are
// discarded.
func ConvexSplit(poly geom.Polygon, eps float64) []geom.Polygon {
	n := len(poly)
	if n <= 3 {
		return nil
	}

	reflex := findReflex(poly, eps)
	if reflex < 0 {
		return nil
	}
	hitEdge, hit, ok := findChord(poly, reflex, eps)
	if !ok {
		return nil
	}

	// cut along the chord from the reflex corner (index reflex+1) to
	// the hit point on edge (i3, i4); a hit landing on a vertex snaps
	// to it
	s := geom.CircularIndex(reflex+1, n)
	i3 := hitEdge
	i4 := geom.CircularIndex(hitEdge+1, n)

	var poly1, poly2 geom.Polygon
	for i := s; ; i = geom.CircularIndex(i+1, n) {
		poly1 = append(poly1, poly[i])
		if i == i3 {
			break
		}
	}
	if !geom.VecEqual(hit, poly[i3], eps) {
		poly1 = append(poly1, hit)
	}

	if !geom.VecEqual(hit, poly[i4], eps) {
		poly2 = append(poly2, hit)
	}
	for i := i4; ; i = geom.CircularIndex(i+1, n) {
		poly2 = append(poly2, poly[i])
		if i == s {
			break
		}
	}

	var out []geom.Polygon
	for _, half := range []geom.Polygon{poly1, poly2} {
		if len(half) < 3 {
			continue
		}
		if sub := ConvexSplit(half, eps); sub != nil {
			out = append(out, sub...)
		} else {
			out = append(out, half)
		}
	}
	return out
}

// findReflex locates the first corner turning the wrong way for a CCW
// polygon. The returned index is that of the corner's predecessor, so
// the corner itself is index+1.
func findReflex(poly geom.Polygon, eps float64) int {
	n := len(poly)
	for i := 0; i < n; i++ {
		v1 := poly[i]
		v2 := poly[geom.CircularIndex(i+1, n)]
		v3 := poly[geom.CircularIndex(i+2, n)]
		if geom.Cross(v2.Sub(v1), v3.Sub(v2)) < -eps {
			return i
		}
	}
	return -1
}

// findChord extends the reflex corner's incoming edge beyond the corner
// and returns the nearest contour edge it crosses, together with the
// crossing point itself.
func findChord(poly geom.Polygon, reflex int, eps float64) (edge int, hit geom.Vec2, ok bool) {
	n := len(poly)
	origin := poly[reflex]
	dir := poly[geom.CircularIndex(reflex+1, n)].Sub(origin)

	best := math.Inf(1)
	for k := 2; k < n; k++ {
		i3 := geom.CircularIndex(reflex+k, n)
		i4 := geom.CircularIndex(reflex+k+1, n)
		seg := geom.Segment{A: poly[i3], B: poly[i4]}
		tRay, tSeg, crosses := geom.IntersectRaySegment(origin, dir, seg, eps)
		if !crosses || tRay <= 1+eps || tRay >= best {
			continue
		}
		best = tRay
		edge = i3
		hit = seg.At(tSeg)
		ok = true
	}
	return edge, hit, ok
}
