package hull

import (
	"math"
	"sort"

	"github.com/tastools/tasplan/geom"
)

// Iterative computes the convex hull incrementally: points are sorted by
// polar angle around the input centroid and inserted one at a time. A
// point outside the current hull replaces the chain of edges it sees.
func Iterative(pts []geom.Vec2, eps float64) []geom.Vec2 {
	unique := geom.DedupPoints(pts, eps)
	if len(unique) <= 2 {
		return sortByX(unique)
	}

	centroid := geom.Polygon(unique).Centroid()
	sorted := make([]geom.Vec2, len(unique))
	copy(sorted, unique)
	sort.Slice(sorted, func(i, j int) bool {
		di := sorted[i].Sub(centroid)
		dj := sorted[j].Sub(centroid)
		ai := math.Atan2(di[1], di[0])
		aj := math.Atan2(dj[1], dj[0])
		if ai != aj {
			return ai < aj
		}
		return di.Dot(di) < dj.Dot(dj)
	})

	// initial triangle from the first non-degenerate triple
	third := -1
	for k := 2; k < len(sorted); k++ {
		if o := orient(sorted[0], sorted[1], sorted[k]); o > eps || o < -eps {
			third = k
			break
		}
	}
	if third < 0 {
		// everything is collinear
		xs := sortByX(sorted)
		return []geom.Vec2{xs[0], xs[len(xs)-1]}
	}

	hull := []geom.Vec2{sorted[0], sorted[1], sorted[third]}
	if orient(hull[0], hull[1], hull[2]) < 0 {
		hull[1], hull[2] = hull[2], hull[1]
	}

	for k := 2; k < len(sorted); k++ {
		if k == third {
			continue
		}
		hull = insertVertex(hull, sorted[k], eps)
	}
	return canonical(dropCollinear(hull, eps))
}

// insertVertex grows a CCW hull by one point. Edges the point strictly
// sees (it lies on their right) form one contiguous chain; the chain's
// inner vertices are deleted and the point spliced in. A point seeing no
// edge is inside and ignored.
func insertVertex(hull []geom.Vec2, p geom.Vec2, eps float64) []geom.Vec2 {
	n := len(hull)
	visible := make([]bool, n)
	any := false
	for i := 0; i < n; i++ {
		j := geom.CircularIndex(i+1, n)
		if orient(hull[i], hull[j], p) < -eps {
			visible[i] = true
			any = true
		}
	}
	if !any {
		return hull
	}

	// start of the visible chain: a visible edge whose predecessor is not
	start := -1
	for i := 0; i < n; i++ {
		if visible[i] && !visible[geom.CircularIndex(i-1, n)] {
			start = i
			break
		}
	}
	if start < 0 {
		// every edge visible; degenerate hull collapses onto the point
		return []geom.Vec2{p}
	}
	end := start
	for visible[geom.CircularIndex(end+1, n)] {
		end = geom.CircularIndex(end+1, n)
	}

	// keep vertices from end+1 around to start, then append the point
	out := make([]geom.Vec2, 0, n+1)
	for i := geom.CircularIndex(end+1, n); ; i = geom.CircularIndex(i+1, n) {
		out = append(out, hull[i])
		if i == start {
			break
		}
	}
	return append(out, p)
}
