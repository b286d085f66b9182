// Package hull computes 2D convex hulls. Three interchangeable
// implementations are provided; all deliver the hull in counter-clockwise
// order, starting vertex unspecified, with collinear and duplicate input
// points dropped.
package hull

import (
	"sort"

	"github.com/tastools/tasplan/geom"
)

// orient is twice the signed area of the triangle (a, b, c); positive
// for a left turn.
func orient(a, b, c geom.Vec2) float64 {
	return geom.Cross(b.Sub(a), c.Sub(a))
}

// sortByX orders points lexicographically by x, then y.
func sortByX(pts []geom.Vec2) []geom.Vec2 {
	out := make([]geom.Vec2, len(pts))
	copy(out, pts)
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// prepare dedups the input and sorts it by x. Hulls of fewer than three
// points are the points themselves.
func prepare(pts []geom.Vec2, eps float64) []geom.Vec2 {
	return sortByX(geom.DedupPoints(pts, eps))
}

// canonical rotates a hull so it starts at the lexicographically
// smallest vertex. Handy for comparing hulls from different algorithms.
func canonical(hull []geom.Vec2) []geom.Vec2 {
	if len(hull) == 0 {
		return hull
	}
	best := 0
	for i, v := range hull {
		b := hull[best]
		if v[0] < b[0] || (v[0] == b[0] && v[1] < b[1]) {
			best = i
		}
	}
	out := make([]geom.Vec2, 0, len(hull))
	for i := 0; i < len(hull); i++ {
		out = append(out, hull[geom.CircularIndex(best+i, len(hull))])
	}
	return out
}
