// Package intersect finds all pairwise intersection points of a set of
// line segments. The quadratic tester and the sweep report the same set
// of points for the same input, which the tests exploit.
package intersect

import (
	"sort"

	"github.com/tastools/tasplan/geom"
)

// Intersection is one crossing: the indices of the two segments and the
// common point.
type Intersection struct {
	I, J int
	P    geom.Vec2
}

// Naive tests every segment pair.
func Naive(segs []geom.Segment, eps float64) []Intersection {
	var out []Intersection
	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			out = append(out, intersectPair(segs, i, j, eps)...)
		}
	}
	sortIntersections(out)
	return out
}

// intersectPair reports the crossings of segments i and j. Collinear
// overlaps are reported once per shared endpoint.
func intersectPair(segs []geom.Segment, i, j int, eps float64) []Intersection {
	a, b := segs[i], segs[j]

	if collinear(a, b, eps) {
		var out []Intersection
		for _, pa := range []geom.Vec2{a.A, a.B} {
			for _, pb := range []geom.Vec2{b.A, b.B} {
				if geom.VecEqual(pa, pb, eps) {
					out = append(out, Intersection{i, j, pa})
				}
			}
		}
		return out
	}

	p, ok := geom.IntersectLines(a.A, a.B, b.A, b.B, true, eps)
	if !ok {
		return nil
	}
	return []Intersection{{i, j, p}}
}

func collinear(a, b geom.Segment, eps float64) bool {
	return geom.DistPointLine(b.A, a) < eps && geom.DistPointLine(b.B, a) < eps
}

// sortIntersections orders results by segment pair for stable
// comparison between implementations.
func sortIntersections(xs []Intersection) {
	sort.Slice(xs, func(u, v int) bool {
		if xs[u].I != xs[v].I {
			return xs[u].I < xs[v].I
		}
		if xs[u].J != xs[v].J {
			return xs[u].J < xs[v].J
		}
		if xs[u].P[0] != xs[v].P[0] {
			return xs[u].P[0] < xs[v].P[0]
		}
		return xs[u].P[1] < xs[v].P[1]
	})
}
