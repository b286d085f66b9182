// Package delaunay triangulates 2D point sets. Three interchangeable
// implementations share one output contract: the triangle list, the
// circumcentre of every triangle (the dual Voronoi vertex) and the set
// of edge-sharing neighbour triangles.
//
// Cocircular point groups are resolved by symbolic perturbation of the
// paraboloid lift, so every implementation produces a planar
// triangulation even for grid-aligned input.
package delaunay

import (
	"sort"

	"github.com/tastools/tasplan/geom"
)

// Triangulation is the common result type.
type Triangulation struct {
	// Points are the (deduplicated) input points the triangle indices
	// refer to.
	Points []geom.Vec2
	// Triangles hold CCW-ordered point indices.
	Triangles [][3]int
	// Circumcentres, one per triangle. These are the Voronoi vertices
	// dual to the triangulation.
	Circumcentres []geom.Vec2
	// Neighbours lists, per triangle, the indices of the up to three
	// triangles sharing an edge with it.
	Neighbours [][]int
}

func orient(a, b, c geom.Vec2) float64 {
	return geom.Cross(b.Sub(a), c.Sub(a))
}

// lift is the z coordinate of a point raised onto the paraboloid.
func lift(p geom.Vec2) float64 {
	return p[0]*p[0] + p[1]*p[1]
}

// inCircleDet is the lifted orientation determinant: positive when p
// lies strictly inside the circumcircle of the CCW triangle (a, b, c).
func inCircleDet(a, b, c, p geom.Vec2) float64 {
	m := geom.Mat3{
		a[0] - p[0], b[0] - p[0], c[0] - p[0],
		a[1] - p[1], b[1] - p[1], c[1] - p[1],
		lift(a) - lift(p), lift(b) - lift(p), lift(c) - lift(p),
	}
	return m.Det()
}

// inCirclePerturbed resolves the in-circle test with ties broken by a
// symbolic perturbation: point index m is lowered on the paraboloid by
// an infinitesimal that shrinks with m, so lower indices win ties. The
// triangle (i, j, k) must be CCW. Returns true when p is inside.
func inCirclePerturbed(pts []geom.Vec2, i, j, k, p int, eps float64) bool {
	d := inCircleDet(pts[i], pts[j], pts[k], pts[p])
	if d > eps {
		return true
	}
	if d < -eps {
		return false
	}

	// derivative of the determinant w.r.t. each lifted z; lowering z_m
	// by delta^(m+1) adds -delta^(m+1) times this
	deriv := func(m int) float64 {
		pi, pj, pk, pp := pts[i], pts[j], pts[k], pts[p]
		switch m {
		case i:
			return orient(pp, pj, pk)
		case j:
			return orient(pp, pk, pi)
		case k:
			return orient(pp, pi, pj)
		default:
			return -(orient(pp, pj, pk) + orient(pp, pk, pi) + orient(pp, pi, pj))
		}
	}

	order := []int{i, j, k, p}
	sort.Ints(order)
	for _, m := range order {
		if c := -deriv(m); c > eps {
			return true
		} else if c < -eps {
			return false
		}
	}
	return false
}

// circumcentre of the triangle (a, b, c).
func circumcentre(a, b, c geom.Vec2) geom.Vec2 {
	d := 2 * (a[0]*(b[1]-c[1]) + b[0]*(c[1]-a[1]) + c[0]*(a[1]-b[1]))
	if d == 0 {
		// degenerate triangle, midpoint is as good as anything
		return a.Add(b).Add(c).Mul(1.0 / 3.0)
	}
	ux := (lift(a)*(b[1]-c[1]) + lift(b)*(c[1]-a[1]) + lift(c)*(a[1]-b[1])) / d
	uy := (lift(a)*(c[0]-b[0]) + lift(b)*(a[0]-c[0]) + lift(c)*(b[0]-a[0])) / d
	return geom.Vec2{ux, uy}
}

// finish derives circumcentres and neighbour sets from a triangle list.
func finish(pts []geom.Vec2, tris [][3]int) *Triangulation {
	t := &Triangulation{Points: pts, Triangles: tris}
	t.Circumcentres = make([]geom.Vec2, len(tris))
	t.Neighbours = make([][]int, len(tris))

	type edge struct{ lo, hi int }
	byEdge := make(map[edge][]int)
	for ti, tri := range tris {
		t.Circumcentres[ti] = circumcentre(pts[tri[0]], pts[tri[1]], pts[tri[2]])
		for e := 0; e < 3; e++ {
			u, v := tri[e], tri[(e+1)%3]
			if u > v {
				u, v = v, u
			}
			byEdge[edge{u, v}] = append(byEdge[edge{u, v}], ti)
		}
	}
	for ti, tri := range tris {
		seen := map[int]bool{}
		for e := 0; e < 3; e++ {
			u, v := tri[e], tri[(e+1)%3]
			if u > v {
				u, v = v, u
			}
			for _, other := range byEdge[edge{u, v}] {
				if other != ti && !seen[other] {
					seen[other] = true
					t.Neighbours[ti] = append(t.Neighbours[ti], other)
				}
			}
		}
		sort.Ints(t.Neighbours[ti])
	}
	return t
}

// Check verifies the Delaunay property: no input point lies strictly
// inside any triangle's circumcircle, up to eps.
func (t *Triangulation) Check(eps float64) bool {
	for _, tri := range t.Triangles {
		for p := range t.Points {
			if p == tri[0] || p == tri[1] || p == tri[2] {
				continue
			}
			if inCircleDet(t.Points[tri[0]], t.Points[tri[1]], t.Points[tri[2]], t.Points[p]) > eps {
				return false
			}
		}
	}
	return true
}
