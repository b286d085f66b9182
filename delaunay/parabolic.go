package delaunay

import "github.com/tastools/tasplan/geom"

// Parabolic is the explicit 3D-lift rendition of the same idea as
// Lifted: points go onto the paraboloid z = x² + y², candidate facets
// are tested against every remaining point using the facet's 3D normal,
// and downward-facing empty facets project back to Delaunay triangles.
func Parabolic(points []geom.Vec2, eps float64) *Triangulation {
	pts := geom.DedupPoints(points, eps)
	n := len(pts)
	var tris [][3]int
	if n < 3 {
		return finish(pts, tris)
	}

	lift3 := func(p geom.Vec2) geom.Vec3 {
		return geom.Vec3{p[0], p[1], lift(p)}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				a, b, c := i, j, k
				o := orient(pts[a], pts[b], pts[c])
				if o > -eps && o < eps {
					continue
				}
				if o < 0 {
					b, c = c, b
				}

				la, lb, lc := lift3(pts[a]), lift3(pts[b]), lift3(pts[c])
				normal := lb.Sub(la).Cross(lc.Sub(la))

				facet := true
				for p := 0; p < n; p++ {
					if p == i || p == j || p == k {
						continue
					}
					// the facet normal points up, so a point below the
					// plane has a negative offset and the facet is not
					// on the lower hull
					off := lift3(pts[p]).Sub(la).Dot(normal)
					if off < -eps {
						facet = false
						break
					}
					if off < eps && inCirclePerturbed(pts, a, b, c, p, eps) {
						facet = false
						break
					}
				}
				if facet {
					tris = append(tris, [3]int{a, b, c})
				}
			}
		}
	}
	return finish(pts, tris)
}
