package delaunay

import "github.com/tastools/tasplan/geom"

// Lifted triangulates by the paraboloid lift: a CCW triple is a Delaunay
// triangle exactly when its lifted plane is a lower-hull facet, i.e. no
// other lifted point falls below it. The facet test is the in-circle
// determinant, evaluated for every triple.
func Lifted(points []geom.Vec2, eps float64) *Triangulation {
	pts := geom.DedupPoints(points, eps)
	n := len(pts)
	var tris [][3]int
	if n < 3 {
		return finish(pts, tris)
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
				facet := true
				for p := 0; p < n; p++ {
					if p == i || p == j || p == k {
						continue
					}
					if inCirclePerturbed(pts, a, b, c, p, eps) {
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
