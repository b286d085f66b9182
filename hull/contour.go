package hull

import "github.com/tastools/tasplan/geom"

// Contour computes the convex hull from the two monotone contours: the
// x-sorted points are swept once for the lower and once for the upper
// chain, dropping concave triples as they appear.
func Contour(pts []geom.Vec2, eps float64) []geom.Vec2 {
	sorted := prepare(pts, eps)
	n := len(sorted)
	if n <= 2 {
		return sorted
	}

	lower := make([]geom.Vec2, 0, n)
	for _, p := range sorted {
		for len(lower) >= 2 && orient(lower[len(lower)-2], lower[len(lower)-1], p) <= eps {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]geom.Vec2, 0, n)
	for i := n - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && orient(upper[len(upper)-2], upper[len(upper)-1], p) <= eps {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	// drop each chain's final point, it starts the other chain
	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	return canonical(hull)
}
