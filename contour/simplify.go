package contour

import (
	"math"

	"github.com/tastools/tasplan/geom"
)

// Simplify cleans a traced contour in three passes: coincident-vertex
// removal, staircase removal and collinear-vertex dropping. The contour
// is treated as a closed loop.
func Simplify(contour geom.Polygon, minDist, epsAngular, eps float64) geom.Polygon {
	c := append(geom.Polygon(nil), contour...)
	c = dropCoincident(c, eps)
	c = dropStaircases(c, minDist, epsAngular)
	c = dropCollinear(c, epsAngular, eps)
	return c
}

func erase(c geom.Polygon, idx int) geom.Polygon {
	idx = geom.CircularIndex(idx, len(c))
	return append(c[:idx], c[idx+1:]...)
}

func dropCoincident(c geom.Polygon, eps float64) geom.Polygon {
	for i := 0; i < len(c) && len(c) > 1; {
		if geom.VecEqual(c[i], c[geom.CircularIndex(i+1, len(c))], eps) {
			c = erase(c, i)
			continue
		}
		i++
	}
	return c
}

// dropStaircases collapses the one-cell steps the raster grid aliases
// onto slanted walls: a short quadruple whose middle segment is axis
// aligned and whose outer segments run in the same direction loses the
// two trailing vertices.
func dropStaircases(c geom.Polygon, minDist, epsAngular float64) geom.Polygon {
	for changed := true; changed; {
		changed = false
		for i := 0; i < len(c) && len(c) >= 4; i++ {
			v1 := c[geom.CircularIndex(i, len(c))]
			v2 := c[geom.CircularIndex(i+1, len(c))]
			v3 := c[geom.CircularIndex(i+2, len(c))]
			v4 := c[geom.CircularIndex(i+3, len(c))]

			if v4.Sub(v1).Len() > minDist {
				continue
			}
			if !axisAligned(v2, v3, epsAngular) {
				continue
			}
			a1 := geom.ModPos(geom.LineAngle(v1, v2), 2*math.Pi)
			a2 := geom.ModPos(geom.LineAngle(v3, v4), 2*math.Pi)
			if !angleEqual(a1, a2, epsAngular) {
				continue
			}

			// erase the higher absolute index first so the lower one
			// stays valid when the quadruple wraps around
			i3 := geom.CircularIndex(i+3, len(c))
			i2 := geom.CircularIndex(i+2, len(c))
			if i3 < i2 {
				i3, i2 = i2, i3
			}
			c = erase(c, i3)
			c = erase(c, i2)
			changed = true
			break
		}
	}
	return c
}

func axisAligned(a, b geom.Vec2, epsAngular float64) bool {
	m := geom.ModPos(geom.LineAngle(a, b), math.Pi/2)
	return m < epsAngular || m > math.Pi/2-epsAngular
}

func angleEqual(a, b, eps float64) bool {
	d := math.Abs(a - b)
	return d < eps || math.Abs(d-2*math.Pi) < eps
}

// dropCollinear removes vertices on almost straight (or immediately
// backtracking) runs, as long as bridging them does not make the
// contour self-intersect.
func dropCollinear(c geom.Polygon, epsAngular, eps float64) geom.Polygon {
	for changed := true; changed; {
		changed = false
		for i := 0; i < len(c) && len(c) > 3; i++ {
			v1 := c[geom.CircularIndex(i-1, len(c))]
			v2 := c[i]
			v3 := c[geom.CircularIndex(i+1, len(c))]

			angle := geom.TurnAngle(v1, v2, v2, v3)
			straight := math.Abs(angle) < epsAngular
			backtrack := math.Abs(math.Abs(angle)-math.Pi) < epsAngular
			if !straight && !backtrack {
				continue
			}
			if !canBridge(c, i, eps) {
				continue
			}
			c = erase(c, i)
			changed = true
			break
		}
	}
	return c
}

// canBridge checks that the segment replacing vertex i does not cross
// any non-adjacent contour edge.
func canBridge(c geom.Polygon, i int, eps float64) bool {
	v1 := c[geom.CircularIndex(i-1, len(c))]
	v2 := c[i]
	v3 := c[geom.CircularIndex(i+1, len(c))]

	for j := 0; j < len(c); j++ {
		a := c[j]
		b := c[geom.CircularIndex(j+1, len(c))]
		if geom.VecEqual(a, v1, eps) || geom.VecEqual(a, v2, eps) || geom.VecEqual(a, v3, eps) ||
			geom.VecEqual(b, v1, eps) || geom.VecEqual(b, v2, eps) || geom.VecEqual(b, v3, eps) {
			continue
		}
		if _, hit := geom.IntersectLines(v1, v3, a, b, true, eps); hit {
			return false
		}
	}
	return true
}
