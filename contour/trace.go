// Package contour extracts the boundaries of the forbidden regions of a
// sampled configuration space as closed polylines, cleans them up and
// decomposes them into convex obstacle polygons.
package contour

import (
	"github.com/tastools/tasplan/configspace"
	"github.com/tastools/tasplan/geom"
)

// Contour is one closed obstacle boundary, counter-clockwise, with the
// raster ID of the region it encloses.
type Contour struct {
	ID     uint8
	Points geom.Polygon
}

// mooreOffsets enumerate the 8-neighbourhood in clockwise order,
// starting north.
var mooreOffsets = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// Trace finds every maximal connected region of equal nonzero ID and
// walks its boundary with Moore-neighbour tracing.
func Trace(r *configspace.Raster) []Contour {
	visited := make([]bool, r.W*r.H)
	var out []Contour

	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			v := r.At(x, y)
			if v == 0 || visited[y*r.W+x] {
				continue
			}
			markComponent(r, x, y, v, visited)
			poly := traceBoundary(r, x, y, v)
			if len(poly) == 0 {
				continue
			}
			if !poly.IsCCW() {
				poly = poly.Reverse()
			}
			out = append(out, Contour{ID: v, Points: poly})
		}
	}
	return out
}

// markComponent floods the 8-connected component of equal value.
func markComponent(r *configspace.Raster, x, y int, v uint8, visited []bool) {
	stack := [][2]int{{x, y}}
	visited[y*r.W+x] = true
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range mooreOffsets {
			nx, ny := c[0]+d[0], c[1]+d[1]
			if !r.Inside(nx, ny) || visited[ny*r.W+nx] || r.At(nx, ny) != v {
				continue
			}
			visited[ny*r.W+nx] = true
			stack = append(stack, [2]int{nx, ny})
		}
	}
}

// traceBoundary walks the outer boundary clockwise in raster
// coordinates, starting from the top-left pixel of the region.
func traceBoundary(r *configspace.Raster, sx, sy int, v uint8) geom.Polygon {
	inRegion := func(x, y int) bool {
		return r.Inside(x, y) && r.At(x, y) == v
	}

	var poly geom.Polygon
	add := func(x, y int) {
		p := geom.V(float64(x), float64(y))
		if len(poly) == 0 || !geom.VecEqual(poly[len(poly)-1], p, 1e-9) {
			poly = append(poly, p)
		}
	}

	cx, cy := sx, sy
	bx, by := sx-1, sy // entered from the west
	add(cx, cy)

	startCx, startCy := cx, cy
	startBx, startBy := bx, by
	maxSteps := 4*r.W*r.H + 8

	for step := 0; step < maxSteps; step++ {
		// index of the backtrack pixel in the neighbourhood of (cx, cy)
		var bi int
		for i, d := range mooreOffsets {
			if cx+d[0] == bx && cy+d[1] == by {
				bi = i
				break
			}
		}
		found := false
		for i := 1; i <= 8; i++ {
			d := mooreOffsets[(bi+i)%8]
			nx, ny := cx+d[0], cy+d[1]
			if inRegion(nx, ny) {
				// backtrack is the neighbour checked just before
				pd := mooreOffsets[(bi+i-1)%8]
				bx, by = cx+pd[0], cy+pd[1]
				cx, cy = nx, ny
				found = true
				break
			}
		}
		if !found {
			// isolated pixel
			break
		}
		if cx == startCx && cy == startCy && bx == startBx && by == startBy {
			break
		}
		add(cx, cy)
	}

	// drop a duplicated closing vertex
	if len(poly) >= 2 && geom.VecEqual(poly[0], poly[len(poly)-1], 1e-9) {
		poly = poly[:len(poly)-1]
	}
	return poly
}
