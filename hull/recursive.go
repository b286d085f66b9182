package hull

import "github.com/tastools/tasplan/geom"

// Recursive computes the convex hull by divide and conquer: sort by x,
// bisect, hull both halves, then merge along the upper and lower
// tangents.
func Recursive(pts []geom.Vec2, eps float64) []geom.Vec2 {
	sorted := prepare(pts, eps)
	if len(sorted) <= 2 {
		return sorted
	}
	return canonical(recursiveSorted(sorted, eps))
}

func recursiveSorted(pts []geom.Vec2, eps float64) []geom.Vec2 {
	if len(pts) <= 3 {
		return smallHull(pts, eps)
	}
	if chain, ok := collinearChain(pts, eps); ok {
		return chain
	}
	mid := len(pts) / 2
	left := recursiveSorted(pts[:mid], eps)
	right := recursiveSorted(pts[mid:], eps)
	return mergeHulls(left, right, eps)
}

// smallHull handles the base case of up to three points.
func smallHull(pts []geom.Vec2, eps float64) []geom.Vec2 {
	if len(pts) < 3 {
		out := make([]geom.Vec2, len(pts))
		copy(out, pts)
		return out
	}
	a, b, c := pts[0], pts[1], pts[2]
	o := orient(a, b, c)
	switch {
	case o > eps:
		return []geom.Vec2{a, b, c}
	case o < -eps:
		return []geom.Vec2{a, c, b}
	default:
		// collinear triple, keep the extremes (input is x-sorted)
		return []geom.Vec2{a, c}
	}
}

// collinearChain detects a fully collinear x-sorted point run and
// reduces it to its two extremes.
func collinearChain(pts []geom.Vec2, eps float64) ([]geom.Vec2, bool) {
	first, last := pts[0], pts[len(pts)-1]
	for _, p := range pts[1 : len(pts)-1] {
		if o := orient(first, last, p); o > eps || o < -eps {
			return nil, false
		}
	}
	return []geom.Vec2{first, last}, true
}

// rightmost and leftmost locate the extreme vertices of a hull stored
// in CCW order.
func rightmost(h []geom.Vec2) int {
	best := 0
	for i, v := range h {
		b := h[best]
		if v[0] > b[0] || (v[0] == b[0] && v[1] > b[1]) {
			best = i
		}
	}
	return best
}

func leftmost(h []geom.Vec2) int {
	best := 0
	for i, v := range h {
		b := h[best]
		if v[0] < b[0] || (v[0] == b[0] && v[1] < b[1]) {
			best = i
		}
	}
	return best
}

// mergeHulls merges two x-separated CCW hulls. The tangent walk moves a
// candidate vertex along its hull while the neighbour lies outside the
// candidate tangent line, or lies on it but farther out; ties on the
// line keep the extreme endpoint.
func mergeHulls(left, right []geom.Vec2, eps float64) []geom.Vec2 {
	if len(left) == 0 {
		return right
	}
	if len(right) == 0 {
		return left
	}
	nl, nr := len(left), len(right)
	li, ri := rightmost(left), leftmost(right)

	farther := func(pivot, next, cur geom.Vec2) bool {
		dn := next.Sub(pivot)
		dc := cur.Sub(pivot)
		return dn.Dot(dn) > dc.Dot(dc)
	}

	// upper tangent: no hull vertex above the line left[ui] -> right[uj]
	ui, uj := li, ri
	for steps := 0; steps < 2*(nl+nr); steps++ {
		moved := false
		for {
			next := geom.CircularIndex(ui+1, nl)
			o := orient(left[ui], right[uj], left[next])
			if o > eps || (o >= -eps && farther(right[uj], left[next], left[ui])) {
				if next == ui {
					break
				}
				ui = next
				moved = true
				continue
			}
			break
		}
		for {
			next := geom.CircularIndex(uj-1, nr)
			o := orient(left[ui], right[uj], right[next])
			if o > eps || (o >= -eps && farther(left[ui], right[next], right[uj])) {
				if next == uj {
					break
				}
				uj = next
				moved = true
				continue
			}
			break
		}
		if !moved {
			break
		}
	}

	// lower tangent: mirror of the above
	di, dj := li, ri
	for steps := 0; steps < 2*(nl+nr); steps++ {
		moved := false
		for {
			next := geom.CircularIndex(di-1, nl)
			o := orient(left[di], right[dj], left[next])
			if o < -eps || (o <= eps && farther(right[dj], left[next], left[di])) {
				if next == di {
					break
				}
				di = next
				moved = true
				continue
			}
			break
		}
		for {
			next := geom.CircularIndex(dj+1, nr)
			o := orient(left[di], right[dj], right[next])
			if o < -eps || (o <= eps && farther(left[di], right[next], right[dj])) {
				if next == dj {
					break
				}
				dj = next
				moved = true
				continue
			}
			break
		}
		if !moved {
			break
		}
	}

	// stitch: left hull CCW from the upper to the lower tangent vertex,
	// then right hull CCW from the lower to the upper one
	merged := make([]geom.Vec2, 0, nl+nr)
	for i := ui; ; i = geom.CircularIndex(i+1, nl) {
		merged = append(merged, left[i])
		if i == di {
			break
		}
	}
	for j := dj; ; j = geom.CircularIndex(j+1, nr) {
		merged = append(merged, right[j])
		if j == uj {
			break
		}
	}
	return dropCollinear(merged, eps)
}

// dropCollinear removes vertices that do not make a strict left turn.
func dropCollinear(h []geom.Vec2, eps float64) []geom.Vec2 {
	if len(h) < 4 {
		return h
	}
	out := make([]geom.Vec2, 0, len(h))
	n := len(h)
	for i := 0; i < n; i++ {
		prev := h[geom.CircularIndex(i-1, n)]
		cur := h[i]
		next := h[geom.CircularIndex(i+1, n)]
		if orient(prev, cur, next) > eps {
			out = append(out, cur)
		}
	}
	if len(out) < 3 {
		return h
	}
	return out
}
