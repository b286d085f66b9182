package delaunay

import "github.com/tastools/tasplan/geom"

// Iterative triangulates incrementally. Each point is located in the
// current triangulation: a point inside a triangle splits it into
// three, a point on an edge splits the adjacent pair, a point outside
// the hull is connected to every boundary edge it sees. After every
// insertion, edges are flipped until the Delaunay criterion holds.
func Iterative(points []geom.Vec2, eps float64) *Triangulation {
	pts := geom.DedupPoints(points, eps)
	if len(pts) < 3 {
		return finish(pts, nil)
	}

	w := &worker{pts: pts, eps: eps}
	if !w.seed() {
		// fully collinear input has no triangulation
		return finish(pts, nil)
	}
	for p := range pts {
		if w.used[p] {
			continue
		}
		w.insert(p)
	}
	return finish(pts, w.tris)
}

type worker struct {
	pts  []geom.Vec2
	eps  float64
	tris [][3]int
	used []bool
}

// seed builds the first triangle from the first non-degenerate triple.
func (w *worker) seed() bool {
	w.used = make([]bool, len(w.pts))
	for k := 2; k < len(w.pts); k++ {
		o := orient(w.pts[0], w.pts[1], w.pts[k])
		if o > w.eps {
			w.tris = append(w.tris, [3]int{0, 1, k})
		} else if o < -w.eps {
			w.tris = append(w.tris, [3]int{0, k, 1})
		} else {
			continue
		}
		w.used[0], w.used[1], w.used[k] = true, true, true
		return true
	}
	return false
}

func (w *worker) removeTri(ti int) {
	w.tris[ti] = w.tris[len(w.tris)-1]
	w.tris = w.tris[:len(w.tris)-1]
}

// trisWithEdge finds the triangles containing the undirected edge (u, v).
func (w *worker) trisWithEdge(u, v int) []int {
	var out []int
	for ti, tri := range w.tris {
		for e := 0; e < 3; e++ {
			a, b := tri[e], tri[(e+1)%3]
			if (a == u && b == v) || (a == v && b == u) {
				out = append(out, ti)
			}
		}
	}
	return out
}

// apex returns the vertex of triangle tri not on the edge (u, v).
func apex(tri [3]int, u, v int) int {
	for _, x := range tri {
		if x != u && x != v {
			return x
		}
	}
	return -1
}

func (w *worker) insert(p int) {
	w.used[p] = true
	pt := w.pts[p]

	// locate: first triangle whose edges all keep the point on the left
	for ti, tri := range w.tris {
		o0 := orient(w.pts[tri[0]], w.pts[tri[1]], pt)
		o1 := orient(w.pts[tri[1]], w.pts[tri[2]], pt)
		o2 := orient(w.pts[tri[2]], w.pts[tri[0]], pt)
		if o0 < -w.eps || o1 < -w.eps || o2 < -w.eps {
			continue
		}
		switch {
		case o0 <= w.eps:
			w.splitEdge(tri[0], tri[1], p)
		case o1 <= w.eps:
			w.splitEdge(tri[1], tri[2], p)
		case o2 <= w.eps:
			w.splitEdge(tri[2], tri[0], p)
		default:
			w.splitTri(ti, p)
		}
		return
	}
	w.connectHull(p)
}

// splitTri replaces a triangle by the three triangles fanning out of p.
func (w *worker) splitTri(ti, p int) {
	tri := w.tris[ti]
	w.removeTri(ti)
	w.tris = append(w.tris,
		[3]int{tri[0], tri[1], p},
		[3]int{tri[1], tri[2], p},
		[3]int{tri[2], tri[0], p})
	w.legalize([][2]int{{tri[0], tri[1]}, {tri[1], tri[2]}, {tri[2], tri[0]}})
}

// splitEdge inserts p on the edge (u, v), splitting each adjacent
// triangle in two.
func (w *worker) splitEdge(u, v, p int) {
	var suspect [][2]int
	for {
		adjacent := w.trisWithEdge(u, v)
		if len(adjacent) == 0 {
			break
		}
		ti := adjacent[0]
		x := apex(w.tris[ti], u, v)
		tri := w.tris[ti]
		w.removeTri(ti)
		// preserve each half's winding
		if tri[0] == u && tri[1] == v || tri[1] == u && tri[2] == v || tri[2] == u && tri[0] == v {
			w.tris = append(w.tris, [3]int{u, p, x}, [3]int{p, v, x})
		} else {
			w.tris = append(w.tris, [3]int{v, p, x}, [3]int{p, u, x})
		}
		suspect = append(suspect, [2]int{u, x}, [2]int{v, x})
	}
	w.legalize(suspect)
}

// connectHull attaches an outside point to every boundary edge that
// faces it.
func (w *worker) connectHull(p int) {
	pt := w.pts[p]

	type dirEdge struct{ u, v int }
	count := make(map[dirEdge]int)
	for _, tri := range w.tris {
		for e := 0; e < 3; e++ {
			u, v := tri[e], tri[(e+1)%3]
			lo, hi := u, v
			if lo > hi {
				lo, hi = hi, lo
			}
			count[dirEdge{lo, hi}]++
		}
	}

	var suspect [][2]int
	for _, tri := range append([][3]int(nil), w.tris...) {
		for e := 0; e < 3; e++ {
			u, v := tri[e], tri[(e+1)%3]
			lo, hi := u, v
			if lo > hi {
				lo, hi = hi, lo
			}
			if count[dirEdge{lo, hi}] != 1 {
				continue
			}
			// boundary edge (u, v) has its triangle on the left; the
			// point sees it from the right
			if orient(w.pts[u], w.pts[v], pt) < -w.eps {
				w.tris = append(w.tris, [3]int{v, u, p})
				suspect = append(suspect, [2]int{u, v})
			}
		}
	}
	w.legalize(suspect)
}

// legalize flips suspect edges until the in-circle criterion holds.
func (w *worker) legalize(suspect [][2]int) {
	for len(suspect) > 0 {
		e := suspect[len(suspect)-1]
		suspect = suspect[:len(suspect)-1]

		adjacent := w.trisWithEdge(e[0], e[1])
		if len(adjacent) != 2 {
			continue
		}
		t1, t2 := w.tris[adjacent[0]], w.tris[adjacent[1]]
		a := apex(t1, e[0], e[1])
		b := apex(t2, e[0], e[1])
		if a < 0 || b < 0 {
			continue
		}

		// orient t1 as (u, v, a) CCW to run the in-circle test
		u, v := e[0], e[1]
		if orient(w.pts[u], w.pts[v], w.pts[a]) < 0 {
			u, v = v, u
		}
		if !inCirclePerturbed(w.pts, u, v, a, b, w.eps) {
			continue
		}

		// flip the quad (u, b, v, a) onto the diagonal (a, b)
		if adjacent[0] < adjacent[1] {
			w.removeTri(adjacent[1])
			w.removeTri(adjacent[0])
		} else {
			w.removeTri(adjacent[0])
			w.removeTri(adjacent[1])
		}
		w.tris = append(w.tris, [3]int{a, u, b}, [3]int{b, v, a})
		suspect = append(suspect,
			[2]int{u, a}, [2]int{u, b}, [2]int{v, a}, [2]int{v, b})
	}
}
