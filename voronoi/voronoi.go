package voronoi

import (
	"math"
	"strconv"

	"github.com/tastools/tasplan/geom"
	"github.com/tastools/tasplan/graph"
)

// Backend selects the numerical conditioning of the computation. Both
// backends share the output contract and can be swapped per call.
type Backend int

const (
	// BackendIntScaled snaps the input coordinates to an integer
	// lattice of pitch edgeEps² before computing. This is the
	// documented conditioning policy for raster-derived input.
	BackendIntScaled Backend = iota
	// BackendFloat computes on the raw coordinates.
	BackendFloat
)

// Regions carries the obstacle-group information used to prune the raw
// diagram down to the roadmap.
type Regions struct {
	// GroupLines activates the group partition; without it every
	// segment is its own group.
	GroupLines bool
	// Groups are half-open index ranges into the segment array; each
	// range is one closed convex obstacle.
	Groups [][2]int
	// RemoveVertices discards edges whose endpoints lie inside an
	// obstacle region.
	RemoveVertices bool
	// PointsOutside holds, per group, a witness point outside the
	// region; it is carried along but not read by the classification.
	// InvertedRegions flags groups that enclose allowed space rather
	// than forbidden space; it is consulted, together with the group
	// polygons, when RegionFunc is absent.
	PointsOutside   []geom.Vec2
	InvertedRegions []bool
	// RegionFunc classifies a point as forbidden when set; it takes
	// precedence over the polygon-based classification.
	RegionFunc func(geom.Vec2) bool
}

// LinearBisector is a straight diagram edge. A vertex index of -1 means
// either that the edge is infinite on that side, in which case its drawn
// endpoint is the other end pushed out along the bisector direction, or
// that its finite end there was dropped from Vertices for having no
// finite edge.
type LinearBisector struct {
	Seg          geom.Segment
	VertA, VertB int
}

// ParabolicBisector is a curved edge between a point site and a segment
// site, discretised to a polyline. It is always finite.
type ParabolicBisector struct {
	Polyline     []geom.Vec2
	VertA, VertB int
}

// Diagram is the Voronoi diagram plus the roadmap graph. Graph vertex
// indices correspond one to one with Vertices.
type Diagram struct {
	Vertices  []geom.Vec2
	Linear    []LinearBisector
	Parabolic []ParabolicBisector
	Graph     *graph.AdjacencyList
}

// LinearEdge finds the linear bisector joining two vertices, in either
// order.
func (d *Diagram) LinearEdge(a, b int) (LinearBisector, bool) {
	for _, e := range d.Linear {
		if (e.VertA == a && e.VertB == b) || (e.VertA == b && e.VertB == a) {
			return e, true
		}
	}
	return LinearBisector{}, false
}

// ParabolicEdge finds the parabolic bisector joining two vertices, in
// either order.
func (d *Diagram) ParabolicEdge(a, b int) (ParabolicBisector, bool) {
	for _, e := range d.Parabolic {
		if (e.VertA == a && e.VertB == b) || (e.VertA == b && e.VertB == a) {
			return e, true
		}
	}
	return ParabolicBisector{}, false
}

// ClosestVertex finds the diagram vertex nearest to q, -1 when the
// diagram is empty.
func (d *Diagram) ClosestVertex(q geom.Vec2) int {
	best := -1
	bestD := math.Inf(1)
	for i, v := range d.Vertices {
		if dd := q.Sub(v).Len(); dd < bestD {
			bestD = dd
			best = i
		}
	}
	return best
}

// Calc computes the line-segment Voronoi diagram and its roadmap.
func Calc(lines []geom.Segment, eps, edgeEps float64, regions *Regions, backend Backend) *Diagram {
	segs := lines
	if backend == BackendIntScaled {
		pitch := edgeEps * edgeEps
		segs = make([]geom.Segment, len(lines))
		for i, s := range lines {
			segs[i] = geom.Segment{A: snap(s.A, pitch), B: snap(s.B, pitch)}
		}
	}

	groupOf := func(i int) int { return i }
	if regions != nil && regions.GroupLines && len(regions.Groups) > 0 {
		groupOf = func(i int) int {
			for gi, r := range regions.Groups {
				if i >= r[0] && i < r[1] {
					return gi
				}
			}
			return len(regions.Groups) + i
		}
	}

	b := &diagramBuilder{
		eps:     eps,
		edgeEps: edgeEps,
		sites:   buildSites(segs, groupOf, eps),
	}
	b.window(segs)
	b.emitAll()
	b.mergeCollinear()
	return b.output(segs, regions)
}

func snap(p geom.Vec2, pitch float64) geom.Vec2 {
	return geom.Vec2{math.Round(p[0]/pitch) * pitch, math.Round(p[1]/pitch) * pitch}
}

// piece is an unmerged bisector fragment during construction.
type piece struct {
	linear bool
	seg    geom.Segment // linear geometry (extended when infinite)
	poly   []geom.Vec2  // parabolic polyline
	va, vb int          // vertex ids, -1 for an infinite linear end
	dead   bool
}

type diagramBuilder struct {
	eps     float64
	edgeEps float64
	sites   []*site

	ext    float64 // length of the infinite-edge extension
	reach  float64 // parameter radius covering window plus extension
	centre geom.Vec2
	verts  []geom.Vec2
	pieces []piece
}

func (b *diagramBuilder) window(segs []geom.Segment) {
	var pts []geom.Vec2
	maxLen := 0.0
	for _, s := range segs {
		pts = append(pts, s.A, s.B)
		if l := s.Length(); l > maxLen {
			maxLen = l
		}
	}
	if maxLen == 0 {
		maxLen = 1
	}
	min, max := geom.Bounds(pts)
	b.centre = min.Add(max).Mul(0.5)
	b.ext = 10 * maxLen
	b.reach = max.Sub(min).Len()/2 + b.ext
}

func (b *diagramBuilder) vertexID(p geom.Vec2) int {
	tol := math.Max(b.eps, b.edgeEps/2)
	for i, v := range b.verts {
		if geom.VecEqual(v, p, tol) {
			return i
		}
	}
	b.verts = append(b.verts, p)
	return len(b.verts) - 1
}

// dominated tests whether any third site is strictly nearer to q than
// the generating pair.
func (b *diagramBuilder) dominated(q geom.Vec2, sa, sb *site) bool {
	d := math.Max(sa.dist(q), sb.dist(q))
	for _, s := range b.sites {
		if s == sa || s == sb {
			continue
		}
		if s.dist(q) < d-b.eps {
			return true
		}
	}
	return false
}

func (b *diagramBuilder) emitAll() {
	for i := 0; i < len(b.sites); i++ {
		for j := i + 1; j < len(b.sites); j++ {
			sa, sb := b.sites[i], b.sites[j]
			if sa.sharesGroup(sb) {
				// internal to one obstacle
				continue
			}
			switch {
			case sa.kind == sitePoint && sb.kind == sitePoint:
				b.emitPointPoint(sa, sb)
			case sa.kind == siteSegment && sb.kind == siteSegment:
				b.emitSegmentSegment(sa, sb)
			case sa.kind == sitePoint:
				b.emitPointSegment(sa, sb)
			default:
				b.emitPointSegment(sb, sa)
			}
		}
	}
}

// emitLine clips one candidate bisector line and records the surviving
// fragments.
func (b *diagramBuilder) emitLine(origin, dir geom.Vec2, sa, sb *site) {
	if dir.Len() < b.eps {
		return
	}
	dir = dir.Normalize()
	r := b.reach + origin.Sub(b.centre).Len()
	at := func(t float64) geom.Vec2 { return origin.Add(dir.Mul(t)) }
	ivs := clipCurve(-r, r, func(t float64) bool {
		return b.dominated(at(t), sa, sb)
	})
	minPiece := math.Max(b.eps, b.edgeEps/2)
	for _, iv := range ivs {
		pa, pb := at(iv.lo), at(iv.hi)
		if !iv.openLo && !iv.openHi && pb.Sub(pa).Len() < minPiece {
			continue
		}
		p := piece{linear: true, va: -1, vb: -1}
		if !iv.openLo {
			p.va = b.vertexID(pa)
		}
		if !iv.openHi {
			p.vb = b.vertexID(pb)
		}
		// infinite ends are drawn out to the fixed extension length
		if p.va < 0 && p.vb >= 0 {
			pa = pb.Add(dir.Mul(-b.ext))
		}
		if p.vb < 0 && p.va >= 0 {
			pb = pa.Add(dir.Mul(b.ext))
		}
		p.seg = geom.Segment{A: pa, B: pb}
		b.pieces = append(b.pieces, p)
	}
}

func (b *diagramBuilder) emitPointPoint(sa, sb *site) {
	diff := sb.point.Sub(sa.point)
	if diff.Len() < b.eps {
		return
	}
	mid := sa.point.Add(sb.point).Mul(0.5)
	b.emitLine(mid, geom.Vec2{-diff[1], diff[0]}, sa, sb)
}

func (b *diagramBuilder) emitSegmentSegment(sa, sb *site) {
	u1 := sa.seg.Dir().Normalize()
	u2 := sb.seg.Dir().Normalize()
	if math.Abs(geom.Cross(u1, u2)) < b.eps {
		// parallel supporting lines: the bisector is the midline
		foot, dist, _ := geom.ProjectLine(sb.seg.A, sa.seg.A, u1)
		if dist < b.eps {
			return
		}
		mid := sb.seg.A.Add(foot).Mul(0.5)
		b.emitLine(mid, u1, sa, sb)
		return
	}
	x, ok := geom.IntersectLines(sa.seg.A, sa.seg.B, sb.seg.A, sb.seg.B, false, b.eps)
	if !ok {
		return
	}
	// both angle bisectors; clipping keeps the real parts
	b.emitLine(x, u1.Add(u2), sa, sb)
	b.emitLine(x, u1.Sub(u2), sa, sb)
}

// emitPointSegment clips the parabola with focus at the point site and
// the segment's supporting line as directrix.
func (b *diagramBuilder) emitPointSegment(sp, ss *site) {
	u := ss.seg.Dir().Normalize()
	foot, h, _ := geom.ProjectLine(sp.point, ss.seg.A, u)
	if h < b.eps {
		// focus on the directrix, no parabola
		return
	}
	// unit normal from the line towards the focus
	n := sp.point.Sub(foot).Mul(1 / h)

	// parabola in the (s, q) frame over the foot of the focus:
	// q(s) = (s² + h²) / (2h)
	at := func(s float64) geom.Vec2 {
		q := (s*s + h*h) / (2 * h)
		return foot.Add(u.Mul(s)).Add(n.Mul(q))
	}

	// slab of the segment, relative to the focus foot
	_, _, t0 := geom.ProjectLine(ss.seg.A, foot, u)
	_, _, t1 := geom.ProjectLine(ss.seg.B, foot, u)
	if t0 > t1 {
		t0, t1 = t1, t0
	}

	ivs := clipCurve(t0, t1, func(s float64) bool {
		return b.dominated(at(s), sp, ss)
	})
	for _, iv := range ivs {
		if iv.hi-iv.lo < b.eps {
			continue
		}
		step := b.edgeEps / 2
		if step <= 0 {
			step = (iv.hi - iv.lo) / 16
		}
		n := int(math.Ceil((iv.hi-iv.lo)/step)) + 1
		if n < 2 {
			n = 2
		}
		poly := make([]geom.Vec2, 0, n)
		for k := 0; k < n; k++ {
			s := iv.lo + (iv.hi-iv.lo)*float64(k)/float64(n-1)
			poly = append(poly, at(s))
		}
		p := piece{
			poly: poly,
			va:   b.vertexID(poly[0]),
			vb:   b.vertexID(poly[len(poly)-1]),
		}
		if p.va == p.vb {
			continue
		}
		b.pieces = append(b.pieces, p)
	}
}

// mergeCollinear removes vertices that only join two collinear linear
// fragments; the fragments fuse into one bisector. Such points are
// equidistant from just the two generating sites, not diagram vertices.
func (b *diagramBuilder) mergeCollinear() {
	for {
		merged := false
		incidence := map[int][]int{}
		for pi := range b.pieces {
			p := &b.pieces[pi]
			if p.dead {
				continue
			}
			if p.va >= 0 {
				incidence[p.va] = append(incidence[p.va], pi)
			}
			if p.vb >= 0 && p.vb != p.va {
				incidence[p.vb] = append(incidence[p.vb], pi)
			}
		}
		for v, ps := range incidence {
			if len(ps) != 2 {
				continue
			}
			p1, p2 := &b.pieces[ps[0]], &b.pieces[ps[1]]
			if !p1.linear || !p2.linear {
				continue
			}
			d1 := p1.seg.Dir()
			d2 := p2.seg.Dir()
			if math.Abs(geom.Cross(d1.Normalize(), d2.Normalize())) > geom.EpsAngular {
				continue
			}
			// fuse: keep the far ends of both fragments
			farSeg := func(p *piece, v int) (geom.Vec2, int) {
				if p.va == v {
					return p.seg.B, p.vb
				}
				return p.seg.A, p.va
			}
			e1, v1 := farSeg(p1, v)
			e2, v2 := farSeg(p2, v)
			p1.seg = geom.Segment{A: e1, B: e2}
			p1.va, p1.vb = v1, v2
			p2.dead = true
			merged = true
			break
		}
		if !merged {
			return
		}
	}
}

// output applies the region filter, compacts vertex indices and builds
// the roadmap graph.
func (b *diagramBuilder) output(segs []geom.Segment, regions *Regions) *Diagram {
	forbidden := func(geom.Vec2) bool { return false }
	if regions != nil && regions.RemoveVertices {
		if regions.RegionFunc != nil {
			forbidden = regions.RegionFunc
		} else if len(regions.Groups) > 0 {
			polys := make([]geom.Polygon, len(regions.Groups))
			for gi, r := range regions.Groups {
				for i := r[0]; i < r[1] && i < len(segs); i++ {
					polys[gi] = append(polys[gi], segs[i].A)
				}
			}
			forbidden = func(q geom.Vec2) bool {
				for gi, poly := range polys {
					inverted := gi < len(regions.InvertedRegions) && regions.InvertedRegions[gi]
					inside := poly.Contains(q, b.eps)
					if inverted && !inside {
						return true
					}
					if !inverted && inside {
						return true
					}
				}
				return false
			}
		}
	}

	// drop pieces with an endpoint in forbidden territory
	for pi := range b.pieces {
		p := &b.pieces[pi]
		if p.dead {
			continue
		}
		if p.va >= 0 && forbidden(b.endpoint(p, true)) {
			p.dead = true
			continue
		}
		if p.vb >= 0 && forbidden(b.endpoint(p, false)) {
			p.dead = true
		}
	}

	// a vertex is only real if at least one surviving finite edge is
	// incident on it; endpoints of half-infinite fragments whose
	// partners were filtered away must not become path-query targets
	degree := make(map[int]int)
	for pi := range b.pieces {
		p := &b.pieces[pi]
		if p.dead || p.va < 0 || p.vb < 0 || p.va == p.vb {
			continue
		}
		degree[p.va]++
		degree[p.vb]++
	}

	// compact vertex indices over the surviving pieces
	remap := make([]int, len(b.verts))
	for i := range remap {
		remap[i] = -1
	}
	d := &Diagram{Graph: graph.NewAdjacencyList()}
	mapVert := func(old int) int {
		if old < 0 || degree[old] == 0 {
			return -1
		}
		if remap[old] < 0 {
			remap[old] = len(d.Vertices)
			d.Vertices = append(d.Vertices, b.verts[old])
			d.Graph.AddVertex(strconv.Itoa(remap[old]))
		}
		return remap[old]
	}

	for pi := range b.pieces {
		p := &b.pieces[pi]
		if p.dead {
			continue
		}
		va, vb := mapVert(p.va), mapVert(p.vb)
		if p.linear {
			d.Linear = append(d.Linear, LinearBisector{Seg: p.seg, VertA: va, VertB: vb})
			if va >= 0 && vb >= 0 && va != vb {
				d.Graph.AddEdgeSym(va, vb, p.seg.Length())
			}
		} else {
			d.Parabolic = append(d.Parabolic, ParabolicBisector{Polyline: p.poly, VertA: va, VertB: vb})
			if va >= 0 && vb >= 0 && va != vb {
				chord := p.poly[len(p.poly)-1].Sub(p.poly[0]).Len()
				d.Graph.AddEdgeSym(va, vb, chord)
			}
		}
	}
	return d
}

func (b *diagramBuilder) endpoint(p *piece, first bool) geom.Vec2 {
	if p.linear {
		if first {
			return p.seg.A
		}
		return p.seg.B
	}
	if first {
		return p.poly[0]
	}
	return p.poly[len(p.poly)-1]
}
