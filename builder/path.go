package builder

import (
	"math"

	"github.com/tastools/tasplan/dbg"
	"github.com/tastools/tasplan/geom"
	"github.com/tastools/tasplan/graph"
)

// PathStrategy selects the edge weighting of the roadmap search.
type PathStrategy int

const (
	// StrategyShortest uses plain Euclidean edge lengths.
	StrategyShortest PathStrategy = iota
	// StrategyPenaliseWalls adds a penalty growing with the inverse
	// distance to the nearest wall, keeping the path away from
	// obstacles.
	StrategyPenaliseWalls
)

// InstrumentPath is the result of a path query. Vertices are roadmap
// vertex indices from start to end; StartVertex/EndVertex are -1 when
// no roadmap vertex could be assigned.
type InstrumentPath struct {
	Ok        bool
	Cancelled bool

	StartVertex int
	EndVertex   int
	Vertices    []int

	startPix, endPix       geom.Vec2
	paramStart, paramEnd   float64
	linearStart, linearEnd bool
}

// FindPath plans from the current to the target angular position, both
// given as (a2, a4) in radians. It fails fast when any pipeline stage
// is missing or invalid.
func (b *Builder) FindPath(a2Cur, a4Cur, a2Tgt, a4Tgt float64, strategy PathStrategy) InstrumentPath {
	path := InstrumentPath{StartVertex: -1, EndVertex: -1}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.valid || b.space == nil || b.raster == nil || b.diagram == nil {
		return path
	}

	// both endpoints must be reachable poses
	for _, pose := range [][2]float64{{a2Cur, a4Cur}, {a2Tgt, a4Tgt}} {
		a2 := pose[0] * b.senses[b.monoIdx()]
		a4 := pose[1] * b.senses[1]
		if !b.space.InLimits(a2, a4) {
			return path
		}
		if colliding, _ := b.space.CheckCollision(a2, a4); colliding {
			return path
		}
	}

	path.startPix = b.AngleToPixel(a4Cur, a2Cur, false, true)
	path.endPix = b.AngleToPixel(a4Tgt, a2Tgt, false, true)

	d := b.diagram
	if len(d.Vertices) == 0 {
		return path
	}
	path.StartVertex = d.ClosestVertex(path.startPix)
	path.EndVertex = d.ClosestVertex(path.endPix)
	b.log.Debugw("nearest roadmap vertices",
		"start", dbg.Vertex(path.StartVertex), "end", dbg.Vertex(path.EndVertex))

	var weightFn graph.WeightFunc
	if strategy == StrategyPenaliseWalls && b.nearWalls != nil && b.nearWalls.Len() > 0 {
		weightFn = func(from, to int, w float64) (float64, bool) {
			minDist := math.Inf(1)
			for _, v := range []int{from, to} {
				wall, ok := b.nearWalls.Query(d.Vertices[v])
				if !ok {
					continue
				}
				diff := b.PixelToAngle(wall, false, false).Sub(
					b.PixelToAngle(d.Vertices[v], false, false))
				if l := b.pathLength(diff); l < minDist {
					minDist = l
				}
			}
			if math.IsInf(minDist, 1) || minDist <= 0 {
				return w, true
			}
			return w + b.wallPenalty/minDist, true
		}
	}

	pred := graph.DijkstraHeap(d.Graph, d.Graph.VertexIdent(path.StartVertex), weightFn)
	if pred == nil {
		return path
	}
	verts, ok := graph.ReconstructPath(pred, path.StartVertex, path.EndVertex)
	if !ok {
		return path
	}
	path.Vertices = verts
	path.Ok = true

	b.refineEnds(&path)

	if b.verifyPath && !b.pathFree(&path) {
		path.Ok = false
	}
	return path
}

// refineEnds projects the exact start and end positions onto the
// closest incident bisector, possibly swapping the first or last hop
// for a closer neighbouring edge.
func (b *Builder) refineEnds(path *InstrumentPath) {
	d := b.diagram
	path.paramStart, path.paramEnd = 0, 1
	path.linearStart, path.linearEnd = true, true
	if len(path.Vertices) < 2 {
		return
	}

	// entry
	v0, v1 := path.Vertices[0], path.Vertices[1]
	bestIdx := v1
	param, dist, isLin := b.closestOnEdge(v0, v1, path.startPix)
	for _, nb := range d.Graph.Neighbours(v0) {
		if nb == v1 {
			continue
		}
		p, dd, lin := b.closestOnEdge(nb, v0, path.startPix)
		if p >= 0 && p <= 1 && (dd < dist || param < 0 || param > 1) {
			param, dist, isLin = p, dd, lin
			bestIdx = nb
		}
	}
	if bestIdx != v1 {
		path.Vertices = append([]int{bestIdx}, path.Vertices...)
	}
	path.paramStart = clamp01(param)
	path.linearStart = isLin

	// exit
	n := len(path.Vertices)
	u0, u1 := path.Vertices[n-2], path.Vertices[n-1]
	bestIdx = u0
	param, dist, isLin = b.closestOnEdge(u0, u1, path.endPix)
	for _, nb := range d.Graph.Neighbours(u1) {
		if nb == u0 {
			continue
		}
		p, dd, lin := b.closestOnEdge(u1, nb, path.endPix)
		if p >= 0 && p <= 1 && (dd < dist || param < 0 || param > 1) {
			param, dist, isLin = p, dd, lin
			bestIdx = nb
		}
	}
	if bestIdx != u0 {
		path.Vertices = append(path.Vertices, bestIdx)
	}
	path.paramEnd = clamp01(param)
	path.linearEnd = isLin
}

// closestOnEdge finds the parameter of the point on the bisector
// between two roadmap vertices that is closest to vec.
func (b *Builder) closestOnEdge(idx1, idx2 int, vec geom.Vec2) (param, dist float64, isLinear bool) {
	d := b.diagram
	v1, v2 := d.Vertices[idx1], d.Vertices[idx2]

	param, dist = -1, math.Inf(1)
	isLinear = true
	if _, ok := d.LinearEdge(idx1, idx2); ok {
		dir := v2.Sub(v1)
		l := dir.Len()
		if l > 0 {
			_, dd, t := geom.ProjectLine(vec, v1, dir.Mul(1/l))
			param, dist = t/l, dd
		}
	}

	if para, ok := d.ParabolicEdge(idx1, idx2); ok && len(para.Polyline) > 1 {
		inverted := geom.VecEqual(para.Polyline[0], v2, b.eps)
		best, bestD := 0, math.Inf(1)
		for i, p := range para.Polyline {
			if dd := p.Sub(vec).Len(); dd < bestD {
				best, bestD = i, dd
			}
		}
		if bestD < dist {
			param = float64(best) / float64(len(para.Polyline)-1)
			if inverted {
				param = 1 - param
			}
			dist = bestD
			isLinear = false
		}
	}
	return param, dist, isLinear
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// pathFree samples the straight pixel segments between consecutive path
// vertices and requires every touched cell to be free.
func (b *Builder) pathFree(path *InstrumentPath) bool {
	pts := b.pixelVertices(path, true)
	for i := 0; i+1 < len(pts); i++ {
		if !b.segmentFree(pts[i], pts[i+1]) {
			return false
		}
	}
	return true
}

func (b *Builder) segmentFree(p, q geom.Vec2) bool {
	steps := int(q.Sub(p).Len()*2) + 1
	for k := 0; k <= steps; k++ {
		t := float64(k) / float64(steps)
		if !b.raster.Free(p.Add(q.Sub(p).Mul(t))) {
			return false
		}
	}
	return true
}

// pixelVertices expands a path into raster coordinates, walking
// parabolic bisectors along their polylines and trimming the first and
// last hop to the projected entry and exit parameters.
func (b *Builder) pixelVertices(path *InstrumentPath, extend bool) []geom.Vec2 {
	if !path.Ok && len(path.Vertices) == 0 {
		return nil
	}
	d := b.diagram
	var out []geom.Vec2
	if extend {
		out = append(out, path.startPix)
	}

	for i := 1; i < len(path.Vertices); i++ {
		prev := path.Vertices[i-1]
		cur := path.Vertices[i]
		vPrev, vCur := d.Vertices[prev], d.Vertices[cur]

		first := i == 1
		last := i == len(path.Vertices)-1

		para, havePara := d.ParabolicEdge(prev, cur)
		isLinear := !havePara
		if first && len(path.Vertices) > 1 {
			isLinear = path.linearStart
		} else if last && i > 1 {
			isLinear = path.linearEnd
		}

		if !isLinear && havePara {
			pts := para.Polyline
			inverted := len(pts) > 0 && geom.VecEqual(pts[0], vCur, b.eps)
			if inverted {
				rev := make([]geom.Vec2, len(pts))
				for k, p := range pts {
					rev[len(pts)-1-k] = p
				}
				pts = rev
			}
			begin, end := 0, len(pts)
			if first {
				begin = int(path.paramStart * float64(len(pts)))
				if begin >= len(pts) {
					begin = len(pts) - 1
				}
			}
			if last {
				end = int(math.Ceil(path.paramEnd * float64(len(pts))))
				if end > len(pts) {
					end = len(pts)
				}
				if end <= begin {
					end = begin + 1
				}
			}
			out = append(out, pts[begin:end]...)
			continue
		}

		switch {
		case first && len(path.Vertices) > 1:
			out = append(out, vPrev.Add(vCur.Sub(vPrev).Mul(path.paramStart)))
			if !last {
				out = append(out, vCur)
			} else {
				out = append(out, vPrev.Add(vCur.Sub(vPrev).Mul(path.paramEnd)))
			}
		case last && i > 1:
			out = append(out, vPrev.Add(vCur.Sub(vPrev).Mul(path.paramEnd)))
		default:
			out = append(out, vCur)
		}
	}

	if extend {
		out = append(out, path.endPix)
	}
	return out
}

// GetPathVertices returns the angular (a2, a4) waypoints of a path,
// optionally including the exact start and end positions and optionally
// smoothed by two rounds of corner cutting. Angles are radians, without
// scattering senses.
func (b *Builder) GetPathVertices(path InstrumentPath, extend, smooth bool) []geom.Vec2 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !path.Ok || b.raster == nil {
		return nil
	}

	pix := b.pixelVertices(&path, extend)

	if b.subdivLen > 0 {
		pix = subdivide(pix, b.subdivLen)
		pix = removeClose(pix, b.subdivLen/2)
	}
	if smooth {
		pix = chaikin(pix, 2)
	}

	out := make([]geom.Vec2, 0, len(pix))
	for _, p := range pix {
		if b.verifyPath {
			angle := b.PixelToAngle(p, false, true)
			a4, a2 := angle[0], angle[1]
			if !b.space.InLimits(a2, a4) {
				continue
			}
			if colliding, _ := b.space.CheckCollision(a2, a4); colliding {
				continue
			}
		}
		angle := b.PixelToAngle(p, false, false)
		out = append(out, geom.Vec2{angle[1], angle[0]}) // (a2, a4)
	}
	return out
}

// subdivide splits long segments so no step exceeds maxLen.
func subdivide(pts []geom.Vec2, maxLen float64) []geom.Vec2 {
	if len(pts) < 2 {
		return pts
	}
	var out []geom.Vec2
	out = append(out, pts[0])
	for i := 1; i < len(pts); i++ {
		p, q := pts[i-1], pts[i]
		l := q.Sub(p).Len()
		n := int(l / maxLen)
		for k := 1; k <= n; k++ {
			out = append(out, p.Add(q.Sub(p).Mul(float64(k)/float64(n+1))))
		}
		out = append(out, q)
	}
	return out
}

// removeClose drops intermediate vertices closer than minDist to their
// predecessor; endpoints always stay.
func removeClose(pts []geom.Vec2, minDist float64) []geom.Vec2 {
	if len(pts) < 3 {
		return pts
	}
	out := []geom.Vec2{pts[0]}
	for i := 1; i < len(pts)-1; i++ {
		if pts[i].Sub(out[len(out)-1]).Len() >= minDist {
			out = append(out, pts[i])
		}
	}
	return append(out, pts[len(pts)-1])
}

// chaikin cuts corners: each segment is replaced by its 1/4 and 3/4
// points, and the two endpoints are kept.
func chaikin(pts []geom.Vec2, iterations int) []geom.Vec2 {
	for it := 0; it < iterations; it++ {
		if len(pts) < 3 {
			return pts
		}
		out := []geom.Vec2{pts[0]}
		for i := 0; i+1 < len(pts); i++ {
			p, q := pts[i], pts[i+1]
			out = append(out,
				p.Mul(0.75).Add(q.Mul(0.25)),
				p.Mul(0.25).Add(q.Mul(0.75)))
		}
		pts = append(out, pts[len(pts)-1])
	}
	return pts
}
