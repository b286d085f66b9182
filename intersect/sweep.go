package intersect

import (
	"container/heap"
	"math"
	"sort"

	"github.com/tastools/tasplan/geom"
)

// Sweep finds all intersections Bentley–Ottmann style: an event queue
// over segment endpoints and scheduled crossings, and a status list of
// active segments ordered by y at the sweep line.
//
// The input is rotated by a small fixed angle before sweeping so that
// vertical segments and endpoint ties in x disappear; reported points
// are rotated back. Collinear overlaps never enter the status as
// crossings and are handled up front, like in the naive tester.
func Sweep(segs []geom.Segment, eps float64) []Intersection {
	const tilt = 1e-4

	var out []Intersection

	// collinear overlaps: once per shared endpoint
	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			if collinear(segs[i], segs[j], eps) {
				out = append(out, intersectPair(segs, i, j, eps)...)
			}
		}
	}

	rot := make([]geom.Segment, len(segs))
	for i, s := range segs {
		rot[i] = geom.Segment{
			A: geom.RotatePoint(s.A, tilt),
			B: geom.RotatePoint(s.B, tilt),
		}
		if rot[i].A[0] > rot[i].B[0] {
			rot[i].A, rot[i].B = rot[i].B, rot[i].A
		}
	}

	sw := &sweeper{segs: rot, eps: eps, scheduled: map[[2]int]bool{}}
	for i := range rot {
		heap.Push(&sw.events, event{p: rot[i].A, kind: evLeft, a: i})
		heap.Push(&sw.events, event{p: rot[i].B, kind: evRight, a: i})
	}

	reported := map[[2]int]bool{}
	for sw.events.Len() > 0 {
		ev := heap.Pop(&sw.events).(event)
		sw.x = ev.p[0]
		switch ev.kind {
		case evLeft:
			sw.insert(ev.a)
		case evRight:
			sw.remove(ev.a)
		case evCross:
			if sw.active(ev.a) && sw.active(ev.b) {
				key := pairKey(ev.a, ev.b)
				if !reported[key] {
					reported[key] = true
					out = append(out, Intersection{
						I: key[0], J: key[1],
						P: geom.RotatePoint(ev.p, -tilt),
					})
				}
				sw.swap(ev.a, ev.b)
			}
		}
	}

	sortIntersections(out)
	return out
}

const (
	evLeft = iota
	evCross
	evRight
)

type event struct {
	p    geom.Vec2
	kind int
	a, b int
}

type eventQueue []event

func (q eventQueue) Len() int { return len(q) }
func (q eventQueue) Less(i, j int) bool {
	if q[i].p[0] != q[j].p[0] {
		return q[i].p[0] < q[j].p[0]
	}
	if q[i].p[1] != q[j].p[1] {
		return q[i].p[1] < q[j].p[1]
	}
	return q[i].kind < q[j].kind
}
func (q eventQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x interface{}) { *q = append(*q, x.(event)) }
func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

type sweeper struct {
	segs      []geom.Segment
	eps       float64
	x         float64
	status    []int
	events    eventQueue
	scheduled map[[2]int]bool
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// yAt evaluates segment s at the sweep position.
func (sw *sweeper) yAt(s int, x float64) float64 {
	seg := sw.segs[s]
	dx := seg.B[0] - seg.A[0]
	if math.Abs(dx) < 1e-300 {
		return seg.A[1]
	}
	t := (x - seg.A[0]) / dx
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return seg.A[1] + t*(seg.B[1]-seg.A[1])
}

func (sw *sweeper) slope(s int) float64 {
	seg := sw.segs[s]
	dx := seg.B[0] - seg.A[0]
	if math.Abs(dx) < 1e-300 {
		return math.Inf(1)
	}
	return (seg.B[1] - seg.A[1]) / dx
}

// less orders two active segments just after the current sweep position.
func (sw *sweeper) less(a, b int) bool {
	ya, yb := sw.yAt(a, sw.x), sw.yAt(b, sw.x)
	if math.Abs(ya-yb) > sw.eps {
		return ya < yb
	}
	return sw.slope(a) < sw.slope(b)
}

func (sw *sweeper) active(s int) bool {
	return sw.indexOf(s) >= 0
}

func (sw *sweeper) indexOf(s int) int {
	for i, t := range sw.status {
		if t == s {
			return i
		}
	}
	return -1
}

func (sw *sweeper) insert(s int) {
	pos := sort.Search(len(sw.status), func(i int) bool {
		return sw.less(s, sw.status[i])
	})
	sw.status = append(sw.status, 0)
	copy(sw.status[pos+1:], sw.status[pos:])
	sw.status[pos] = s

	if pos > 0 {
		sw.schedule(sw.status[pos-1], s)
	}
	if pos+1 < len(sw.status) {
		sw.schedule(s, sw.status[pos+1])
	}
}

func (sw *sweeper) remove(s int) {
	pos := sw.indexOf(s)
	if pos < 0 {
		return
	}
	sw.status = append(sw.status[:pos], sw.status[pos+1:]...)
	if pos > 0 && pos < len(sw.status) {
		sw.schedule(sw.status[pos-1], sw.status[pos])
	}
}

// swap exchanges two segments that cross at the current event and
// schedules their new neighbour pairs.
func (sw *sweeper) swap(a, b int) {
	ia, ib := sw.indexOf(a), sw.indexOf(b)
	if ia < 0 || ib < 0 {
		return
	}
	if ia > ib {
		ia, ib = ib, ia
	}
	sw.status[ia], sw.status[ib] = sw.status[ib], sw.status[ia]
	if ia > 0 {
		sw.schedule(sw.status[ia-1], sw.status[ia])
	}
	if ib+1 < len(sw.status) {
		sw.schedule(sw.status[ib], sw.status[ib+1])
	}
}

// schedule queues the crossing of two segments if they intersect ahead
// of the sweep line.
func (sw *sweeper) schedule(a, b int) {
	key := pairKey(a, b)
	if sw.scheduled[key] {
		return
	}
	sa, sb := sw.segs[a], sw.segs[b]
	p, ok := geom.IntersectLines(sa.A, sa.B, sb.A, sb.B, true, sw.eps)
	if !ok || p[0] < sw.x-sw.eps {
		return
	}
	sw.scheduled[key] = true
	heap.Push(&sw.events, event{p: p, kind: evCross, a: key[0], b: key[1]})
}
