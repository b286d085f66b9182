package graph

import (
	"container/heap"
	"math"
)

// WeightFunc lets a caller replace an edge weight during the search,
// for example to penalise edges running close to walls. Returning
// ok=false drops the edge.
type WeightFunc func(from, to int, w float64) (float64, bool)

// DijkstraScan is the straightforward single-source shortest path: pick
// the unvisited vertex with the smallest tentative distance by a linear
// scan, settle it, relax its neighbours. Ties on distance settle the
// lower vertex index. Returns the predecessor per vertex, -1 where
// unreachable (and for the start itself).
func DijkstraScan(g Graph, start string, wf WeightFunc) []int {
	startIdx, ok := g.VertexIndex(start)
	if !ok {
		return nil
	}
	n := g.NumVertices()
	dist := make([]float64, n)
	pred := make([]int, n)
	done := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		pred[i] = -1
	}
	dist[startIdx] = 0

	for {
		cur := -1
		for i := 0; i < n; i++ {
			if done[i] || math.IsInf(dist[i], 1) {
				continue
			}
			if cur < 0 || dist[i] < dist[cur] {
				cur = i
			}
		}
		if cur < 0 {
			break
		}
		done[cur] = true

		for _, nb := range g.Neighbours(cur) {
			w, ok := g.Weight(cur, nb)
			if !ok {
				continue
			}
			if wf != nil {
				if w, ok = wf(cur, nb, w); !ok {
					continue
				}
			}
			if dist[cur]+w < dist[nb] {
				dist[nb] = dist[cur] + w
				pred[nb] = cur
			}
		}
	}
	return pred
}

// DijkstraHeap is the priority-queue variant. It settles vertices in
// exactly the same (distance, index) order as DijkstraScan, so the
// predecessor arrays of the two implementations agree.
func DijkstraHeap(g Graph, start string, wf WeightFunc) []int {
	startIdx, ok := g.VertexIndex(start)
	if !ok {
		return nil
	}
	n := g.NumVertices()
	dist := make([]float64, n)
	pred := make([]int, n)
	done := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		pred[i] = -1
	}
	dist[startIdx] = 0

	pq := &distQueue{{0, startIdx}}
	heap.Init(pq)
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(distEntry)
		if done[cur.idx] {
			continue
		}
		done[cur.idx] = true

		for _, nb := range g.Neighbours(cur.idx) {
			w, ok := g.Weight(cur.idx, nb)
			if !ok {
				continue
			}
			if wf != nil {
				if w, ok = wf(cur.idx, nb, w); !ok {
					continue
				}
			}
			if d := dist[cur.idx] + w; d < dist[nb] {
				dist[nb] = d
				pred[nb] = cur.idx
				heap.Push(pq, distEntry{d, nb})
			}
		}
	}
	return pred
}

// ReconstructPath walks the predecessor array back from end to start.
// The returned sequence includes both endpoints; ok is false when end
// is not reachable.
func ReconstructPath(pred []int, start, end int) ([]int, bool) {
	var path []int
	cur := end
	for cur != start {
		path = append(path, cur)
		if cur < 0 || cur >= len(pred) || pred[cur] < 0 {
			return nil, false
		}
		cur = pred[cur]
	}
	path = append(path, start)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

type distEntry struct {
	dist float64
	idx  int
}

type distQueue []distEntry

func (q distQueue) Len() int { return len(q) }
func (q distQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].idx < q[j].idx
}
func (q distQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *distQueue) Push(x interface{}) { *q = append(*q, x.(distEntry)) }
func (q *distQueue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
