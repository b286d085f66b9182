// Package graph provides the weighted-graph backing for the roadmap and
// the shortest-path algorithms that run on it. Two representations are
// available; dense roadmaps use the matrix, sparse ones the list.
package graph

// Graph is the common contract of both representations. Edges are
// directed at this level; AddEdgeSym inserts both directions, which is
// what the roadmap uses.
type Graph interface {
	NumVertices() int
	AddVertex(ident string) int
	RemoveVertex(idx int)
	VertexIdent(idx int) string
	VertexIndex(ident string) (int, bool)
	AddEdge(from, to int, w float64)
	AddEdgeSym(a, b int, w float64)
	RemoveEdge(from, to int)
	Neighbours(idx int) []int
	Weight(from, to int) (float64, bool)
}

// AdjacencyMatrix is the dense representation.
type AdjacencyMatrix struct {
	idents []string
	w      [][]float64 // negative entries mean no edge
}

func NewAdjacencyMatrix() *AdjacencyMatrix {
	return &AdjacencyMatrix{}
}

func (g *AdjacencyMatrix) NumVertices() int { return len(g.idents) }

func (g *AdjacencyMatrix) AddVertex(ident string) int {
	g.idents = append(g.idents, ident)
	for i := range g.w {
		g.w[i] = append(g.w[i], -1)
	}
	row := make([]float64, len(g.idents))
	for i := range row {
		row[i] = -1
	}
	g.w = append(g.w, row)
	return len(g.idents) - 1
}

func (g *AdjacencyMatrix) RemoveVertex(idx int) {
	if idx < 0 || idx >= len(g.idents) {
		return
	}
	g.idents = append(g.idents[:idx], g.idents[idx+1:]...)
	g.w = append(g.w[:idx], g.w[idx+1:]...)
	for i := range g.w {
		g.w[i] = append(g.w[i][:idx], g.w[i][idx+1:]...)
	}
}

func (g *AdjacencyMatrix) VertexIdent(idx int) string {
	if idx < 0 || idx >= len(g.idents) {
		return ""
	}
	return g.idents[idx]
}

func (g *AdjacencyMatrix) VertexIndex(ident string) (int, bool) {
	for i, id := range g.idents {
		if id == ident {
			return i, true
		}
	}
	return 0, false
}

func (g *AdjacencyMatrix) AddEdge(from, to int, w float64) {
	g.w[from][to] = w
}

func (g *AdjacencyMatrix) AddEdgeSym(a, b int, w float64) {
	g.w[a][b] = w
	g.w[b][a] = w
}

func (g *AdjacencyMatrix) RemoveEdge(from, to int) {
	g.w[from][to] = -1
}

func (g *AdjacencyMatrix) Neighbours(idx int) []int {
	var out []int
	for j, w := range g.w[idx] {
		if w >= 0 {
			out = append(out, j)
		}
	}
	return out
}

func (g *AdjacencyMatrix) Weight(from, to int) (float64, bool) {
	if from < 0 || from >= len(g.idents) || to < 0 || to >= len(g.idents) {
		return 0, false
	}
	if w := g.w[from][to]; w >= 0 {
		return w, true
	}
	return 0, false
}

// AdjacencyList is the sparse representation.
type AdjacencyList struct {
	idents []string
	adj    [][]listEdge
}

type listEdge struct {
	to int
	w  float64
}

func NewAdjacencyList() *AdjacencyList {
	return &AdjacencyList{}
}

func (g *AdjacencyList) NumVertices() int { return len(g.idents) }

func (g *AdjacencyList) AddVertex(ident string) int {
	g.idents = append(g.idents, ident)
	g.adj = append(g.adj, nil)
	return len(g.idents) - 1
}

func (g *AdjacencyList) RemoveVertex(idx int) {
	if idx < 0 || idx >= len(g.idents) {
		return
	}
	g.idents = append(g.idents[:idx], g.idents[idx+1:]...)
	g.adj = append(g.adj[:idx], g.adj[idx+1:]...)
	for i := range g.adj {
		kept := g.adj[i][:0]
		for _, e := range g.adj[i] {
			if e.to == idx {
				continue
			}
			if e.to > idx {
				e.to--
			}
			kept = append(kept, e)
		}
		g.adj[i] = kept
	}
}

func (g *AdjacencyList) VertexIdent(idx int) string {
	if idx < 0 || idx >= len(g.idents) {
		return ""
	}
	return g.idents[idx]
}

func (g *AdjacencyList) VertexIndex(ident string) (int, bool) {
	for i, id := range g.idents {
		if id == ident {
			return i, true
		}
	}
	return 0, false
}

func (g *AdjacencyList) AddEdge(from, to int, w float64) {
	for i, e := range g.adj[from] {
		if e.to == to {
			g.adj[from][i].w = w
			return
		}
	}
	g.adj[from] = append(g.adj[from], listEdge{to, w})
}

func (g *AdjacencyList) AddEdgeSym(a, b int, w float64) {
	g.AddEdge(a, b, w)
	g.AddEdge(b, a, w)
}

func (g *AdjacencyList) RemoveEdge(from, to int) {
	for i, e := range g.adj[from] {
		if e.to == to {
			g.adj[from] = append(g.adj[from][:i], g.adj[from][i+1:]...)
			return
		}
	}
}

func (g *AdjacencyList) Neighbours(idx int) []int {
	out := make([]int, 0, len(g.adj[idx]))
	for _, e := range g.adj[idx] {
		out = append(out, e.to)
	}
	return out
}

func (g *AdjacencyList) Weight(from, to int) (float64, bool) {
	if from < 0 || from >= len(g.idents) || to < 0 || to >= len(g.idents) {
		return 0, false
	}
	for _, e := range g.adj[from] {
		if e.to == to {
			return e.w, true
		}
	}
	return 0, false
}
