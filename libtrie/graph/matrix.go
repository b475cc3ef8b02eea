package graph

import (
	"sort"

	"github.com/2x3systems/gotrie/gotrie"
)

// Edge is a directed arc between two 0-based vertices.
type Edge struct {
	From, To int
}

// Matrix is a mutable HostGraph backed by a dense adjacency matrix.
//
// Alongside the matrix it keeps per-vertex out and in arc lists (used for rewiring) and a sorted
// array of distinct neighbours (used by the census to enumerate candidates).
type Matrix struct {
	kind gotrie.GraphKind
	arcs int
	adj  [][]bool
	out  [][]int
	in   [][]int
	nbrs [][]int
}

var (
	_ gotrie.MatrixGraph = (*Matrix)(nil)
)

// NewMatrix returns an edgeless graph with n vertices.
func NewMatrix(n int, kind gotrie.GraphKind) *Matrix {
	g := &Matrix{
		kind: kind,
		adj:  make([][]bool, n),
		out:  make([][]int, n),
		in:   make([][]int, n),
		nbrs: make([][]int, n),
	}
	cells := make([]bool, n*n)
	for i := range g.adj {
		g.adj[i] = cells[i*n : (i+1)*n : (i+1)*n]
	}
	return g
}

// Clone returns a deep copy of g.
func (g *Matrix) Clone() *Matrix {
	n := len(g.adj)
	dup := NewMatrix(n, g.kind)
	dup.arcs = g.arcs
	for i := 0; i < n; i++ {
		copy(dup.adj[i], g.adj[i])
		dup.out[i] = append([]int(nil), g.out[i]...)
		dup.in[i] = append([]int(nil), g.in[i]...)
		dup.nbrs[i] = append([]int(nil), g.nbrs[i]...)
	}
	return dup
}

func (g *Matrix) Kind() gotrie.GraphKind {
	return g.kind
}

func (g *Matrix) NumNodes() int {
	return len(g.adj)
}

// NumEdges returns the number of arcs for a directed graph and the number of vertex pairs for an
// undirected one.
func (g *Matrix) NumEdges() int {
	if g.kind == gotrie.Undirected {
		return g.arcs / 2
	}
	return g.arcs
}

func (g *Matrix) HasEdge(a, b int) bool {
	return g.adj[a][b]
}

func (g *Matrix) IsConnected(a, b int) bool {
	return g.adj[a][b] || g.adj[b][a]
}

func (g *Matrix) NumNeighbours(a int) int {
	return len(g.nbrs[a])
}

func (g *Matrix) Neighbours(a int) []int {
	return g.nbrs[a]
}

func (g *Matrix) AdjacencyMatrix() [][]bool {
	return g.adj
}

// OutEdges returns the heads of all arcs leaving a.  The slice is owned by g.
func (g *Matrix) OutEdges(a int) []int {
	return g.out[a]
}

// InEdges returns the tails of all arcs entering a.  The slice is owned by g.
func (g *Matrix) InEdges(a int) []int {
	return g.in[a]
}

// AddEdge adds the arc a -> b, returning false if it is a self loop or is already present.
func (g *Matrix) AddEdge(a, b int) bool {
	if a == b || g.adj[a][b] {
		return false
	}
	wasConnected := g.adj[b][a]
	g.adj[a][b] = true
	g.out[a] = append(g.out[a], b)
	g.in[b] = append(g.in[b], a)
	g.arcs++
	if !wasConnected {
		g.nbrs[a] = insertSorted(g.nbrs[a], b)
		g.nbrs[b] = insertSorted(g.nbrs[b], a)
	}
	return true
}

// RemoveEdge removes the arc a -> b, returning false if it was not present.
func (g *Matrix) RemoveEdge(a, b int) bool {
	if !g.adj[a][b] {
		return false
	}
	g.adj[a][b] = false
	g.out[a] = removeValue(g.out[a], b)
	g.in[b] = removeValue(g.in[b], a)
	g.arcs--
	if !g.adj[b][a] {
		g.nbrs[a] = removeSorted(g.nbrs[a], b)
		g.nbrs[b] = removeSorted(g.nbrs[b], a)
	}
	return true
}

// AddLink adds a -> b and, for an undirected graph, b -> a as well.
func (g *Matrix) AddLink(a, b int) bool {
	added := g.AddEdge(a, b)
	if g.kind == gotrie.Undirected {
		if g.AddEdge(b, a) {
			added = true
		}
	}
	return added
}

func insertSorted(vals []int, v int) []int {
	i := sort.SearchInts(vals, v)
	if i < len(vals) && vals[i] == v {
		return vals
	}
	vals = append(vals, 0)
	copy(vals[i+1:], vals[i:])
	vals[i] = v
	return vals
}

func removeSorted(vals []int, v int) []int {
	i := sort.SearchInts(vals, v)
	if i < len(vals) && vals[i] == v {
		vals = append(vals[:i], vals[i+1:]...)
	}
	return vals
}

// removeValue drops one occurrence of v without preserving order.
func removeValue(vals []int, v int) []int {
	last := len(vals) - 1
	for i, vi := range vals {
		if vi == v {
			vals[i] = vals[last]
			return vals[:last]
		}
	}
	return vals
}
