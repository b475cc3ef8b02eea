package graph

import (
	"sort"

	"github.com/2x3systems/gotrie/gotrie"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Sparse is a read-only HostGraph backed by a gonum simple graph.
//
// It suits large sparse networks where an n*n matrix would not fit; neighbour arrays are frozen
// when the graph is built.
type Sparse struct {
	kind  gotrie.GraphKind
	dir   *simple.DirectedGraph
	undir *simple.UndirectedGraph
	arcs  int
	nbrs  [][]int
}

var (
	_ gotrie.HostGraph = (*Sparse)(nil)
)

// NewSparse builds a Sparse graph with n vertices from the given arcs.
// Self loops and repeated arcs are skipped.
func NewSparse(n int, kind gotrie.GraphKind, edges []Edge) *Sparse {
	g := &Sparse{
		kind: kind,
		nbrs: make([][]int, n),
	}

	var dst gonum.Builder
	if kind == gotrie.Undirected {
		g.undir = simple.NewUndirectedGraph()
		dst = g.undir
	} else {
		g.dir = simple.NewDirectedGraph()
		dst = g.dir
	}
	for i := 0; i < n; i++ {
		dst.AddNode(simple.Node(i))
	}

	for _, e := range edges {
		if e.From == e.To || g.HasEdge(e.From, e.To) {
			continue
		}
		if kind == gotrie.Undirected {
			g.undir.SetEdge(simple.Edge{F: simple.Node(e.From), T: simple.Node(e.To)})
			g.arcs += 2
		} else {
			g.dir.SetEdge(simple.Edge{F: simple.Node(e.From), T: simple.Node(e.To)})
			g.arcs++
		}
	}

	for i := 0; i < n; i++ {
		id := int64(i)
		var nbrs []int
		if g.undir != nil {
			nbrs = appendIDs(nbrs, g.undir.From(id))
		} else {
			nbrs = appendIDs(nbrs, g.dir.From(id))
			nbrs = appendIDs(nbrs, g.dir.To(id))
		}
		sort.Ints(nbrs)
		g.nbrs[i] = dedupeSorted(nbrs)
	}
	return g
}

func appendIDs(dst []int, it gonum.Nodes) []int {
	for it.Next() {
		dst = append(dst, int(it.Node().ID()))
	}
	return dst
}

func dedupeSorted(vals []int) []int {
	if len(vals) < 2 {
		return vals
	}
	j := 1
	for i := 1; i < len(vals); i++ {
		if vals[i] != vals[j-1] {
			vals[j] = vals[i]
			j++
		}
	}
	return vals[:j]
}

func (g *Sparse) Kind() gotrie.GraphKind {
	return g.kind
}

func (g *Sparse) NumNodes() int {
	return len(g.nbrs)
}

func (g *Sparse) NumEdges() int {
	if g.kind == gotrie.Undirected {
		return g.arcs / 2
	}
	return g.arcs
}

func (g *Sparse) HasEdge(a, b int) bool {
	if g.undir != nil {
		return g.undir.HasEdgeBetween(int64(a), int64(b))
	}
	return g.dir.HasEdgeFromTo(int64(a), int64(b))
}

func (g *Sparse) IsConnected(a, b int) bool {
	if g.undir != nil {
		return g.undir.HasEdgeBetween(int64(a), int64(b))
	}
	return g.dir.HasEdgeBetween(int64(a), int64(b))
}

func (g *Sparse) NumNeighbours(a int) int {
	return len(g.nbrs[a])
}

func (g *Sparse) Neighbours(a int) []int {
	return g.nbrs[a]
}
