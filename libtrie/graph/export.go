package graph

import (
	"github.com/2x3systems/gotrie/gotrie"
	"gonum.org/v1/gonum/graph/encoding/graph6"
	"gonum.org/v1/gonum/graph/simple"
)

// Graph6 returns the graph6 encoding of the undirected topology of g.
// Edge direction is discarded.
func Graph6(g gotrie.HostGraph) string {
	n := g.NumNodes()
	dst := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		dst.AddNode(simple.Node(i))
	}
	for a := 0; a < n; a++ {
		for _, b := range g.Neighbours(a) {
			if a < b {
				dst.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
			}
		}
	}
	return string(graph6.Encode(dst))
}
