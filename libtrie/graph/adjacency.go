package graph

import (
	"github.com/2x3systems/gotrie/gotrie"
	"github.com/pkg/errors"
)

// ValidateAdjacency checks that adj is a k*k string of '0' and '1' with an empty diagonal, and that it
// is symmetric when kind is Undirected.
func ValidateAdjacency(adj string, k int, kind gotrie.GraphKind) error {
	if k < 1 || len(adj) != k*k {
		return errors.Wrapf(gotrie.ErrBadAdjacency, "length %d does not match size %d", len(adj), k)
	}
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			c := adj[i*k+j]
			if c != '0' && c != '1' {
				return errors.Wrapf(gotrie.ErrBadAdjacency, "unexpected char %q at %d", c, i*k+j)
			}
			if i == j && c == '1' {
				return errors.Wrapf(gotrie.ErrBadAdjacency, "self loop at vertex %d", i+1)
			}
			if kind == gotrie.Undirected && c != adj[j*k+i] {
				return errors.Wrapf(gotrie.ErrBadAdjacency, "asymmetric entry (%d,%d) in undirected pattern", i+1, j+1)
			}
		}
	}
	return nil
}

// FromAdjacency builds a Matrix from a k*k row-major adjacency string.
func FromAdjacency(adj string, k int, kind gotrie.GraphKind) (*Matrix, error) {
	if err := ValidateAdjacency(adj, k, kind); err != nil {
		return nil, err
	}
	g := NewMatrix(k, kind)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if adj[i*k+j] == '1' {
				g.AddEdge(i, j)
			}
		}
	}
	return g, nil
}

// AppendAdjacency appends the row-major adjacency string of the subgraph induced by nodes.
func AppendAdjacency(dst []byte, g gotrie.HostGraph, nodes []int) []byte {
	for _, a := range nodes {
		for _, b := range nodes {
			if g.HasEdge(a, b) {
				dst = append(dst, '1')
			} else {
				dst = append(dst, '0')
			}
		}
	}
	return dst
}

// Adjacency returns the row-major adjacency string of all of g.
func Adjacency(g gotrie.HostGraph) string {
	n := g.NumNodes()
	nodes := make([]int, n)
	for i := range nodes {
		nodes[i] = i
	}
	return string(AppendAdjacency(make([]byte, 0, n*n), g, nodes))
}
