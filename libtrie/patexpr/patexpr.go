// Package patexpr parses compact pattern expressions such as "1-2-3,1>3" into pattern graphs.
//
// Vertices are 1-based ints.  A run "a op b op c ..." adds an edge between each consecutive pair:
//
//   - edge in both directions (the only meaning for undirected patterns)
//     >   edge from the left vertex to the right one
//     <   edge from the right vertex to the left one
//
// Runs are separated by commas and all share the same vertex numbering.
package patexpr

import (
	"github.com/2x3systems/gotrie/gotrie"
	"github.com/2x3systems/gotrie/libtrie/graph"
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"
)

type PatternExpr struct {
	EdgeRuns []*EdgeRun `parser:"@@ (\",\" @@)*"`
}

type EdgeRun struct {
	StartVtx *Vtx       `parser:"@@"`
	Edges    []*EdgeDst `parser:"@@*"`
}

type EdgeDst struct {
	Kind   string `parser:"@( \"-\" | \">\" | \"<\" )"`
	EndVtx *Vtx   `parser:"@@"`
}

type Vtx struct {
	ID int `parser:"@Int"`
}

var parsePatternExpr = participle.MustBuild[PatternExpr]()

// Parse builds the pattern graph described by expr.  The vertex count is the largest vertex ID named.
func Parse(expr string, kind gotrie.GraphKind) (*graph.Matrix, error) {
	parsed, err := parsePatternExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrapf(gotrie.ErrBadAdjacency, "pattern '%s': %v", expr, err)
	}

	k := 0
	for _, run := range parsed.EdgeRuns {
		for _, vtx := range run.vertices() {
			if vtx.ID < 1 || vtx.ID > gotrie.MaxPatternSize {
				return nil, errors.Wrapf(gotrie.ErrBadVtxID, "pattern '%s': vertex %d", expr, vtx.ID)
			}
			if vtx.ID > k {
				k = vtx.ID
			}
		}
	}

	g := graph.NewMatrix(k, kind)
	for _, run := range parsed.EdgeRuns {
		at := run.StartVtx.ID - 1
		for _, edge := range run.Edges {
			next := edge.EndVtx.ID - 1
			if at == next {
				return nil, errors.Wrapf(gotrie.ErrBadEdge, "pattern '%s': self loop on vertex %d", expr, at+1)
			}
			switch {
			case kind == gotrie.Undirected:
				g.AddLink(at, next)
			case edge.Kind == "-":
				g.AddEdge(at, next)
				g.AddEdge(next, at)
			case edge.Kind == ">":
				g.AddEdge(at, next)
			case edge.Kind == "<":
				g.AddEdge(next, at)
			}
			at = next
		}
	}
	return g, nil
}

// ParseAdjacency is Parse returning the pattern's adjacency string and vertex count.
func ParseAdjacency(expr string, kind gotrie.GraphKind) (string, int, error) {
	g, err := Parse(expr, kind)
	if err != nil {
		return "", 0, err
	}
	return graph.Adjacency(g), g.NumNodes(), nil
}

func (run *EdgeRun) vertices() []*Vtx {
	vtxs := make([]*Vtx, 0, 1+len(run.Edges))
	vtxs = append(vtxs, run.StartVtx)
	for _, edge := range run.Edges {
		vtxs = append(vtxs, edge.EndVtx)
	}
	return vtxs
}
