package graph

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// LoadOpts specifies how an edge list is read and what it is loaded into.
type LoadOpts struct {
	Kind    gotrie.GraphKind
	Format  gotrie.InputFormat
	Backing gotrie.Backing
}

// ReadEdges reads whitespace-separated edge lines with 1-based vertex IDs and returns 0-based arcs in
// file order along with the number of vertices (the largest ID seen).
//
// Blank lines and lines starting with '#' are skipped.
func ReadEdges(r io.Reader, format gotrie.InputFormat) ([]Edge, int, error) {
	var (
		edges    []Edge
		numNodes int
		lineNum  int
	)

	minFields := 2
	if format == gotrie.FormatSimpleWeight {
		minFields = 3
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < minFields {
			return nil, 0, errors.Wrapf(gotrie.ErrBadEdge, "line %d: expected %d fields, got %d", lineNum, minFields, len(fields))
		}

		var ends [2]int
		for i := range ends {
			id, err := strconv.Atoi(fields[i])
			if err != nil || id < 1 {
				return nil, 0, errors.Wrapf(gotrie.ErrBadVtxID, "line %d: '%s'", lineNum, fields[i])
			}
			if id > numNodes {
				numNodes = id
			}
			ends[i] = id - 1
		}
		if format == gotrie.FormatSimpleWeight {
			if _, err := strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, 0, errors.Wrapf(gotrie.ErrBadEdge, "line %d: bad weight '%s'", lineNum, fields[2])
			}
		}
		edges = append(edges, Edge{From: ends[0], To: ends[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}

	return edges, numNodes, nil
}

// Build loads arcs into the backing named by opts, skipping self loops and repeated edges with a warning.
func Build(numNodes int, edges []Edge, opts LoadOpts) (gotrie.HostGraph, error) {
	kept := make([]Edge, 0, len(edges))
	seen := make(map[Edge]struct{}, len(edges))
	selfLoops, repeats := 0, 0

	for _, e := range edges {
		if e.From == e.To {
			selfLoops++
			klog.V(1).Infof("skipping self loop on vertex %d", e.From+1)
			continue
		}
		key := e
		if opts.Kind == gotrie.Undirected && key.From > key.To {
			key.From, key.To = key.To, key.From
		}
		if _, exists := seen[key]; exists {
			repeats++
			klog.V(1).Infof("skipping repeated edge %d-%d", e.From+1, e.To+1)
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, e)
	}

	if selfLoops > 0 {
		klog.Warningf("%d self loops ignored", selfLoops)
	}
	if repeats > 0 {
		klog.Warningf("%d repeated edges ignored", repeats)
	}

	switch opts.Backing {
	case gotrie.BackingMatrix:
		g := NewMatrix(numNodes, opts.Kind)
		for _, e := range kept {
			g.AddLink(e.From, e.To)
		}
		return g, nil
	case gotrie.BackingSparse:
		return NewSparse(numNodes, opts.Kind, kept), nil
	}
	return nil, gotrie.ErrBadBacking
}

// ReadEdgeList reads an edge list and builds a HostGraph from it.
func ReadEdgeList(r io.Reader, opts LoadOpts) (gotrie.HostGraph, error) {
	edges, numNodes, err := ReadEdges(r, opts.Format)
	if err != nil {
		return nil, err
	}
	return Build(numNodes, edges, opts)
}

// LoadFile opens and reads the edge list at pathname.
func LoadFile(pathname string, opts LoadOpts) (gotrie.HostGraph, error) {
	if pathname == "" {
		return nil, errors.Wrap(gotrie.ErrMissingPath, "graph file")
	}
	file, err := os.Open(pathname)
	if err != nil {
		return nil, errors.Wrapf(err, "opening graph '%s'", pathname)
	}
	defer file.Close()

	g, err := ReadEdgeList(file, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "reading graph '%s'", pathname)
	}
	klog.Infof("loaded '%s': %d nodes, %d edges (%v)", pathname, g.NumNodes(), g.NumEdges(), opts.Kind)
	return g, nil
}

// ToMatrix returns g if it is already a *Matrix, otherwise a Matrix copy of it.
func ToMatrix(g gotrie.HostGraph) *Matrix {
	if mat, ok := g.(*Matrix); ok {
		return mat
	}
	n := g.NumNodes()
	mat := NewMatrix(n, g.Kind())
	for a := 0; a < n; a++ {
		for _, b := range g.Neighbours(a) {
			if g.HasEdge(a, b) {
				mat.AddEdge(a, b)
			}
		}
	}
	return mat
}
