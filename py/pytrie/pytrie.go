// Package pytrie registers the gpython module "_gotrie", exposing canonical forms, symmetry conditions,
// pattern expressions and network census to scripts.
package pytrie

import (
	"context"
	"sort"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/2x3systems/gotrie/libtrie/canon"
	"github.com/2x3systems/gotrie/libtrie/graph"
	"github.com/2x3systems/gotrie/libtrie/patexpr"
	"github.com/2x3systems/gotrie/libtrie/scan"
	"github.com/2x3systems/gotrie/libtrie/symmetry"
	"github.com/go-python/gpython/py"
)

var (
	LIB_VERSION = "v1.2026.1"
)

func runtimeErr(err error) error {
	return py.ExceptionNewf(py.RuntimeError, "%v", err)
}

// optKind reads an optional trailing "directed" arg.
func optKind(args py.Tuple, at int) (gotrie.GraphKind, error) {
	if len(args) <= at {
		return gotrie.Undirected, nil
	}
	truth, err := py.MakeBool(args[at])
	if err != nil {
		return 0, err
	}
	if truth == py.True {
		return gotrie.Directed, nil
	}
	return gotrie.Undirected, nil
}

// canonicalize(adj, k) -> str
func py_Canonicalize(module py.Object, args py.Tuple) (py.Object, error) {
	var adj string
	var k int32
	if err := py.LoadTuple(args, []interface{}{&adj, &k}); err != nil {
		return nil, err
	}
	form, err := canon.Canonicalize(adj, int(k))
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.String(form), nil
}

// pattern(expr, directed=False) -> (adj, k)
func py_Pattern(module py.Object, args py.Tuple) (py.Object, error) {
	var expr string
	if err := py.LoadTuple(args[:min(len(args), 1)], []interface{}{&expr}); err != nil {
		return nil, err
	}
	kind, err := optKind(args, 1)
	if err != nil {
		return nil, err
	}
	adj, k, err := patexpr.ParseAdjacency(expr, kind)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.Tuple{py.String(adj), py.Int(k)}, nil
}

// conditions(adj, k, directed=False) -> ((a, b), ...)
func py_Conditions(module py.Object, args py.Tuple) (py.Object, error) {
	var adj string
	var k int32
	if err := py.LoadTuple(args[:min(len(args), 2)], []interface{}{&adj, &k}); err != nil {
		return nil, err
	}
	kind, err := optKind(args, 2)
	if err != nil {
		return nil, err
	}
	g, err := graph.FromAdjacency(adj, int(k), kind)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	conds := symmetry.DeriveConditions(g)
	tuple := make(py.Tuple, len(conds))
	for i, cond := range conds {
		tuple[i] = py.Tuple{py.Int(cond.A), py.Int(cond.B)}
	}
	return tuple, nil
}

// census(graph_file, size, directed=False, method="esu", path="") -> {adj: freq}
//
// path names the index file for method "gtrie" or the patterns file for method "subgraphs".
func py_Census(module py.Object, args py.Tuple) (py.Object, error) {
	opts := gotrie.DefaultScanOpts()
	var size int32
	if err := py.LoadTuple(args[:min(len(args), 2)], []interface{}{&opts.GraphFile, &size}); err != nil {
		return nil, err
	}
	opts.Size = int(size)
	kind, err := optKind(args, 2)
	if err != nil {
		return nil, err
	}
	opts.Directed = kind == gotrie.Directed

	var path string
	if len(args) > 3 {
		if err = py.LoadTuple(args[3:], []interface{}{&opts.Method, &path}); err != nil {
			return nil, err
		}
	}
	opts.IndexFile = path
	opts.PatternsFile = path

	freqs, err := scan.Census(opts)
	if err != nil {
		return nil, runtimeErr(err)
	}
	dict := make(py.StringDict, len(freqs))
	for adj, freq := range freqs {
		dict[adj] = py.Int(freq)
	}
	return dict, nil
}

// run(config_path) -> ((adj, freq, z, mean, stddev), ...) ranked; z is None when undefined
func py_Run(module py.Object, args py.Tuple) (py.Object, error) {
	var pathname string
	if err := py.LoadTuple(args, []interface{}{&pathname}); err != nil {
		return nil, err
	}
	opts, err := scan.LoadOpts(pathname)
	if err != nil {
		return nil, runtimeErr(err)
	}
	report, err := scan.Run(context.Background(), opts)
	if err != nil {
		return nil, runtimeErr(err)
	}

	rows := make(py.Tuple, len(report.Results))
	for i, res := range report.Results {
		var z py.Object = py.None
		if res.Defined {
			z = py.Float(res.Z)
		}
		rows[i] = py.Tuple{
			py.String(res.Pattern),
			py.Int(res.Frequency),
			z,
			py.Float(res.Mean),
			py.Float(res.StdDev),
		}
	}
	return rows, nil
}

// classes(freqs) -> sorted tuple of the dict's keys
func py_Classes(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "classes() takes 1 argument (%d given)", len(args))
	}
	dict, ok := args[0].(py.StringDict)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected dict (got %v)", args[0].Type().Name)
	}
	keys := make([]string, 0, len(dict))
	for key := range dict {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	tuple := make(py.Tuple, len(keys))
	for i, key := range keys {
		tuple[i] = py.String(key)
	}
	return tuple, nil
}

func init() {
	methods := []*py.Method{
		py.MustNewMethod("canonicalize", py_Canonicalize, 0, "canonicalize(adj, k) returns the canonical form of a k-vertex adjacency string"),
		py.MustNewMethod("pattern", py_Pattern, 0, "pattern(expr, directed=False) returns (adj, k) for a pattern expression such as '1-2-3,1>3'"),
		py.MustNewMethod("conditions", py_Conditions, 0, "conditions(adj, k, directed=False) returns the symmetry-breaking conditions of a pattern"),
		py.MustNewMethod("census", py_Census, 0, "census(graph_file, size, directed=False, method='esu', path='') returns {adj: freq}"),
		py.MustNewMethod("run", py_Run, 0, "run(config_path) performs the scan described by a YAML config and returns the ranked results"),
		py.MustNewMethod("classes", py_Classes, 0, "classes(freqs) returns the sorted keys of a census dict"),
	}

	globals := py.StringDict{
		"LIB_VERSION":      py.String(LIB_VERSION),
		"MIN_PATTERN_SIZE": py.Int(gotrie.MinPatternSize),
		"MAX_PATTERN_SIZE": py.Int(gotrie.MaxPatternSize),
		"INDEX_HEADER":     py.String(gotrie.IndexFormatHeader),
	}

	py.RegisterModule(&py.ModuleImpl{
		Info: py.ModuleInfo{
			Name: "_gotrie",
			Doc:  "G-Trie motif census gpython module",
		},
		Methods: methods,
		Globals: globals,
	})
}
