// Package esu enumerates every connected induced subgraph of a given size with the ESU algorithm
// (Wernicke 2006), counting each one by its raw adjacency string.
package esu

import (
	"bufio"
	"math/rand"
	"strconv"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/2x3systems/gotrie/libtrie/graph"
	"github.com/2x3systems/gotrie/libtrie/graphtree"
	"github.com/pkg/errors"
)

type enumerator struct {
	g       gotrie.HostGraph
	k       int
	dst     *graphtree.Tree
	current []int
	ext     [][]int // extension set per level
	adjBuf  []byte

	occ    *bufio.Writer
	occBuf []byte

	rng   *rand.Rand
	probs []float64
	err   error
}

func newEnumerator(g gotrie.HostGraph, k int, dst *graphtree.Tree, opts gotrie.CensusOpts) (*enumerator, error) {
	if g == nil {
		return nil, gotrie.ErrNilGraph
	}
	if k < 1 || k > gotrie.MaxPatternSize {
		return nil, errors.Wrapf(gotrie.ErrBadPatternSize, "size %d", k)
	}
	en := &enumerator{
		g:       g,
		k:       k,
		dst:     dst,
		current: make([]int, 0, k),
		ext:     make([][]int, k),
	}
	for i := range en.ext {
		en.ext[i] = make([]int, 0, g.NumNodes())
	}
	if opts.Occurrences != nil {
		en.occ = bufio.NewWriter(opts.Occurrences)
	}
	return en, nil
}

// Enumerate zeroes dst and then adds one to the raw adjacency string of every connected induced
// subgraph of g with k vertices.
func Enumerate(g gotrie.HostGraph, k int, dst *graphtree.Tree, opts gotrie.CensusOpts) error {
	en, err := newEnumerator(g, k, dst, opts)
	if err != nil {
		return err
	}
	return en.run()
}

// EnumerateSample is Enumerate where each vertex added at position d is kept with probability probs[d].
func EnumerateSample(g gotrie.HostGraph, k int, dst *graphtree.Tree, probs []float64, rng *rand.Rand, opts gotrie.CensusOpts) error {
	if len(probs) < k {
		return errors.Wrapf(gotrie.ErrBadProbability, "need %d probabilities, got %d", k, len(probs))
	}
	for i, p := range probs[:k] {
		if !(p > 0 && p <= 1) {
			return errors.Wrapf(gotrie.ErrBadProbability, "probability %d is %v", i, p)
		}
	}
	en, err := newEnumerator(g, k, dst, opts)
	if err != nil {
		return err
	}
	en.rng = rng
	en.probs = probs
	return en.run()
}

func (en *enumerator) keep(pos int) bool {
	return en.probs == nil || en.rng.Float64() <= en.probs[pos]
}

func (en *enumerator) run() error {
	en.dst.ZeroFrequency()
	for v := 0; v < en.g.NumNodes() && en.err == nil; v++ {
		if en.keep(0) {
			en.extend(v, nil)
		}
	}
	if en.occ != nil {
		if err := en.occ.Flush(); en.err == nil {
			en.err = err
		}
	}
	return en.err
}

// extend adds v to the current subgraph and recurses on every vertex of the extension set.
// inherited is the extension set left over by the caller.
func (en *enumerator) extend(v int, inherited []int) {
	en.current = append(en.current, v)
	defer func() {
		en.current = en.current[:len(en.current)-1]
	}()

	size := len(en.current)
	if size == en.k {
		en.emit()
		return
	}

	// Add the neighbours of v above the root that no earlier member already reaches
	ext := append(en.ext[size][:0], inherited...)
	root := en.current[0]
	for _, w := range en.g.Neighbours(v) {
		if w <= root {
			continue
		}
		exclusive := true
		for _, u := range en.current[:size-1] {
			if en.g.IsConnected(w, u) {
				exclusive = false
				break
			}
		}
		if exclusive {
			ext = append(ext, w)
		}
	}
	en.ext[size] = ext

	for i := len(ext) - 1; i >= 0 && en.err == nil; i-- {
		if en.keep(size) {
			en.extend(ext[i], ext[:i])
		}
	}
}

func (en *enumerator) emit() {
	en.adjBuf = graph.AppendAdjacency(en.adjBuf[:0], en.g, en.current)
	adj := string(en.adjBuf)
	if err := en.dst.Increment(adj); err != nil {
		en.err = err
		return
	}
	if en.occ != nil {
		buf := append(en.occBuf[:0], adj...)
		buf = append(buf, ':')
		for _, v := range en.current {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(v+1), 10)
		}
		buf = append(buf, '\n')
		en.occ.Write(buf)
		en.occBuf = buf
	}
}
