package gtrie

import (
	"bufio"
	"math/rand"
	"strconv"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/pkg/errors"
	"github.com/soniakeys/bits"
)

// SearchContext holds the state of one census pass.  It is owned by a single goroutine; concurrent
// census passes over the same index are not supported since frequencies live in the nodes.
type SearchContext struct {
	g        gotrie.HostGraph
	adj      [][]bool
	directed bool
	mapping  []int
	used     bits.Bits

	occ    *bufio.Writer
	occBuf []byte

	rng   *rand.Rand
	probs []float64
}

func newSearchContext(g gotrie.HostGraph, maxDepth int, opts gotrie.CensusOpts) *SearchContext {
	sc := &SearchContext{
		g:        g,
		directed: g.Kind() == gotrie.Directed,
		mapping:  make([]int, maxDepth),
		used:     bits.New(g.NumNodes()),
	}
	if mg, ok := g.(gotrie.MatrixGraph); ok {
		sc.adj = mg.AdjacencyMatrix()
	}
	if opts.Occurrences != nil {
		sc.occ = bufio.NewWriter(opts.Occurrences)
	}
	return sc
}

func (sc *SearchContext) hasEdge(a, b int) bool {
	if sc.adj != nil {
		return sc.adj[a][b]
	}
	return sc.g.HasEdge(a, b)
}

// push places v at pos and marks it used.
func (sc *SearchContext) push(pos, v int) {
	sc.mapping[pos] = v
	sc.used.SetBit(v, 1)
}

func (sc *SearchContext) pop(pos int) {
	sc.used.SetBit(sc.mapping[pos], 0)
}

// Census resets all frequencies and then counts, for every indexed pattern, the induced occurrences
// of it in g.
func (t *Trie) Census(g gotrie.HostGraph, opts gotrie.CensusOpts) error {
	if g == nil {
		return gotrie.ErrNilGraph
	}
	t.ZeroFrequency()
	sc := newSearchContext(g, t.MaxDepth(), opts)
	return sc.run(t.root)
}

// CensusSample is Census where each extension of a partial occurrence to position d is kept with
// probability probs[d].  Frequencies then estimate the full census scaled by the product of probs.
func (t *Trie) CensusSample(g gotrie.HostGraph, probs []float64, rng *rand.Rand, opts gotrie.CensusOpts) error {
	if g == nil {
		return gotrie.ErrNilGraph
	}
	depth := t.MaxDepth()
	if len(probs) < depth {
		return errors.Wrapf(gotrie.ErrBadProbability, "need %d probabilities, got %d", depth, len(probs))
	}
	for i, p := range probs[:depth] {
		if !(p > 0 && p <= 1) {
			return errors.Wrapf(gotrie.ErrBadProbability, "probability %d is %v", i, p)
		}
	}
	t.ZeroFrequency()
	sc := newSearchContext(g, depth, opts)
	sc.rng = rng
	sc.probs = probs
	return sc.run(t.root)
}

// SampleFraction returns the expected fraction of occurrences of size k that CensusSample finds.
// Depths beyond len(probs) count as fully sampled.
func SampleFraction(probs []float64, k int) float64 {
	k = min(max(k, 0), len(probs))
	frac := 1.0
	for _, p := range probs[:k] {
		frac *= p
	}
	return frac
}

func (sc *SearchContext) run(root *Node) error {
	for _, child := range root.Children {
		sc.visit(child)
	}
	if sc.occ != nil {
		return sc.occ.Flush()
	}
	return nil
}

// visit extends the current partial occurrence (positions 0..node.Depth-2) with every host vertex
// that fits at this node.
func (sc *SearchContext) visit(node *Node) {
	pos := node.Depth - 1
	lim, ok := node.lowerBound(sc.mapping)
	if !ok {
		return
	}

	// Candidates are the neighbours of the mapped connection with the smallest neighbourhood
	anchor := -1
	fewest := 0
	for _, c := range node.Conn {
		if c >= pos {
			continue
		}
		if num := sc.g.NumNeighbours(sc.mapping[c]); anchor < 0 || num < fewest {
			anchor = sc.mapping[c]
			fewest = num
		}
	}

	if anchor >= 0 {
		nbrs := sc.g.Neighbours(anchor)
		for ci := len(nbrs) - 1; ci >= 0; ci-- {
			v := nbrs[ci]
			if v < lim {
				break
			}
			sc.tryVertex(node, pos, v)
		}
	} else {
		for v := sc.g.NumNodes() - 1; v >= 0 && v >= lim; v-- {
			sc.tryVertex(node, pos, v)
		}
	}
}

func (sc *SearchContext) tryVertex(node *Node, pos, v int) {
	if sc.used.Bit(v) != 0 {
		return
	}
	for j := 0; j < pos; j++ {
		mj := sc.mapping[j]
		if node.Out[j] != sc.hasEdge(v, mj) {
			return
		}
		if sc.directed && node.In[j] != sc.hasEdge(mj, v) {
			return
		}
	}
	if sc.probs != nil && sc.rng.Float64() > sc.probs[pos] {
		return
	}

	sc.push(pos, v)
	if node.IsGraph {
		node.Frequency++
		if sc.occ != nil {
			sc.writeOccurrence(pos + 1)
		}
	}
	for _, child := range node.Children {
		sc.visit(child)
	}
	sc.pop(pos)
}

// writeOccurrence emits the induced adjacency bits of the first k mapped vertices followed by their
// 1-based IDs.
func (sc *SearchContext) writeOccurrence(k int) {
	buf := sc.occBuf[:0]
	for a := 0; a < k; a++ {
		for b := 0; b < k; b++ {
			buf = append(buf, bit(sc.hasEdge(sc.mapping[a], sc.mapping[b])))
		}
	}
	buf = append(buf, ':')
	for a := 0; a < k; a++ {
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(sc.mapping[a]+1), 10)
	}
	buf = append(buf, '\n')
	sc.occ.Write(buf)
	sc.occBuf = buf
}
