// Package gtrie implements a prefix tree of pattern graphs (a g-trie) and the census that counts
// the occurrences of every indexed pattern in a host graph in a single pass.
package gtrie

import (
	"bufio"
	"io"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/2x3systems/gotrie/libtrie/canon"
	"github.com/2x3systems/gotrie/libtrie/graph"
	"github.com/2x3systems/gotrie/libtrie/symmetry"
	"github.com/pkg/errors"
)

// Trie is a pattern index.  Patterns sharing their first d positions share the first d nodes below
// the root.
type Trie struct {
	root *Node
}

// New returns an empty index.
func New() *Trie {
	return &Trie{
		root: &Node{CondOK: true},
	}
}

// Root returns the depth 0 node.
func (t *Trie) Root() *Node {
	return t.root
}

// Insert adds g without symmetry-breaking conditions, so a census counts each occurrence once per
// automorphism of g.
func (t *Trie) Insert(g gotrie.HostGraph) {
	t.InsertWithConditions(g, nil)
}

// InsertWithConditions adds g, attaching conds to every node on its path.  Vertex order of g is
// taken as is; callers normally pass a canonical relabeling.
func (t *Trie) InsertWithConditions(g gotrie.HostGraph, conds gotrie.Conditions) {
	conds = symmetry.PruneTransitive(conds)

	k := g.NumNodes()
	node := t.root
	for node.Depth < k {
		var next *Node
		for _, child := range node.Children {
			if child.matches(g) {
				next = child
				break
			}
		}
		if next == nil {
			next = newChild(node, g)
			node.Children = append(node.Children, next)
		}
		next.attachConditions(conds)
		node = next
	}
	node.IsGraph = true
}

// InsertString canonicalizes the pattern adj of size k, derives its conditions, and inserts it.
func (t *Trie) InsertString(adj string, k int, kind gotrie.GraphKind) error {
	form, err := canon.Canonicalize(adj, k)
	if err != nil {
		return err
	}
	g, err := graph.FromAdjacency(form, k, kind)
	if err != nil {
		return err
	}
	t.InsertWithConditions(g, symmetry.DeriveConditions(g))
	return nil
}

// ReadPatterns inserts every whitespace-separated adjacency string read from r and then cleans the
// conditions of the index.  Returns the number of patterns read.
func (t *Trie) ReadPatterns(r io.Reader, k int, kind gotrie.GraphKind) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	count := 0
	for scanner.Scan() {
		if err := t.InsertString(scanner.Text(), k, kind); err != nil {
			return count, errors.Wrapf(err, "pattern #%d", count+1)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, err
	}
	t.CleanConditions()
	return count, nil
}

// FrequencyOf returns the census frequency of the pattern adj of size k, or false if it is not indexed.
func (t *Trie) FrequencyOf(adj string, k int) (int64, bool) {
	form, err := canon.Canonicalize(adj, k)
	if err != nil {
		return 0, false
	}
	node := t.root
	for node.Depth < k {
		var next *Node
		for _, child := range node.Children {
			if child.matchesString(form, k) {
				next = child
				break
			}
		}
		if next == nil {
			return 0, false
		}
		node = next
	}
	if !node.IsGraph {
		return 0, false
	}
	return node.Frequency, true
}

// ZeroFrequency resets every frequency to zero.
func (t *Trie) ZeroFrequency() {
	t.root.walk(func(node *Node) {
		node.Frequency = 0
	})
}

// CountNodes returns the number of nodes, the root included.
func (t *Trie) CountNodes() int {
	count := 0
	t.root.walk(func(*Node) {
		count++
	})
	return count
}

// CountGraphs returns the number of indexed patterns.
func (t *Trie) CountGraphs() int {
	count := 0
	t.root.walk(func(node *Node) {
		if node.IsGraph {
			count++
		}
	})
	return count
}

// CountGraphsFound returns the number of indexed patterns with a non-zero frequency.
func (t *Trie) CountGraphsFound() int {
	count := 0
	t.root.walk(func(node *Node) {
		if node.IsGraph && node.Frequency > 0 {
			count++
		}
	})
	return count
}

// CountGraphPaths returns the sum of the sizes of all indexed patterns, i.e. the number of nodes the
// index would need without any prefix sharing.
func (t *Trie) CountGraphPaths() int {
	count := 0
	t.root.walk(func(node *Node) {
		if node.IsGraph {
			count += node.Depth
		}
	})
	return count
}

// CountOccurrences returns the sum of all pattern frequencies.
func (t *Trie) CountOccurrences() int64 {
	total := int64(0)
	t.root.walk(func(node *Node) {
		if node.IsGraph && node.Frequency > 0 {
			total += node.Frequency
		}
	})
	return total
}

// MaxDepth returns the size of the largest indexed pattern.
func (t *Trie) MaxDepth() int {
	depth := 0
	t.root.walk(func(node *Node) {
		if node.Depth > depth {
			depth = node.Depth
		}
	})
	return depth
}

// CompressionRate is 1 - (nodes below the root / total pattern sizes).  It is 0 for an empty index.
func (t *Trie) CompressionRate() float64 {
	paths := t.CountGraphPaths()
	if paths == 0 {
		return 0
	}
	return 1 - float64(t.CountNodes()-1)/float64(paths)
}

// VisitPatterns calls fn with the adjacency string and node of every indexed pattern of size k.
// The string is rebuilt from the path of nodes leading to it.
func (t *Trie) VisitPatterns(k int, fn func(adj string, node *Node)) {
	buf := make([]byte, k*k)
	for i := range buf {
		buf[i] = '0'
	}
	var visit func(node *Node)
	visit = func(node *Node) {
		if node.Depth > k {
			return
		}
		if node.Depth > 0 {
			pos := node.Depth - 1
			for i := 0; i <= pos; i++ {
				buf[pos*k+i] = bit(node.Out[i])
				buf[i*k+pos] = bit(node.In[i])
			}
		}
		if node.IsGraph && node.Depth == k {
			fn(string(buf), node)
		}
		for _, child := range node.Children {
			visit(child)
		}
	}
	visit(t.root)
}

func bit(b bool) byte {
	if b {
		return '1'
	}
	return '0'
}

// Frequencies returns the frequency of every pattern of size k found at least once.
func (t *Trie) Frequencies(k int) gotrie.FreqMap {
	freqs := make(gotrie.FreqMap)
	t.VisitPatterns(k, func(adj string, node *Node) {
		if node.Frequency > 0 {
			freqs[adj] = node.Frequency
		}
	})
	return freqs
}

// FrequencySetter receives pattern frequencies, e.g. a graphtree.Tree.
type FrequencySetter interface {
	SetFrequency(adj string, freq int64) error
}

// PopulateTree stores the frequency of every pattern of size k (zero included) into dst.
func (t *Trie) PopulateTree(dst FrequencySetter, k int) error {
	var err error
	t.VisitPatterns(k, func(adj string, node *Node) {
		if err == nil {
			err = dst.SetFrequency(adj, node.Frequency)
		}
	})
	return err
}
