// Package graphtree aggregates frequencies keyed by adjacency strings in a binary prefix tree, so
// that raw subgraph strings can be counted cheaply and canonicalized once at the end.
package graphtree

import (
	"bufio"
	"fmt"
	"io"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/2x3systems/gotrie/libtrie/canon"
	"github.com/2x3systems/gotrie/libtrie/gtrie"
	"github.com/pkg/errors"
)

type node struct {
	freq int64
	next [2]*node // indexed by '0' and '1'
}

// Tree maps binary strings to frequencies.  All strings stored in one Tree should have the same length.
type Tree struct {
	root node
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{}
}

func (t *Tree) leaf(s string) (*node, error) {
	at := &t.root
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '0' && c != '1' {
			return nil, errors.Wrapf(gotrie.ErrBadAdjacency, "unexpected char %q at %d", c, i)
		}
		b := c - '0'
		if at.next[b] == nil {
			at.next[b] = &node{}
		}
		at = at.next[b]
	}
	return at, nil
}

// Increment adds one to the frequency of s.
func (t *Tree) Increment(s string) error {
	return t.AddFrequency(s, 1)
}

// AddFrequency adds freq to the frequency of s.
func (t *Tree) AddFrequency(s string, freq int64) error {
	at, err := t.leaf(s)
	if err == nil {
		at.freq += freq
	}
	return err
}

// SetFrequency replaces the frequency of s.
func (t *Tree) SetFrequency(s string, freq int64) error {
	at, err := t.leaf(s)
	if err == nil {
		at.freq = freq
	}
	return err
}

// Frequency returns the frequency of s and whether s has been stored.
func (t *Tree) Frequency(s string) (int64, bool) {
	at := &t.root
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '0' && c != '1' {
			return 0, false
		}
		if at = at.next[c-'0']; at == nil {
			return 0, false
		}
	}
	return at.freq, true
}

// ZeroFrequency resets every frequency while keeping the stored strings.
func (t *Tree) ZeroFrequency() {
	t.root.walk(func(n *node) {
		n.freq = 0
	})
}

func (n *node) walk(fn func(n *node)) {
	fn(n)
	for _, child := range n.next {
		if child != nil {
			child.walk(fn)
		}
	}
}

// CountGraphs returns how many strings have a positive frequency.
func (t *Tree) CountGraphs() int {
	count := 0
	t.root.walk(func(n *node) {
		if n.freq > 0 {
			count++
		}
	})
	return count
}

// CountOccurrences returns the sum of all frequencies.
func (t *Tree) CountOccurrences() int64 {
	total := int64(0)
	t.root.walk(func(n *node) {
		total += n.freq
	})
	return total
}

// Visit calls fn for every stored string, in ascending order.
func (t *Tree) Visit(fn func(s string, freq int64)) {
	var buf []byte
	var visit func(n *node)
	visit = func(n *node) {
		if n.next[0] == nil && n.next[1] == nil {
			fn(string(buf), n.freq)
			return
		}
		for b, child := range n.next {
			if child != nil {
				buf = append(buf, '0'+byte(b))
				visit(child)
				buf = buf[:len(buf)-1]
			}
		}
	}
	if t.root.next[0] != nil || t.root.next[1] != nil {
		visit(&t.root)
	}
}

// RawMap returns the stored strings and frequencies as is.
func (t *Tree) RawMap() gotrie.FreqMap {
	freqs := make(gotrie.FreqMap)
	t.Visit(func(s string, freq int64) {
		freqs[s] = freq
	})
	return freqs
}

// ToMap canonicalizes every stored string of size k, summing the frequencies of strings that share a
// canonical form.  Strings with a zero frequency are skipped.
func (t *Tree) ToMap(k int) (gotrie.FreqMap, error) {
	freqs := make(gotrie.FreqMap)
	var err error
	t.Visit(func(s string, freq int64) {
		if err != nil || freq == 0 {
			return
		}
		var form string
		if form, err = canon.Canonicalize(s, k); err == nil {
			freqs[form] += freq
		}
	})
	return freqs, err
}

// ToIndex inserts the canonical form of every stored string with a positive frequency into dst.
func (t *Tree) ToIndex(dst *gtrie.Trie, k int, kind gotrie.GraphKind) error {
	var err error
	t.Visit(func(s string, freq int64) {
		if err == nil && freq > 0 {
			err = dst.InsertString(s, k, kind)
		}
	})
	return err
}

// Equal reports if both trees hold the same strings with the same frequencies.
func (t *Tree) Equal(other *Tree) bool {
	return t.root.equal(&other.root)
}

func (n *node) equal(other *node) bool {
	for b := range n.next {
		if (n.next[b] == nil) != (other.next[b] == nil) {
			return false
		}
	}
	if n.next[0] == nil && n.next[1] == nil {
		return n.freq == other.freq
	}
	for b, child := range n.next {
		if child != nil && !child.equal(other.next[b]) {
			return false
		}
	}
	return true
}

// EqualIndex reports if every stored string of size k has the same frequency in the index.
func (t *Tree) EqualIndex(index *gtrie.Trie, k int) bool {
	equal := true
	t.Visit(func(s string, freq int64) {
		if equal {
			indexed, found := index.FrequencyOf(s, k)
			equal = found && indexed == freq
		}
	})
	return equal
}

// WriteText writes one "string: frequency" line per stored string.
func (t *Tree) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	t.Visit(func(s string, freq int64) {
		fmt.Fprintf(bw, "%s: %d\n", s, freq)
	})
	return bw.Flush()
}
