package gtrie

import (
	"github.com/2x3systems/gotrie/gotrie"
)

// Node is one vertex position shared by every indexed pattern with the same prefix.
//
// A node at depth d adds pattern position d-1: Out[i] is the edge d-1 -> i and In[i] the edge
// i -> d-1 for i < d.
type Node struct {
	Depth     int
	IsGraph   bool
	Frequency int64

	Out  []bool
	In   []bool
	Conn []int // earlier positions connected to this one

	TotalIn    int
	TotalOut   int
	TotalEdges int

	// CondOK means no condition is needed to enter this node.  Otherwise a mapping may enter if it
	// satisfies at least one entry of Cond.
	CondOK bool
	Cond   []gotrie.Conditions

	Children []*Node
}

func newChild(parent *Node, g gotrie.HostGraph) *Node {
	pos := parent.Depth
	child := &Node{
		Depth: pos + 1,
		Out:   make([]bool, pos+1),
		In:    make([]bool, pos+1),
	}
	for i := 0; i <= pos; i++ {
		child.Out[i] = g.HasEdge(pos, i)
		child.In[i] = g.HasEdge(i, pos)
		if g.IsConnected(pos, i) {
			child.Conn = append(child.Conn, i)
		}
	}
	child.tallyEdges()
	return child
}

func (node *Node) tallyEdges() {
	node.TotalIn, node.TotalOut, node.TotalEdges = 0, 0, 0
	for i := range node.Out {
		if node.In[i] {
			node.TotalIn++
			node.TotalEdges++
		}
		if node.Out[i] {
			node.TotalOut++
			node.TotalEdges++
		}
	}
}

// matches reports if this node holds position Depth-1 of g.
func (node *Node) matches(g gotrie.HostGraph) bool {
	pos := node.Depth - 1
	for i := 0; i <= pos; i++ {
		if node.Out[i] != g.HasEdge(pos, i) || node.In[i] != g.HasEdge(i, pos) {
			return false
		}
	}
	return true
}

// matchesString is matches for a k*k adjacency string.
func (node *Node) matchesString(adj string, k int) bool {
	pos := node.Depth - 1
	for i := 0; i <= pos; i++ {
		if node.Out[i] != (adj[pos*k+i] == '1') || node.In[i] != (adj[i*k+pos] == '1') {
			return false
		}
	}
	return true
}

// sameEdges reports if two siblings encode the same position.
func (node *Node) sameEdges(other *Node) bool {
	if len(node.Out) != len(other.Out) {
		return false
	}
	for i := range node.Out {
		if node.Out[i] != other.Out[i] || node.In[i] != other.In[i] {
			return false
		}
	}
	return true
}

// LocalConditions returns, for each entry of Cond, the earlier positions whose vertex must be
// smaller than the one placed at this node.
func (node *Node) LocalConditions() [][]int {
	if node.CondOK {
		return nil
	}
	pos := node.Depth - 1
	local := make([][]int, 0, len(node.Cond))
	for _, conds := range node.Cond {
		var below []int
		for _, c := range conds {
			if c.B == pos {
				below = append(below, c.A)
			}
		}
		local = append(local, below)
	}
	return local
}

// lowerBound checks the entry conditions against the positions mapped so far and returns the
// smallest vertex that may be placed at this node (-1 when unconstrained).
func (node *Node) lowerBound(mapping []int) (int, bool) {
	if node.CondOK {
		return -1, true
	}
	pos := node.Depth - 1
	passed := false
	lim := 0
	for _, conds := range node.Cond {
		bound := -1
		ok := true
		for _, c := range conds {
			if c.B < pos {
				if mapping[c.A] > mapping[c.B] {
					ok = false
					break
				}
			} else if c.B == pos && mapping[c.A] > bound {
				bound = mapping[c.A]
			}
		}
		if ok && (!passed || bound < lim) {
			lim = bound
			passed = true
		}
	}
	return lim, passed
}

func (node *Node) walk(fn func(node *Node)) {
	fn(node)
	for _, child := range node.Children {
		child.walk(fn)
	}
}
