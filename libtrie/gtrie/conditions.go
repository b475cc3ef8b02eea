package gtrie

import (
	"github.com/2x3systems/gotrie/gotrie"
)

// attachConditions merges the conditions of a pattern passing through this node.
//
// Only conditions whose positions are all placed by the time this node is reached are kept.  A
// pattern that needs none of them makes the node unconditional.  Otherwise its set joins Cond
// unless a looser set (a subset) is already there, and any stricter sets (supersets) are dropped.
func (node *Node) attachConditions(conds gotrie.Conditions) {
	if node.CondOK {
		return
	}

	last := node.Depth - 1
	var ancestors gotrie.Conditions
	for _, c := range conds {
		if c.A <= last && c.B <= last {
			ancestors = append(ancestors, c)
		}
	}

	if len(ancestors) == 0 {
		node.CondOK = true
		node.Cond = nil
		return
	}

	kept := node.Cond[:0]
	for i, existing := range node.Cond {
		if ancestors.Includes(existing) {
			// a looser set is already present
			kept = append(kept, node.Cond[i:]...)
			node.Cond = kept
			return
		}
		if !existing.Includes(ancestors) {
			kept = append(kept, existing)
		}
	}
	node.Cond = append(kept, ancestors)
}

// CleanConditions removes conditions already enforced higher in the index.  When every entry at a
// node shares a condition, no descendant needs to check it again.
func (t *Trie) CleanConditions() {
	t.root.cleanConditions()
}

func (node *Node) cleanConditions() {
	if !node.CondOK && len(node.Cond) > 0 {
		for _, c := range node.Cond[0] {
			shared := true
			for _, conds := range node.Cond[1:] {
				if !conds.Contains(c) {
					shared = false
					break
				}
			}
			if shared {
				for _, child := range node.Children {
					child.dropCondition(c)
				}
			}
		}
	}
	for _, child := range node.Children {
		child.cleanConditions()
	}
}

func (node *Node) dropCondition(c gotrie.Condition) {
	if !node.CondOK {
		for i, conds := range node.Cond {
			kept := conds[:0]
			for _, ci := range conds {
				if ci != c {
					kept = append(kept, ci)
				}
			}
			node.Cond[i] = kept
			if len(kept) == 0 {
				node.CondOK = true
			}
		}
		if node.CondOK {
			node.Cond = nil
		}
	}
	for _, child := range node.Children {
		child.dropCondition(c)
	}
}
