// Package symmetry finds the automorphisms of small pattern graphs and derives the symmetry-breaking
// conditions that make a census count every occurrence exactly once.
package symmetry

import (
	"sort"

	"github.com/2x3systems/gotrie/gotrie"
)

// Automorphism maps each pattern vertex i to Automorphism[i].
type Automorphism []int

type autoSearch struct {
	g       gotrie.HostGraph
	n       int
	support [][]bool
	fwd     []int // pattern vertex -> image
	rev     []int // image -> pattern vertex
	found   []Automorphism
	count   []int
}

// FindAutomorphisms returns every automorphism of g (the identity included).
//
// Two vertices may only map onto each other when the sorted degree sequences of their neighbourhoods
// agree; the search then extends a partial map one vertex at a time, always picking the unmapped
// vertex with the most mapped neighbours.
func FindAutomorphisms(g gotrie.HostGraph) []Automorphism {
	n := g.NumNodes()
	if n == 0 {
		return nil
	}

	sequence := make([][]int, n)
	for i := 0; i < n; i++ {
		seq := make([]int, 0, n)
		for _, j := range g.Neighbours(i) {
			seq = append(seq, g.NumNeighbours(j))
		}
		sort.Sort(sort.Reverse(sort.IntSlice(seq)))
		sequence[i] = seq
	}

	as := autoSearch{
		g:       g,
		n:       n,
		support: make([][]bool, n),
		fwd:     make([]int, n),
		rev:     make([]int, n),
		count:   make([]int, n),
	}
	for i := 0; i < n; i++ {
		as.support[i] = make([]bool, n)
		for j := 0; j < n; j++ {
			as.support[i][j] = sameInts(sequence[i], sequence[j])
		}
		as.fwd[i] = -1
		as.rev[i] = -1
	}

	for img := 0; img < n; img++ {
		if as.support[0][img] && as.fits(0, img) {
			as.bind(0, img)
			as.extend(1)
			as.unbind(0)
		}
	}
	return as.found
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (as *autoSearch) bind(v, img int) {
	as.fwd[v] = img
	as.rev[img] = v
}

func (as *autoSearch) unbind(v int) {
	as.rev[as.fwd[v]] = -1
	as.fwd[v] = -1
}

// fits reports if mapping v onto img agrees with every mapped vertex in both edge directions.
func (as *autoSearch) fits(v, img int) bool {
	g := as.g
	if g.HasEdge(v, v) != g.HasEdge(img, img) {
		return false
	}
	for j, fj := range as.fwd {
		if fj < 0 {
			continue
		}
		if g.HasEdge(v, j) != g.HasEdge(img, fj) || g.HasEdge(j, v) != g.HasEdge(fj, img) {
			return false
		}
	}
	return true
}

func (as *autoSearch) extend(mapped int) {
	if mapped == as.n {
		as.found = append(as.found, append(Automorphism(nil), as.fwd...))
		return
	}

	// Pick the unmapped vertex with the most mapped neighbours
	for i := range as.count {
		as.count[i] = 0
	}
	next := -1
	for i, fi := range as.fwd {
		if fi < 0 {
			continue
		}
		for _, j := range as.g.Neighbours(i) {
			if as.fwd[j] < 0 {
				as.count[j]++
				if next < 0 || as.count[j] > as.count[next] {
					next = j
				}
			}
		}
	}

	// A disconnected pattern leaves no frontier; any unmapped vertex may go next
	frontierOnly := next >= 0
	if !frontierOnly {
		for i, fi := range as.fwd {
			if fi < 0 {
				next = i
				break
			}
		}
	}

	cands := make([]int, 0, as.n)
	if frontierOnly {
		seen := make([]bool, as.n)
		for _, fi := range as.fwd {
			if fi < 0 {
				continue
			}
			for _, img := range as.g.Neighbours(fi) {
				if !seen[img] && as.rev[img] < 0 && as.support[next][img] {
					seen[img] = true
					cands = append(cands, img)
				}
			}
		}
	} else {
		for img := 0; img < as.n; img++ {
			if as.rev[img] < 0 && as.support[next][img] {
				cands = append(cands, img)
			}
		}
	}

	// The count scratch is reused by deeper levels, so the candidates are fixed before recursing
	for _, img := range cands {
		if as.fits(next, img) {
			as.bind(next, img)
			as.extend(mapped + 1)
			as.unbind(next)
		}
	}
}

// DeriveConditions returns the symmetry-breaking conditions of g, sorted by (A, B).
//
// Working through the vertices in order, while some remaining automorphism moves vertex i, a
// condition i < k is emitted for every k > i that i can be mapped onto; the remaining automorphisms
// are then restricted to those fixing i.
func DeriveConditions(g gotrie.HostGraph) gotrie.Conditions {
	autos := FindAutomorphisms(g)
	n := g.NumNodes()
	broken := make([]bool, len(autos))

	var conds gotrie.Conditions
	for i := 0; i < n; i++ {
		moved := false
		for j, aj := range autos {
			if !broken[j] && aj[i] != i {
				moved = true
				break
			}
		}
		if moved {
			for k := i + 1; k < n; k++ {
				for j, aj := range autos {
					if !broken[j] && aj[i] == k {
						conds = append(conds, gotrie.Condition{A: i, B: k})
						break
					}
				}
			}
		}
		for j, aj := range autos {
			if aj[i] != i {
				broken[j] = true
			}
		}
	}
	return conds
}

// PruneTransitive drops every a < c that is implied by some a < b and b < c in conds.
// The result is sorted by (A, B).
func PruneTransitive(conds gotrie.Conditions) gotrie.Conditions {
	pruned := make(gotrie.Conditions, 0, len(conds))
	for _, c := range conds {
		implied := false
		for _, ab := range conds {
			if ab.A == c.A && ab.B != c.B && conds.Contains(gotrie.Condition{A: ab.B, B: c.B}) {
				implied = true
				break
			}
		}
		if !implied {
			pruned = append(pruned, c)
		}
	}
	sort.Slice(pruned, func(i, j int) bool {
		if pruned[i].A != pruned[j].A {
			return pruned[i].A < pruned[j].A
		}
		return pruned[i].B < pruned[j].B
	})
	return pruned
}

// Holds reports if the vertex assignment satisfies every condition.
func Holds(conds gotrie.Conditions, assign []int) bool {
	for _, c := range conds {
		if assign[c.A] >= assign[c.B] {
			return false
		}
	}
	return true
}
