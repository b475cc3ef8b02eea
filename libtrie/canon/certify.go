package canon

import "bytes"

// maxLeafAutos caps how many automorphisms found at equal leaves are kept for orbit pruning.
const maxLeafAutos = 64

// certSearch finds the relabeling with the largest position code.
//
// The position code lists, for each position p in turn, the loop cell of p followed by the pair
// (p -> j, j -> p) for every earlier position j, so the first (p+1)^2 bytes depend only on the
// vertices at positions 0..p.  The code determines the relabeled matrix, so every relabeling that
// reaches the largest code yields the same string.
//
// Two pruning rules keep the search small:
//   - a partial code below the best complete code is abandoned;
//   - a candidate is skipped when an automorphism fixing every placed vertex maps an already tried
//     candidate onto it.  Known automorphisms are the transpositions of unplaced twins (vertices
//     with identical connections to all others) and those found between equal complete codes.
type certSearch struct {
	k        int
	adj      []byte
	perm     []int
	used     []bool
	first    []bool // vertices allowed at position 0
	code     []byte
	best     []byte
	bestPerm []int
	haveBest bool

	twinClass []int // smallest twin of each vertex (itself when it has none)
	autos     [][]int
	parent    []int
	rep       []int
}

// certify returns adj relabeled to its largest position code.
func certify(adj []byte, k int) []byte {
	cs := &certSearch{
		k:         k,
		adj:       adj,
		perm:      make([]int, k),
		used:      make([]bool, k),
		first:     make([]bool, k),
		code:      make([]byte, k*k),
		best:      make([]byte, k*k),
		bestPerm:  make([]int, k),
		twinClass: make([]int, k),
		parent:    make([]int, k),
		rep:       make([]int, k),
	}
	cs.findTwins()
	cs.markFirst()
	cs.search(0)
	return permute(nil, adj, k, cs.bestPerm)
}

func (cs *certSearch) findTwins() {
	for v := 0; v < cs.k; v++ {
		cs.twinClass[v] = v
		for r := 0; r < v; r++ {
			if cs.twins(r, v) {
				cs.twinClass[v] = r
				break
			}
		}
	}
}

// twins reports if swapping a and b leaves adj unchanged.
func (cs *certSearch) twins(a, b int) bool {
	k, adj := cs.k, cs.adj
	if adj[a*k+a] != adj[b*k+b] || adj[a*k+b] != adj[b*k+a] {
		return false
	}
	for u := 0; u < k; u++ {
		if u == a || u == b {
			continue
		}
		if adj[a*k+u] != adj[b*k+u] || adj[u*k+a] != adj[u*k+b] {
			return false
		}
	}
	return true
}

// markFirst allows only the vertices with the most connections (then the most out edges) at position 0.
func (cs *certSearch) markFirst() {
	k := cs.k
	total := make([]int, k)
	out := make([]int, k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if i == j {
				continue
			}
			if cs.adj[i*k+j] == '1' {
				out[i]++
				total[i]++
			}
			if cs.adj[j*k+i] == '1' {
				total[i]++
			}
		}
	}
	top := 0
	for i := 1; i < k; i++ {
		if total[i] > total[top] || (total[i] == total[top] && out[i] > out[top]) {
			top = i
		}
	}
	for i := 0; i < k; i++ {
		cs.first[i] = total[i] == total[top] && out[i] == out[top]
	}
}

func (cs *certSearch) place(pos, v int) {
	k := cs.k
	cs.used[v] = true
	cs.perm[pos] = v
	at := pos * pos
	cs.code[at] = cs.adj[v*k+v]
	at++
	for j := 0; j < pos; j++ {
		u := cs.perm[j]
		cs.code[at] = cs.adj[v*k+u]
		cs.code[at+1] = cs.adj[u*k+v]
		at += 2
	}
}

func (cs *certSearch) search(pos int) {
	if pos == cs.k {
		cs.leaf()
		return
	}

	var tried []int
	for v := 0; v < cs.k; v++ {
		if cs.used[v] || (pos == 0 && !cs.first[v]) {
			continue
		}
		cs.place(pos, v)
		end := (pos + 1) * (pos + 1)
		cs.used[v] = false
		if cs.haveBest && bytes.Compare(cs.code[:end], cs.best[:end]) < 0 {
			continue
		}
		if cs.sameOrbit(pos, v, tried) {
			continue
		}
		tried = append(tried, v)

		cs.used[v] = true
		cs.search(pos + 1)
		cs.used[v] = false
	}
}

func (cs *certSearch) leaf() {
	cmp := 1
	if cs.haveBest {
		cmp = bytes.Compare(cs.code, cs.best)
	}
	switch {
	case cmp > 0:
		copy(cs.best, cs.code)
		copy(cs.bestPerm, cs.perm)
		cs.haveBest = true
	case cmp == 0 && len(cs.autos) < maxLeafAutos:
		// Both relabelings give the same matrix, so bestPerm[i] -> perm[i] is an automorphism
		auto := make([]int, cs.k)
		for i, v := range cs.bestPerm {
			auto[v] = cs.perm[i]
		}
		cs.autos = append(cs.autos, auto)
	}
}

// sameOrbit reports if v shares an orbit with a tried candidate under the known automorphisms that
// fix every vertex placed before pos.
func (cs *certSearch) sameOrbit(pos, v int, tried []int) bool {
	if len(tried) == 0 {
		return false
	}
	for i := range cs.parent {
		cs.parent[i] = i
		cs.rep[i] = -1
	}

	// Unplaced twins of one class may be swapped freely
	for u, class := range cs.twinClass {
		if cs.used[u] {
			continue
		}
		if cs.rep[class] < 0 {
			cs.rep[class] = u
		} else {
			cs.union(cs.rep[class], u)
		}
	}

	for _, auto := range cs.autos {
		fixes := true
		for _, u := range cs.perm[:pos] {
			if auto[u] != u {
				fixes = false
				break
			}
		}
		if fixes {
			for x, y := range auto {
				cs.union(x, y)
			}
		}
	}

	root := cs.find(v)
	for _, u := range tried {
		if cs.find(u) == root {
			return true
		}
	}
	return false
}

func (cs *certSearch) find(x int) int {
	for cs.parent[x] != x {
		cs.parent[x] = cs.parent[cs.parent[x]]
		x = cs.parent[x]
	}
	return x
}

func (cs *certSearch) union(a, b int) {
	if ra, rb := cs.find(a), cs.find(b); ra != rb {
		cs.parent[rb] = ra
	}
}
