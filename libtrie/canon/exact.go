package canon

import "bytes"

// unset marks a cell of a partial relabeling that has not been decided yet.
// It sorts above '0' and '1' so a partial string bounds every completion from above.
const unset = '2'

type exactSearch struct {
	k       int
	adj     []byte
	perm    []int
	used    []bool
	current []byte
	best    []byte
}

// exact returns the lexicographically largest relabeling of adj, found by backtracking that
// abandons any partial relabeling already below the best complete one.
func exact(adj []byte, k int) []byte {
	es := exactSearch{
		k:       k,
		adj:     adj,
		perm:    make([]int, k),
		used:    make([]bool, k),
		current: bytes.Repeat([]byte{unset}, k*k),
		best:    make([]byte, k*k),
	}
	copy(es.best, adj)

	// The first row is largest when vertex 0 has the most out edges
	outDeg := make([]int, k)
	most := 0
	for i := 0; i < k; i++ {
		outDeg[i] = bytes.Count(adj[i*k:(i+1)*k], []byte{'1'})
		if outDeg[i] > outDeg[most] {
			most = i
		}
	}
	for i := 0; i < k; i++ {
		if outDeg[i] == outDeg[most] {
			es.place(0, i)
			es.search(1)
			es.unplace(0)
		}
	}

	return es.best
}

func (es *exactSearch) place(pos, v int) {
	k := es.k
	es.used[v] = true
	es.perm[pos] = v
	es.current[pos*k+pos] = es.adj[v*k+v]
	for j := 0; j < pos; j++ {
		es.current[pos*k+j] = es.adj[v*k+es.perm[j]]
		es.current[j*k+pos] = es.adj[es.perm[j]*k+v]
	}
}

func (es *exactSearch) unplace(pos int) {
	k := es.k
	es.used[es.perm[pos]] = false
	es.current[pos*k+pos] = unset
	for j := 0; j < pos; j++ {
		es.current[pos*k+j] = unset
		es.current[j*k+pos] = unset
	}
}

func (es *exactSearch) search(pos int) {
	if bytes.Compare(es.current, es.best) < 0 {
		return
	}
	if pos == es.k {
		copy(es.best, es.current)
		return
	}
	for v := 0; v < es.k; v++ {
		if !es.used[v] {
			es.place(pos, v)
			es.search(pos + 1)
			es.unplace(pos)
		}
	}
}
