// Package canon relabels small pattern graphs, given as row-major adjacency strings, into a
// canonical form so that isomorphic patterns share one string.
package canon

import (
	"github.com/2x3systems/gotrie/gotrie"
	"github.com/pkg/errors"
	"github.com/soniakeys/bits"
)

// Validate checks that adj is a k*k string of '0' and '1'.
func Validate(adj string, k int) error {
	if k < 1 || k > gotrie.MaxPatternSize {
		return errors.Wrapf(gotrie.ErrBadPatternSize, "size %d", k)
	}
	if len(adj) != k*k {
		return errors.Wrapf(gotrie.ErrBadAdjacency, "length %d does not match size %d", len(adj), k)
	}
	for i := 0; i < len(adj); i++ {
		if c := adj[i]; c != '0' && c != '1' {
			return errors.Wrapf(gotrie.ErrBadAdjacency, "unexpected char %q at %d", c, i)
		}
	}
	return nil
}

// Canonicalize returns the canonical relabeling of the connected pattern adj of size k.
//
// The input is first relabeled by certify, which gives the same string for every isomorphic input,
// and then ordered by the degree-ordering heuristic so that every prefix of the result is connected.
// The result is therefore identical for all isomorphic inputs, and Canonicalize is idempotent.
func Canonicalize(adj string, k int) (string, error) {
	if err := Validate(adj, k); err != nil {
		return "", err
	}
	buf := certify([]byte(adj), k)
	perm, err := heuristicOrder(buf, k)
	if err != nil {
		return "", err
	}
	return string(permute(nil, buf, k, perm)), nil
}

// Heuristic returns adj relabeled by the degree-ordering heuristic alone.
func Heuristic(adj string, k int) (string, error) {
	if err := Validate(adj, k); err != nil {
		return "", err
	}
	perm, err := heuristicOrder([]byte(adj), k)
	if err != nil {
		return "", err
	}
	return string(permute(nil, []byte(adj), k, perm)), nil
}

// Exact returns the lexicographically largest relabeling of adj.  Its cost grows with the
// number of relabelings that tie on a prefix, so it is meant for validation of small patterns.
func Exact(adj string, k int) (string, error) {
	if err := Validate(adj, k); err != nil {
		return "", err
	}
	return string(exact([]byte(adj), k)), nil
}

// Permute returns adj relabeled so that new vertex i is old vertex perm[i].
func Permute(adj string, k int, perm []int) string {
	return string(permute(nil, []byte(adj), k, perm))
}

func permute(dst, adj []byte, k int, perm []int) []byte {
	for i := 0; i < k; i++ {
		row := perm[i] * k
		for j := 0; j < k; j++ {
			dst = append(dst, adj[row+perm[j]])
		}
	}
	return dst
}

// heuristicOrder repeatedly removes the remaining vertex with the fewest connections to the other
// remaining vertices, never removing one that would disconnect the rest, and places it at the highest
// free position.  Ties fall back to the previous round's degree, then the original degree, then to the
// vertex with the smaller row (and then column) against the already placed vertices.
//
// Every prefix of the resulting order induces a connected subgraph.
func heuristicOrder(adj []byte, k int) ([]int, error) {
	var (
		order      = make([]int, k)
		degree     = make([]int, k)
		lastDegree = make([]int, k)
		total      = make([]int, k)
		cutVertex  = make([]bool, k)
		placed     = bits.New(k)
		visited    = bits.New(k)
		queue      = make([]int, 0, k)
	)

	edge := func(a, b int) bool {
		return adj[a*k+b] == '1'
	}

	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if edge(i, j) {
				degree[i]++
			}
			if edge(j, i) {
				degree[i]++
			}
		}
		total[i] = degree[i]
		lastDegree[i] = degree[i]
	}

	for ss := k - 1; ss >= 0; ss-- {

		// With more than four vertices left, find the ones whose removal would disconnect the rest
		for i := range cutVertex {
			cutVertex[i] = false
		}
		if ss > 3 {
			for i := 0; i < k; i++ {
				if placed.Bit(i) != 0 {
					continue
				}
				visited.ClearAll()
				visited.SetBit(i, 1)
				start := 0
				for placed.Bit(start) != 0 || start == i {
					start++
				}
				queue = append(queue[:0], start)
				visited.SetBit(start, 1)
				for q := 0; q < len(queue); q++ {
					at := queue[q]
					for j := 0; j < k; j++ {
						if placed.Bit(j) == 0 && visited.Bit(j) == 0 && (edge(j, at) || edge(at, j)) {
							visited.SetBit(j, 1)
							queue = append(queue, j)
						}
					}
				}
				cutVertex[i] = len(queue) != ss
			}
		}

		pick := -1
		for i := 0; i < k; i++ {
			if placed.Bit(i) != 0 || cutVertex[i] {
				continue
			}
			if pick < 0 || preferVertex(adj, k, i, pick, ss, order, degree, lastDegree, total) {
				pick = i
			}
		}

		if ss != 0 && degree[pick] == 0 {
			return nil, errors.Wrapf(gotrie.ErrDisconnected, "'%s'", adj)
		}

		for i := 0; i < k; i++ {
			lastDegree[i] = degree[i]
			if edge(i, pick) {
				degree[i]--
			}
			if edge(pick, i) {
				degree[i]--
			}
		}
		order[ss] = pick
		placed.SetBit(pick, 1)
	}

	return order, nil
}

// preferVertex reports if vertex i should be removed ahead of the current pick.
func preferVertex(adj []byte, k, i, pick, ss int, order, degree, lastDegree, total []int) bool {
	switch {
	case degree[i] != degree[pick]:
		return degree[i] < degree[pick]
	case lastDegree[i] != lastDegree[pick]:
		return lastDegree[i] < lastDegree[pick]
	case total[i] != total[pick]:
		return total[i] < total[pick]
	}

	for j := ss + 1; j < k; j++ {
		a, b := adj[i*k+order[j]], adj[pick*k+order[j]]
		if a != b {
			return a == '0'
		}
	}
	for j := ss + 1; j < k; j++ {
		a, b := adj[order[j]*k+i], adj[order[j]*k+pick]
		if a != b {
			return a == '0'
		}
	}
	return false
}
