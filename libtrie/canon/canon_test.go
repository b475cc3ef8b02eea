package canon

import (
	"math/rand"
	"testing"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func permutations(k int) [][]int {
	var out [][]int
	perm := make([]int, k)
	used := make([]bool, k)
	var walk func(pos int)
	walk = func(pos int) {
		if pos == k {
			out = append(out, append([]int(nil), perm...))
			return
		}
		for v := 0; v < k; v++ {
			if !used[v] {
				used[v] = true
				perm[pos] = v
				walk(pos + 1)
				used[v] = false
			}
		}
	}
	walk(0)
	return out
}

func connected(adj string, k int) bool {
	seen := make([]bool, k)
	queue := []int{0}
	seen[0] = true
	for q := 0; q < len(queue); q++ {
		at := queue[q]
		for j := 0; j < k; j++ {
			if !seen[j] && (adj[at*k+j] == '1' || adj[j*k+at] == '1') {
				seen[j] = true
				queue = append(queue, j)
			}
		}
	}
	return len(queue) == k
}

// randomPatterns returns connected loop-free patterns of size k.
func randomPatterns(rng *rand.Rand, k, count int, undirected bool) []string {
	var out []string
	for len(out) < count {
		buf := make([]byte, k*k)
		for i := range buf {
			buf[i] = '0'
		}
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				if i == j || (undirected && j < i) {
					continue
				}
				if rng.Intn(2) == 1 {
					buf[i*k+j] = '1'
					if undirected {
						buf[j*k+i] = '1'
					}
				}
			}
		}
		if adj := string(buf); connected(adj, k) {
			out = append(out, adj)
		}
	}
	return out
}

func TestCanonicalizeTriangle(t *testing.T) {
	best, err := Canonicalize("011101110", 3)
	require.NoError(t, err)
	assert.Equal(t, "011101110", best)
}

func TestCanonicalizeInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for k := 3; k <= 5; k++ {
		perms := permutations(k)
		for _, undirected := range []bool{true, false} {
			for _, adj := range randomPatterns(rng, k, 12, undirected) {
				best, err := Canonicalize(adj, k)
				require.NoError(t, err)

				again, err := Canonicalize(best, k)
				require.NoError(t, err)
				assert.Equal(t, best, again, "canonical form of %s is not stable", adj)

				for _, perm := range perms {
					relabeled := Permute(adj, k, perm)
					form, err := Canonicalize(relabeled, k)
					require.NoError(t, err)
					require.Equal(t, best, form, "%s relabeled by %v", adj, perm)
				}
			}
		}
	}
}

func TestExactIsLargest(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, adj := range randomPatterns(rng, 4, 20, false) {
		largest := ""
		for _, perm := range permutations(4) {
			if s := Permute(adj, 4, perm); s > largest {
				largest = s
			}
		}
		best, err := Exact(adj, 4)
		require.NoError(t, err)
		assert.Equal(t, largest, best)
	}
}

func TestHeuristicPrefixesConnected(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for k := 3; k <= 9; k++ {
		for _, adj := range randomPatterns(rng, k, 10, k%2 == 0) {
			form, err := Heuristic(adj, k)
			require.NoError(t, err)
			for d := 1; d <= k; d++ {
				prefix := make([]byte, 0, d*d)
				for i := 0; i < d; i++ {
					prefix = append(prefix, form[i*k:i*k+d]...)
				}
				assert.True(t, connected(string(prefix), d), "prefix %d of %s", d, form)
			}
		}
	}
}

func TestCanonicalizeErrors(t *testing.T) {
	_, err := Canonicalize("0100", 3)
	assert.True(t, errors.Is(err, gotrie.ErrBadAdjacency))

	_, err = Canonicalize("01x101110", 3)
	assert.True(t, errors.Is(err, gotrie.ErrBadAdjacency))

	// 1-2 plus an isolated vertex
	_, err = Canonicalize("010100000", 3)
	assert.True(t, errors.Is(err, gotrie.ErrDisconnected))

	_, err = Canonicalize("", 0)
	assert.True(t, errors.Is(err, gotrie.ErrBadPatternSize))
}

func TestCanonicalizeLargePatterns(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for k := 9; k <= 12; k++ {
		for _, undirected := range []bool{true, false} {
			for _, adj := range randomPatterns(rng, k, 6, undirected) {
				best, err := Canonicalize(adj, k)
				require.NoError(t, err)

				again, err := Canonicalize(best, k)
				require.NoError(t, err)
				assert.Equal(t, best, again, "canonical form of %s is not stable", adj)

				for n := 0; n < 20; n++ {
					perm := rng.Perm(k)
					form, err := Canonicalize(Permute(adj, k, perm), k)
					require.NoError(t, err)
					require.Equal(t, best, form, "%s relabeled by %v", adj, perm)
				}
			}
		}
	}
}

func undirectedPattern(k int, edges [][2]int) string {
	buf := make([]byte, k*k)
	for i := range buf {
		buf[i] = '0'
	}
	for _, e := range edges {
		buf[e[0]*k+e[1]] = '1'
		buf[e[1]*k+e[0]] = '1'
	}
	return string(buf)
}

func TestCanonicalizeSymmetricPatterns(t *testing.T) {
	var complete, cycle, star, cube [][2]int
	for i := 0; i < 20; i++ {
		for j := i + 1; j < 20; j++ {
			complete = append(complete, [2]int{i, j})
		}
	}
	for i := 0; i < 30; i++ {
		cycle = append(cycle, [2]int{i, (i + 1) % 30})
	}
	for i := 1; i < gotrie.MaxPatternSize; i++ {
		star = append(star, [2]int{0, i})
	}
	for i := 0; i < 16; i++ {
		for b := 1; b < 16; b <<= 1 {
			if i&b == 0 {
				cube = append(cube, [2]int{i, i | b})
			}
		}
	}

	rng := rand.New(rand.NewSource(23))
	for _, tc := range []struct {
		name  string
		k     int
		edges [][2]int
	}{
		{"complete", 20, complete},
		{"cycle", 30, cycle},
		{"star", gotrie.MaxPatternSize, star},
		{"hypercube", 16, cube},
	} {
		t.Run(tc.name, func(t *testing.T) {
			adj := undirectedPattern(tc.k, tc.edges)
			best, err := Canonicalize(adj, tc.k)
			require.NoError(t, err)

			again, err := Canonicalize(best, tc.k)
			require.NoError(t, err)
			assert.Equal(t, best, again)

			for n := 0; n < 5; n++ {
				form, err := Canonicalize(Permute(adj, tc.k, rng.Perm(tc.k)), tc.k)
				require.NoError(t, err)
				assert.Equal(t, best, form)
			}
		})
	}
}
