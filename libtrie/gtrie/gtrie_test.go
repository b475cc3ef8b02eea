package gtrie

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/2x3systems/gotrie/libtrie/canon"
	"github.com/2x3systems/gotrie/libtrie/graph"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadGraph(t *testing.T, edges string, kind gotrie.GraphKind, backing gotrie.Backing) gotrie.HostGraph {
	g, err := graph.ReadEdgeList(strings.NewReader(edges), graph.LoadOpts{
		Kind:    kind,
		Format:  gotrie.FormatSimple,
		Backing: backing,
	})
	require.NoError(t, err)
	return g
}

func randomGraph(rng *rand.Rand, n, m int, kind gotrie.GraphKind) *graph.Matrix {
	g := graph.NewMatrix(n, kind)
	for g.NumEdges() < m {
		g.AddLink(rng.Intn(n), rng.Intn(n))
	}
	return g
}

func isConnected(adj []byte, k int) bool {
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

// bruteForce counts every connected induced k-subgraph of g by canonical form.
func bruteForce(t *testing.T, g gotrie.HostGraph, k int) gotrie.FreqMap {
	freqs := make(gotrie.FreqMap)
	nodes := make([]int, k)
	var choose func(pos, from int)
	choose = func(pos, from int) {
		if pos == k {
			adj := graph.AppendAdjacency(nil, g, nodes)
			if !isConnected(adj, k) {
				return
			}
			form, err := canon.Canonicalize(string(adj), k)
			require.NoError(t, err)
			freqs[form]++
			return
		}
		for v := from; v < g.NumNodes(); v++ {
			nodes[pos] = v
			choose(pos+1, v+1)
		}
	}
	choose(0, 0)
	return freqs
}

func TestUndirectedTriangle(t *testing.T) {
	g := loadGraph(t, "1 2\n2 3\n3 1\n", gotrie.Undirected, gotrie.BackingMatrix)

	trie := New()
	require.NoError(t, trie.InsertString("011101110", 3, gotrie.Undirected))
	require.NoError(t, trie.Census(g, gotrie.CensusOpts{}))

	assert.Equal(t, int64(1), trie.CountOccurrences())
	freq, found := trie.FrequencyOf("011101110", 3)
	assert.True(t, found)
	assert.Equal(t, int64(1), freq)
	assert.Equal(t, 0.0, trie.CompressionRate())
}

func TestDirectedCycleHasNoTriangles(t *testing.T) {
	g := loadGraph(t, "1 2\n2 3\n3 4\n4 1\n", gotrie.Directed, gotrie.BackingMatrix)

	trie := New()
	for _, tri := range []string{"010001100", "011001000", "011101110"} {
		require.NoError(t, trie.InsertString(tri, 3, gotrie.Directed))
	}
	require.NoError(t, trie.Census(g, gotrie.CensusOpts{}))
	assert.Equal(t, int64(0), trie.CountOccurrences())
	assert.Equal(t, 0, trie.CountGraphsFound())

	require.NoError(t, trie.InsertString("010001000", 3, gotrie.Directed))
	require.NoError(t, trie.Census(g, gotrie.CensusOpts{}))
	assert.Equal(t, int64(4), trie.CountOccurrences())
	freq, found := trie.FrequencyOf("010001000", 3)
	assert.True(t, found)
	assert.Equal(t, int64(4), freq)
}

func TestPathSurvivesReload(t *testing.T) {
	trie := New()
	require.NoError(t, trie.InsertString("010101010", 3, gotrie.Undirected))
	assert.Equal(t, 1, trie.CountGraphs())

	data, err := trie.MarshalBinary()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte(gotrie.IndexFormatHeader+"\n")))

	reloaded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.CountGraphs())
	assert.Equal(t, trie.CountNodes(), reloaded.CountNodes())
}

func TestCensusMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	for _, kind := range []gotrie.GraphKind{gotrie.Undirected, gotrie.Directed} {
		for k := 3; k <= 6; k++ {
			g := randomGraph(rng, 14, 30, kind)
			expect := bruteForce(t, g, k)
			require.NotEmpty(t, expect)

			trie := New()
			for adj := range expect {
				require.NoError(t, trie.InsertString(adj, k, kind))
			}
			assert.Equal(t, len(expect), trie.CountGraphs())

			require.NoError(t, trie.Census(g, gotrie.CensusOpts{}))
			assert.Equal(t, expect, trie.Frequencies(k), "%v k=%d", kind, k)
			assert.Equal(t, expect.Total(), trie.CountOccurrences())

			// Cleaning conditions and switching backings leaves the census unchanged
			trie.CleanConditions()
			sparse := graph.NewSparse(g.NumNodes(), kind, edgesOf(g))
			require.NoError(t, trie.Census(sparse, gotrie.CensusOpts{}))
			assert.Equal(t, expect, trie.Frequencies(k))

			// A census sampled with every probability at 1 is a full census
			probs := []float64{1, 1, 1, 1, 1, 1}
			require.NoError(t, trie.CensusSample(g, probs, rng, gotrie.CensusOpts{}))
			assert.Equal(t, expect, trie.Frequencies(k))
		}
	}
}

func TestCensusMatchesBruteForceLargePatterns(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	for _, kind := range []gotrie.GraphKind{gotrie.Undirected, gotrie.Directed} {
		g := randomGraph(rng, 12, 30, kind)
		for _, k := range []int{9, 10} {
			expect := bruteForce(t, g, k)
			require.NotEmpty(t, expect)

			trie := New()
			for adj := range expect {
				// A relabeled copy lands on the same class
				relabeled := canon.Permute(adj, k, rng.Perm(k))
				require.NoError(t, trie.InsertString(relabeled, k, kind))
			}
			assert.Equal(t, len(expect), trie.CountGraphs())

			require.NoError(t, trie.Census(g, gotrie.CensusOpts{}))
			assert.Equal(t, expect, trie.Frequencies(k), "%v k=%d", kind, k)
		}
	}
}

func edgesOf(g *graph.Matrix) []graph.Edge {
	var edges []graph.Edge
	for a := 0; a < g.NumNodes(); a++ {
		for _, b := range g.OutEdges(a) {
			edges = append(edges, graph.Edge{From: a, To: b})
		}
	}
	return edges
}

func TestRoundTripPreservesCensus(t *testing.T) {
	rng := rand.New(rand.NewSource(29))
	g := randomGraph(rng, 16, 40, gotrie.Directed)

	trie := New()
	for adj := range bruteForce(t, g, 4) {
		require.NoError(t, trie.InsertString(adj, 4, gotrie.Directed))
	}
	trie.CleanConditions()
	require.NoError(t, trie.Census(g, gotrie.CensusOpts{}))
	before := trie.Frequencies(4)

	var buf bytes.Buffer
	_, err := trie.WriteTo(&buf)
	require.NoError(t, err)
	encoded := buf.String()

	reloaded, err := Decode(&buf)
	require.NoError(t, err)
	require.NoError(t, reloaded.Census(g, gotrie.CensusOpts{}))
	assert.Equal(t, before, reloaded.Frequencies(4))
	assert.Equal(t, trie.CountGraphs(), reloaded.CountGraphs())

	again, err := reloaded.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, encoded, string(again))
}

func TestSiblingsAreDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	trie := New()
	g := randomGraph(rng, 12, 30, gotrie.Directed)
	for adj := range bruteForce(t, g, 4) {
		require.NoError(t, trie.InsertString(adj, 4, gotrie.Directed))
		require.NoError(t, trie.InsertString(adj, 4, gotrie.Directed))
	}

	trie.Root().walk(func(node *Node) {
		for i, a := range node.Children {
			for _, b := range node.Children[i+1:] {
				require.False(t, a.sameEdges(b))
			}
		}
	})
}

func TestOccurrenceLines(t *testing.T) {
	g := loadGraph(t, "1 2\n1 3\n1 4\n2 3\n2 4\n3 4\n", gotrie.Undirected, gotrie.BackingMatrix)

	trie := New()
	require.NoError(t, trie.InsertString("011101110", 3, gotrie.Undirected))

	var occ bytes.Buffer
	require.NoError(t, trie.Census(g, gotrie.CensusOpts{Occurrences: &occ}))
	lines := strings.Split(strings.TrimSpace(occ.String()), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "011101110: "), line)
		assert.Len(t, strings.Fields(line), 4)
	}
}

func TestCensusSampleRejectsBadProbabilities(t *testing.T) {
	trie := New()
	require.NoError(t, trie.InsertString("011101110", 3, gotrie.Undirected))
	g := graph.NewMatrix(3, gotrie.Undirected)
	rng := rand.New(rand.NewSource(1))

	err := trie.CensusSample(g, []float64{1, 1}, rng, gotrie.CensusOpts{})
	assert.True(t, errors.Is(err, gotrie.ErrBadProbability))
	err = trie.CensusSample(g, []float64{1, 0, 1}, rng, gotrie.CensusOpts{})
	assert.True(t, errors.Is(err, gotrie.ErrBadProbability))
}

func TestSampleFraction(t *testing.T) {
	probs := []float64{1, 0.5, 0.5}
	assert.InDelta(t, 0.25, SampleFraction(probs, 3), 1e-12)
	assert.InDelta(t, 0.5, SampleFraction(probs, 2), 1e-12)
	assert.InDelta(t, 0.25, SampleFraction(probs, 5), 1e-12)
	assert.InDelta(t, 1.0, SampleFraction(nil, 4), 1e-12)
	assert.InDelta(t, 1.0, SampleFraction(probs, 0), 1e-12)
}

func TestDecodeRejectsCorruption(t *testing.T) {
	trie := New()
	require.NoError(t, trie.InsertString("011101110", 3, gotrie.Undirected))
	require.NoError(t, trie.InsertString("010101010", 3, gotrie.Undirected))
	data, err := trie.MarshalBinary()
	require.NoError(t, err)

	_, err = Unmarshal([]byte("GTRIEFORMAT VERSION 2\n"))
	assert.True(t, errors.Is(err, gotrie.ErrIndexHeader))

	// Drop the last node
	truncated := data[:bytes.LastIndexByte(data[:len(data)-1], '\n')+1]
	_, err = Unmarshal(truncated)
	assert.True(t, errors.Is(err, gotrie.ErrIndexCorrupt))

	// Extra byte before a node's terminator
	lines := bytes.Split(data, []byte{'\n'})
	lines[2] = append(lines[2], ' ')
	_, err = Unmarshal(bytes.Join(lines, []byte{'\n'}))
	assert.True(t, errors.Is(err, gotrie.ErrIndexCorrupt))

	// Bytes after the last node
	for _, tail := range []string{"\n", " \n", string(data[len(truncated):])} {
		padded := append(append([]byte(nil), data...), tail...)
		_, err = Unmarshal(padded)
		assert.True(t, errors.Is(err, gotrie.ErrIndexCorrupt), "tail %q", tail)
	}
}

func TestWriteText(t *testing.T) {
	trie := New()
	require.NoError(t, trie.InsertString("011101110", 3, gotrie.Undirected))

	var out bytes.Buffer
	require.NoError(t, trie.WriteText(&out))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "[][] {}+{}", lines[0])
	assert.Equal(t, "         [110][110] |0<1 1<2|+|1<2| isGraph", lines[3])
}
