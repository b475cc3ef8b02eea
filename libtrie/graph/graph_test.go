package graph

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cycle4 = `
1 2
2 3
3 4
4 1
`

func TestMatrixEdges(t *testing.T) {
	g := NewMatrix(4, gotrie.Directed)
	require.True(t, g.AddEdge(0, 1))
	require.False(t, g.AddEdge(0, 1))
	require.False(t, g.AddEdge(2, 2))
	require.True(t, g.AddEdge(1, 0))
	require.True(t, g.AddEdge(3, 1))

	assert.Equal(t, 3, g.NumEdges())
	assert.Equal(t, []int{0, 3}, g.Neighbours(1))
	assert.True(t, g.IsConnected(1, 3))
	assert.False(t, g.HasEdge(1, 3))

	require.True(t, g.RemoveEdge(0, 1))
	assert.Equal(t, []int{0, 3}, g.Neighbours(1), "1 -> 0 still connects them")
	require.True(t, g.RemoveEdge(1, 0))
	assert.Equal(t, []int{3}, g.Neighbours(1))
	assert.Empty(t, g.Neighbours(0))
	assert.Equal(t, 1, g.NumEdges())
}

func TestReadEdgeList(t *testing.T) {
	input := "1 2 1\n2 3 1\n3 3 1\n\n# comment\n2 1 1\n1 2 5\n"

	dir, err := ReadEdgeList(strings.NewReader(input), LoadOpts{Kind: gotrie.Directed, Format: gotrie.FormatSimpleWeight})
	require.NoError(t, err)
	assert.Equal(t, 3, dir.NumNodes())
	assert.Equal(t, 3, dir.NumEdges())
	assert.True(t, dir.HasEdge(1, 0))

	undir, err := ReadEdgeList(strings.NewReader(input), LoadOpts{Kind: gotrie.Undirected, Format: gotrie.FormatSimpleWeight})
	require.NoError(t, err)
	assert.Equal(t, 2, undir.NumEdges())
	assert.True(t, undir.HasEdge(2, 1))

	_, err = ReadEdgeList(strings.NewReader("0 1\n"), LoadOpts{Format: gotrie.FormatSimple})
	assert.True(t, errors.Is(err, gotrie.ErrBadVtxID))

	_, err = ReadEdgeList(strings.NewReader("1 2\n"), LoadOpts{Format: gotrie.FormatSimpleWeight})
	assert.True(t, errors.Is(err, gotrie.ErrBadEdge))
}

func TestSparseMatchesMatrix(t *testing.T) {
	for _, kind := range []gotrie.GraphKind{gotrie.Directed, gotrie.Undirected} {
		opts := LoadOpts{Kind: kind, Format: gotrie.FormatSimple}
		mat, err := ReadEdgeList(strings.NewReader(cycle4+"1 3\n"), opts)
		require.NoError(t, err)
		opts.Backing = gotrie.BackingSparse
		sparse, err := ReadEdgeList(strings.NewReader(cycle4+"1 3\n"), opts)
		require.NoError(t, err)

		require.Equal(t, mat.NumNodes(), sparse.NumNodes())
		assert.Equal(t, mat.NumEdges(), sparse.NumEdges(), kind.String())
		for a := 0; a < mat.NumNodes(); a++ {
			assert.Equal(t, mat.Neighbours(a), sparse.Neighbours(a))
			for b := 0; b < mat.NumNodes(); b++ {
				assert.Equal(t, mat.HasEdge(a, b), sparse.HasEdge(a, b))
				assert.Equal(t, mat.IsConnected(a, b), sparse.IsConnected(a, b))
			}
		}
		assert.Equal(t, Adjacency(mat), Adjacency(sparse))
	}
}

func TestFromAdjacency(t *testing.T) {
	g, err := FromAdjacency("011101110", 3, gotrie.Undirected)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumEdges())
	assert.Equal(t, "011101110", Adjacency(g))

	_, err = FromAdjacency("010001100", 3, gotrie.Undirected)
	assert.True(t, errors.Is(err, gotrie.ErrBadAdjacency))
	_, err = FromAdjacency("110001100", 3, gotrie.Directed)
	assert.True(t, errors.Is(err, gotrie.ErrBadAdjacency))
	_, err = FromAdjacency("0100", 3, gotrie.Directed)
	assert.True(t, errors.Is(err, gotrie.ErrBadAdjacency))
}

func degrees(g *Matrix) (outs, ins []int) {
	for a := 0; a < g.NumNodes(); a++ {
		outs = append(outs, len(g.OutEdges(a)))
		ins = append(ins, len(g.InEdges(a)))
	}
	return
}

func TestRewirePreservesDegrees(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, kind := range []gotrie.GraphKind{gotrie.Directed, gotrie.Undirected} {
		g := NewMatrix(30, kind)
		for i := 0; i < 120; i++ {
			g.AddLink(rng.Intn(30), rng.Intn(30))
		}
		outs, ins := degrees(g)
		numEdges := g.NumEdges()

		rewired := g.Clone()
		swaps := Rewire(rewired, 3, 10, rng)
		assert.Greater(t, swaps, 0)

		outs2, ins2 := degrees(rewired)
		assert.Equal(t, outs, outs2)
		assert.Equal(t, ins, ins2)
		assert.Equal(t, numEdges, rewired.NumEdges())
		assert.NotEqual(t, Adjacency(g), Adjacency(rewired))

		for a := 0; a < rewired.NumNodes(); a++ {
			assert.False(t, rewired.HasEdge(a, a))
			if kind == gotrie.Undirected {
				for b := 0; b < rewired.NumNodes(); b++ {
					assert.Equal(t, rewired.HasEdge(a, b), rewired.HasEdge(b, a))
				}
			}
		}
	}
}

func TestGraph6(t *testing.T) {
	g, err := FromAdjacency("011101110", 3, gotrie.Undirected)
	require.NoError(t, err)
	assert.Equal(t, "Bw", Graph6(g))
}
