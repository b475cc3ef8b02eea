package graphtree

import (
	"bytes"
	"testing"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/2x3systems/gotrie/libtrie/graph"
	"github.com/2x3systems/gotrie/libtrie/gtrie"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencies(t *testing.T) {
	tree := New()
	require.NoError(t, tree.Increment("010101010"))
	require.NoError(t, tree.Increment("010101010"))
	require.NoError(t, tree.AddFrequency("011101110", 5))
	require.NoError(t, tree.SetFrequency("001001110", 0))

	freq, found := tree.Frequency("010101010")
	assert.True(t, found)
	assert.Equal(t, int64(2), freq)
	_, found = tree.Frequency("111111111")
	assert.False(t, found)

	assert.Equal(t, 2, tree.CountGraphs())
	assert.Equal(t, int64(7), tree.CountOccurrences())

	err := tree.Increment("01x")
	assert.True(t, errors.Is(err, gotrie.ErrBadAdjacency))

	var out bytes.Buffer
	require.NoError(t, tree.WriteText(&out))
	assert.Equal(t, "001001110: 0\n010101010: 2\n011101110: 5\n", out.String())

	tree.ZeroFrequency()
	assert.Equal(t, int64(0), tree.CountOccurrences())
	assert.Len(t, tree.RawMap(), 3)
}

func TestToMapSumsRelabelings(t *testing.T) {
	tree := New()

	// three labelings of the undirected path on 3 vertices
	require.NoError(t, tree.AddFrequency("010101010", 2))
	require.NoError(t, tree.AddFrequency("011100100", 3))
	require.NoError(t, tree.AddFrequency("001001110", 4))
	require.NoError(t, tree.AddFrequency("011101110", 1))

	freqs, err := tree.ToMap(3)
	require.NoError(t, err)
	require.Len(t, freqs, 2)
	assert.Equal(t, int64(10), freqs.Total())
	assert.Equal(t, int64(1), freqs["011101110"])
}

func TestIndexRoundTrip(t *testing.T) {
	tree := New()
	require.NoError(t, tree.AddFrequency("010101010", 2))
	require.NoError(t, tree.AddFrequency("011101110", 1))
	require.NoError(t, tree.SetFrequency("011100100", 0))

	index := gtrie.New()
	require.NoError(t, tree.ToIndex(index, 3, gotrie.Undirected))
	assert.Equal(t, 2, index.CountGraphs())

	// Square with one diagonal: 2 paths and 2 triangles
	g := graph.NewMatrix(4, gotrie.Undirected)
	for _, e := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}} {
		g.AddLink(e[0], e[1])
	}
	require.NoError(t, index.Census(g, gotrie.CensusOpts{}))

	fromIndex := New()
	require.NoError(t, index.PopulateTree(fromIndex, 3))
	assert.Equal(t, 2, fromIndex.CountGraphs())
	assert.Equal(t, int64(4), fromIndex.CountOccurrences())
	assert.True(t, fromIndex.EqualIndex(index, 3))

	again := New()
	require.NoError(t, index.PopulateTree(again, 3))
	assert.True(t, fromIndex.Equal(again))
	require.NoError(t, again.Increment("011101110"))
	assert.False(t, fromIndex.Equal(again))
	assert.False(t, again.EqualIndex(index, 3))
}
