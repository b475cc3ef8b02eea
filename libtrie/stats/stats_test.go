package stats

import (
	"math"
	"testing"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreOf(t *testing.T) {
	sc := ScoreOf(10, []float64{2, 4, 6})
	require.True(t, sc.Defined)
	assert.InDelta(t, 4.0, sc.Mean, 1e-9)
	assert.InDelta(t, 2.0, sc.StdDev, 1e-9)
	assert.InDelta(t, 3.0, sc.Z, 1e-9)

	flat := ScoreOf(10, []float64{5, 5, 5})
	assert.False(t, flat.Defined)
	assert.Equal(t, 5.0, flat.Mean)
	assert.Equal(t, 0.0, flat.Z)

	single := ScoreOf(10, []float64{7})
	assert.False(t, single.Defined)
	assert.Equal(t, 7.0, single.Mean)

	none := ScoreOf(10, nil)
	assert.False(t, none.Defined)
	assert.False(t, math.IsNaN(none.Z))
}

func TestAnalyzeRanking(t *testing.T) {
	original := gotrie.FreqMap{
		"a": 10,
		"b": 20,
		"c": 10,
		"d": 3,
	}
	randoms := []gotrie.FreqMap{
		{"a": 2, "b": 18, "d": 3},
		{"a": 4, "b": 22, "d": 3},
		{"a": 6, "b": 20, "d": 3},
		{"b": 20, "d": 3},
	}
	results := Analyze(original, randoms)
	require.Len(t, results, 4)

	// c never appears in a random network so its deviation is zero
	order := make([]string, len(results))
	for i, res := range results {
		order[i] = res.Pattern
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
	assert.True(t, results[0].Defined)
	assert.InDelta(t, 3.0, results[0].Mean, 1e-9)
	assert.False(t, results[2].Defined)
	assert.False(t, results[3].Defined)
}

func TestAnalyzeTies(t *testing.T) {
	original := gotrie.FreqMap{"x": 5, "y": 9, "z": 5}
	results := Analyze(original, nil)
	require.Len(t, results, 3)
	assert.Equal(t, "y", results[0].Pattern)
	assert.Equal(t, "x", results[1].Pattern)
	assert.Equal(t, "z", results[2].Pattern)
}
