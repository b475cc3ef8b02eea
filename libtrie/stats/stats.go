// Package stats scores pattern frequencies against an ensemble of random networks.
package stats

import (
	"math"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/emirpasic/gods/trees/redblacktree"
	"gonum.org/v1/gonum/stat"
)

// Score summarizes how a pattern's original frequency compares to its random frequencies.
type Score struct {
	Mean   float64
	StdDev float64 // sample deviation (N-1 denominator)
	Z      float64

	// Defined is false when fewer than two random networks exist or their deviation is zero.
	// Z is then 0 and carries no meaning.
	Defined bool
}

// Result is one ranked row of a significance analysis.
type Result struct {
	Pattern   string
	Frequency int64
	Score
}

// ScoreOf scores freq against the given random frequencies.
func ScoreOf(freq int64, randoms []float64) Score {
	var sc Score
	switch len(randoms) {
	case 0:
		return sc
	case 1:
		sc.Mean = randoms[0]
		return sc
	}

	sc.Mean, sc.StdDev = stat.MeanStdDev(randoms, nil)
	if sc.StdDev > 0 && !math.IsNaN(sc.StdDev) {
		sc.Z = (float64(freq) - sc.Mean) / sc.StdDev
		sc.Defined = true
	} else {
		sc.StdDev = 0
	}
	return sc
}

// Analyze scores every pattern of original against the same pattern in each random map (absent means 0)
// and returns the results ranked by descending z-score, then descending frequency, then pattern.
// Patterns with an undefined score rank after all defined ones.
func Analyze(original gotrie.FreqMap, randoms []gotrie.FreqMap) []Result {
	ranked := redblacktree.Tree{
		Comparator: func(A, B interface{}) int {
			return compareResults(A.(*Result), B.(*Result))
		},
	}

	samples := make([]float64, len(randoms))
	for pattern, freq := range original {
		for i, fm := range randoms {
			samples[i] = float64(fm[pattern])
		}
		ranked.Put(&Result{
			Pattern:   pattern,
			Frequency: freq,
			Score:     ScoreOf(freq, samples),
		}, nil)
	}

	results := make([]Result, 0, ranked.Size())
	itr := ranked.Iterator()
	for itr.Next() {
		results = append(results, *itr.Key().(*Result))
	}
	return results
}

func compareResults(a, b *Result) int {
	if a.Defined != b.Defined {
		if a.Defined {
			return -1
		}
		return 1
	}
	if a.Defined && a.Z != b.Z {
		if a.Z > b.Z {
			return -1
		}
		return 1
	}
	if a.Frequency != b.Frequency {
		if a.Frequency > b.Frequency {
			return -1
		}
		return 1
	}
	switch {
	case a.Pattern < b.Pattern:
		return -1
	case a.Pattern > b.Pattern:
		return 1
	}
	return 0
}
