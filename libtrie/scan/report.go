package scan

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/2x3systems/gotrie/libtrie/graph"
	"github.com/2x3systems/gotrie/libtrie/stats"
	"github.com/pkg/errors"
)

const reportSeparator = "------------------------------------------"

var methodDescs = map[gotrie.Method]string{
	gotrie.MethodESU:       "ESU on original network",
	gotrie.MethodGTrie:     "GTRIE with file containing complete g-trie",
	gotrie.MethodSubgraphs: "GTRIE with subgraphs read from file",
}

// Report is the outcome of a Run.
type Report struct {
	RunID     string
	GraphFile string
	Kind      gotrie.GraphKind
	Size      int
	Method    gotrie.Method
	Sampled   bool
	Random    gotrie.RandomOpts // Seed is the seed actually used
	NumNodes  int
	NumEdges  int

	Started      time.Time
	Finished     time.Time
	OriginalTime time.Duration
	RandomTime   time.Duration // average per random network

	NumClasses     int
	NumOccurrences int64
	Results        []stats.Result

	Metrics *Metrics
}

// Frequencies returns the original-network frequency of each class.
func (rep *Report) Frequencies() gotrie.FreqMap {
	freqs := make(gotrie.FreqMap, len(rep.Results))
	for _, res := range rep.Results {
		freqs[res.Pattern] = res.Frequency
	}
	return freqs
}

// Record converts the report into a catalog record.
func (rep *Report) Record() *gotrie.CensusRecord {
	rec := &gotrie.CensusRecord{
		RunID:        rep.RunID,
		GraphName:    filepath.Base(rep.GraphFile),
		Method:       rep.Method.String(),
		Directed:     rep.Kind == gotrie.Directed,
		PatternSize:  int32(rep.Size),
		NumNodes:     int64(rep.NumNodes),
		NumEdges:     int64(rep.NumEdges),
		NumRandom:    int32(rep.Random.Count),
		StartedAt:    rep.Started.Unix(),
		ElapsedNanos: int64(rep.Finished.Sub(rep.Started)),
		Patterns:     make([]*gotrie.PatternRecord, len(rep.Results)),
	}
	for i, res := range rep.Results {
		rec.Patterns[i] = &gotrie.PatternRecord{
			Adjacency:    res.Pattern,
			Frequency:    res.Frequency,
			RandomMean:   res.Mean,
			RandomStdDev: res.StdDev,
			ZScore:       res.Z,
			ZDefined:     res.Defined,
		}
	}
	return rec
}

// WriteFile writes the text report to pathname.
func (rep *Report) WriteFile(pathname string) error {
	file, err := os.Create(pathname)
	if err != nil {
		return errors.Wrapf(err, "creating results file '%s'", pathname)
	}
	if err = rep.WriteText(file); err != nil {
		file.Close()
		return errors.Wrapf(err, "writing results file '%s'", pathname)
	}
	return file.Close()
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// WriteText writes a header block followed by one row per ranked class.  Each class is shown as its
// adjacency matrix, one row per line.  An undefined z-score is shown as "undef".
func (rep *Report) WriteText(w io.Writer) error {
	out := bufio.NewWriter(w)
	const stamp = "15h04m05s 02/01/2006"

	fmt.Fprintf(out, "gotrie Results\n%s\nGeneral Information\n\n", reportSeparator)
	fmt.Fprintf(out, "Start of Computation: %s\n", rep.Started.Format(stamp))
	fmt.Fprintf(out, "End of Computation: %s\n\n", rep.Finished.Format(stamp))

	fmt.Fprintf(out, "Subgraph Size: %d\n", rep.Size)
	fmt.Fprintf(out, "Graph File: \"%s\"\n", rep.GraphFile)
	fmt.Fprintf(out, "Directed: %s\n", yesNo(rep.Kind == gotrie.Directed))
	fmt.Fprintf(out, "Nr Nodes: %d\n", rep.NumNodes)
	fmt.Fprintf(out, "Nr Edges: %d\n\n", rep.NumEdges)

	fmt.Fprintf(out, "Method: %s\n", methodDescs[rep.Method])
	fmt.Fprintf(out, "Sampled: %s\n", yesNo(rep.Sampled))
	fmt.Fprintf(out, "Different Types of Subgraphs Found [Original Network]: %d\n", rep.NumClasses)
	fmt.Fprintf(out, "Subgraph Occurrences Found [Original Network]: %d\n", rep.NumOccurrences)
	fmt.Fprintf(out, "Time for computing census on original network: %.6fs\n", rep.OriginalTime.Seconds())
	fmt.Fprintf(out, "Average time for census on random network: %.6fs\n\n", rep.RandomTime.Seconds())

	fmt.Fprintf(out, "Number of random networks: %d\n", rep.Random.Count)
	fmt.Fprintf(out, "Random seed: %d\n", rep.Random.Seed)
	fmt.Fprintf(out, "Exchanges per edge: %d\n", rep.Random.Exchanges)
	fmt.Fprintf(out, "Number of tries per exchange: %d\n", rep.Random.Tries)
	fmt.Fprintf(out, "%s\nMotif Analysis Results\n\n", reportSeparator)

	k := rep.Size
	pad := 0
	if k < 5 {
		pad = 5 - k
	}
	fmt.Fprintf(out, "Graph%s   Org_Freq |  Z-score |    Rnd_Avg +/-    Rnd_Dev\n\n", strings.Repeat(" ", max(k-5, 0)))

	for _, res := range rep.Results {
		if len(res.Pattern) != k*k {
			return errors.Wrapf(gotrie.ErrBadAdjacency, "'%s' is not of size %d", res.Pattern, k)
		}
		z := "   undef"
		if res.Defined {
			z = fmt.Sprintf("%8.2f", res.Z)
		}
		fmt.Fprintf(out, "%s%s %10d | %s | %10.2f +/- %10.2f", res.Pattern[:k], strings.Repeat(" ", pad), res.Frequency, z, res.Mean, res.StdDev)
		if rep.Kind == gotrie.Undirected {
			if g, err := graph.FromAdjacency(res.Pattern, k, rep.Kind); err == nil {
				fmt.Fprintf(out, " | %s", graph.Graph6(g))
			}
		}
		out.WriteByte('\n')
		for row := 1; row < k; row++ {
			out.WriteString(res.Pattern[row*k : (row+1)*k])
			out.WriteByte('\n')
		}
		out.WriteByte('\n')
	}

	return out.Flush()
}
