// Package scan runs complete motif scans: census of an original network, census of an ensemble of
// randomized networks, significance scoring, report output and cataloging.
package scan

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/2x3systems/gotrie/libtrie/catalog"
	"github.com/2x3systems/gotrie/libtrie/esu"
	"github.com/2x3systems/gotrie/libtrie/graph"
	"github.com/2x3systems/gotrie/libtrie/graphtree"
	"github.com/2x3systems/gotrie/libtrie/gtrie"
	"github.com/2x3systems/gotrie/libtrie/stats"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// ReadPatterns builds an index from the whitespace-separated adjacency strings read from r.
// Patterns isomorphic to one already read are skipped with a warning.
func ReadPatterns(r io.Reader, k int, kind gotrie.GraphKind) (*gtrie.Trie, error) {
	seen := catalog.NewCanonicSet()
	defer seen.Close()

	trie := gtrie.New()
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	count := 0
	for scanner.Scan() {
		count++
		adj := scanner.Text()
		added, err := seen.TryAdd(adj, k)
		if err != nil {
			return nil, errors.Wrapf(err, "pattern #%d", count)
		}
		if !added {
			klog.Warningf("pattern #%d (%s) repeats an earlier pattern, skipping", count, adj)
			continue
		}
		if err = trie.InsertString(adj, k, kind); err != nil {
			return nil, errors.Wrapf(err, "pattern #%d", count)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	trie.CleanConditions()
	return trie, nil
}

func readPatternsFile(pathname string, k int, kind gotrie.GraphKind) (*gtrie.Trie, error) {
	file, err := os.Open(pathname)
	if err != nil {
		return nil, errors.Wrapf(err, "opening patterns '%s'", pathname)
	}
	defer file.Close()

	start := time.Now()
	trie, err := ReadPatterns(file, k, kind)
	if err != nil {
		return nil, errors.Wrapf(err, "reading patterns '%s'", pathname)
	}
	klog.Infof("index built in %v: %d patterns of size %d, compression rate %.2f%%",
		time.Since(start), trie.CountGraphs(), k, trie.CompressionRate()*100)
	return trie, nil
}

// CreateIndex builds an index from opts.PatternsFile and writes it to opts.IndexFile (or opts.OutputFile).
// If opts.CatalogPath is set, the index is also stored in that catalog under the patterns file's name.
func CreateIndex(opts gotrie.ScanOpts) (*gtrie.Trie, error) {
	if err := opts.ValidateCreate(); err != nil {
		return nil, err
	}

	trie, err := readPatternsFile(opts.PatternsFile, opts.Size, opts.Kind())
	if err != nil {
		return nil, err
	}

	dest := opts.IndexFile
	if dest == "" {
		dest = opts.OutputFile
	}
	if err = trie.WriteFile(dest); err != nil {
		return nil, err
	}
	klog.Infof("index written to '%s'", dest)

	if opts.CatalogPath != "" {
		data, err := trie.MarshalBinary()
		if err != nil {
			return nil, err
		}
		err = withCatalog(opts.CatalogPath, func(cat gotrie.Catalog) error {
			return cat.PutIndex(filepath.Base(opts.PatternsFile), data)
		})
		if err != nil {
			return nil, err
		}
	}
	return trie, nil
}

func withCatalog(pathname string, fn func(cat gotrie.Catalog) error) error {
	ctx := gotrie.NewCatalogContext()
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	cat, err := catalog.OpenCatalog(ctx, gotrie.CatalogOpts{DbPathName: pathname})
	if err != nil {
		return err
	}
	err = fn(cat)
	if closeErr := cat.Close(); err == nil {
		err = closeErr
	}
	return err
}

func newScanner(opts gotrie.ScanOpts) (*scanner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	scan := &scanner{
		opts:    opts,
		kind:    opts.Kind(),
		metrics: NewMetrics(),
		seed:    opts.Random.Seed,
	}
	scan.method, _ = gotrie.ParseMethod(opts.Method)
	if scan.seed < 0 {
		scan.seed = time.Now().UnixNano()
	}
	return scan, nil
}

// Census loads opts.GraphFile and returns its census by canonical form.  Random network params are ignored
// and no output is written apart from the occurrences file.
func Census(opts gotrie.ScanOpts) (gotrie.FreqMap, error) {
	scan, err := newScanner(opts)
	if err != nil {
		return nil, err
	}
	g, err := scan.loadGraph()
	if err != nil {
		return nil, err
	}
	return scan.censusOriginal(g, rand.New(rand.NewSource(scan.seed)))
}

type scanner struct {
	opts    gotrie.ScanOpts
	method  gotrie.Method
	kind    gotrie.GraphKind
	report  *Report
	metrics *Metrics
	seed    int64
}

// Run performs the scan described by opts, writes the text report to opts.OutputFile and returns it.
//
// ctx is checked between random networks; a census in progress always runs to completion.
func Run(ctx context.Context, opts gotrie.ScanOpts) (*Report, error) {
	scan, err := newScanner(opts)
	if err != nil {
		return nil, err
	}

	report, err := scan.run(ctx)
	if err != nil {
		return nil, err
	}

	if opts.OutputFile != "" {
		if err = report.WriteFile(opts.OutputFile); err != nil {
			return nil, err
		}
		klog.Infof("results written to '%s'", opts.OutputFile)
	}

	if opts.CatalogPath != "" {
		err = withCatalog(opts.CatalogPath, func(cat gotrie.Catalog) error {
			report.RunID, err = cat.PutCensus(report.Record())
			return err
		})
		if err != nil {
			return nil, err
		}
		klog.Infof("census stored in '%s' as run %s", opts.CatalogPath, report.RunID)
	}

	scan.metrics.Log()
	return report, nil
}

func (scan *scanner) loadGraph() (gotrie.HostGraph, error) {
	format, _ := gotrie.ParseInputFormat(scan.opts.Format)
	backing, _ := gotrie.ParseBacking(scan.opts.Backing)
	return graph.LoadFile(scan.opts.GraphFile, graph.LoadOpts{
		Kind:    scan.kind,
		Format:  format,
		Backing: backing,
	})
}

func (scan *scanner) run(ctx context.Context) (*Report, error) {
	opts := &scan.opts
	report := &Report{
		GraphFile: opts.GraphFile,
		Kind:      scan.kind,
		Size:      opts.Size,
		Method:    scan.method,
		Sampled:   opts.SampleProbs != nil,
		Random:    opts.Random,
		Started:   time.Now(),
		Metrics:   scan.metrics,
	}
	report.Random.Seed = scan.seed

	g, err := scan.loadGraph()
	if err != nil {
		return nil, err
	}
	report.NumNodes = g.NumNodes()
	report.NumEdges = g.NumEdges()

	rng := rand.New(rand.NewSource(scan.seed))

	start := time.Now()
	original, err := scan.censusOriginal(g, rng)
	if err != nil {
		return nil, err
	}
	report.OriginalTime = time.Since(start)
	report.NumClasses = len(original)
	report.NumOccurrences = original.Total()
	scan.metrics.observeCensus(networkOriginal, report.OriginalTime, report.NumOccurrences)
	klog.Infof("original network: %d subgraphs, %d occurrences in %v", report.NumClasses, report.NumOccurrences, report.OriginalTime)

	var randoms []gotrie.FreqMap
	if opts.Random.Count > 0 {
		randoms, report.RandomTime, err = scan.censusRandom(ctx, g, original, rng)
		if err != nil {
			return nil, err
		}
	}

	report.Results = stats.Analyze(original, randoms)
	report.Finished = time.Now()
	return report, nil
}

// censusOriginal computes the census of g by canonical form using the configured method.
func (scan *scanner) censusOriginal(g gotrie.HostGraph, rng *rand.Rand) (gotrie.FreqMap, error) {
	opts := &scan.opts
	k := opts.Size

	var censusOpts gotrie.CensusOpts
	if opts.OccurrencesFile != "" {
		occ, err := os.Create(opts.OccurrencesFile)
		if err != nil {
			return nil, errors.Wrapf(err, "creating occurrences file '%s'", opts.OccurrencesFile)
		}
		defer occ.Close()
		censusOpts.Occurrences = occ
	}

	tree := graphtree.New()
	switch scan.method {
	case gotrie.MethodESU:
		var err error
		if opts.SampleProbs != nil {
			err = esu.EnumerateSample(g, k, tree, opts.SampleProbs, rng, censusOpts)
		} else {
			err = esu.Enumerate(g, k, tree, censusOpts)
		}
		if err != nil {
			return nil, err
		}

	case gotrie.MethodGTrie, gotrie.MethodSubgraphs:
		var (
			trie *gtrie.Trie
			err  error
		)
		if scan.method == gotrie.MethodGTrie {
			trie, err = gtrie.ReadFile(opts.IndexFile)
		} else {
			trie, err = readPatternsFile(opts.PatternsFile, k, scan.kind)
		}
		if err != nil {
			return nil, err
		}
		if opts.SampleProbs != nil {
			err = trie.CensusSample(g, opts.SampleProbs, rng, censusOpts)
		} else {
			err = trie.Census(g, censusOpts)
		}
		if err != nil {
			return nil, err
		}
		if err = trie.PopulateTree(tree, k); err != nil {
			return nil, err
		}
	}

	return tree.ToMap(k)
}

// censusRandom generates the random ensemble and censuses each network with an index of the classes
// found in the original network.  Returns the maps in generation order and the average census time.
func (scan *scanner) censusRandom(ctx context.Context, g gotrie.HostGraph, original gotrie.FreqMap, rng *rand.Rand) ([]gotrie.FreqMap, time.Duration, error) {
	opts := &scan.opts
	k := opts.Size

	index := gtrie.New()
	for adj := range original {
		if err := index.InsertString(adj, k, scan.kind); err != nil {
			return nil, 0, err
		}
	}
	index.CleanConditions()
	indexData, err := index.MarshalBinary()
	if err != nil {
		return nil, 0, err
	}

	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > opts.Random.Count {
		numWorkers = opts.Random.Count
	}

	// Each worker censuses with its own copy of the index
	workers := make([]censusFunc, numWorkers)
	for i := range workers {
		trie, err := gtrie.Unmarshal(indexData)
		if err != nil {
			return nil, 0, err
		}
		var workerRng *rand.Rand
		if opts.SampleProbs != nil {
			workerRng = rand.New(rand.NewSource(scan.seed + int64(i) + 1))
		}
		workers[i] = func(g gotrie.HostGraph) (gotrie.FreqMap, error) {
			var err error
			if workerRng != nil {
				err = trie.CensusSample(g, opts.SampleProbs, workerRng, gotrie.CensusOpts{})
			} else {
				err = trie.Census(g, gotrie.CensusOpts{})
			}
			if err != nil {
				return nil, err
			}
			return trie.Frequencies(k), nil
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := randomNetworks(ctx, graph.ToMatrix(g), opts.Random, rng, scan.metrics).Census(ctx, workers, scan.metrics)

	randoms := make([]gotrie.FreqMap, opts.Random.Count)
	total := time.Duration(0)
	done := 0
	for res := range results.Outlet {
		if res.err != nil {
			if err == nil {
				err = res.err
			}
			cancel()
			continue
		}
		randoms[res.index] = res.freqs
		total += res.elapsed
		done++
		klog.V(1).Infof("random network %d/%d done in %v", done, opts.Random.Count, res.elapsed)
	}
	if err == nil && done < opts.Random.Count {
		err = ctx.Err()
		if err == nil {
			err = context.Canceled
		}
	}
	if err != nil {
		return nil, 0, err
	}

	klog.Infof("%d random networks, avg census time %v", done, total/time.Duration(done))
	return randoms, total / time.Duration(done), nil
}
