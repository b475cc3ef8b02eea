package scan

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/2x3systems/gotrie/libtrie/graph"
)

// network is one randomized copy of the original network.
type network struct {
	index int
	g     *graph.Matrix
}

type networkStream struct {
	Outlet chan *network
}

// censusResult is the census of one random network.
type censusResult struct {
	index   int
	freqs   gotrie.FreqMap
	elapsed time.Duration
	err     error
}

type resultStream struct {
	Outlet chan *censusResult
}

// censusFunc computes the census of g by canonical form.  Each worker owns one.
type censusFunc func(g gotrie.HostGraph) (gotrie.FreqMap, error)

// randomNetworks emits opts.Count randomized copies of g.  Each copy is rewired from the previous one
// (a Markov chain), so generation is sequential.  ctx is checked between networks.
func randomNetworks(ctx context.Context, g *graph.Matrix, opts gotrie.RandomOpts, rng *rand.Rand, metrics *Metrics) *networkStream {
	next := &networkStream{
		Outlet: make(chan *network, 1),
	}

	go func() {
		defer close(next.Outlet)

		chain := g.Clone()
		for i := 0; i < opts.Count; i++ {
			if ctx.Err() != nil {
				return
			}
			swaps := graph.Rewire(chain, opts.Exchanges, opts.Tries, rng)
			metrics.observeSwaps(swaps)

			select {
			case next.Outlet <- &network{index: i, g: chain.Clone()}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return next
}

// Census fans the stream out to one worker per censusFunc and merges their results.
func (stream *networkStream) Census(ctx context.Context, workers []censusFunc, metrics *Metrics) *resultStream {
	next := &resultStream{
		Outlet: make(chan *censusResult, len(workers)),
	}

	var wg sync.WaitGroup
	for _, census := range workers {
		wg.Add(1)
		go func(census censusFunc) {
			defer wg.Done()
			for net := range stream.Outlet {
				start := time.Now()
				freqs, err := census(net.g)
				res := &censusResult{
					index:   net.index,
					freqs:   freqs,
					elapsed: time.Since(start),
					err:     err,
				}
				if err == nil {
					metrics.observeCensus(networkRandom, res.elapsed, freqs.Total())
				}
				select {
				case next.Outlet <- res:
				case <-ctx.Done():
				}
			}
		}(census)
	}

	go func() {
		wg.Wait()
		close(next.Outlet)
	}()

	return next
}
