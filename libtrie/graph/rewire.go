package graph

import (
	"math/rand"

	"github.com/2x3systems/gotrie/gotrie"
)

// Rewire randomizes g in place while preserving every vertex's in and out degree.
//
// Each pass visits every arc a -> b and makes up to tries attempts to find another arc c -> d such
// that swapping heads (a -> d, c -> b) creates no self loop or repeated arc.  Undirected graphs swap
// both directions together.  Returns the number of swaps made.
func Rewire(g *Matrix, exchanges, tries int, rng *rand.Rand) int {
	n := g.NumNodes()
	if n < 4 {
		return 0
	}
	undirected := g.Kind() == gotrie.Undirected
	swaps := 0
	var heads []int

	for pass := 0; pass < exchanges; pass++ {
		for a := 0; a < n; a++ {
			heads = append(heads[:0], g.out[a]...)
			for _, b := range heads {
				if !g.adj[a][b] {
					continue
				}
				for t := 0; t < tries; t++ {
					c := rng.Intn(n)
					if c == a || c == b || g.adj[c][b] || len(g.out[c]) == 0 {
						continue
					}
					d := g.out[c][rng.Intn(len(g.out[c]))]
					if d == a || d == b || g.adj[a][d] {
						continue
					}

					g.RemoveEdge(a, b)
					g.RemoveEdge(c, d)
					g.AddEdge(a, d)
					g.AddEdge(c, b)
					if undirected {
						g.RemoveEdge(b, a)
						g.RemoveEdge(d, c)
						g.AddEdge(d, a)
						g.AddEdge(b, c)
					}
					swaps++
					break
				}
			}
		}
	}
	return swaps
}
