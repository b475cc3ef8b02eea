package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/2x3systems/gotrie/libtrie/canon"
	"github.com/2x3systems/gotrie/libtrie/graph"
	"github.com/2x3systems/gotrie/libtrie/gtrie"
	"github.com/2x3systems/gotrie/libtrie/patexpr"
	"github.com/2x3systems/gotrie/libtrie/scan"
	"github.com/2x3systems/gotrie/libtrie/symmetry"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// scanFlags binds command line flags onto a ScanOpts; only flags actually given override a config file.
type scanFlags struct {
	configPath string
	opts       gotrie.ScanOpts
}

func (sf *scanFlags) bind(flags *pflag.FlagSet, forCreate bool) {
	sf.opts = gotrie.DefaultScanOpts()
	opts := &sf.opts

	flags.IntVarP(&opts.Size, "size", "s", 0, "subgraph size")
	flags.BoolVarP(&opts.Directed, "directed", "d", false, "patterns and network are directed")
	flags.StringVarP(&opts.PatternsFile, "patterns", "p", "", "file of adjacency strings, one pattern each")
	flags.StringVar(&opts.CatalogPath, "catalog", "", "catalog directory to store results in")
	if forCreate {
		opts.OutputFile = ""
		flags.StringVarP(&opts.IndexFile, "output", "o", "", "index file to write")
		return
	}

	flags.StringVarP(&sf.configPath, "config", "c", "", "YAML scan config; flags given override it")
	flags.StringVarP(&opts.GraphFile, "graph", "g", "", "network edge list")
	flags.StringVarP(&opts.Format, "format", "f", opts.Format, "edge list format: simple or simple_weight")
	flags.StringVar(&opts.Backing, "backing", opts.Backing, "host graph backing: matrix or sparse")
	flags.StringVarP(&opts.Method, "method", "m", opts.Method, "census method: esu, gtrie or subgraphs")
	flags.StringVarP(&opts.IndexFile, "index", "i", "", "g-trie index file (method gtrie)")
	flags.StringVarP(&opts.OutputFile, "output", "o", opts.OutputFile, "results file")
	flags.StringVar(&opts.OccurrencesFile, "occ", "", "if set, write every occurrence in the original network here")
	flags.Float64SliceVar(&opts.SampleProbs, "sample", nil, "per-depth acceptance probabilities (one per vertex)")
	flags.IntVarP(&opts.Random.Count, "random", "r", 0, "number of random networks")
	flags.Int64Var(&opts.Random.Seed, "seed", opts.Random.Seed, "random seed (negative uses the clock)")
	flags.IntVar(&opts.Random.Exchanges, "exchanges", opts.Random.Exchanges, "edge exchanges per edge")
	flags.IntVar(&opts.Random.Tries, "tries", opts.Random.Tries, "tries per edge exchange")
	flags.IntVarP(&opts.Workers, "workers", "w", opts.Workers, "random network census workers (0 uses all CPUs)")
}

// resolve loads the config file (if any) and reapplies every flag the user set.
func (sf *scanFlags) resolve(flags *pflag.FlagSet) (gotrie.ScanOpts, error) {
	if sf.configPath == "" {
		return sf.opts, nil
	}
	opts, err := scan.LoadOpts(sf.configPath)
	if err != nil {
		return opts, err
	}

	given := sf.opts
	overrides := map[string]func(){
		"size":      func() { opts.Size = given.Size },
		"directed":  func() { opts.Directed = given.Directed },
		"patterns":  func() { opts.PatternsFile = given.PatternsFile },
		"catalog":   func() { opts.CatalogPath = given.CatalogPath },
		"graph":     func() { opts.GraphFile = given.GraphFile },
		"format":    func() { opts.Format = given.Format },
		"backing":   func() { opts.Backing = given.Backing },
		"method":    func() { opts.Method = given.Method },
		"index":     func() { opts.IndexFile = given.IndexFile },
		"output":    func() { opts.OutputFile = given.OutputFile },
		"occ":       func() { opts.OccurrencesFile = given.OccurrencesFile },
		"sample":    func() { opts.SampleProbs = given.SampleProbs },
		"random":    func() { opts.Random.Count = given.Random.Count },
		"seed":      func() { opts.Random.Seed = given.Random.Seed },
		"exchanges": func() { opts.Random.Exchanges = given.Random.Exchanges },
		"tries":     func() { opts.Random.Tries = given.Random.Tries },
		"workers":   func() { opts.Workers = given.Workers },
	}
	flags.Visit(func(f *pflag.Flag) {
		if apply := overrides[f.Name]; apply != nil {
			apply()
		}
	})
	return opts, nil
}

func createCmd() *cobra.Command {
	var sf scanFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Build a g-trie index from a patterns file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := scan.CreateIndex(sf.opts)
			return err
		},
	}
	sf.bind(cmd.Flags(), true)
	return cmd
}

func censusCmd() *cobra.Command {
	var sf scanFlags
	cmd := &cobra.Command{
		Use:   "census",
		Short: "Count subgraphs in a network and score them against random networks",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := sf.resolve(cmd.Flags())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := scan.Run(ctx, opts)
			if err != nil {
				return err
			}
			fmt.Printf("%d subgraph classes, %d occurrences\n", report.NumClasses, report.NumOccurrences)
			if opts.OutputFile != "" {
				fmt.Printf("Results written to file \"%s\"\n", opts.OutputFile)
			}
			return nil
		},
	}
	sf.bind(cmd.Flags(), false)
	return cmd
}

func canonCmd() *cobra.Command {
	var (
		size     int
		directed bool
		expr     bool
	)
	cmd := &cobra.Command{
		Use:   "canon [pattern ...]",
		Short: "Print the canonical form and symmetry conditions of each pattern",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := gotrie.Undirected
			if directed {
				kind = gotrie.Directed
			}
			for _, arg := range args {
				adj, k := arg, size
				if expr {
					var err error
					if adj, k, err = patexpr.ParseAdjacency(arg, kind); err != nil {
						return err
					}
				}
				form, err := canon.Canonicalize(adj, k)
				if err != nil {
					return err
				}
				g, err := graph.FromAdjacency(form, k, kind)
				if err != nil {
					return err
				}
				fmt.Printf("%s  %s  %v\n", arg, form, symmetry.DeriveConditions(g))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&size, "size", "s", 0, "pattern size (adjacency string input)")
	cmd.Flags().BoolVarP(&directed, "directed", "d", false, "patterns are directed")
	cmd.Flags().BoolVarP(&expr, "expr", "e", false, "arguments are pattern expressions such as 1-2-3,1>3")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <index-file>",
		Short: "Dump a g-trie index as indented text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trie, err := gtrie.ReadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%d nodes, %d patterns, max depth %d, compression rate %.2f%%\n",
				trie.CountNodes(), trie.CountGraphs(), trie.MaxDepth(), trie.CompressionRate()*100)
			return trie.WriteText(os.Stdout)
		},
	}
}

func scriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script <file.py>",
		Short: "Run a gpython script with the _gotrie module available",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(args[0])
		},
	}
}
