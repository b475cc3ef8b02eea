package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	root := rootCmd()
	root.PersistentFlags().AddGoFlagSet(fset)

	err := root.Execute()
	klog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gotrie",
		Short: "Network motif discovery with g-tries",
		Long: `gotrie counts the connected induced subgraphs of a network, either exhaustively (esu)
or by matching against a g-trie pattern index (gtrie, subgraphs), and scores each subgraph class
against an ensemble of degree-preserving random networks.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		createCmd(),
		censusCmd(),
		canonCmd(),
		showCmd(),
		scriptCmd(),
	)
	return cmd
}
