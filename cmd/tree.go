package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/antazoey/evm-trace/pkg/calltree"
	"github.com/antazoey/evm-trace/pkg/ethereum"
	"github.com/antazoey/evm-trace/pkg/parity"
)

var treeCmd = &cobra.Command{
	Use:   "tree <transaction-hash> [transaction-hash...]",
	Short: "Prints the call tree of one or more transactions.",
	Long:  `Fetches the parity trace of each transaction and prints its reconstructed call tree.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		node, err := newNode()
		if err != nil {
			return err
		}

		trees, err := fetchCallTrees(cmd, node, args)
		if err != nil {
			return err
		}

		for i, tree := range trees {
			if i > 0 {
				fmt.Println()
			}

			fmt.Print(tree.Render())
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

// fetchCallTrees fetches and assembles the call tree of every transaction
// concurrently. The returned slice follows the argument order regardless of
// fetch completion order.
func fetchCallTrees(cmd *cobra.Command, node *ethereum.Node, hashes []string) ([]*calltree.CallTreeNode, error) {
	trees := make([]*calltree.CallTreeNode, len(hashes))

	g, ctx := errgroup.WithContext(cmd.Context())

	for i, hash := range hashes {
		i, hash := i, hash
		g.Go(func() error {
			traces, err := node.TraceTransaction(ctx, hash)
			if err != nil {
				return fmt.Errorf("failed to trace %s: %w", hash, err)
			}

			tree, err := parity.CallTree(traces)
			if err != nil {
				return fmt.Errorf("failed to assemble call tree for %s: %w", hash, err)
			}

			trees[i] = tree

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return trees, nil
}
