package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/antazoey/evm-trace/pkg/gas"
)

var gasCmd = &cobra.Command{
	Use:   "gas <transaction-hash> [transaction-hash...]",
	Short: "Prints a gas report for one or more transactions.",
	Long:  `Fetches the parity trace of each transaction and prints a merged per-contract, per-method gas report.`,
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

		reports := make([]gas.Report, 0, len(trees))
		for _, tree := range trees {
			reports = append(reports, gas.ReportFromCallTree(tree))
		}

		printReport(gas.Merge(reports...))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(gasCmd)
}

func printReport(report gas.Report) {
	addresses := make([]string, 0, len(report))
	for address := range report {
		addresses = append(addresses, address)
	}

	sort.Strings(addresses)

	for _, address := range addresses {
		byMethod := report[address]

		if address == "" {
			address = "(unknown)"
		}

		fmt.Println(address)

		methods := make([]string, 0, len(byMethod))
		for method := range byMethod {
			methods = append(methods, method)
		}

		sort.Strings(methods)

		for _, method := range methods {
			costs := byMethod[method]

			var total uint64
			for _, cost := range costs {
				total += cost
			}

			if method == "" {
				method = "(fallback)"
			}

			fmt.Printf("  %-12s calls=%d gas=%d\n", method, len(costs), total)
		}
	}
}
