// Package gas extracts gas usage reports from assembled call trees.
package gas

import (
	"github.com/antazoey/evm-trace/pkg/calltree"
)

// Report maps contract address to method selector to the ordered gas costs
// of every call observed for that pair. A node without a gas cost (failed
// or resultless steps) still registers its address/selector with an empty
// cost list.
type Report map[string]map[string][]uint64

// ReportFromCallTree builds a report covering the node and all of its
// descendants.
func ReportFromCallTree(node *calltree.CallTreeNode) Report {
	var costs []uint64
	if node.GasCost != nil {
		costs = []uint64{*node.GasCost}
	}

	report := Report{
		node.Address: {node.MethodID(): costs},
	}

	reports := make([]Report, 0, len(node.Calls)+1)
	reports = append(reports, report)

	for _, call := range node.Calls {
		reports = append(reports, ReportFromCallTree(call))
	}

	return Merge(reports...)
}

// Merge combines reports into one, concatenating the gas cost lists of
// shared address/selector pairs in argument order. The inputs are not
// modified.
func Merge(reports ...Report) Report {
	merged := Report{}

	for _, report := range reports {
		for address, methods := range report {
			if _, ok := merged[address]; !ok {
				merged[address] = map[string][]uint64{}
			}

			for method, costs := range methods {
				merged[address][method] = append(merged[address][method], costs...)
			}
		}
	}

	return merged
}
