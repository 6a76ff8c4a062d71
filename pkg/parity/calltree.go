package parity

import (
	"math/big"

	"github.com/antazoey/evm-trace/pkg/calltree"
)

// Overrides are caller-supplied field values applied to the assembled root
// node after all derived values. A non-nil field always wins; a nil field
// leaves the derived value untouched. Useful for injecting synthetic
// accounting, such as gas charged for a reverted call whose result the
// trace format cannot represent.
type Overrides struct {
	CallType   *calltree.CallType
	Failed     *bool
	Address    *string
	Value      *big.Int
	GasLimit   *uint64
	GasCost    *uint64
	Calldata   *string
	Returndata *string
	Calls      []*calltree.CallTreeNode
}

func (o *Overrides) apply(node *calltree.CallTreeNode) {
	if o.CallType != nil {
		node.CallType = *o.CallType
	}

	if o.Failed != nil {
		node.Failed = *o.Failed
	}

	if o.Address != nil {
		node.Address = *o.Address
	}

	if o.Value != nil {
		node.Value = o.Value
	}

	if o.GasLimit != nil {
		node.GasLimit = o.GasLimit
	}

	if o.GasCost != nil {
		node.GasCost = o.GasCost
	}

	if o.Calldata != nil {
		node.Calldata = *o.Calldata
	}

	if o.Returndata != nil {
		node.Returndata = *o.Returndata
	}

	if o.Calls != nil {
		node.Calls = o.Calls
	}
}

// Option configures a call to CallTree.
type Option func(*options)

type options struct {
	root      *Trace
	overrides *Overrides
}

// WithRoot assembles the tree from the given record instead of the first
// record in the list.
func WithRoot(root *Trace) Option {
	return func(o *options) {
		o.root = root
	}
}

// WithOverrides applies the given overrides to the assembled root node.
func WithOverrides(overrides Overrides) Option {
	return func(o *options) {
		o.overrides = &overrides
	}
}

// CallTree reconstructs the hierarchical call tree of one transaction from
// its flat trace list. The root defaults to the first record; children are
// derived by positional-prefix matching on trace addresses and appear in
// the list's own order. Assembly projects already-decoded fields and does
// not re-validate the list: a record whose address breaks the one-index-
// per-level invariant simply matches no parent.
func CallTree(traces TraceList, opts ...Option) (*calltree.CallTreeNode, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	root := o.root
	if root == nil {
		if len(traces) == 0 {
			return nil, ErrEmptyTraceList
		}

		root = traces[0]
	}

	node := assemble(traces, root)

	if o.overrides != nil {
		o.overrides.apply(node)
	}

	return node, nil
}

// assemble builds the subtree rooted at the given record, children first.
// Field projection is keyed by the record's resolved call type; a missing
// result (typical for failed steps) leaves the result-derived fields unset.
func assemble(traces TraceList, root *Trace) *calltree.CallTreeNode {
	node := &calltree.CallTreeNode{
		CallType: root.CallType,
		Failed:   root.Failed(),
	}

	switch {
	case root.CallType == calltree.Create:
		if action, ok := root.Action.(*CreateAction); ok {
			gasLimit := action.Gas
			node.Value = action.Value
			node.GasLimit = &gasLimit
			node.Calldata = action.Init
		}

		if result, ok := root.Result.(*CreateResult); ok {
			gasCost := result.GasUsed
			node.GasCost = &gasCost
			node.Address = result.Address
		}
	case root.CallType.IsCallFamily():
		if action, ok := root.Action.(*CallAction); ok {
			gasLimit := action.Gas
			node.Address = action.Receiver
			node.Value = action.Value
			node.GasLimit = &gasLimit
			node.Calldata = action.Input
		}

		// no result if the call has an error
		if result, ok := root.Result.(*CallResult); ok {
			gasCost := result.GasUsed
			node.GasCost = &gasCost
			node.Returndata = result.Output
		}
	case root.CallType == calltree.SelfDestruct:
		if action, ok := root.Action.(*SelfDestructAction); ok {
			node.Address = action.Address
		}
	}

	for _, sub := range traces.ChildrenOf(root.TraceAddress) {
		node.Calls = append(node.Calls, assemble(traces, sub))
	}

	return node
}
