// Package parity decodes the parity/OpenEthereum trace_transaction format
// into typed trace records and reconstructs the transaction's call tree
// from their positional trace addresses.
package parity

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/antazoey/evm-trace/pkg/calltree"
)

// Action is the decoded action payload of a trace record. Exactly one
// concrete type matches each record; the variant is inferred structurally
// while unmarshalling and never re-inferred afterwards.
type Action interface {
	isAction()
}

// CallAction is the action payload of a CALL-family step.
type CallAction struct {
	// Gas is the amount of gas available for the action.
	Gas      uint64
	Input    string
	Receiver string // "to" in the wire format
	Sender   string // "from" in the wire format
	Value    *big.Int

	// rawCallType is the action's self-reported call type. It is consumed
	// during decoding to resolve the record's call type and kept only for
	// round-trip fidelity.
	rawCallType string
}

func (a *CallAction) isAction() {}

// CreateAction is the action payload of a contract creation step.
type CreateAction struct {
	// Gas is the amount of gas available for the action.
	Gas   uint64
	Init  string
	Value *big.Int
}

func (a *CreateAction) isAction() {}

// SelfDestructAction is the action payload of a SELFDESTRUCT step.
type SelfDestructAction struct {
	Address string
	Balance *big.Int
}

func (a *SelfDestructAction) isAction() {}

// Result is the decoded result payload of a successfully completed step.
type Result interface {
	isResult()
}

// CallResult is the result of a CALL-family step.
type CallResult struct {
	// GasUsed is the amount of gas the action consumed. It does not include
	// the 21,000 base fee or the per-byte calldata costs.
	GasUsed uint64
	Output  string
}

func (r *CallResult) isResult() {}

// CreateResult is the result of a contract creation step.
type CreateResult struct {
	// GasUsed is the amount of gas the action consumed. It does not include
	// the 21,000 base fee or the per-byte calldata costs.
	GasUsed uint64
	Address string
	Code    string
}

func (r *CreateResult) isResult() {}

// Trace is one decoded record of a parity transaction trace. It is
// immutable once decoded: the action and result variants are resolved and
// all numeric fields normalized during UnmarshalJSON, and the call type
// carries the canonical tag for the rest of the record's lifetime.
type Trace struct {
	Action          Action
	BlockHash       string
	CallType        calltree.CallType
	Error           *string
	Result          Result
	Subtraces       uint32
	TraceAddress    []uint32
	TransactionHash string
}

// Failed reports whether the step errored.
func (t *Trace) Failed() bool {
	return t.Error != nil
}

// Depth returns the record's nesting depth. The transaction root has
// depth 0.
func (t *Trace) Depth() int {
	return len(t.TraceAddress)
}

type rawTrace struct {
	Action          json.RawMessage `json:"action"`
	BlockHash       string          `json:"blockHash"`
	Type            string          `json:"type"`
	Error           *string         `json:"error"`
	Result          json.RawMessage `json:"result"`
	Subtraces       uint32          `json:"subtraces"`
	TraceAddress    []uint32        `json:"traceAddress"`
	TransactionHash string          `json:"transactionHash"`
}

// UnmarshalJSON decodes a single trace_transaction record. The action and
// result variants carry no explicit tag, so they are inferred from their
// field signatures in a fixed priority order (see decodeAction). When the
// action is a call, the action's self-reported callType resolves the
// record's call type instead of the outer "type" field, which some RPC
// implementations leave coarser or absent for calls.
func (t *Trace) UnmarshalJSON(data []byte) error {
	var raw rawTrace
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	action, rawCallType, err := decodeAction(raw.Action)
	if err != nil {
		return err
	}

	if rawCallType == "" {
		rawCallType = raw.Type
	}

	callType, err := calltree.ParseCallType(rawCallType)
	if err != nil {
		return err
	}

	result, err := decodeResult(raw.Result)
	if err != nil {
		return err
	}

	t.Action = action
	t.BlockHash = raw.BlockHash
	t.CallType = callType
	t.Error = raw.Error
	t.Result = result
	t.Subtraces = raw.Subtraces
	t.TraceAddress = raw.TraceAddress
	t.TransactionHash = raw.TransactionHash

	return nil
}

// decodeAction infers and decodes the action variant. Matching is by field
// signature in priority order: an "init" field marks a creation (create
// actions also carry "from", so this must win), then "from" marks a call,
// then "address"+"balance" mark a selfdestruct. The returned string is the
// call action's self-reported callType, empty for the other variants.
func decodeAction(data json.RawMessage) (Action, string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, "", fmt.Errorf("%w: action: %s", ErrSchema, err)
	}

	_, hasInit := fields["init"]
	_, hasFrom := fields["from"]
	_, hasAddress := fields["address"]
	_, hasBalance := fields["balance"]

	switch {
	case hasInit:
		action, err := decodeCreateAction(fields)

		return action, "", err
	case hasFrom:
		action, err := decodeCallAction(fields)
		if err != nil {
			return nil, "", err
		}

		return action, action.rawCallType, nil
	case hasAddress && hasBalance:
		action, err := decodeSelfDestructAction(fields)

		return action, "", err
	default:
		return nil, "", fmt.Errorf("%w: action matches no known variant", ErrSchema)
	}
}

func requireField(fields map[string]json.RawMessage, variant, name string) (json.RawMessage, error) {
	raw, ok := fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s action missing required field %q", ErrSchema, variant, name)
	}

	return raw, nil
}

func decodeCallAction(fields map[string]json.RawMessage) (*CallAction, error) {
	action := &CallAction{}

	if err := json.Unmarshal(fields["from"], &action.Sender); err != nil {
		return nil, fmt.Errorf("%w: call action: %s", ErrSchema, err)
	}

	if raw, ok := fields["to"]; ok {
		if err := json.Unmarshal(raw, &action.Receiver); err != nil {
			return nil, fmt.Errorf("%w: call action: %s", ErrSchema, err)
		}
	}

	if raw, ok := fields["input"]; ok {
		if err := json.Unmarshal(raw, &action.Input); err != nil {
			return nil, fmt.Errorf("%w: call action: %s", ErrSchema, err)
		}
	}

	rawCallType, err := requireField(fields, "call", "callType")
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rawCallType, &action.rawCallType); err != nil {
		return nil, fmt.Errorf("%w: call action: %s", ErrSchema, err)
	}

	rawGas, err := requireField(fields, "call", "gas")
	if err != nil {
		return nil, err
	}

	if action.Gas, err = hexUint64("gas", rawGas); err != nil {
		return nil, err
	}

	rawValue, err := requireField(fields, "call", "value")
	if err != nil {
		return nil, err
	}

	if action.Value, err = hexBig("value", rawValue); err != nil {
		return nil, err
	}

	return action, nil
}

func decodeCreateAction(fields map[string]json.RawMessage) (*CreateAction, error) {
	action := &CreateAction{}

	if err := json.Unmarshal(fields["init"], &action.Init); err != nil {
		return nil, fmt.Errorf("%w: create action: %s", ErrSchema, err)
	}

	rawGas, err := requireField(fields, "create", "gas")
	if err != nil {
		return nil, err
	}

	if action.Gas, err = hexUint64("gas", rawGas); err != nil {
		return nil, err
	}

	rawValue, err := requireField(fields, "create", "value")
	if err != nil {
		return nil, err
	}

	if action.Value, err = hexBig("value", rawValue); err != nil {
		return nil, err
	}

	return action, nil
}

func decodeSelfDestructAction(fields map[string]json.RawMessage) (*SelfDestructAction, error) {
	action := &SelfDestructAction{}

	if err := json.Unmarshal(fields["address"], &action.Address); err != nil {
		return nil, fmt.Errorf("%w: selfdestruct action: %s", ErrSchema, err)
	}

	var err error
	if action.Balance, err = flexBig("balance", fields["balance"]); err != nil {
		return nil, err
	}

	return action, nil
}

// decodeResult infers and decodes the result variant: an "output" field
// marks a call result, "address"+"code" mark a create result. A missing or
// null result is expected for failed steps and decodes to nil.
func decodeResult(data json.RawMessage) (Result, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: result: %s", ErrSchema, err)
	}

	rawGasUsed, ok := fields["gasUsed"]
	if !ok {
		return nil, fmt.Errorf("%w: result missing required field %q", ErrSchema, "gasUsed")
	}

	gasUsed, err := flexUint64("gasUsed", rawGasUsed)
	if err != nil {
		return nil, err
	}

	_, hasOutput := fields["output"]
	_, hasAddress := fields["address"]
	_, hasCode := fields["code"]

	switch {
	case hasOutput:
		result := &CallResult{GasUsed: gasUsed}
		if err := json.Unmarshal(fields["output"], &result.Output); err != nil {
			return nil, fmt.Errorf("%w: call result: %s", ErrSchema, err)
		}

		return result, nil
	case hasAddress && hasCode:
		result := &CreateResult{GasUsed: gasUsed}
		if err := json.Unmarshal(fields["address"], &result.Address); err != nil {
			return nil, fmt.Errorf("%w: create result: %s", ErrSchema, err)
		}

		if err := json.Unmarshal(fields["code"], &result.Code); err != nil {
			return nil, fmt.Errorf("%w: create result: %s", ErrSchema, err)
		}

		return result, nil
	default:
		return nil, fmt.Errorf("%w: result matches no known variant", ErrSchema)
	}
}

// TraceList is the ordered set of trace records for one transaction. Its
// order is exactly the order received from the RPC and is the only source
// of sibling ordering in the assembled call tree.
type TraceList []*Trace

// ChildrenOf returns the records that are direct children of the given
// trace address: their address is the parent's with exactly one index
// appended. The returned slice preserves the list's own order, not the
// numeric order of the final address element. Records with duplicate
// addresses are all returned, in input order.
func (l TraceList) ChildrenOf(parent []uint32) []*Trace {
	var children []*Trace

	for _, trace := range l {
		if isParentOf(parent, trace.TraceAddress) {
			children = append(children, trace)
		}
	}

	return children
}

// isParentOf checks if parentPath is the direct parent of childPath.
func isParentOf(parentPath, childPath []uint32) bool {
	if len(childPath) != len(parentPath)+1 {
		return false
	}

	for i := range parentPath {
		if parentPath[i] != childPath[i] {
			return false
		}
	}

	return true
}
