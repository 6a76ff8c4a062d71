package calltree

import (
	"fmt"
	"math/big"
	"strings"
)

// CallTreeNode is one node of an assembled call tree. Fields other than
// CallType and Failed are populated depending on the call type; pointer
// fields are nil (and string fields empty) when the source trace did not
// provide a value, which is expected for failed or reverted steps.
//
// Each node exclusively owns its children: the tree is strictly rooted,
// with no shared or back references.
type CallTreeNode struct {
	CallType   CallType
	Failed     bool
	Address    string
	Value      *big.Int
	GasLimit   *uint64
	GasCost    *uint64
	Calldata   string
	Returndata string
	Calls      []*CallTreeNode
}

// MethodID returns the 4-byte method selector from the node's calldata,
// hex-encoded with the 0x prefix, or the whole calldata when shorter.
func (n *CallTreeNode) MethodID() string {
	const selectorLen = len("0x") + 8

	if len(n.Calldata) > selectorLen {
		return n.Calldata[:selectorLen]
	}

	return n.Calldata
}

// String returns a one-line summary of the node.
func (n *CallTreeNode) String() string {
	var sb strings.Builder

	sb.WriteString(string(n.CallType))

	if n.Address != "" {
		sb.WriteString(": ")
		sb.WriteString(n.Address)
	}

	if method := n.MethodID(); method != "" && method != "0x" {
		sb.WriteString(fmt.Sprintf(".<%s>", method))
	}

	if n.GasCost != nil {
		sb.WriteString(fmt.Sprintf(" [%d gas]", *n.GasCost))
	}

	if n.Failed {
		sb.WriteString(" !")
	}

	return sb.String()
}

const (
	middlePrefix = "├──"
	lastPrefix   = "└──"
	parentPrefix = "│   "
	emptyPrefix  = "    "
)

// Render returns a multi-line representation of the node and all of its
// descendants using box-drawing connectors.
func (n *CallTreeNode) Render() string {
	var sb strings.Builder

	n.render(&sb, "", "")

	return sb.String()
}

func (n *CallTreeNode) render(sb *strings.Builder, connector, childPrefix string) {
	if connector != "" {
		sb.WriteString(connector)
		sb.WriteString(" ")
	}

	sb.WriteString(n.String())
	sb.WriteString("\n")

	for i, call := range n.Calls {
		if i == len(n.Calls)-1 {
			call.render(sb, childPrefix+lastPrefix, childPrefix+emptyPrefix)
		} else {
			call.render(sb, childPrefix+middlePrefix, childPrefix+parentPrefix)
		}
	}
}
