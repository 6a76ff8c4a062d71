package calltree

import (
	"errors"
	"fmt"
	"strings"
)

// CallType identifies the kind of EVM operation a call tree node represents.
type CallType string

const (
	Internal     CallType = "INTERNAL"
	Create       CallType = "CREATE"
	Create2      CallType = "CREATE2"
	Call         CallType = "CALL"
	CallCode     CallType = "CALLCODE"
	DelegateCall CallType = "DELEGATECALL"
	StaticCall   CallType = "STATICCALL"
	SelfDestruct CallType = "SELFDESTRUCT"
)

// ErrUnknownCallType indicates a call type tag outside the known set.
var ErrUnknownCallType = errors.New("unknown call type")

var callTypes = map[CallType]struct{}{
	Internal:     {},
	Create:       {},
	Create2:      {},
	Call:         {},
	CallCode:     {},
	DelegateCall: {},
	StaticCall:   {},
	SelfDestruct: {},
}

// ParseCallType normalizes a raw call type tag to its canonical uppercase
// form. "SUICIDE" is the legacy parity name for SELFDESTRUCT and is resolved
// to it. Tags outside the known set return ErrUnknownCallType.
func ParseCallType(tag string) (CallType, error) {
	normalized := CallType(strings.ToUpper(tag))
	if normalized == "SUICIDE" {
		normalized = SelfDestruct
	}

	if _, ok := callTypes[normalized]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCallType, tag)
	}

	return normalized, nil
}

// IsCallFamily reports whether the call type is one of the message-call
// variants (CALL/CALLCODE/DELEGATECALL/STATICCALL).
func (c CallType) IsCallFamily() bool {
	switch c {
	case Call, CallCode, DelegateCall, StaticCall:
		return true
	default:
		return false
	}
}
