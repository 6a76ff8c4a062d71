package calltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallTreeNode_MethodID(t *testing.T) {
	tests := []struct {
		name     string
		calldata string
		expected string
	}{
		{name: "full calldata", calldata: "0x96d373e50000000000000000000000000000000000000000", expected: "0x96d373e5"},
		{name: "selector only", calldata: "0x96d373e5", expected: "0x96d373e5"},
		{name: "shorter than selector", calldata: "0x96d3", expected: "0x96d3"},
		{name: "empty", calldata: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &CallTreeNode{Calldata: tt.calldata}
			assert.Equal(t, tt.expected, node.MethodID())
		})
	}
}

func TestCallTreeNode_String(t *testing.T) {
	gasCost := uint64(1234)
	node := &CallTreeNode{
		CallType: Call,
		Address:  "0xc17f2c69ae2e66fd87367e3260412eeff637f70e",
		Calldata: "0x96d373e500000000",
		GasCost:  &gasCost,
	}

	assert.Equal(t, "CALL: 0xc17f2c69ae2e66fd87367e3260412eeff637f70e.<0x96d373e5> [1234 gas]", node.String())

	node.Failed = true
	assert.Equal(t, "CALL: 0xc17f2c69ae2e66fd87367e3260412eeff637f70e.<0x96d373e5> [1234 gas] !", node.String())
}

func TestCallTreeNode_Render(t *testing.T) {
	root := &CallTreeNode{
		CallType: Call,
		Address:  "0xB",
		Calls: []*CallTreeNode{
			{
				CallType: StaticCall,
				Address:  "0xC",
				Calls: []*CallTreeNode{
					{CallType: Call, Address: "0xE"},
				},
			},
			{CallType: SelfDestruct, Address: "0xD"},
		},
	}

	expected := "CALL: 0xB\n" +
		"├── STATICCALL: 0xC\n" +
		"│   └── CALL: 0xE\n" +
		"└── SELFDESTRUCT: 0xD\n"

	assert.Equal(t, expected, root.Render())
}
