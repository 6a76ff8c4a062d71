package calltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallType(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		expected CallType
		wantErr  bool
	}{
		{name: "lowercase call", tag: "call", expected: Call},
		{name: "uppercase call", tag: "CALL", expected: Call},
		{name: "delegatecall", tag: "delegatecall", expected: DelegateCall},
		{name: "staticcall", tag: "staticcall", expected: StaticCall},
		{name: "callcode", tag: "callcode", expected: CallCode},
		{name: "create", tag: "create", expected: Create},
		{name: "create2", tag: "create2", expected: Create2},
		{name: "selfdestruct", tag: "selfdestruct", expected: SelfDestruct},
		{name: "suicide alias lowercase", tag: "suicide", expected: SelfDestruct},
		{name: "suicide alias mixed case", tag: "Suicide", expected: SelfDestruct},
		{name: "suicide alias uppercase", tag: "SUICIDE", expected: SelfDestruct},
		{name: "reward rejected", tag: "reward", wantErr: true},
		{name: "empty rejected", tag: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			callType, err := ParseCallType(tt.tag)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownCallType)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, callType)
		})
	}
}

func TestCallType_IsCallFamily(t *testing.T) {
	assert.True(t, Call.IsCallFamily())
	assert.True(t, CallCode.IsCallFamily())
	assert.True(t, DelegateCall.IsCallFamily())
	assert.True(t, StaticCall.IsCallFamily())
	assert.False(t, Create.IsCallFamily())
	assert.False(t, Create2.IsCallFamily())
	assert.False(t, SelfDestruct.IsCallFamily())
	assert.False(t, Internal.IsCallFamily())
}
