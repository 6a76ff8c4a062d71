package parity

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/0xsequence/ethkit/go-ethereum/common/hexutil"
)

// Numeric fields in parity traces follow one of two acceptance policies.
// Gas and value on call/create actions are hex-only: the raw value must be
// 0x-prefixed text. Balance and gasUsed are lenient: hex text or a native
// JSON integer are both accepted. Nothing accepts negative values.

func isJSONString(raw json.RawMessage) bool {
	return len(raw) > 0 && raw[0] == '"'
}

// hexUint64 parses a hex-only uint64 field.
func hexUint64(field string, raw json.RawMessage) (uint64, error) {
	if !isJSONString(raw) {
		return 0, fmt.Errorf("%w: %s: expected a hex string, got %s", ErrNumericFormat, field, raw)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return 0, fmt.Errorf("%w: %s: %s", ErrNumericFormat, field, err)
	}

	value, err := hexutil.DecodeUint64(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %s", ErrNumericFormat, field, err)
	}

	return value, nil
}

// hexBig parses a hex-only big integer field.
func hexBig(field string, raw json.RawMessage) (*big.Int, error) {
	if !isJSONString(raw) {
		return nil, fmt.Errorf("%w: %s: expected a hex string, got %s", ErrNumericFormat, field, raw)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrNumericFormat, field, err)
	}

	value, err := hexutil.DecodeBig(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrNumericFormat, field, err)
	}

	return value, nil
}

// flexUint64 parses a uint64 field that accepts hex text or a native
// non-negative JSON integer. Text still requires the 0x prefix: the
// upstream trace format parses any text with base 16, so "26" would mean
// 38 there; that is rejected here rather than silently diverging from the
// digits as written.
func flexUint64(field string, raw json.RawMessage) (uint64, error) {
	if isJSONString(raw) {
		return hexUint64(field, raw)
	}

	var value uint64
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, fmt.Errorf("%w: %s: %s", ErrNumericFormat, field, err)
	}

	return value, nil
}

// flexBig parses a big integer field that accepts hex text or a native
// non-negative JSON integer. Unprefixed text is rejected, same as
// flexUint64.
func flexBig(field string, raw json.RawMessage) (*big.Int, error) {
	if isJSONString(raw) {
		return hexBig(field, raw)
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrNumericFormat, field, err)
	}

	value, ok := new(big.Int).SetString(num.String(), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s: %q is not an integer", ErrNumericFormat, field, num)
	}

	if value.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s: negative value %s", ErrNumericFormat, field, num)
	}

	return value, nil
}
