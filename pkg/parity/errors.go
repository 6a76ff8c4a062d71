package parity

import "errors"

// Sentinel errors for trace decoding and call tree assembly. Decode errors
// are raised eagerly while unmarshalling a trace; a TraceList that decoded
// without error only contains well-typed records, so assembly performs no
// re-validation.
var (
	// ErrSchema indicates a trace payload that matches no known action or
	// result variant, or is missing a field the matched variant requires.
	ErrSchema = errors.New("trace payload does not match any known schema")

	// ErrNumericFormat indicates a numeric field whose raw value does not
	// satisfy the field's hex/decimal acceptance policy.
	ErrNumericFormat = errors.New("invalid numeric format")

	// ErrEmptyTraceList indicates call tree assembly was requested without
	// an explicit root on an empty trace list.
	ErrEmptyTraceList = errors.New("cannot assemble a call tree from an empty trace list")
)
