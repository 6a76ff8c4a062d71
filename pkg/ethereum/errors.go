package ethereum

import "errors"

// Sentinel errors for trace RPC operations.
var (
	// ErrTransactionNotFound indicates the node returned no trace records
	// for the requested transaction.
	ErrTransactionNotFound = errors.New("transaction not found")
)
