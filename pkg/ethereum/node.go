// Package ethereum fetches parity-style transaction traces from an
// Ethereum execution node over JSON-RPC.
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/0xsequence/ethkit/ethrpc"
	"github.com/0xsequence/ethkit/go-ethereum/common/hexutil"
	backoff "github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/antazoey/evm-trace/pkg/parity"
)

const (
	statusError   = "error"
	statusSuccess = "success"
)

// headerTransport adds custom headers to requests and respects context cancellation
type headerTransport struct {
	headers map[string]string
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Add custom headers
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	// Check if context is already cancelled before making request
	if req.Context().Err() != nil {
		return nil, req.Context().Err()
	}

	// Make the request with context
	return t.base.RoundTrip(req)
}

// Node is a client for one execution node's parity trace API.
type Node struct {
	config *Config
	log    logrus.FieldLogger
	rpc    *ethrpc.Provider
}

func NewNode(log logrus.FieldLogger, conf *Config) (*Node, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid node configuration: %w", err)
	}

	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: conf.Headers,
			base:    http.DefaultTransport,
		},
	}

	rpc, err := ethrpc.NewProvider(conf.Endpoint, ethrpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC provider for %s: %w", conf.Endpoint, err)
	}

	return &Node{
		config: conf,
		log:    log.WithField("node", conf.Name),
		rpc:    rpc,
	}, nil
}

// TraceTransaction fetches the trace records of one transaction via the
// trace_transaction RPC, in the order the node reports them.
func (n *Node) TraceTransaction(ctx context.Context, hash string) (parity.TraceList, error) {
	var traces parity.TraceList

	call := ethrpc.NewCallBuilder[parity.TraceList]("trace_transaction", nil, hash)

	if err := n.do(ctx, "trace_transaction", func(ctx context.Context) error {
		_, err := n.rpc.Do(ctx, call.Into(&traces))

		return err
	}); err != nil {
		return nil, err
	}

	if len(traces) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, hash)
	}

	return traces, nil
}

// TraceBlock fetches the trace records of every transaction in a block via
// the trace_block RPC and splits them into per-transaction lists, in the
// block's transaction order.
func (n *Node) TraceBlock(ctx context.Context, number *big.Int) ([]parity.TraceList, error) {
	var traces parity.TraceList

	call := ethrpc.NewCallBuilder[parity.TraceList]("trace_block", nil, hexutil.EncodeBig(number))

	if err := n.do(ctx, "trace_block", func(ctx context.Context) error {
		_, err := n.rpc.Do(ctx, call.Into(&traces))

		return err
	}); err != nil {
		return nil, err
	}

	return groupByTransaction(traces), nil
}

// do runs one RPC operation with exponential-backoff retry, recording call
// metrics per attempt.
func (n *Node) do(ctx context.Context, method string, op func(context.Context) error) error {
	// Configure the exponential backoff
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		start := time.Now()
		err := op(ctx)
		duration := time.Since(start)

		status := statusSuccess
		if err != nil {
			status = statusError
		}

		RPCCallDuration.WithLabelValues(n.config.Name, method, status).Observe(duration.Seconds())
		RPCCallsTotal.WithLabelValues(n.config.Name, method, status).Inc()

		if err != nil {
			n.log.WithError(err).WithField("method", method).Warn("RPC call failed, will retry")
		}

		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}

	return nil
}

// groupByTransaction splits a block-wide trace list into per-transaction
// lists, preserving record order within each transaction and first-seen
// transaction order across the block.
func groupByTransaction(traces parity.TraceList) []parity.TraceList {
	var order []string

	byTx := map[string]parity.TraceList{}

	for _, trace := range traces {
		if _, ok := byTx[trace.TransactionHash]; !ok {
			order = append(order, trace.TransactionHash)
		}

		byTx[trace.TransactionHash] = append(byTx[trace.TransactionHash], trace)
	}

	grouped := make([]parity.TraceList, 0, len(order))
	for _, hash := range order {
		grouped = append(grouped, byTx[hash])
	}

	return grouped
}
