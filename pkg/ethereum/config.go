package ethereum

import "errors"

// Config holds the connection settings for one execution node.
type Config struct {
	// Name identifies the node in logs and metrics.
	Name string `yaml:"name" default:"default"`
	// Endpoint is the JSON-RPC endpoint of a node that serves the parity
	// trace API (trace_transaction / trace_block).
	Endpoint string `yaml:"endpoint" default:"http://localhost:8545"`
	// Headers are extra HTTP headers added to every RPC request.
	Headers map[string]string `yaml:"headers"`
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}

	return nil
}
