// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Protocol rules: the metadata schema limits and derivation
//     constants, fixed in code (internal/metadata, internal/colorid)
//     because every verifier must agree on them
//   - Node settings: runtime configuration, can vary per deployment
package config

import "fmt"

// NetworkType identifies a chain network context.
type NetworkType string

const (
	Prod    NetworkType = "prod"
	Testnet NetworkType = "testnet"
)

// Config holds runtime configuration for the verification daemon.
// It is immutable after Load: the daemon builds one verifier per
// configured network from it and no component mutates it afterwards.
type Config struct {
	// Network is the default network for requests that omit one.
	Network NetworkType `conf:"network"`

	// RPC server
	RPC RPCConfig

	// Explorer endpoints for the chain cross-check
	Explorer ExplorerConfig

	// Logging
	Log LogConfig
}

// RPCConfig holds RPC server settings.
type RPCConfig struct {
	Enabled     bool     `conf:"rpc.enabled"`
	Addr        string   `conf:"rpc.addr"`
	Port        int      `conf:"rpc.port"`
	AllowedIPs  []string `conf:"rpc.allowed"`
	CORSOrigins []string `conf:"rpc.cors"` // Allowed CORS origins ("*" = all).
}

// ExplorerConfig holds the per-network block explorer endpoints used
// for the on-chain script cross-check.
type ExplorerConfig struct {
	Enabled    bool   `conf:"explorer.enabled"`
	ProdURL    string `conf:"explorer.prod_url"`
	TestnetURL string `conf:"explorer.testnet_url"`
	TimeoutSec int    `conf:"explorer.timeout"`
}

// URL returns the explorer endpoint for a network, or "" if none is
// configured.
func (e ExplorerConfig) URL(network NetworkType) string {
	switch network {
	case Prod:
		return e.ProdURL
	case Testnet:
		return e.TestnetURL
	default:
		return ""
	}
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	JSON  bool   `conf:"log.json"`
	File  string `conf:"log.file"`
}

// Networks lists every network context this daemon serves.
func Networks() []NetworkType {
	return []NetworkType{Prod, Testnet}
}

// ParseNetwork validates a network name.
func ParseNetwork(s string) (NetworkType, error) {
	switch NetworkType(s) {
	case Prod:
		return Prod, nil
	case Testnet:
		return Testnet, nil
	default:
		return "", fmt.Errorf("network must be %q or %q, got %q", Prod, Testnet, s)
	}
}
