package config

import (
	"fmt"
	"net/url"
)

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Prod && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Prod, Testnet)
	}
	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}
	if cfg.Explorer.TimeoutSec < 0 {
		return fmt.Errorf("explorer.timeout must not be negative")
	}

	if cfg.Explorer.Enabled {
		for _, network := range Networks() {
			endpoint := cfg.Explorer.URL(network)
			if endpoint == "" {
				continue // Network without an explorer skips the cross-check.
			}
			u, err := url.Parse(endpoint)
			if err != nil || !u.IsAbs() || u.Host == "" {
				return fmt.Errorf("explorer URL for %s must be absolute, got %q", network, endpoint)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("explorer URL for %s must be http(s), got %q", network, endpoint)
			}
		}
	}

	return nil
}
