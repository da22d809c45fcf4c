package config

// DefaultProd returns the default configuration for the prod network.
func DefaultProd() *Config {
	return &Config{
		Network: Prod,
		RPC: RPCConfig{
			Enabled:    true,
			Addr:       "127.0.0.1",
			Port:       8590,
			AllowedIPs: []string{"127.0.0.1"},
		},
		Explorer: ExplorerConfig{
			Enabled:    true,
			ProdURL:    "https://explorer.chaincolor.io",
			TestnetURL: "https://testnet-explorer.chaincolor.io",
			TimeoutSec: 10,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultProd()
	cfg.Network = Testnet
	cfg.RPC.Port = 8591
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultProd()
	}
}
