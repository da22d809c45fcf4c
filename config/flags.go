package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// Version is the daemon version string.
const Version = "0.3.1"

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	Network string
	Config  string

	// RPC
	RPC        bool
	RPCAddr    string
	RPCPort    int
	RPCAllowed string
	RPCCORS    string

	// Explorer
	Explorer        bool
	ExplorerProd    string
	ExplorerTestnet string
	ExplorerTimeout int

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Explicitly-set bool flags (for true/false overrides).
	SetRPC      bool
	SetExplorer bool
	SetLogJSON  bool
}

// ParseFlags parses command-line flags.
func ParseFlags() *Flags {
	f := &Flags{}
	fs := flag.NewFlagSet("colorverd", flag.ContinueOnError)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	// Core
	fs.StringVar(&f.Network, "network", "", "Network (prod or testnet)")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// RPC
	fs.BoolVar(&f.RPC, "rpc", true, "Enable the JSON-RPC server")
	fs.StringVar(&f.RPCAddr, "rpc-addr", "", "RPC bind address")
	fs.IntVar(&f.RPCPort, "rpc-port", 0, "RPC listen port")
	fs.StringVar(&f.RPCAllowed, "rpc-allowed", "", "Allowed client IPs/CIDRs, comma-separated")
	fs.StringVar(&f.RPCCORS, "rpc-cors", "", "Allowed CORS origins, comma-separated")

	// Explorer
	fs.BoolVar(&f.Explorer, "explorer", true, "Enable the on-chain script cross-check")
	fs.StringVar(&f.ExplorerProd, "explorer-prod", "", "Prod explorer base URL")
	fs.StringVar(&f.ExplorerTestnet, "explorer-testnet", "", "Testnet explorer base URL")
	fs.IntVar(&f.ExplorerTimeout, "explorer-timeout", 0, "Explorer request timeout in seconds")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path (also logs to console)")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Log JSON to console")

	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if f.Help {
		fs.Usage()
		os.Exit(0)
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "rpc":
			f.SetRPC = true
		case "explorer":
			f.SetExplorer = true
		case "log-json":
			f.SetLogJSON = true
		}
	})

	return f
}

// ApplyFlags applies parsed flags over a Config (flags win over file).
func ApplyFlags(cfg *Config, f *Flags) error {
	if f.Network != "" {
		net, err := ParseNetwork(f.Network)
		if err != nil {
			return err
		}
		cfg.Network = net
	}
	if f.SetRPC {
		cfg.RPC.Enabled = f.RPC
	}
	if f.RPCAddr != "" {
		cfg.RPC.Addr = f.RPCAddr
	}
	if f.RPCPort != 0 {
		cfg.RPC.Port = f.RPCPort
	}
	if f.RPCAllowed != "" {
		cfg.RPC.AllowedIPs = splitList(f.RPCAllowed)
	}
	if f.RPCCORS != "" {
		cfg.RPC.CORSOrigins = splitList(f.RPCCORS)
	}
	if f.SetExplorer {
		cfg.Explorer.Enabled = f.Explorer
	}
	if f.ExplorerProd != "" {
		cfg.Explorer.ProdURL = f.ExplorerProd
	}
	if f.ExplorerTestnet != "" {
		cfg.Explorer.TestnetURL = f.ExplorerTestnet
	}
	if f.ExplorerTimeout != 0 {
		cfg.Explorer.TimeoutSec = f.ExplorerTimeout
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
	return nil
}

// Load builds the effective configuration: defaults, then the config
// file, then flags. Returns the config and the parsed flags.
func Load() (*Config, *Flags, error) {
	f := ParseFlags()

	if f.Version {
		fmt.Printf("colorverd %s\n", Version)
		os.Exit(0)
	}

	network := NetworkType(f.Network)
	if f.Network == "" {
		network = Prod
	}
	cfg := Default(network)

	path := f.Config
	if path == "" {
		path = "colorverd.conf"
	}
	values, err := LoadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, values); err != nil {
		return nil, nil, err
	}

	if err := ApplyFlags(cfg, f); err != nil {
		return nil, nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, nil, err
	}

	return cfg, f, nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "colorverd %s - Color ID verification daemon\n\n", Version)
	fmt.Fprintf(os.Stderr, "Usage: colorverd [options]\n\nOptions:\n")
	fs.VisitAll(func(fl *flag.Flag) {
		def := ""
		if fl.DefValue != "" && fl.DefValue != "false" {
			def = " (default " + strconv.Quote(fl.DefValue) + ")"
		}
		fmt.Fprintf(os.Stderr, "  --%-18s %s%s\n", fl.Name, fl.Usage, def)
	})
}
