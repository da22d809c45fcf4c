// Color ID verification daemon.
//
// Usage:
//
//	colorverd [--network=testnet --rpc-port=8591]  Run the daemon
//	colorverd --help                               Show help
package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/chaincolor/colorverd/config"
	"github.com/chaincolor/colorverd/internal/log"
	"github.com/chaincolor/colorverd/internal/rpc"
)

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !cfg.RPC.Enabled {
		fmt.Fprintln(os.Stderr, "Error: rpc is disabled, nothing to serve")
		os.Exit(1)
	}

	addr := net.JoinHostPort(cfg.RPC.Addr, strconv.Itoa(cfg.RPC.Port))
	server := rpc.New(addr, cfg)
	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.Info().
		Str("version", config.Version).
		Str("network", string(cfg.Network)).
		Str("addr", server.Addr()).
		Bool("chain_check", cfg.Explorer.Enabled).
		Msg("colorverd started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("colorverd stopped")
}
