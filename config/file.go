package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		net, err := ParseNetwork(value)
		if err != nil {
			return err
		}
		cfg.Network = net

	// RPC
	case "rpc.enabled", "rpc":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		cfg.RPC.Enabled = b
	case "rpc.addr":
		cfg.RPC.Addr = value
	case "rpc.port":
		p, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port: %w", err)
		}
		cfg.RPC.Port = p
	case "rpc.allowed":
		cfg.RPC.AllowedIPs = splitList(value)
	case "rpc.cors":
		cfg.RPC.CORSOrigins = splitList(value)

	// Explorer
	case "explorer.enabled", "explorer":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		cfg.Explorer.Enabled = b
	case "explorer.prod_url":
		cfg.Explorer.ProdURL = value
	case "explorer.testnet_url":
		cfg.Explorer.TestnetURL = value
	case "explorer.timeout":
		t, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		cfg.Explorer.TimeoutSec = t

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.json":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		cfg.Log.JSON = b
	case "log.file":
		cfg.Log.File = value

	default:
		return fmt.Errorf("unknown key")
	}
	return nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", value)
	}
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
