package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

// queueNameRe mirrors the name rule enforced by pillarbox.Open: queue
// names become key prefixes and directory names, so separators are out.
var queueNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Config is the CLI configuration loaded from file/env/flags.
type Config struct {
	// DataDir is the storage location holding the queues.
	DataDir string `json:"dataDir"`
	// Queue is the default queue name commands operate on.
	Queue string `json:"queue"`
	// Strategy is "fifo" or "lifo".
	Strategy string `json:"strategy"`
	// Backend is "pebble" or "files".
	Backend string `json:"backend"`
	// Sync is "always", "interval", or "never" (pebble backend only).
	Sync string `json:"sync"`
	// LogLevel is "debug", "info", "warn", or "error".
	LogLevel string `json:"logLevel"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		Queue:    "default",
		Strategy: "fifo",
		Backend:  "pebble",
		Sync:     "always",
		LogLevel: "info",
	}
}

// Load reads configuration from a JSON file layered over the defaults.
// An empty path returns defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values no command could act on.
func (c Config) Validate() error {
	if !queueNameRe.MatchString(c.Queue) {
		return fmt.Errorf("invalid queue name %q (want [a-zA-Z0-9_-]{1,64})", c.Queue)
	}
	switch c.Strategy {
	case "fifo", "lifo":
	default:
		return fmt.Errorf("invalid strategy %q (want fifo or lifo)", c.Strategy)
	}
	switch c.Backend {
	case "pebble", "files":
	default:
		return fmt.Errorf("invalid backend %q (want pebble or files)", c.Backend)
	}
	switch c.Sync {
	case "always", "interval", "never":
	default:
		return fmt.Errorf("invalid sync mode %q (want always, interval or never)", c.Sync)
	}
	return nil
}
