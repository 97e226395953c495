package config

import "os"

// FromEnv overlays PILLARBOX_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("PILLARBOX_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PILLARBOX_QUEUE"); v != "" {
		cfg.Queue = v
	}
	if v := os.Getenv("PILLARBOX_STRATEGY"); v != "" {
		cfg.Strategy = v
	}
	if v := os.Getenv("PILLARBOX_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("PILLARBOX_SYNC"); v != "" {
		cfg.Sync = v
	}
	if v := os.Getenv("PILLARBOX_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
