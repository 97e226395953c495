// Package client contains the Cobra commands for the pillarbox CLI.
package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aplr/pillarbox"
	"github.com/aplr/pillarbox/internal/config"
	"github.com/aplr/pillarbox/pkg/log"
)

// NewRoot constructs the root command with all queue operations.
func NewRoot() *cobra.Command {
	var (
		cfgPath string
		cfg     config.Config
	)

	root := &cobra.Command{
		Use:   "pillarbox",
		Short: "Inspect and manipulate pillarbox queues",
		Long: `Pillarbox is a disk-persisted object queue. This CLI operates on a
storage location directly; do not run it against a location that a
live process has open.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			config.FromEnv(&loaded)
			// Flags set explicitly win over file and environment.
			flags := cmd.Flags()
			if !flags.Changed("data-dir") {
				_ = flags.Set("data-dir", loaded.DataDir)
			}
			if !flags.Changed("queue") {
				_ = flags.Set("queue", loaded.Queue)
			}
			if !flags.Changed("strategy") {
				_ = flags.Set("strategy", loaded.Strategy)
			}
			if !flags.Changed("backend") {
				_ = flags.Set("backend", loaded.Backend)
			}
			if !flags.Changed("sync") {
				_ = flags.Set("sync", loaded.Sync)
			}
			if !flags.Changed("log-level") {
				_ = flags.Set("log-level", loaded.LogLevel)
			}
			cfg.DataDir, _ = flags.GetString("data-dir")
			cfg.Queue, _ = flags.GetString("queue")
			cfg.Strategy, _ = flags.GetString("strategy")
			cfg.Backend, _ = flags.GetString("backend")
			cfg.Sync, _ = flags.GetString("sync")
			cfg.LogLevel, _ = flags.GetString("log-level")
			return cfg.Validate()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "Path to a JSON config file")
	pf.String("data-dir", config.DefaultDataDir(), "Storage location holding the queues")
	pf.String("queue", "default", "Queue name to operate on")
	pf.String("strategy", "fifo", "Read ordering: fifo|lifo")
	pf.String("backend", "pebble", "Persistence engine: pebble|files")
	pf.String("sync", "always", "Write durability (pebble): always|interval|never")
	pf.String("log-level", "info", "Log level: debug|info|warn|error")

	root.AddCommand(
		newPushCommand(&cfg),
		newPopCommand(&cfg),
		newPeekCommand(&cfg),
		newRemoveCommand(&cfg),
		newFlushCommand(&cfg),
		newStatsCommand(&cfg),
		newListCommand(&cfg),
	)
	return root
}

// openQueue opens the configured queue with a raw byte codec so payloads
// pass through untouched.
func openQueue(cfg *config.Config) (*pillarbox.Queue[[]byte], error) {
	qcfg := pillarbox.Config[[]byte]{
		Codec:  pillarbox.BytesCodec{},
		Logger: newLogger(cfg.LogLevel),
	}
	if cfg.Strategy == "lifo" {
		qcfg.Strategy = pillarbox.LIFO
	}
	if cfg.Backend == "files" {
		qcfg.Backend = pillarbox.BackendFiles
	}
	switch cfg.Sync {
	case "interval":
		qcfg.Sync = pillarbox.SyncInterval
	case "never":
		qcfg.Sync = pillarbox.SyncNever
	}
	q, err := pillarbox.Open[[]byte](cfg.Queue, cfg.DataDir, qcfg)
	if err != nil {
		return nil, fmt.Errorf("open queue %q at %s: %w", cfg.Queue, cfg.DataDir, err)
	}
	return q, nil
}

func newLogger(level string) log.Logger {
	lvl := log.InfoLevel
	switch level {
	case "debug":
		lvl = log.DebugLevel
	case "warn":
		lvl = log.WarnLevel
	case "error":
		lvl = log.ErrorLevel
	}
	return log.NewLogger(log.WithLevel(lvl))
}
