package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/aplr/pillarbox"
	"github.com/aplr/pillarbox/internal/config"
	"github.com/aplr/pillarbox/internal/registry"
	"github.com/aplr/pillarbox/internal/storage/pebblestore"
)

func newListCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the queues at the storage location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rows [][]string
			var err error
			if cfg.Backend == "files" {
				rows, err = listFileQueues(cfg.DataDir)
			} else {
				rows, err = listPebbleQueues(cfg.DataDir)
			}
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no queues found")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"QUEUE", "STRATEGY", "ELEMENTS", "CREATED"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func listPebbleQueues(dataDir string) ([][]string, error) {
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir: filepath.Join(dataDir, pillarbox.PebbleDirName),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dataDir, err)
	}
	defer db.Close()
	metas, err := registry.List(db)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(metas))
	for _, m := range metas {
		created := time.UnixMilli(m.CreatedAtMs).UTC().Format(time.RFC3339)
		rows = append(rows, []string{m.Name, m.Strategy, strconv.FormatInt(m.Elements, 10), created})
	}
	return rows, nil
}

// listFileQueues enumerates queue directories of the file backend. The
// strategy is not recorded there; it is runtime configuration.
func listFileQueues(dataDir string) ([][]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var rows [][]string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == pillarbox.PebbleDirName {
			continue
		}
		info, err := e.Info()
		created := "-"
		if err == nil {
			created = info.ModTime().UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{e.Name(), "-", "-", created})
	}
	return rows, nil
}
