package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aplr/pillarbox/internal/config"
)

func newPushCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "push PAYLOAD [PAYLOAD...]",
		Short: "Append payloads to the queue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := openQueue(cfg)
			if err != nil {
				return err
			}
			defer q.Close()
			for _, payload := range args {
				key, err := q.Push([]byte(payload))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}

func newPopCommand(cfg *config.Config) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "pop",
		Short: "Remove and print head elements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := openQueue(cfg)
			if err != nil {
				return err
			}
			defer q.Close()
			for i := 0; i < count; i++ {
				v, ok, err := q.Pop()
				if err != nil {
					return err
				}
				if !ok {
					if i == 0 {
						fmt.Fprintln(cmd.ErrOrStderr(), "queue is empty")
					}
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(v))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 1, "Number of elements to pop")
	return cmd
}

func newPeekCommand(cfg *config.Config) *cobra.Command {
	var offset int
	cmd := &cobra.Command{
		Use:   "peek",
		Short: "Print an element without removing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := openQueue(cfg)
			if err != nil {
				return err
			}
			defer q.Close()
			v, ok, err := q.PeekAt(offset)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "nothing at that position")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(v))
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Position from the head (0 = head)")
	return cmd
}

func newRemoveCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "remove KEY [KEY...]",
		Short: "Remove elements by key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			q, err := openQueue(cfg)
			if err != nil {
				return err
			}
			defer q.Close()
			for _, key := range args {
				if err := q.Remove(key); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newFlushCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Delete every element, including orphaned values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := openQueue(cfg)
			if err != nil {
				return err
			}
			defer q.Close()
			if err := q.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "queue %q flushed\n", cfg.Queue)
			return nil
		},
	}
}

func newStatsCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print queue statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := openQueue(cfg)
			if err != nil {
				return err
			}
			defer q.Close()
			rows := [][]string{{
				q.Name(),
				cfg.Strategy,
				cfg.Backend,
				fmt.Sprintf("%d", q.Len()),
			}}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"QUEUE", "STRATEGY", "BACKEND", "LENGTH"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}
