package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shelfarr/internal/logging"
	"shelfarr/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the shelfarr log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := logging.FilePath(cfg)
			if path == "" {
				return fmt.Errorf("no log directory configured")
			}
			err = logs.Tail(cmd.Context(), path, logs.TailOptions{Limit: lines, Follow: follow}, func(line string) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming appended lines")
	return cmd
}
