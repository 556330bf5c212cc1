package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var flags renameFlags
	var workers int

	cmd := &cobra.Command{
		Use:   "batch <dir>...",
		Short: "Rename several directories concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dfs, err := ctx.fileSystem(cmd)
			if err != nil {
				return err
			}
			opts, err := dfs.Options()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				if workers <= 0 {
					return fmt.Errorf("--workers must be positive, got %d", workers)
				}
				opts.WorkerCount = workers
			}

			outcomes, runErr := dfs.Batch(cmd.Context(), args, opts)
			if len(outcomes) == 0 {
				return runErr
			}

			rows := make([][]string, 0, len(outcomes))
			for _, o := range outcomes {
				renamed, status := "-", "ok"
				if o.Result != nil {
					renamed = strconv.Itoa(o.Result.Len())
				}
				if o.Err != nil {
					status = o.Err.Error()
				}
				rows = append(rows, []string{o.Dir, renamed, o.Duration.Round(time.Millisecond).String(), status})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Directory", "Renamed", "Duration", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
			))

			if runErr != nil {
				return errors.New("one or more directories failed")
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of directories renamed concurrently")
	return cmd
}
