package main

import (
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"

	"github.com/spf13/cobra"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var flags renameFlags
	var debounce time.Duration
	var initial bool

	cmd := &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Rename files as they arrive until interrupted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("debounce") {
				if debounce <= 0 {
					return fmt.Errorf("--debounce must be positive, got %s", debounce)
				}
				cfg.Watch.Debounce = debounce
				cfg.Watch.MaxDelay = max(cfg.Watch.MaxDelay, debounce)
			}
			if cmd.Flags().Changed("initial") {
				cfg.Watch.Initial = initial
			}

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

			out := cmd.OutOrStdout()
			opts.Rename.EventCallback = func(e types.Event) {
				if e.Type != types.EventFileRenamed {
					return
				}
				fmt.Fprintf(out, "%s -> %v\n", e.Path, e.Metadata["new_path"])
			}
			return dfs.Watch(cmd.Context(), args, opts)
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Quiet period before arrivals are renamed")
	cmd.Flags().BoolVar(&initial, "initial", false, "Rename the existing contents first")
	return cmd
}
