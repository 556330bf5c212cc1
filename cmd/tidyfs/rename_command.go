package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/options"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"

	"github.com/spf13/cobra"
)

// renameFlags are the per-invocation overrides shared by rename and batch.
type renameFlags struct {
	recursive bool
	exts      []string
	dryRun    bool
	strategy  string
	noTags    bool
}

func (f *renameFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().StringSliceVar(&f.exts, "ext", nil, "Only rename files with these extensions (e.g. mp3,wav)")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "Compute new names without touching files or tags")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "Collision strategy: timestamp, counter or skip")
	cmd.Flags().BoolVar(&f.noTags, "no-tags", false, "Do not synchronize audio tags")
}

// apply overrides the configured options with the flags the user set.
func (f *renameFlags) apply(cmd *cobra.Command, opts *options.BatchOptions) error {
	flags := cmd.Flags()
	if flags.Changed("recursive") {
		opts.IncludeSubdirectories = f.recursive
	}
	if flags.Changed("ext") {
		opts.Extensions = f.exts
	}
	if flags.Changed("dry-run") {
		opts.Rename.DryRun = f.dryRun
	}
	if flags.Changed("strategy") {
		strategy, err := options.ParseConflictStrategy(f.strategy)
		if err != nil {
			return err
		}
		opts.Rename.Conflict = strategy
	}
	if f.noTags {
		opts.Rename.SyncAudioTags = false
	}
	return nil
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var flags renameFlags

	cmd := &cobra.Command{
		Use:   "rename <dir>",
		Short: "Normalize the file names of one directory",
		Args:  cobra.ExactArgs(1),
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

			result, err := dfs.Rename(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// printResult prints one row per renamed file, paths relative to the root.
func printResult(w io.Writer, result *types.RenameResult) {
	if result.Len() > 0 {
		rows := make([][]string, 0, result.Len())
		for _, newPath := range result.SortedNewPaths() {
			original, _ := result.OriginalOf(newPath)
			rows = append(rows, []string{relTo(result.Root, newPath), relTo(result.Root, original)})
		}
		fmt.Fprintln(w, renderTable([]string{"New name", "Original"}, rows, nil))
	}
	fmt.Fprintln(w, summaryLine(result))
}

func summaryLine(result *types.RenameResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d file(s) renamed in %s", result.Len(), result.Root)
	if result.DryRun {
		b.WriteString(" (dry run)")
	}
	return b.String()
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
