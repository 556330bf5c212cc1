package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/utils"

	"github.com/spf13/cobra"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show classification, audio tags and EXIF data of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dfs, err := ctx.fileSystem(cmd)
			if err != nil {
				return err
			}
			md, err := dfs.Inspect(args[0])
			if err != nil {
				return err
			}
			if format != "table" {
				return writeStructured(cmd.OutOrStdout(), format, md)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, metadataRows(md), nil))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or yaml")
	return cmd
}

func metadataRows(md *utils.FileMetadata) [][]string {
	rows := [][]string{
		{"Path", md.Path},
		{"Classification", string(md.Classification)},
		{"Group", md.Group},
		{"Size", strconv.FormatInt(md.Size, 10)},
		{"Modified", md.ModTime.Format(time.RFC3339)},
	}

	if t := md.Tags; t != nil {
		for _, kv := range [][2]string{
			{"Artist", t.Artist},
			{"Album artist", t.AlbumArtist},
			{"Title", t.Title},
			{"Album", t.Album},
			{"Genre", t.Genre},
			{"Year", t.Year},
			{"Format", t.Format},
		} {
			if kv[1] != "" {
				rows = append(rows, []string{kv[0], kv[1]})
			}
		}
		if t.Track != 0 {
			rows = append(rows, []string{"Track", strconv.Itoa(t.Track)})
		}
	}
	if md.TagError != "" {
		rows = append(rows, []string{"Tag error", md.TagError})
	}

	keys := make([]string, 0, len(md.EXIF))
	for k := range md.EXIF {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, []string{"EXIF " + k, md.EXIF[k]})
	}
	if md.EXIFError != "" {
		rows = append(rows, []string{"EXIF error", md.EXIFError})
	}
	return rows
}
