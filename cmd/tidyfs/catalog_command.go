package main

import (
	"github.com/ZanzyTHEbar/tidyfs/tfs/catalog"

	"github.com/spf13/cobra"
)

// catalogDocument is the merged view printed by `catalog show`.
type catalogDocument struct {
	Exclusions []string            `json:"exclusions" yaml:"exclusions" toml:"exclusions"`
	Noise      []string            `json:"noise" yaml:"noise" toml:"noise"`
	Locales    map[string][]string `json:"locales,omitempty" yaml:"locales,omitempty" toml:"locales,omitempty"`
	Sources    []string            `json:"sources" yaml:"sources" toml:"sources"`
}

func newCatalogDocument(c *catalog.Catalogs) catalogDocument {
	doc := catalogDocument{
		Exclusions: c.Exclusions.Entries(),
		Noise:      c.Noise.Entries(),
		Sources:    c.Sources,
	}
	for _, locale := range c.Noise.Locales() {
		if doc.Locales == nil {
			doc.Locales = make(map[string][]string)
		}
		doc.Locales[locale] = c.Noise.LocaleEntries(locale)
	}
	return doc
}

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect exclusion and noise catalogs",
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the merged catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dfs, err := ctx.fileSystem(cmd)
			if err != nil {
				return err
			}
			return writeStructured(cmd.OutOrStdout(), format, newCatalogDocument(dfs.Catalogs()))
		},
	}
	show.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml, json or toml")

	cmd.AddCommand(show)
	return cmd
}
