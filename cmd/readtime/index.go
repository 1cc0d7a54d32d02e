// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/readtime/internal/catalog"
	"github.com/pdiddy/readtime/internal/readtime"
)

var indexCmd = &cobra.Command{
	Use:   "index [docs-dir]",
	Short: "Estimate every document in a directory and store the results",
	Long: `Index walks a documents directory for .md, .markdown, .html, .htm, and
.txt files, estimates each one, and stores the results in a SQLite catalog.
Files whose modification time and reading rate are unchanged since the last
run are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	docsDir := cfg.Catalog.DocsDir
	if len(args) > 0 {
		docsDir = args[0]
	}

	rate, err := rateFromFlags(cmd)
	if err != nil {
		return err
	}
	calc, err := readtime.NewCalculator(rate)
	if err != nil {
		return err
	}

	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Index(cmd.Context(), docsDir, calc, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed indexing", summary.Failed)
	}
	return nil
}

// openCatalog opens the catalog named by --catalog-dir or the config.
func openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	c := cfg.Catalog
	if cmd.Flags().Changed("catalog-dir") {
		c.Dir, _ = cmd.Flags().GetString("catalog-dir")
	}
	return catalog.Open(c)
}

func init() {
	indexCmd.Flags().String("wpm", "", "reading speed in words per minute (default 265)")
	rootCmd.AddCommand(indexCmd)
}
