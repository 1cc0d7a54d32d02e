// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/readtime/internal/catalog"
	"github.com/pdiddy/readtime/internal/parse"
	"github.com/pdiddy/readtime/pkg/types"
)

// --- report ---

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List catalog documents by reading time",
	Long: `Report lists indexed documents, longest reads first. Filter by path
substring, document format, or a minute range. Use --runs to list recent
index runs instead.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()

	if showRuns, _ := cmd.Flags().GetBool("runs"); showRuns {
		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := store.Runs(cmd.Context(), limit)
		if err != nil {
			return err
		}
		return formatRunsOutput(w, runs, jsonOutput)
	}

	opts, err := queryOptsFromFlags(cmd)
	if err != nil {
		return err
	}
	docs, err := store.Query(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return formatReportOutput(w, docs, jsonOutput)
}

func formatReportOutput(w io.Writer, docs []types.Document, jsonOutput bool) error {
	if jsonOutput {
		if docs == nil {
			docs = []types.Document{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents found.")
		return nil
	}

	fmt.Fprintf(w, "%-7s  %-7s  %-8s  %-40s  %s\n", "Minutes", "Words", "Format", "Path", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	total := 0
	for _, d := range docs {
		fmt.Fprintf(w, "%-7d  %-7d  %-8s  %-40s  %s\n",
			d.Minutes, d.Words, d.Format, truncate(d.Path, 40), truncate(d.Title, 30))
		total += d.Minutes
	}

	fmt.Fprintf(w, "\n%d documents, %d minutes total\n", len(docs), total)
	return nil
}

func formatRunsOutput(w io.Writer, runs []types.IndexRun, jsonOutput bool) error {
	if jsonOutput {
		if runs == nil {
			runs = []types.IndexRun{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No index runs found.")
		return nil
	}

	fmt.Fprintf(w, "%-26s  %-20s  %7s  %7s  %7s  %6s  %s\n",
		"Run", "Started", "Indexed", "Updated", "Skipped", "Failed", "Directory")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(w, "%-26s  %-20s  %7d  %7d  %7d  %6d  %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Indexed, r.Updated, r.Skipped, r.Failed, r.DocsDir)
	}
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:max(n, 0)])
	}
	return string(r[:n-3]) + "..."
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the catalog (or a filtered subset) with a summary of total
words and minutes to export.yaml or export.json in the catalog directory.
Supports the same filter flags as report.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := queryOptsFromFlags(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("limit") {
		opts.MaxResults = 0
	}

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command) (catalog.QueryOptions, error) {
	path, _ := cmd.Flags().GetString("path")
	docsDir, _ := cmd.Flags().GetString("docs-dir")
	docFormat, _ := cmd.Flags().GetString("doc-format")
	minMinutes, _ := cmd.Flags().GetInt("min")
	maxMinutes, _ := cmd.Flags().GetInt("max")
	limit, _ := cmd.Flags().GetInt("limit")

	if limit <= 0 {
		limit = cfg.Catalog.MaxResults
	}
	if maxMinutes > 0 && minMinutes > maxMinutes {
		return catalog.QueryOptions{}, fmt.Errorf("--min %d is greater than --max %d", minMinutes, maxMinutes)
	}

	opts := catalog.QueryOptions{
		DocsDir:    docsDir,
		Path:       path,
		MinMinutes: minMinutes,
		MaxMinutes: maxMinutes,
		MaxResults: limit,
	}
	if docFormat != "" {
		f, err := parse.ParseFormat(docFormat)
		if err != nil {
			return catalog.QueryOptions{}, err
		}
		opts.Format = f
	}
	return opts, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("docs-dir", "", "only documents indexed from this directory")
	cmd.Flags().String("path", "", "filter by path substring")
	cmd.Flags().String("doc-format", "", "filter by document format: plain, html, or markdown")
	cmd.Flags().Int("min", 0, "minimum reading time in minutes")
	cmd.Flags().Int("max", 0, "maximum reading time in minutes (0 = no limit)")
	cmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
}

func init() {
	addFilterFlags(reportCmd)
	reportCmd.Flags().Bool("runs", false, "list recent index runs")
	reportCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(exportCmd)
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
}
