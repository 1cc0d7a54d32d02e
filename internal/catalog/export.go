// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/readtime/pkg/types"
)

// ExportSummary totals the exported documents.
type ExportSummary struct {
	Documents    int `json:"documents" yaml:"documents"`
	TotalWords   int `json:"total_words" yaml:"total_words"`
	TotalMinutes int `json:"total_minutes" yaml:"total_minutes"`
}

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Summary   ExportSummary    `json:"summary" yaml:"summary"`
	Documents []types.Document `json:"documents" yaml:"documents"`
}

const exportLimit = 100000

// ExportYAML writes the catalog, filtered by opts, to export.yaml in the
// catalog directory and returns the file path.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	export, err := s.buildExport(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(export)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport("export.yaml", data)
}

// ExportJSON writes the catalog, filtered by opts, to export.json in the
// catalog directory and returns the file path.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	export, err := s.buildExport(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport("export.json", data)
}

func (s *Store) buildExport(ctx context.Context, opts QueryOptions) (Export, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	docs, err := s.Query(ctx, opts)
	if err != nil {
		return Export{}, fmt.Errorf("querying for export: %w", err)
	}

	export := Export{Documents: docs}
	if export.Documents == nil {
		export.Documents = []types.Document{}
	}
	for _, d := range docs {
		export.Summary.Documents++
		export.Summary.TotalWords += d.Words
		export.Summary.TotalMinutes += d.Minutes
	}
	return export, nil
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
