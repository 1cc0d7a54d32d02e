// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/readtime/internal/readtime"
	"github.com/pdiddy/readtime/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	docsDir := filepath.Join(tmpDir, "docs")
	require.NoError(t, os.MkdirAll(docsDir, 0o755))

	store, err := Open(types.CatalogConfig{Dir: filepath.Join(tmpDir, "catalog")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, docsDir
}

func writeDoc(t *testing.T, docsDir, name, content string) string {
	t.Helper()
	path := filepath.Join(docsDir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func calculator(t *testing.T, rate float64) *readtime.Calculator {
	t.Helper()
	calc, err := readtime.NewCalculator(rate)
	require.NoError(t, err)
	return calc
}

func seed(t *testing.T, docsDir string) {
	t.Helper()
	writeDoc(t, docsDir, "short.txt", "one two three")
	writeDoc(t, docsDir, "papers/attention.md", "---\ntitle: Attention Is All You Need\n---\n# Intro\n\nword word word word word word word")
	writeDoc(t, docsDir, "page.html", "<html><body><p>a b c d e f g h i j</p></body></html>")
	writeDoc(t, docsDir, "ignored.pdf", "not indexed")
	writeDoc(t, docsDir, ".hidden/secret.md", "hidden words")
}

// --- tests ---

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "catalog")
	store, err := Open(types.CatalogConfig{Dir: dir})
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, filepath.Join(dir, dbFile))
	assert.Equal(t, dir, store.Dir())
	assert.Equal(t, defaultMaxResults, store.maxResults)
}

func TestIndex(t *testing.T) {
	store, docsDir := testSetup(t)
	seed(t, docsDir)
	ctx := context.Background()

	var log bytes.Buffer
	summary, err := store.Index(ctx, docsDir, calculator(t, 2), &log)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Indexed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 3, summary.Total())
	assert.False(t, summary.HasFailures())
	assert.NotEmpty(t, summary.RunID)
	assert.Contains(t, log.String(), "indexed  papers/attention.md (8 words, 4 min)")
	assert.NotContains(t, log.String(), "ignored.pdf")
	assert.NotContains(t, log.String(), "secret.md")

	doc, err := store.Get(ctx, docsDir, "papers/attention.md")
	require.NoError(t, err)
	assert.Equal(t, "Attention Is All You Need", doc.Title)
	assert.Equal(t, types.FormatMarkdown, doc.Format)
	assert.Equal(t, 8, doc.Words)
	assert.Equal(t, 4, doc.Minutes)
	assert.Equal(t, 2.0, doc.Rate)
	assert.Len(t, doc.ID, 26)
	assert.False(t, doc.ModTime.IsZero())
	assert.False(t, doc.IndexedAt.IsZero())

	page, err := store.Get(ctx, docsDir, "page.html")
	require.NoError(t, err)
	assert.Equal(t, "page", page.Title)
	assert.Equal(t, 10, page.Words)
	assert.Equal(t, 5, page.Minutes)
}

func TestIndexIncremental(t *testing.T) {
	store, docsDir := testSetup(t)
	seed(t, docsDir)
	ctx := context.Background()
	calc := calculator(t, 2)

	_, err := store.Index(ctx, docsDir, calc, &bytes.Buffer{})
	require.NoError(t, err)
	before, err := store.Get(ctx, docsDir, "short.txt")
	require.NoError(t, err)

	// Unchanged files are skipped.
	summary, err := store.Index(ctx, docsDir, calc, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Skipped)
	assert.Equal(t, 0, summary.Indexed+summary.Updated)

	// A modified file is updated and keeps its ID.
	path := writeDoc(t, docsDir, "short.txt", "one two three four five")
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	var log bytes.Buffer
	summary, err = store.Index(ctx, docsDir, calc, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 2, summary.Skipped)
	assert.Contains(t, log.String(), "updated  short.txt (5 words, 3 min)")

	after, err := store.Get(ctx, docsDir, "short.txt")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, 5, after.Words)

	// A new rate re-estimates everything.
	summary, err = store.Index(ctx, docsDir, calculator(t, 265), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Updated)
}

func TestIndexMissingDirectory(t *testing.T) {
	store, docsDir := testSetup(t)
	_, err := store.Index(context.Background(), filepath.Join(docsDir, "nope"), calculator(t, 200), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading documents directory")
}

func TestIndexUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}
	store, docsDir := testSetup(t)
	writeDoc(t, docsDir, "good.txt", "readable words")
	bad := writeDoc(t, docsDir, "bad.txt", "secret")
	require.NoError(t, os.Chmod(bad, 0o000))
	t.Cleanup(func() { os.Chmod(bad, 0o644) })

	var log bytes.Buffer
	summary, err := store.Index(context.Background(), docsDir, calculator(t, 200), &log)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Indexed)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, summary.HasFailures())
	assert.Contains(t, log.String(), "failed   bad.txt")
}

func TestIndexCancelled(t *testing.T) {
	store, docsDir := testSetup(t)
	seed(t, docsDir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Index(ctx, docsDir, calculator(t, 200), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuery(t *testing.T) {
	store, docsDir := testSetup(t)
	seed(t, docsDir)
	ctx := context.Background()
	_, err := store.Index(ctx, docsDir, calculator(t, 2), &bytes.Buffer{})
	require.NoError(t, err)

	tests := []struct {
		name      string
		opts      QueryOptions
		wantPaths []string
	}{
		{
			name:      "all, longest first",
			opts:      QueryOptions{},
			wantPaths: []string{"page.html", "papers/attention.md", "short.txt"},
		},
		{
			name:      "path substring",
			opts:      QueryOptions{Path: "papers/"},
			wantPaths: []string{"papers/attention.md"},
		},
		{
			name:      "format",
			opts:      QueryOptions{Format: types.FormatPlain},
			wantPaths: []string{"short.txt"},
		},
		{
			name:      "minute range",
			opts:      QueryOptions{MinMinutes: 3, MaxMinutes: 4},
			wantPaths: []string{"papers/attention.md"},
		},
		{
			name:      "limit",
			opts:      QueryOptions{MaxResults: 1},
			wantPaths: []string{"page.html"},
		},
		{
			name: "no match",
			opts: QueryOptions{Path: "missing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := store.Query(ctx, tt.opts)
			require.NoError(t, err)
			var paths []string
			for _, d := range docs {
				paths = append(paths, d.Path)
			}
			assert.Equal(t, tt.wantPaths, paths)
		})
	}
}

func TestGetNotFound(t *testing.T) {
	store, docsDir := testSetup(t)
	_, err := store.Get(context.Background(), docsDir, "missing.md")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRuns(t *testing.T) {
	store, docsDir := testSetup(t)
	seed(t, docsDir)
	ctx := context.Background()
	calc := calculator(t, 2)

	first, err := store.Index(ctx, docsDir, calc, &bytes.Buffer{})
	require.NoError(t, err)
	second, err := store.Index(ctx, docsDir, calc, &bytes.Buffer{})
	require.NoError(t, err)

	runs, err := store.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.RunID, runs[0].ID)
	assert.Equal(t, first.RunID, runs[1].ID)
	assert.Equal(t, 3, runs[1].Indexed)
	assert.Equal(t, 3, runs[0].Skipped)
	assert.Equal(t, docsDir, runs[0].DocsDir)
}

func TestRunsSameSecond(t *testing.T) {
	store, docsDir := testSetup(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	// Inserted out of order; whole-second and trailing-zero fractions must
	// still sort chronologically.
	for _, run := range []types.IndexRun{
		{ID: "B", StartedAt: base.Add(100 * time.Millisecond)},
		{ID: "A", StartedAt: base.Add(120 * time.Millisecond)},
		{ID: "C", StartedAt: base},
		{ID: "D", StartedAt: base.Add(time.Second)},
	} {
		run.DocsDir = docsDir
		require.NoError(t, store.recordRun(ctx, run))
	}

	runs, err := store.Runs(ctx, 10)
	require.NoError(t, err)
	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"D", "A", "B", "C"}, ids)
	assert.True(t, runs[1].StartedAt.Equal(base.Add(120*time.Millisecond)))
}

func TestIndexSeparateDirectories(t *testing.T) {
	store, docsDir := testSetup(t)
	otherDir := filepath.Join(filepath.Dir(docsDir), "other")
	ctx := context.Background()
	calc := calculator(t, 2)

	writeDoc(t, docsDir, "notes.txt", "one two")
	writeDoc(t, otherDir, "notes.txt", "one two three four five six")

	first, err := store.Index(ctx, docsDir, calc, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Indexed)

	second, err := store.Index(ctx, otherDir, calc, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Indexed)
	assert.Equal(t, 0, second.Updated)

	a, err := store.Get(ctx, docsDir, "notes.txt")
	require.NoError(t, err)
	b, err := store.Get(ctx, otherDir, "notes.txt")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, a.Words)
	assert.Equal(t, 6, b.Words)
	assert.Equal(t, docsDir, a.DocsDir)

	docs, err := store.Query(ctx, QueryOptions{DocsDir: otherDir})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, otherDir, docs[0].DocsDir)

	all, err := store.Query(ctx, QueryOptions{Path: "notes.txt"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestExport(t *testing.T) {
	store, docsDir := testSetup(t)
	seed(t, docsDir)
	ctx := context.Background()
	_, err := store.Index(ctx, docsDir, calculator(t, 2), &bytes.Buffer{})
	require.NoError(t, err)

	yamlPath, err := store.ExportYAML(ctx, QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir(), "export.yaml"), yamlPath)

	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML Export
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, ExportSummary{Documents: 3, TotalWords: 21, TotalMinutes: 11}, fromYAML.Summary)
	assert.Len(t, fromYAML.Documents, 3)

	jsonPath, err := store.ExportJSON(ctx, QueryOptions{Format: types.FormatHTML})
	require.NoError(t, err)
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON Export
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, 1, fromJSON.Summary.Documents)
	require.Len(t, fromJSON.Documents, 1)
	assert.Equal(t, "page.html", fromJSON.Documents[0].Path)
}

func TestExportEmpty(t *testing.T) {
	store, _ := testSetup(t)
	path, err := store.ExportJSON(context.Background(), QueryOptions{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"documents": []`)
}
