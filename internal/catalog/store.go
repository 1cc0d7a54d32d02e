// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists reading-time estimates for a directory of
// documents in SQLite. Indexing is incremental: files whose modification
// time and rate are unchanged since the last run are skipped.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/pdiddy/readtime/internal/logger"
	"github.com/pdiddy/readtime/internal/parse"
	"github.com/pdiddy/readtime/internal/readtime"
	"github.com/pdiddy/readtime/pkg/types"
)

const (
	dbFile            = "catalog.db"
	defaultDir        = "catalog"
	defaultMaxResults = 50

	// timeLayout is fixed-width so stored timestamps sort chronologically as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNotFound is returned when a document is not in the catalog.
var ErrNotFound = errors.New("document not found")

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// Open opens or creates the catalog database at cfg.Dir/catalog.db and
// creates the schema if it does not exist.
func Open(cfg types.CatalogConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dir:        dir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			docs_dir TEXT NOT NULL,
			path TEXT NOT NULL,
			title TEXT,
			format TEXT NOT NULL,
			words INTEGER NOT NULL,
			minutes INTEGER NOT NULL,
			rate REAL NOT NULL,
			mod_time TEXT NOT NULL,
			indexed_at TEXT NOT NULL,
			UNIQUE(docs_dir, path)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_minutes ON documents(minutes)`,
		`CREATE TABLE IF NOT EXISTS index_runs (
			id TEXT PRIMARY KEY,
			docs_dir TEXT NOT NULL,
			started_at TEXT NOT NULL,
			indexed INTEGER NOT NULL,
			updated INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IndexSummary holds counts from one indexing run.
type IndexSummary struct {
	RunID   string
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of files processed.
func (s IndexSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// HasFailures reports whether any file failed to index.
func (s IndexSummary) HasFailures() bool {
	return s.Failed > 0
}

// Index walks docsDir for supported documents (.md, .markdown, .html,
// .htm, .txt), estimates each one with calc, and records the results.
// Progress is printed to w one line per file, followed by a summary.
// Rows are keyed by the absolute docsDir plus the path relative to it, so
// one catalog can hold several directories. The run itself is recorded in
// index_runs.
func (s *Store) Index(ctx context.Context, docsDir string, calc *readtime.Calculator, w io.Writer) (IndexSummary, error) {
	summary := IndexSummary{RunID: ulid.Make().String()}
	docsDir, err := absDir(docsDir)
	if err != nil {
		return summary, err
	}
	ctx = logger.WithRunID(ctx, summary.RunID)
	log := logger.Get(ctx)
	started := time.Now().UTC()

	paths, err := collect(docsDir)
	if err != nil {
		return summary, err
	}
	log.Debug().Str("docs_dir", docsDir).Int("files", len(paths)).Msg("collected documents")

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		rel, err := filepath.Rel(docsDir, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		res, doc, err := s.indexFile(ctx, docsDir, path, rel, calc)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed   %s: %v\n", rel, err)
			log.Warn().Err(err).Str("path", rel).Msg("indexing failed")
			summary.Failed++
		case res == outcomeSkipped:
			fmt.Fprintf(w, "skipped  %s\n", rel)
			summary.Skipped++
		case res == outcomeUpdated:
			fmt.Fprintf(w, "updated  %s (%d words, %d min)\n", rel, doc.Words, doc.Minutes)
			summary.Updated++
		default:
			fmt.Fprintf(w, "indexed  %s (%d words, %d min)\n", rel, doc.Words, doc.Minutes)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	err = s.recordRun(ctx, types.IndexRun{
		ID:        summary.RunID,
		DocsDir:   docsDir,
		StartedAt: started,
		Indexed:   summary.Indexed,
		Updated:   summary.Updated,
		Skipped:   summary.Skipped,
		Failed:    summary.Failed,
	})
	return summary, err
}

func (s *Store) recordRun(ctx context.Context, run types.IndexRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO index_runs (id, docs_dir, started_at, indexed, updated, skipped, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.DocsDir, run.StartedAt.UTC().Format(timeLayout),
		run.Indexed, run.Updated, run.Skipped, run.Failed,
	)
	if err != nil {
		return fmt.Errorf("recording index run: %w", err)
	}
	return nil
}

// absDir returns the cleaned absolute form of a documents directory.
func absDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	return abs, nil
}

// collect returns the supported files under root in lexical order.
func collect(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if parse.Supported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading documents directory %s: %w", root, err)
	}
	return paths, nil
}

type outcome int

const (
	outcomeIndexed outcome = iota
	outcomeUpdated
	outcomeSkipped
)

func (s *Store) indexFile(ctx context.Context, docsDir, path, rel string, calc *readtime.Calculator) (outcome, types.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, types.Document{}, err
	}
	modTime := info.ModTime().UTC()

	var (
		existingID string
		storedMod  string
		storedRate float64
		isUpdate   bool
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT id, mod_time, rate FROM documents WHERE docs_dir = ? AND path = ?`, docsDir, rel,
	).Scan(&existingID, &storedMod, &storedRate)
	switch {
	case err == nil:
		if storedMod == modTime.Format(timeLayout) && storedRate == calc.Rate() {
			return outcomeSkipped, types.Document{}, nil
		}
		isUpdate = true
	case errors.Is(err, sql.ErrNoRows):
		existingID = ulid.Make().String()
	default:
		return 0, types.Document{}, fmt.Errorf("looking up %s: %w", rel, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, types.Document{}, err
	}
	content := string(data)
	format := parse.DetectFormat(path)

	result, err := calc.Calculate(content, format)
	if err != nil {
		return 0, types.Document{}, err
	}

	doc := types.Document{
		ID:        existingID,
		DocsDir:   docsDir,
		Path:      rel,
		Title:     titleFor(content, format, rel),
		Format:    format,
		Words:     result.Words,
		Minutes:   result.Minutes,
		Rate:      result.Rate,
		ModTime:   modTime,
		IndexedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, docs_dir, path, title, format, words, minutes, rate, mod_time, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(docs_dir, path) DO UPDATE SET
			title=excluded.title, format=excluded.format, words=excluded.words,
			minutes=excluded.minutes, rate=excluded.rate, mod_time=excluded.mod_time,
			indexed_at=excluded.indexed_at`,
		doc.ID, doc.DocsDir, doc.Path, doc.Title, string(doc.Format), doc.Words, doc.Minutes, doc.Rate,
		doc.ModTime.Format(timeLayout), doc.IndexedAt.Format(timeLayout),
	)
	if err != nil {
		return 0, types.Document{}, fmt.Errorf("storing %s: %w", rel, err)
	}

	if isUpdate {
		return outcomeUpdated, doc, nil
	}
	return outcomeIndexed, doc, nil
}

// titleFor prefers a Markdown front matter title and falls back to the
// file name without its extension.
func titleFor(content string, format types.Format, rel string) string {
	if format == types.FormatMarkdown {
		if t := parse.Title(content); t != "" {
			return t
		}
	}
	base := filepath.Base(rel)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
