// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/readtime/pkg/types"
)

// QueryOptions filters catalog queries. Zero values mean no filter.
type QueryOptions struct {
	// DocsDir limits results to one indexed directory.
	DocsDir string

	// Path matches documents whose path contains this substring.
	Path string

	Format types.Format

	// MinMinutes and MaxMinutes bound the estimate, inclusive.
	MinMinutes int
	MaxMinutes int

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

const documentColumns = `id, docs_dir, path, title, format, words, minutes, rate, mod_time, indexed_at`

// Query returns documents matching opts, longest reads first.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]types.Document, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + documentColumns + ` FROM documents WHERE 1=1`)

	if opts.DocsDir != "" {
		dir, err := absDir(opts.DocsDir)
		if err != nil {
			return nil, err
		}
		qb.WriteString(` AND docs_dir = ?`)
		args = append(args, dir)
	}
	if opts.Path != "" {
		qb.WriteString(` AND instr(path, ?) > 0`)
		args = append(args, opts.Path)
	}
	if opts.Format != "" {
		qb.WriteString(` AND format = ?`)
		args = append(args, string(opts.Format))
	}
	if opts.MinMinutes > 0 {
		qb.WriteString(` AND minutes >= ?`)
		args = append(args, opts.MinMinutes)
	}
	if opts.MaxMinutes > 0 {
		qb.WriteString(` AND minutes <= ?`)
		args = append(args, opts.MaxMinutes)
	}

	qb.WriteString(` ORDER BY minutes DESC, path, docs_dir LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Get returns the document stored under path relative to docsDir, or ErrNotFound.
func (s *Store) Get(ctx context.Context, docsDir, path string) (types.Document, error) {
	dir, err := absDir(docsDir)
	if err != nil {
		return types.Document{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE docs_dir = ? AND path = ?`, dir, path)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Document{}, fmt.Errorf("%w: %s", ErrNotFound, filepath.Join(dir, path))
	}
	return doc, err
}

// Runs returns the most recent index runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]types.IndexRun, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, docs_dir, started_at, indexed, updated, skipped, failed
		 FROM index_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying index runs: %w", err)
	}
	defer rows.Close()

	var runs []types.IndexRun
	for rows.Next() {
		var (
			run     types.IndexRun
			started string
		)
		if err := rows.Scan(&run.ID, &run.DocsDir, &started,
			&run.Indexed, &run.Updated, &run.Skipped, &run.Failed); err != nil {
			return nil, fmt.Errorf("scanning index run: %w", err)
		}
		run.StartedAt, _ = time.Parse(timeLayout, started)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (types.Document, error) {
	var (
		doc       types.Document
		title     sql.NullString
		format    string
		modTime   string
		indexedAt string
	)
	err := row.Scan(&doc.ID, &doc.DocsDir, &doc.Path, &title, &format, &doc.Words, &doc.Minutes,
		&doc.Rate, &modTime, &indexedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, err
	}
	if err != nil {
		return doc, fmt.Errorf("scanning document: %w", err)
	}
	doc.Title = title.String
	doc.Format = types.Format(format)
	doc.ModTime, _ = time.Parse(timeLayout, modTime)
	doc.IndexedAt, _ = time.Parse(timeLayout, indexedAt)
	return doc, nil
}
