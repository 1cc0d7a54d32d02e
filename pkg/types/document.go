// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Format identifies how document content is encoded before word counting.
type Format string

const (
	FormatPlain    Format = "plain"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Document is a catalog record holding the reading-time estimate for one file.
type Document struct {
	// ID is a ULID assigned when the document is first indexed.
	ID string `json:"id" yaml:"id"`

	// DocsDir is the absolute documents directory the file was indexed from.
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// Path is the file path relative to DocsDir.
	Path string `json:"path" yaml:"path"`

	// Title comes from the front matter `title` key, or the file name.
	Title string `json:"title" yaml:"title"`

	Format Format `json:"format" yaml:"format"`

	// Words is the number of whitespace-separated words after parsing.
	Words int `json:"words" yaml:"words"`

	// Minutes is the reading time rounded up to whole minutes.
	Minutes int `json:"minutes" yaml:"minutes"`

	// Rate is the words-per-minute value the estimate was computed with.
	Rate float64 `json:"rate" yaml:"rate"`

	ModTime   time.Time `json:"mod_time" yaml:"mod_time"`
	IndexedAt time.Time `json:"indexed_at" yaml:"indexed_at"`
}

// IndexRun records the outcome of one catalog indexing pass.
type IndexRun struct {
	ID        string    `json:"id" yaml:"id"`
	DocsDir   string    `json:"docs_dir" yaml:"docs_dir"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Indexed   int       `json:"indexed" yaml:"indexed"`
	Updated   int       `json:"updated" yaml:"updated"`
	Skipped   int       `json:"skipped" yaml:"skipped"`
	Failed    int       `json:"failed" yaml:"failed"`
}
