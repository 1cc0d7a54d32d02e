// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DefaultRate is the reading speed, in words per minute, used when none is configured.
const DefaultRate = 265.0

// EstimateConfig holds settings for single-input estimation.
type EstimateConfig struct {
	// Rate is the reading speed in words per minute (default 265).
	Rate float64 `json:"wpm" yaml:"wpm" mapstructure:"wpm"`

	// Format forces a content format. Empty means detect from the file
	// extension, or plain for inline text and stdin.
	Format Format `json:"format,omitempty" yaml:"format,omitempty" mapstructure:"format"`
}

// HTTPConfig holds settings for fetching remote content.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on 429/503 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// MaxBytes caps the response body size read from a URL.
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes" mapstructure:"max_bytes"`
}

// CatalogConfig holds settings for the document catalog.
type CatalogConfig struct {
	// Dir contains catalog.db and the export files.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// DocsDir is the default directory scanned by index.
	DocsDir string `json:"docs_dir" yaml:"docs_dir" mapstructure:"docs_dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
	JSON  bool   `json:"json" yaml:"json" mapstructure:"json"`
}

// Config groups all readtime settings.
type Config struct {
	Estimate EstimateConfig `json:"estimate" yaml:"estimate" mapstructure:"estimate"`
	HTTP     HTTPConfig     `json:"http" yaml:"http" mapstructure:"http"`
	Catalog  CatalogConfig  `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}
