// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse reduces plain, HTML, and Markdown content to the readable
// text whose words are counted for a reading-time estimate.
package parse

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/readtime/pkg/types"
)

// ErrUnsupportedFormat is returned for formats other than plain, html, and markdown.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Parse returns the readable text of content encoded in format.
func Parse(content string, format types.Format) (string, error) {
	switch format {
	case types.FormatPlain:
		return content, nil
	case types.FormatHTML:
		return HTMLText(content)
	case types.FormatMarkdown:
		_, body := FrontMatter(content)
		return MarkdownText(body), nil
	default:
		return "", fmt.Errorf("%w %q: use plain, html, or markdown", ErrUnsupportedFormat, string(format))
	}
}

// ParseFormat converts a user-supplied format name. The empty string means plain.
func ParseFormat(s string) (types.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain", "text", "txt":
		return types.FormatPlain, nil
	case "html", "htm":
		return types.FormatHTML, nil
	case "markdown", "md":
		return types.FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w %q: use plain, html, or markdown", ErrUnsupportedFormat, s)
	}
}

// DetectFormat picks a format from a file extension, falling back to plain.
func DetectFormat(path string) types.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return types.FormatMarkdown
	case ".html", ".htm":
		return types.FormatHTML
	default:
		return types.FormatPlain
	}
}

// Supported reports whether path has an extension the catalog indexes.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".html", ".htm", ".txt":
		return true
	}
	return false
}
