// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/pdiddy/readtime/pkg/types"
)

// DefaultMaxBytes caps how much of a response body FetchText reads.
const DefaultMaxBytes int64 = 10 << 20

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// FetchOptions configures FetchText.
type FetchOptions struct {
	UserAgent  string
	MaxRetries int
	// MaxBytes caps the body size; 0 uses DefaultMaxBytes.
	MaxBytes int64
}

// FetchText downloads url and returns its body together with the content
// format implied by the Content-Type header. Bodies beyond MaxBytes are
// truncated.
func FetchText(ctx context.Context, client *http.Client, url string, opts FetchOptions) (string, types.Format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("building request for %s: %w", url, err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}
	req.Header.Set("Accept", "text/html, text/markdown;q=0.9, text/plain;q=0.8")

	resp, err := DoWithRetry(ctx, client, req, opts.MaxRetries)
	if err != nil {
		return "", "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", url, err)
	}

	return string(body), FormatFromContentType(resp.Header.Get("Content-Type")), nil
}

// FormatFromContentType maps a Content-Type header to a content format.
// Unknown or missing types are treated as plain text.
func FormatFromContentType(contentType string) types.Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return types.FormatPlain
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return types.FormatHTML
	case "text/markdown", "text/x-markdown":
		return types.FormatMarkdown
	default:
		return types.FormatPlain
	}
}
