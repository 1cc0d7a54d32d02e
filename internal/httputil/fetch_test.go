// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/readtime/pkg/types"
)

func TestFetchText(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<p>Hello reader</p>"))
	}))
	defer ts.Close()

	body, format, err := FetchText(context.Background(), ts.Client(), ts.URL, FetchOptions{UserAgent: "readtime/test"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello reader</p>", body)
	assert.Equal(t, types.FormatHTML, format)
	assert.Equal(t, "readtime/test", gotUA)
}

func TestFetchTextTruncates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer ts.Close()

	body, format, err := FetchText(context.Background(), ts.Client(), ts.URL, FetchOptions{MaxBytes: 10})
	require.NoError(t, err)
	assert.Len(t, body, 10)
	assert.Equal(t, types.FormatPlain, format)
}

func TestFetchTextStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, _, err := FetchText(context.Background(), ts.Client(), ts.URL, FetchOptions{})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchTextBadURL(t *testing.T) {
	_, _, err := FetchText(context.Background(), http.DefaultClient, "://missing-scheme", FetchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "building request")
}

func TestFormatFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        types.Format
	}{
		{"text/html", types.FormatHTML},
		{"text/html; charset=utf-8", types.FormatHTML},
		{"application/xhtml+xml", types.FormatHTML},
		{"text/markdown; charset=UTF-8", types.FormatMarkdown},
		{"text/x-markdown", types.FormatMarkdown},
		{"text/plain", types.FormatPlain},
		{"application/json", types.FormatPlain},
		{"", types.FormatPlain},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFromContentType(tt.contentType), "content type %q", tt.contentType)
	}
}
