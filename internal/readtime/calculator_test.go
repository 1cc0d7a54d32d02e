// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package readtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/readtime/internal/parse"
	"github.com/pdiddy/readtime/pkg/types"
)

func TestNewCalculatorRejectsInvalidRate(t *testing.T) {
	for _, rate := range []float64{0, -265} {
		_, err := NewCalculator(rate)
		assert.ErrorIs(t, err, ErrInvalidRate)
	}
}

func TestCalculate(t *testing.T) {
	calc, err := NewCalculator(2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, calc.Rate())

	tests := []struct {
		name      string
		content   string
		format    types.Format
		wantWords int
		wantMins  int
	}{
		{
			name:      "plain text",
			content:   "one two three",
			format:    types.FormatPlain,
			wantWords: 3,
			wantMins:  2,
		},
		{
			name:      "empty format means plain",
			content:   "one two",
			wantWords: 2,
			wantMins:  1,
		},
		{
			name:      "html drops tags and scripts",
			content:   "<p>This is a paragraph.</p><script>var ignored = 1;</script>",
			format:    types.FormatHTML,
			wantWords: 4,
			wantMins:  2,
		},
		{
			name:      "markdown drops markup and front matter",
			content:   "---\ntitle: Sample\n---\n# Heading\n\nThis is **markdown**.",
			format:    types.FormatMarkdown,
			wantWords: 4,
			wantMins:  2,
		},
		{
			name:      "blank markdown",
			content:   "\n\n",
			format:    types.FormatMarkdown,
			wantWords: 0,
			wantMins:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Calculate(tt.content, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWords, got.Words)
			assert.Equal(t, tt.wantMins, got.Minutes)
			assert.Equal(t, 2.0, got.Rate)
			if tt.format != "" {
				assert.Equal(t, tt.format, got.Format)
			} else {
				assert.Equal(t, types.FormatPlain, got.Format)
			}
		})
	}
}

func TestCalculateUnsupportedFormat(t *testing.T) {
	calc, err := NewCalculator(types.DefaultRate)
	require.NoError(t, err)

	_, err = calc.Calculate("<xml>This is a sample content.</xml>", types.Format("xml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, parse.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), `"xml"`)
}
