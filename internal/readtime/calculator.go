// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package readtime

import (
	"fmt"

	"github.com/pdiddy/readtime/internal/parse"
	"github.com/pdiddy/readtime/pkg/types"
)

// Result holds a reading-time estimate together with its inputs.
type Result struct {
	Words   int          `json:"words" yaml:"words"`
	Minutes int          `json:"minutes" yaml:"minutes"`
	Rate    float64      `json:"wpm" yaml:"wpm"`
	Format  types.Format `json:"format" yaml:"format"`
}

// Calculator estimates reading time for formatted content at a fixed rate.
type Calculator struct {
	rate float64
}

// NewCalculator returns a Calculator for rate words per minute.
func NewCalculator(rate float64) (*Calculator, error) {
	if err := ValidateRate(rate); err != nil {
		return nil, err
	}
	return &Calculator{rate: rate}, nil
}

// Rate returns the calculator's words-per-minute rate.
func (c *Calculator) Rate() float64 {
	return c.rate
}

// Calculate reduces content to readable text according to format, counts
// its words, and estimates the reading time.
func (c *Calculator) Calculate(content string, format types.Format) (Result, error) {
	if format == "" {
		format = types.FormatPlain
	}
	text, err := parse.Parse(content, format)
	if err != nil {
		return Result{}, fmt.Errorf("parsing %s content: %w", format, err)
	}

	words := CountWords(text)
	return Result{
		Words:   words,
		Minutes: Minutes(words, c.rate),
		Rate:    c.rate,
		Format:  format,
	}, nil
}
