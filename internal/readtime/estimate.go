// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package readtime estimates how long a body of text takes to read.
// The estimate is the word count divided by a words-per-minute rate,
// rounded up to whole minutes.
package readtime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidRate is returned when a reading rate is not a positive finite number.
var ErrInvalidRate = errors.New("invalid reading rate")

// InvalidRateError describes a rejected rate. Raw is set when the rate came
// from unparsed input.
type InvalidRateError struct {
	Value float64
	Raw   string
}

func (e *InvalidRateError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("%v %q: must be a positive number of words per minute", ErrInvalidRate, e.Raw)
	}
	return fmt.Sprintf("%v %v: must be a positive number of words per minute", ErrInvalidRate, e.Value)
}

func (e *InvalidRateError) Unwrap() error {
	return ErrInvalidRate
}

// ValidateRate returns an *InvalidRateError unless rate is positive and finite.
func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return &InvalidRateError{Value: rate}
	}
	return nil
}

// ParseRate converts untrusted input such as a form field into a validated rate.
func ParseRate(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	rate, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &InvalidRateError{Raw: raw}
	}
	if err := ValidateRate(rate); err != nil {
		return 0, &InvalidRateError{Value: rate, Raw: raw}
	}
	return rate, nil
}

// CountWords returns the number of whitespace-separated words in content.
// Blank content has zero words.
func CountWords(content string) int {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return 0
	}
	return len(strings.Fields(trimmed))
}

// Estimate returns the minutes needed to read content at rate words per
// minute, rounded up. Blank content takes 0 minutes.
func Estimate(content string, rate float64) (int, error) {
	if err := ValidateRate(rate); err != nil {
		return 0, err
	}
	return Minutes(CountWords(content), rate), nil
}

// Minutes converts a word count to whole minutes at a rate already checked
// by ValidateRate.
func Minutes(words int, rate float64) int {
	if words <= 0 {
		return 0
	}
	m := math.Ceil(float64(words) / rate)
	if m >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(m)
}
