// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/readtime/internal/httputil"
	"github.com/pdiddy/readtime/internal/logger"
	"github.com/pdiddy/readtime/internal/parse"
	"github.com/pdiddy/readtime/internal/readtime"
	"github.com/pdiddy/readtime/pkg/types"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate [files...]",
	Short: "Estimate the reading time of text, files, stdin, or a URL",
	Long: `Estimate counts the words in each input and prints the reading time,
rounded up to whole minutes. Inputs come from --text, --url, and file
arguments; with none of these, content is read from stdin.

The content format is taken from --format, then the config file, then the
file extension or HTTP Content-Type, and defaults to plain text.`,
	RunE: runEstimate,
}

// estimateInput is one piece of content to estimate.
type estimateInput struct {
	source  string
	content string
	format  types.Format
}

// estimateOutput is the JSON form of one estimate.
type estimateOutput struct {
	Source string `json:"source,omitempty"`
	readtime.Result
}

func runEstimate(cmd *cobra.Command, args []string) error {
	rate, err := rateFromFlags(cmd)
	if err != nil {
		return err
	}
	calc, err := readtime.NewCalculator(rate)
	if err != nil {
		return err
	}

	forced, err := formatFromFlags(cmd)
	if err != nil {
		return err
	}

	inputs, err := gatherInputs(cmd, args)
	if err != nil {
		return err
	}

	outputs := make([]estimateOutput, 0, len(inputs))
	for _, in := range inputs {
		format := in.format
		if forced != "" {
			format = forced
		}
		result, err := calc.Calculate(in.content, format)
		if err != nil {
			if in.source != "" {
				return fmt.Errorf("%s: %w", in.source, err)
			}
			return err
		}
		logger.Global().Debug().
			Str("source", in.source).
			Str("format", string(format)).
			Int("words", result.Words).
			Msg("estimated")
		outputs = append(outputs, estimateOutput{Source: in.source, Result: result})
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatEstimateOutput(cmd.OutOrStdout(), outputs, jsonOutput)
}

func formatEstimateOutput(w io.Writer, outputs []estimateOutput, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outputs)
	}

	for _, o := range outputs {
		if o.Source != "" {
			fmt.Fprintf(w, "%s: ", o.Source)
		}
		fmt.Fprintf(w, "Estimated Reading Time: %d minutes\n", o.Minutes)
	}
	return nil
}

// rateFromFlags returns the --wpm value when given, validated as untrusted
// input, and the configured rate otherwise.
func rateFromFlags(cmd *cobra.Command) (float64, error) {
	if cmd.Flags().Changed("wpm") {
		raw, _ := cmd.Flags().GetString("wpm")
		return readtime.ParseRate(raw)
	}
	if err := readtime.ValidateRate(cfg.Estimate.Rate); err != nil {
		return 0, fmt.Errorf("config estimate.wpm: %w", err)
	}
	return cfg.Estimate.Rate, nil
}

// formatFromFlags returns the forced content format, or "" to detect it per input.
func formatFromFlags(cmd *cobra.Command) (types.Format, error) {
	raw, _ := cmd.Flags().GetString("format")
	if raw == "" {
		raw = string(cfg.Estimate.Format)
	}
	if raw == "" {
		return "", nil
	}
	return parse.ParseFormat(raw)
}

func gatherInputs(cmd *cobra.Command, args []string) ([]estimateInput, error) {
	var inputs []estimateInput

	if cmd.Flags().Changed("text") {
		text, _ := cmd.Flags().GetString("text")
		inputs = append(inputs, estimateInput{content: text, format: types.FormatPlain})
	}

	if url, _ := cmd.Flags().GetString("url"); url != "" {
		in, err := fetchInput(cmd.Context(), url)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		inputs = append(inputs, estimateInput{
			source:  path,
			content: string(data),
			format:  parse.DetectFormat(path),
		})
	}

	if len(inputs) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		inputs = append(inputs, estimateInput{content: string(data), format: types.FormatPlain})
	}

	return inputs, nil
}

func fetchInput(ctx context.Context, url string) (estimateInput, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	client := &http.Client{Timeout: cfg.HTTP.Timeout}
	body, format, err := httputil.FetchText(ctx, client, url, httputil.FetchOptions{
		UserAgent:  cfg.HTTP.UserAgent,
		MaxRetries: cfg.HTTP.MaxRetries,
		MaxBytes:   cfg.HTTP.MaxBytes,
	})
	if err != nil {
		return estimateInput{}, err
	}
	return estimateInput{source: url, content: body, format: format}, nil
}

func init() {
	estimateCmd.Flags().String("text", "", "text to estimate")
	estimateCmd.Flags().String("url", "", "fetch and estimate the document at this URL")
	estimateCmd.Flags().String("format", "", "content format: plain, html, or markdown (default: detect)")
	estimateCmd.Flags().String("wpm", "", "reading speed in words per minute (default 265)")
	estimateCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(estimateCmd)
}
