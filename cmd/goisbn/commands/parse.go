package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jianyun8023/goisbn/isbn"
)

var parseJSON bool

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "Output results in JSON format")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse ISBN...",
	Short: "Parse ISBNs and show both forms, the URN and the hyphenated form",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := make([]ParseResult, 0, len(args))
		failed := 0
		for _, arg := range args {
			r := parseOne(arg)
			if r.Error != "" {
				failed++
			}
			results = append(results, r)
		}

		out := cmd.OutOrStdout()
		if parseJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return fmt.Errorf("failed to encode JSON: %w", err)
			}
		} else {
			for i, r := range results {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printParseResult(cmd, r)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d inputs are not valid ISBNs", failed, len(args))
		}
		return nil
	},
}

// ParseResult is the JSON form of a parsed ISBN.
type ParseResult struct {
	Input     string `json:"input"`
	ISBN13    string `json:"isbn13,omitempty"`
	ISBN10    string `json:"isbn10,omitempty"`
	URN       string `json:"urn,omitempty"`
	Formatted string `json:"formatted,omitempty"`
	Error     string `json:"error,omitempty"`
}

func parseOne(input string) ParseResult {
	r := ParseResult{Input: input}
	v, err := isbn.Parse(input)
	if err != nil {
		logger.Debug("parse failed", "input", input, "err", err)
		r.Error = err.Error()
		return r
	}
	r.ISBN13 = v.ISBN13()
	r.ISBN10 = v.ISBN10()
	r.URN = v.URN()
	if formatted, err := newFormatter(isbn.HyphenSeparator).Format(v.ISBN13()); err == nil {
		r.Formatted = formatted
	}
	return r
}

func printParseResult(cmd *cobra.Command, r ParseResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Input:     %s\n", r.Input)
	if r.Error != "" {
		fmt.Fprintf(out, "Error:     %s\n", r.Error)
		return
	}
	fmt.Fprintf(out, "ISBN-13:   %s\n", r.ISBN13)
	if r.ISBN10 != "" {
		fmt.Fprintf(out, "ISBN-10:   %s\n", r.ISBN10)
	} else {
		fmt.Fprintf(out, "ISBN-10:   (none)\n")
	}
	fmt.Fprintf(out, "URN:       %s\n", r.URN)
	fmt.Fprintf(out, "Formatted: %s\n", r.Formatted)
}
