package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jianyun8023/goisbn/isbn"
)

var (
	convertTo      int
	convertLenient bool
)

func init() {
	convertCmd.Flags().IntVar(&convertTo, "to", 13, "Target form: 10 or 13")
	convertCmd.Flags().BoolVar(&convertLenient, "lenient", false, "Do not verify the check digit of the input")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert ISBN...",
	Short: "Convert ISBNs between the 10 and 13 digit forms",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if convertTo != 10 && convertTo != 13 {
			return fmt.Errorf("--to must be 10 or 13, got %d", convertTo)
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, arg := range args {
			v, err := convert(arg)
			if err != nil {
				fmt.Fprintf(out, "[FAIL] %s: %v\n", arg, err)
				failed++
				continue
			}
			fmt.Fprintln(out, v)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d conversions failed", failed, len(args))
		}
		return nil
	},
}

func convert(input string) (string, error) {
	if convertLenient {
		if convertTo == 13 {
			return isbn.ToISBN13(input)
		}
		v, ok := isbn.ToISBN10(input)
		if !ok {
			return "", fmt.Errorf("no ISBN-10 form")
		}
		return v, nil
	}

	v, err := isbn.Parse(input)
	if err != nil {
		return "", err
	}
	if convertTo == 13 {
		return v.ISBN13(), nil
	}
	if !v.HasISBN10() {
		return "", fmt.Errorf("no ISBN-10 form for %s", v.ISBN13())
	}
	return v.ISBN10(), nil
}
