package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jianyun8023/goisbn/isbn"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [ISBN...]",
	Short: "Check ISBNs, read one per line from stdin when no arguments are given",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := args
		if len(inputs) == 0 {
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				if line := strings.TrimSpace(sc.Text()); line != "" {
					inputs = append(inputs, line)
				}
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, input := range inputs {
			if _, err := isbn.Parse(input); err != nil {
				fmt.Fprintf(out, "[FAIL] %s: %v\n", input, err)
				failed++
				continue
			}
			fmt.Fprintf(out, "[OK]   %s\n", input)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d ISBNs failed validation", failed, len(inputs))
		}
		return nil
	},
}
