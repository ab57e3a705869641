package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jianyun8023/goisbn/isbn"
)

func init() {
	rootCmd.AddCommand(checkDigitCmd)
}

var checkDigitCmd = &cobra.Command{
	Use:   "check-digit INPUT...",
	Short: "Compute the check digit of ISBNs with or without their last digit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, arg := range args {
			digit, err := isbn.CalculateCheckDigit(arg)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t%s\n", arg, digit)
		}
		return nil
	},
}
