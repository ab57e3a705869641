package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jianyun8023/goisbn/isbn"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info ISBN...",
	Short: "Show the registration group, agency and elements of ISBNs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		f := newFormatter(isbn.HyphenSeparator)
		for i, arg := range args {
			if i > 0 {
				fmt.Fprintln(out)
			}
			p, err := f.Dissect(arg)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "ISBN:        %s\n", p)
			if p.Prefix != "" {
				fmt.Fprintf(out, "Prefix:      %s\n", p.Prefix)
			}
			if !p.Segmented {
				fmt.Fprintf(out, "Group:       (unknown)\n")
			} else {
				fmt.Fprintf(out, "Group:       %s (%s)\n", p.Group, p.Agency)
				fmt.Fprintf(out, "Registrant:  %s\n", p.Registrant)
			}
			fmt.Fprintf(out, "Publication: %s\n", p.Publication)
			fmt.Fprintf(out, "Check digit: %s\n", p.Check)

			status := "valid"
			if _, err := isbn.Parse(arg); err != nil {
				status = "invalid"
				if errors.Is(err, isbn.ErrBadCheckDigit) {
					status = "invalid check digit"
				}
			}
			fmt.Fprintf(out, "Status:      %s\n", status)
		}
		return nil
	},
}
