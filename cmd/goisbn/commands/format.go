package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jianyun8023/goisbn/isbn"
)

// separatorValue is a pflag.Value accepting "hyphen", "space" or any literal
// separator string.
type separatorValue string

var _ pflag.Value = (*separatorValue)(nil)

func (s *separatorValue) String() string {
	switch string(*s) {
	case isbn.HyphenSeparator:
		return "hyphen"
	case isbn.SpaceSeparator:
		return "space"
	}
	return string(*s)
}

func (s *separatorValue) Set(v string) error {
	switch v {
	case "hyphen":
		*s = isbn.HyphenSeparator
	case "space":
		*s = isbn.SpaceSeparator
	case "":
		return fmt.Errorf("separator must not be empty")
	default:
		*s = separatorValue(v)
	}
	return nil
}

func (s *separatorValue) Type() string { return "separator" }

var formatSep = separatorValue(isbn.HyphenSeparator)

func init() {
	formatCmd.Flags().Var(&formatSep, "sep", `Group separator: "hyphen", "space" or a literal string (default from config)`)
	rootCmd.AddCommand(formatCmd)
}

var formatCmd = &cobra.Command{
	Use:   "format ISBN...",
	Short: "Hyphenate ISBNs using the registrant ranges",
	Long: `Split ISBNs into prefix, registration group, registrant, publication and
check digit. The check digit is not verified; input that is not shaped like
an ISBN is printed unchanged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sep := string(formatSep)
		if !cmd.Flags().Changed("sep") {
			sep = cfg.Separator
		}
		f := newFormatter(sep)

		out := cmd.OutOrStdout()
		for _, arg := range args {
			formatted, err := f.Format(arg)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatted)
		}
		return nil
	},
}
