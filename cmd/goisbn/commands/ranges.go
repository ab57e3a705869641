package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rangesCmd)
}

var rangesCmd = &cobra.Command{
	Use:   "ranges [PREFIX...]",
	Short: "Show the range message in use, or the rules of registration groups",
	Long: `Without arguments, print the source, serial number and date of the range
message in use, leaving out header fields the message does not carry. With prefixes such as 978-0 or 97910, print the agency and
registrant ranges of each registration group.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			info := table.Info()
			fmt.Fprintf(out, "Source:  %s\n", info.Source)
			if info.SerialNumber != "" {
				fmt.Fprintf(out, "Serial:  %s\n", info.SerialNumber)
			}
			if info.Date != "" {
				fmt.Fprintf(out, "Date:    %s\n", info.Date)
			}
			fmt.Fprintf(out, "Groups:  %d\n", table.Len())
			return nil
		}

		for _, arg := range args {
			prefix := strings.ReplaceAll(arg, "-", "")
			rules, ok := table.Lookup(prefix)
			if !ok {
				return fmt.Errorf("unknown registration group %q", arg)
			}
			fmt.Fprintf(out, "%s  %s\n", prefix, table.Agency(prefix))
			if len(rules) == 0 {
				fmt.Fprintln(out, "  (no registrant ranges)")
			}
			for _, r := range rules {
				fmt.Fprintf(out, "  %0*d-%0*d  length %d\n", r.Length, r.Min, r.Length, r.Max, r.Length)
			}
		}
		return nil
	},
}
