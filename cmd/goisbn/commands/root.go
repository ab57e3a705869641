package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jianyun8023/goisbn/internal/config"
	"github.com/jianyun8023/goisbn/isbn"
)

var (
	configPath string
	rangesPath string
	verbose    bool

	// set up by loadState before any subcommand runs
	cfg    config.Config
	table  *isbn.RangeTable
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <user config dir>/goisbn/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rangesPath, "ranges", "", "RangeMessage.xml to use instead of the bundled ranges")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:   "goisbn",
	Short: "goisbn validates, converts and formats ISBNs",
	Long: `goisbn parses ISBN-10 and ISBN-13 numbers, verifies their check digits,
converts between both forms and hyphenates them using the registrant ranges
of the International ISBN Agency.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadState,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadState configures logging, reads the config file and builds the range
// table shared by all subcommands.
func loadState(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	path, optional := configPath, false
	if path == "" {
		path, optional = config.DefaultPath(), true
	}
	c, err := config.Load(path, optional)
	if err != nil {
		return err
	}
	cfg = c
	logger.Debug("config loaded", "path", path, "separator", cfg.Separator, "workers", cfg.Workers)

	src := rangesPath
	if src == "" {
		src = cfg.Ranges
	}
	if src == "" {
		table, err = isbn.DefaultRangeTable()
		if err != nil {
			return err
		}
		logRangeInfo("bundled", table)
		return nil
	}

	msg, err := isbn.LoadRangeMessage(src)
	if err != nil {
		return err
	}
	table, err = isbn.NewRangeTable(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	logRangeInfo(src, table)
	return nil
}

func logRangeInfo(src string, t *isbn.RangeTable) {
	info := t.Info()
	logger.Debug("range table ready",
		"source", src,
		"message_source", info.Source,
		"serial", info.SerialNumber,
		"date", info.Date,
		"groups", t.Len())
}

// newFormatter returns a formatter over the active range table.
func newFormatter(sep string) *isbn.Formatter {
	return &isbn.Formatter{Separator: sep, Table: table}
}
