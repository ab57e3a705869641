package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jianyun8023/goisbn/epub"
	"github.com/jianyun8023/goisbn/isbn"
)

var auditWorkers int

func init() {
	auditCmd.Flags().IntVarP(&auditWorkers, "workers", "w", 0, "Number of files read concurrently (default from config)")
	rootCmd.AddCommand(auditCmd)
}

var auditCmd = &cobra.Command{
	Use:   "audit [directory]",
	Short: "Scan EPUBs and validate the ISBNs they declare (read-only)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}
		workers := auditWorkers
		if workers <= 0 {
			workers = cfg.Workers
		}
		return runAudit(cmd, path, workers)
	},
}

// fileReport is the outcome of auditing one EPUB.
type fileReport struct {
	path    string
	err     error
	valid   []isbn.ISBN
	invalid map[string]error
	order   []string
}

func runAudit(cmd *cobra.Command, root string, workers int) error {
	files, err := epub.Find(root)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", root, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning %d files...\n", len(files))

	reports := make([]fileReport, len(files))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = auditFile(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed, missing, valid, invalid int
	for _, r := range reports {
		switch {
		case r.err != nil:
			fmt.Fprintf(out, "[FAIL] %s: %v\n", r.path, r.err)
			failed++
			continue
		case len(r.order) == 0:
			fmt.Fprintf(out, "[WARN] %s: No ISBN\n", r.path)
			missing++
			continue
		}
		for _, v := range r.valid {
			fmt.Fprintf(out, "[OK]   %s: %s\n", r.path, v.ISBN13())
		}
		for _, s := range r.order {
			if err, bad := r.invalid[s]; bad {
				fmt.Fprintf(out, "[BAD]  %s: %v\n", r.path, err)
			}
		}
		valid += len(r.valid)
		invalid += len(r.invalid)
	}

	fmt.Fprintf(out, "Scan complete. Files: %d, Valid ISBNs: %d, Invalid ISBNs: %d, Without ISBN: %d, Failed: %d\n",
		len(files), valid, invalid, missing, failed)
	return nil
}

func auditFile(path string) fileReport {
	r := fileReport{path: path, invalid: make(map[string]error)}
	book, err := epub.ReadIdentifiers(path)
	if err != nil {
		r.err = err
		return r
	}

	r.order = book.ISBNs()
	for _, s := range r.order {
		v, err := isbn.Parse(s)
		if err != nil {
			r.invalid[s] = err
			continue
		}
		r.valid = append(r.valid, v)
	}
	logger.Debug("audited", "path", path, "title", book.Title, "isbns", len(r.order), "invalid", len(r.invalid))
	return r
}
