package commands

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/jianyun8023/goisbn/isbn"
)

var (
	stressCount   int
	stressWorkers int
	stressSeed    uint64
)

func init() {
	stressCmd.Flags().IntVarP(&stressCount, "count", "n", 100000, "Number of generated ISBNs")
	stressCmd.Flags().IntVarP(&stressWorkers, "workers", "w", 0, "Number of workers (default from config)")
	stressCmd.Flags().Uint64Var(&stressSeed, "seed", 1, "Seed of the ISBN generator")
	rootCmd.AddCommand(stressCmd)
}

var stressCmd = &cobra.Command{
	Use:   "stress-test",
	Short: "Run stress test harness (parse/format round trip over generated ISBNs)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		workers := stressWorkers
		if workers <= 0 {
			workers = cfg.Workers
		}
		return runStressTest(cmd, stressCount, workers, stressSeed)
	},
}

func runStressTest(cmd *cobra.Command, count, workers int, seed uint64) error {
	inputs, err := generateISBNs(count, seed)
	if err != nil {
		return err
	}

	f := newFormatter(isbn.HyphenSeparator)
	jobs := make(chan string, len(inputs))
	results := make(chan error, len(inputs))

	var wg sync.WaitGroup

	start := time.Now()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range jobs {
				results <- runRoundTrip(f, s)
			}
		}()
	}

	for _, s := range inputs {
		jobs <- s
	}
	close(jobs)

	wg.Wait()
	close(results)

	passed := 0
	failed := 0
	for err := range results {
		if err == nil {
			passed++
		} else {
			failed++
			logger.Debug("round trip failed", "err", err)
		}
	}

	duration := time.Since(start)
	fmt.Fprintf(cmd.OutOrStdout(), "Processed %d ISBNs in %s. Passed: %d, Failed: %d\n", len(inputs), duration, passed, failed)
	if failed > 0 {
		return fmt.Errorf("%d round trips failed", failed)
	}
	return nil
}

// generateISBNs returns count valid ISBN-13s, half of them under 979.
func generateISBNs(count int, seed uint64) ([]string, error) {
	rng := rand.New(rand.NewPCG(seed, seed))
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		prefix := "978"
		if i%2 == 1 {
			prefix = "979"
		}
		body := fmt.Sprintf("%s%09d", prefix, rng.IntN(1_000_000_000))
		check, err := isbn.CalculateCheckDigit(body)
		if err != nil {
			return nil, err
		}
		out = append(out, body+check)
	}
	return out, nil
}

func runRoundTrip(f *isbn.Formatter, s string) error {
	// 1. Parse
	v, err := isbn.Parse(s)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	// 2. Format and parse the formatted form
	formatted, err := f.Format(s)
	if err != nil {
		return fmt.Errorf("format failed: %w", err)
	}
	again, err := isbn.Parse(formatted)
	if err != nil {
		return fmt.Errorf("re-parse of %s failed: %w", formatted, err)
	}
	if again != v {
		return fmt.Errorf("verification failed: %s != %s", again, v)
	}

	// 3. The ISBN-10 form must map back to the same number
	if v.HasISBN10() {
		back, err := isbn.ToISBN13(v.ISBN10())
		if err != nil || back != v.ISBN13() {
			return fmt.Errorf("verification failed: %s -> %s", v.ISBN10(), back)
		}
	}
	return nil
}
