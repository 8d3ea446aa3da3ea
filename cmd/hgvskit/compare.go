package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hgvskit/hgvskit/internal/batch"
	"github.com/hgvskit/hgvskit/internal/equivalence"
	"github.com/hgvskit/hgvskit/internal/hgvsgrammar"
)

// newCompareCmd wraps internal/equivalence.Compare, hgvskit's replacement
// for the teacher's MAF-vs-VEP validation mode: it answers whether two
// HGVS variants, possibly in different coordinate flavours, denote the
// same change.
func newCompareCmd() *cobra.Command {
	var batchFile string
	var workers int

	cmd := &cobra.Command{
		Use:   "compare <variant1> <variant2>",
		Short: "Compare two HGVS variants for semantic equivalence",
		Example: `  hgvskit compare NM_000546.6:c.215C>G NC_000017.11:g.7676154C>G
  hgvskit compare --batch pairs.tsv`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if batchFile != "" {
				if len(args) != 0 {
					return fmt.Errorf("--batch does not take positional variant arguments")
				}
				return runCompareBatch(batchFile, workers)
			}
			if len(args) != 2 {
				return fmt.Errorf("compare requires two variants, or --batch <file>")
			}
			return runCompare(args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&batchFile, "batch", "", "Tab-separated file of variant1\\tvariant2 pairs to compare in parallel")
	cmd.Flags().IntVar(&workers, "workers", 4, "Parallel worker count for --batch")

	return cmd
}

func runCompare(a, b string) error {
	v1, err := hgvsgrammar.Parse(a)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", a, err)
	}
	v2, err := hgvsgrammar.Parse(b)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", b, err)
	}

	provider, err := openProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	level, err := equivalence.Compare(v1, v2, provider)
	if err != nil {
		return fmt.Errorf("comparing: %w", err)
	}

	fmt.Println(level.String())
	return nil
}

type comparePair struct {
	a, b string
}

type compareOutcome struct {
	pair  comparePair
	level equivalence.Level
}

func runCompareBatch(path string, workers int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	provider, err := openProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	var pairs []comparePair
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			return fmt.Errorf("malformed line %q: expected 2 tab-separated columns", line)
		}
		pairs = append(pairs, comparePair{a: fields[0], b: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	jobs := make(chan batch.Job[comparePair], len(pairs))
	for i, p := range pairs {
		jobs <- batch.Job[comparePair]{Seq: i, Value: p}
	}
	close(jobs)

	fn := func(p comparePair) (compareOutcome, error) {
		v1, err := hgvsgrammar.Parse(p.a)
		if err != nil {
			return compareOutcome{}, fmt.Errorf("parsing %q: %w", p.a, err)
		}
		v2, err := hgvsgrammar.Parse(p.b)
		if err != nil {
			return compareOutcome{}, fmt.Errorf("parsing %q: %w", p.b, err)
		}
		level, err := equivalence.Compare(v1, v2, provider)
		if err != nil {
			return compareOutcome{}, err
		}
		return compareOutcome{pair: p, level: level}, nil
	}

	results := batch.Run(jobs, workers, fn)
	return batch.Collect(results, func(r batch.Result[comparePair, compareOutcome]) error {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s\t%s\terror: %v\n", r.Value.a, r.Value.b, r.Err)
			return nil
		}
		fmt.Printf("%s\t%s\t%s\n", r.Out.pair.a, r.Out.pair.b, r.Out.level.String())
		return nil
	})
}
