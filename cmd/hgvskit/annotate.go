package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hgvskit/hgvskit/internal/annotate"
	"github.com/hgvskit/hgvskit/internal/maf"
	"github.com/hgvskit/hgvskit/internal/output"
	"github.com/hgvskit/hgvskit/internal/vcf"
)

// newAnnotateCmd annotates VCF/MAF variants against a GENCODE reference
// using the full txmap/consequence/hgvsgrammar engine behind
// internal/annotate.Annotator.
func newAnnotateCmd() *cobra.Command {
	var inputFormat, outputPath string
	var canonicalOnly, compareMode, compareAll bool

	cmd := &cobra.Command{
		Use:   "annotate <input.vcf|input.maf>",
		Short: "Annotate variants in a VCF or MAF file with consequence predictions",
		Example: `  hgvskit annotate variants.vcf
  hgvskit annotate --canonical-only calls.maf
  hgvskit annotate --compare data_mutations.maf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(args[0], inputFormat, outputPath, canonicalOnly, compareMode, compareAll)
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: vcf or maf (default: auto-detect)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&canonicalOnly, "canonical-only", false, "Only annotate against the canonical transcript per gene")
	cmd.Flags().BoolVar(&compareMode, "compare", false, "Compare MAF-embedded annotations against hgvskit predictions instead of emitting a tab report")
	cmd.Flags().BoolVar(&compareAll, "compare-all", false, "With --compare, print every row instead of only mismatches")

	return cmd
}

func runAnnotate(inputPath, inputFormat, outputPath string, canonicalOnly, compareMode, compareAll bool) error {
	format := inputFormat
	if format == "" {
		format = detectInputFormat(inputPath)
	}

	var parser vcf.VariantParser
	var mafParser *maf.Parser
	var err error

	switch format {
	case "maf":
		mafParser, err = maf.NewParser(inputPath)
		parser = mafParser
	case "vcf":
		parser, err = vcf.NewParser(inputPath)
	default:
		return fmt.Errorf("unknown input format %q (use --input-format vcf|maf)", format)
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer parser.Close()

	provider, err := openProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	ann := annotate.NewAnnotator(provider)
	ann.SetCanonicalOnly(canonicalOnly)
	ann.SetWarnings(os.Stderr)
	ann.SetLogger(logger)

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if compareMode {
		if format != "maf" || mafParser == nil {
			return fmt.Errorf("--compare requires MAF input")
		}
		return runAnnotateCompare(mafParser, ann, out, compareAll)
	}

	writer := output.NewTabWriter(out)
	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := ann.AnnotateAll(parser, writer); err != nil {
		return fmt.Errorf("annotating: %w", err)
	}
	return nil
}

func runAnnotateCompare(parser *maf.Parser, ann *annotate.Annotator, out *os.File, showAll bool) error {
	columns := map[string]bool{"consequence": true, "hgvsp": true, "hgvsc": true}
	cw := output.NewCompareWriter(out, columns, showAll)

	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for {
		v, mafAnn, err := parser.NextWithAnnotation()
		if err != nil {
			return fmt.Errorf("reading variant: %w", err)
		}
		if v == nil {
			break
		}

		anns, err := ann.Annotate(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to annotate %s:%d: %v\n", v.Chrom, v.Pos, err)
			continue
		}

		if err := cw.WriteComparison(v, mafAnn, anns); err != nil {
			return fmt.Errorf("writing comparison: %w", err)
		}
	}

	if err := cw.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	cw.WriteSummary(os.Stderr)
	return nil
}

// detectInputFormat sniffs the input format from its extension (gzip-aware)
// and cBioPortal MAF filenames, falling back to VCF.
func detectInputFormat(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".gz") {
		lower = lower[:len(lower)-3]
	}
	if strings.HasSuffix(lower, ".vcf") {
		return "vcf"
	}
	if strings.HasSuffix(lower, ".maf") {
		return "maf"
	}
	base := lower
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if base == "data_mutations.txt" || base == "data_mutations_extended.txt" {
		return "maf"
	}
	return "vcf"
}
