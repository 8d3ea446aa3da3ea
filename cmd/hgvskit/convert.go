package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hgvskit/hgvskit/internal/cache"
)

// newConvertCmd ports the teacher's VEP Sereal-cache migration utility:
// it reads a VEP transcript cache (Sereal-encoded) and writes it into the
// DuckDB schema provider.Gencode expects, so older VEP caches can feed
// hgvskit without a GENCODE re-download.
func newConvertCmd() *cobra.Command {
	var species, assembly, chrom string

	cmd := &cobra.Command{
		Use:   "convert <vep-cache-dir> <output.duckdb>",
		Short: "Convert a VEP Sereal transcript cache into an hgvskit DuckDB cache",
		Example: `  hgvskit convert /data/vep_cache/homo_sapiens/110_GRCh38 grch38.duckdb
  hgvskit convert --chrom 17 /data/vep_cache/homo_sapiens/110_GRCh38 chr17.duckdb`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], args[1], species, assembly, chrom)
		},
	}

	cmd.Flags().StringVar(&species, "species", "homo_sapiens", "Species directory name inside the VEP cache")
	cmd.Flags().StringVar(&assembly, "assembly", "GRCh38", "Genome assembly recorded in the VEP cache")
	cmd.Flags().StringVar(&chrom, "chrom", "", "Restrict the conversion to a single chromosome")

	return cmd
}

func runConvert(cacheDir, outPath, species, assembly, chrom string) error {
	loader := cache.NewLoader(cacheDir, species, assembly)

	c := cache.New()
	var err error
	if chrom != "" {
		err = loader.LoadRegion(c, chrom, 0, -1)
	} else {
		err = loader.LoadAll(c)
	}
	if err != nil {
		return fmt.Errorf("loading VEP cache: %w", err)
	}

	fmt.Printf("Loaded %d transcripts across %d chromosomes from %s\n",
		c.TranscriptCount(), len(c.Chromosomes()), cacheDir)

	dbLoader, err := cache.NewDuckDBLoader(outPath)
	if err != nil {
		return fmt.Errorf("opening DuckDB output %s: %w", outPath, err)
	}
	defer dbLoader.Close()

	if err := dbLoader.CreateSchema(); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	count := 0
	for _, chromName := range c.Chromosomes() {
		for _, tx := range c.FindTranscriptsByChrom(chromName) {
			if err := dbLoader.InsertTranscript(tx); err != nil {
				return fmt.Errorf("inserting transcript %s: %w", tx.ID, err)
			}
			count++
		}
	}

	fmt.Printf("Wrote %d transcripts to %s\n", count, outPath)
	return nil
}
