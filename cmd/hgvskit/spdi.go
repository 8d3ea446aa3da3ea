package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hgvskit/hgvskit/internal/equivalence"
	"github.com/hgvskit/hgvskit/internal/hgvsgrammar"
	"github.com/hgvskit/hgvskit/internal/variant"
	"github.com/hgvskit/hgvskit/internal/vconfig"
)

// newSPDICmd converts an HGVS variant to its canonical SPDI form, lifting
// coding/non-coding variants to genomic coordinates via CToG first (the
// same lift internal/equivalence.liftToGenomic performs before comparing
// across flavours). Under the three_prime (or unset) shift policy the
// variant is 3'-normalized before SPDI is emitted; under any other policy
// it is converted as written, neither left-shifted nor expanded to an
// unambiguous window.
func newSPDICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spdi <hgvs-variant>",
		Short: "Convert an HGVS variant to canonical SPDI notation",
		Example: `  hgvskit spdi NC_000017.11:g.43106487G>A
  hgvskit spdi NM_000546.6:c.215C>G`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSPDI(args[0])
		},
	}
	return cmd
}

func runSPDI(input string) error {
	v, err := hgvsgrammar.Parse(input)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", input, err)
	}
	if v.IsProtein() {
		return fmt.Errorf("SPDI is a nucleotide notation; %q is protein-flavour", input)
	}

	provider, err := openProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	cfg, err := vconfig.Load(flagConfigPath)
	if err != nil {
		return err
	}

	accession := v.Accession
	start := v.NucPos.Start
	end := v.NucPos.Start
	if v.NucPos.HasEnd {
		end = v.NucPos.End
	}

	if v.Kind != variant.Genomic && v.Kind != variant.Mitochondrial {
		accession, start, err = liftPosition(provider, v.Accession, start)
		if err != nil {
			return fmt.Errorf("lifting start to genomic: %w", err)
		}
		if v.NucPos.HasEnd {
			_, end, err = liftPosition(provider, v.Accession, end)
			if err != nil {
				return fmt.Errorf("lifting end to genomic: %w", err)
			}
		} else {
			end = start
		}
	}

	fetch := func(s, e int64) (string, error) {
		return provider.GetSeq(accession, s, e, variant.SeqGenomic)
	}

	startBase, endBase := start.Base, end.Base
	if !v.NucPos.HasEnd {
		endBase = startBase + 1
	}

	normStart, normEnd, normEdit := startBase, endBase, v.NucEdit
	if cfg.Shift.Policy == vconfig.ShiftThreePrime || cfg.Shift.Policy == "" {
		normStart, normEnd, normEdit, err = equivalence.Normalize(startBase, endBase, v.NucEdit, fetch)
		if err != nil {
			return fmt.Errorf("normalizing: %w", err)
		}
	}

	spdi, err := variant.ToSPDI(accession, normStart, normEnd, normEdit, fetch)
	if err != nil {
		return fmt.Errorf("converting to SPDI: %w", err)
	}

	fmt.Printf("%s:%d:%s:%s\n", spdi.Accession, spdi.Position, spdi.Deleted, spdi.Inserted)
	return nil
}

// liftPosition resolves a single CDS-anchored position to its genomic
// accession and coordinate via the provider's CToG, mirroring
// internal/equivalence.liftToGenomic's per-endpoint lift.
func liftPosition(provider variant.DataProvider, accession string, pos variant.BaseOffsetPosition) (string, variant.BaseOffsetPosition, error) {
	genomicAccession, g, err := provider.CToG(accession, pos, 0)
	if err != nil {
		return "", variant.BaseOffsetPosition{}, err
	}
	return genomicAccession, variant.BaseOffsetPosition{Base: int64(g)}, nil
}
