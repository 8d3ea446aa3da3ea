package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hgvskit/hgvskit/internal/consequence"
	"github.com/hgvskit/hgvskit/internal/hgvsgrammar"
	"github.com/hgvskit/hgvskit/internal/txmap"
	"github.com/hgvskit/hgvskit/internal/variant"
)

// newProjectCmd projects a coding-DNA (c.) HGVS variant onto its protein
// consequence, the same CToN->consequence.Project pipeline
// internal/equivalence.compareCrossType uses internally to cross-compare a
// nucleotide variant against a protein one, exposed here as a standalone
// operation.
func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project <hgvs-variant>",
		Short: "Project a coding-DNA HGVS variant onto its predicted protein consequence",
		Example: `  hgvskit project NM_000546.6:c.215C>G
  hgvskit project --assembly GRCh37 NM_007294.4:c.5095_5096del`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(args[0])
		},
	}
	return cmd
}

func runProject(input string) error {
	v, err := hgvsgrammar.Parse(input)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", input, err)
	}
	if v.IsProtein() {
		return fmt.Errorf("%q is already a protein-flavour variant, nothing to project", input)
	}
	if v.Kind != variant.Coding {
		return fmt.Errorf("project requires a coding (c.) variant, got kind %q", v.Kind.String())
	}

	provider, err := openProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	tx, err := provider.GetTranscript(v.Accession, "")
	if err != nil {
		return fmt.Errorf("fetching transcript %s: %w", v.Accession, err)
	}
	txSeq, err := provider.GetSeq(tx.Accession, 0, -1, variant.SeqTranscript)
	if err != nil {
		return fmt.Errorf("fetching transcript sequence: %w", err)
	}

	m := txmap.New(tx)
	startN, err := m.CToN(v.NucPos.Start)
	if err != nil {
		return fmt.Errorf("resolving start position: %w", err)
	}
	endN := startN
	if v.NucPos.HasEnd {
		endN, err = m.CToN(v.NucPos.End)
		if err != nil {
			return fmt.Errorf("resolving end position: %w", err)
		}
	}

	res, err := consequence.Project(tx, txSeq, int64(startN), int64(endN), v.NucEdit, "")
	if err != nil {
		return fmt.Errorf("projecting consequence: %w", err)
	}

	projected := &variant.Variant{
		Accession: proteinAccessionFor(tx.Accession),
		Gene:      v.Gene,
		Kind:      variant.Protein,
		ProtPos:   res.Position,
		ProtEdit:  res.Edit,
		Predicted: true,
	}

	fmt.Println(hgvsgrammar.Format(projected))
	return nil
}

// proteinAccessionFor maps a transcript accession to its protein accession
// by Ensembl/RefSeq convention (ENST -> ENSP, NM_ -> NP_); internal/annotate's
// own mapping handles only the NM_ case.
func proteinAccessionFor(transcriptAccession string) string {
	switch {
	case len(transcriptAccession) >= 4 && transcriptAccession[:4] == "ENST":
		return "ENSP" + transcriptAccession[4:]
	case len(transcriptAccession) >= 3 && transcriptAccession[:3] == "NM_":
		return "NP_" + transcriptAccession[3:]
	default:
		return transcriptAccession
	}
}
