package equivalence

import (
	"reflect"

	"github.com/hgvskit/hgvskit/internal/consequence"
	"github.com/hgvskit/hgvskit/internal/txmap"
	"github.com/hgvskit/hgvskit/internal/variant"
)

// Compare runs the full semantic-equivalence pipeline (spec.md §4.E) on a
// candidate pair of variants: gene-symbol expansion, strict identity,
// implicit-sequence fill, 3'-shift normalization, Ins<->Dup rewrite,
// cross-coordinate projection, and sparse-reference reconciliation.
func Compare(v1, v2 *variant.Variant, provider variant.DataProvider) (Level, error) {
	if provider.GetIdentifierType(v1.Accession) == variant.GeneSymbol {
		return compareSymbolExpansion(v1, v2, provider)
	}
	if provider.GetIdentifierType(v2.Accession) == variant.GeneSymbol {
		return compareSymbolExpansion(v2, v1, provider)
	}
	return compareResolved(v1, v2, provider)
}

// compareSymbolExpansion implements spec.md §4.E step 1: symbolic expands
// to every accession of the target's coordinate flavour and reports the
// best outcome across candidates.
func compareSymbolExpansion(symbolic, other *variant.Variant, provider variant.DataProvider) (Level, error) {
	targetType := variant.TranscriptAccession
	if other.Kind == variant.Protein {
		targetType = variant.ProteinAccession
	} else if other.Kind == variant.Genomic || other.Kind == variant.Mitochondrial {
		targetType = variant.GenomicAccession
	}

	candidates, err := provider.GetSymbolAccessions(symbolic.Accession, variant.GeneSymbol, targetType)
	if err != nil {
		return Unknown, err
	}
	if len(candidates) == 0 {
		return Different, nil
	}

	result := Different
	var lastErr error
	for _, c := range candidates {
		clone := symbolic.Clone()
		clone.Accession = c.Accession
		level, err := compareResolved(clone, other, provider)
		if err != nil {
			lastErr = err
			continue
		}
		result = best(result, level)
		if result == Identity {
			return Identity, nil
		}
	}
	if result == Different && lastErr != nil {
		return Unknown, lastErr
	}
	return result, nil
}

func compareResolved(v1, v2 *variant.Variant, provider variant.DataProvider) (Level, error) {
	if v1.Kind == variant.Protein && v2.Kind == variant.Protein {
		return compareProtein(v1, v2, provider)
	}
	if v1.Kind != variant.Protein && v2.Kind != variant.Protein {
		return compareNucleotideKinds(v1, v2, provider)
	}
	// One nucleotide, one protein: project the nucleotide side through the
	// protein-consequence engine and compare in protein space.
	nuc, prot := v1, v2
	if prot.Kind != variant.Protein {
		nuc, prot = v2, v1
	}
	return compareCrossType(nuc, prot, provider)
}

func compareNucleotideKinds(v1, v2 *variant.Variant, provider variant.DataProvider) (Level, error) {
	if v1.Kind != v2.Kind {
		lifted1, err := liftToGenomic(v1, provider)
		if err != nil {
			return Unknown, err
		}
		lifted2, err := liftToGenomic(v2, provider)
		if err != nil {
			return Unknown, err
		}
		return compareNucleotide(lifted1, lifted2, provider)
	}
	return compareNucleotide(v1, v2, provider)
}

// liftToGenomic resolves a coding/non-coding/rna variant's CDS-anchored
// position to genomic coordinates via the provider's CToG bridge, so two
// variants expressed in different coordinate systems can be compared on
// common ground (spec.md §4.E step 6).
func liftToGenomic(v *variant.Variant, provider variant.DataProvider) (*variant.Variant, error) {
	if v.Kind == variant.Genomic || v.Kind == variant.Mitochondrial {
		return v, nil
	}
	accession, startG, err := provider.CToG(v.Accession, v.NucPos.Start, 0)
	if err != nil {
		return nil, err
	}
	clone := v.Clone()
	clone.Accession = accession
	clone.Kind = variant.Genomic
	start := variant.BaseOffsetPosition{Base: int64(startG)}
	if v.NucPos.HasEnd {
		_, endG, err := provider.CToG(v.Accession, v.NucPos.End, 0)
		if err != nil {
			return nil, err
		}
		clone.NucPos = variant.Span(start, variant.BaseOffsetPosition{Base: int64(endG)})
	} else {
		clone.NucPos = variant.Point(start)
	}
	return clone, nil
}

// compareCrossType implements spec.md §4.E's c_to_p cross-coordinate
// projection. Identity additionally requires the predicted flag to match
// (the spec's "predicted notation is retained" rule); a projection that
// matches structurally but differs only in the predicted wrapper is
// Analogous, not Identity.
func compareCrossType(nuc, prot *variant.Variant, provider variant.DataProvider) (Level, error) {
	projected, err := projectToProtein(nuc, provider)
	if err != nil {
		return Unknown, err
	}
	if projected.ProtPos == prot.ProtPos && proteinEditsEqual(projected.ProtEdit, prot.ProtEdit) {
		if projected.Predicted == prot.Predicted {
			return Identity, nil
		}
		return Analogous, nil
	}
	return compareProtein(projected, prot, provider)
}

func projectToProtein(v *variant.Variant, provider variant.DataProvider) (*variant.Variant, error) {
	tx, err := provider.GetTranscript(v.Accession, "")
	if err != nil {
		return nil, err
	}
	txSeq, err := provider.GetSeq(tx.Accession, 0, -1, variant.SeqTranscript)
	if err != nil {
		return nil, err
	}
	m := txmap.New(tx)
	startN, err := m.CToN(v.NucPos.Start)
	if err != nil {
		return nil, err
	}
	endN := startN
	if v.NucPos.HasEnd {
		endN, err = m.CToN(v.NucPos.End)
		if err != nil {
			return nil, err
		}
	}
	res, err := consequence.Project(tx, txSeq, int64(startN), int64(endN), v.NucEdit, "")
	if err != nil {
		return nil, err
	}
	return &variant.Variant{
		Accession: tx.Accession,
		Kind:      variant.Protein,
		ProtPos:   res.Position,
		ProtEdit:  res.Edit,
		Predicted: true,
	}, nil
}

// compareNucleotide compares two same-flavour nucleotide variants after
// filling implicit reference, 3'-shift normalizing, and rewriting
// insertions to duplications where applicable. A normalized position
// mismatch is reported Different directly: the sparse-projection
// reconciliation step exists to resolve incomplete-reference ambiguity at
// matching positions, not to paper over genuinely different loci.
func compareNucleotide(v1, v2 *variant.Variant, provider variant.DataProvider) (Level, error) {
	// Strict identity is judged on the raw, pre-normalization representation:
	// two variants that only agree *after* 3'-shift/Ins<->Dup normalization
	// describe the same change via different surface notations, which is
	// exactly what Analogous means.
	if v1.Accession == v2.Accession && v1.NucPos == v2.NucPos && editsEqual(v1.NucEdit, v2.NucEdit) {
		return Identity, nil
	}

	fetch1 := fetcher(provider, v1.Accession, nucSeqKind(v1.Kind))
	fetch2 := fetcher(provider, v2.Accession, nucSeqKind(v2.Kind))

	s1, e1 := positionBounds(v1.NucPos, v1.NucEdit, fetch1)
	ns1, ne1, edit1, err := Normalize(s1, e1, v1.NucEdit, fetch1)
	if err != nil {
		return Unknown, err
	}
	s2, e2 := positionBounds(v2.NucPos, v2.NucEdit, fetch2)
	ns2, ne2, edit2, err := Normalize(s2, e2, v2.NucEdit, fetch2)
	if err != nil {
		return Unknown, err
	}

	if ns1 != ns2 || ne1 != ne2 {
		return Different, nil
	}
	if v1.Accession == v2.Accession && editsEqual(edit1, edit2) {
		return Analogous, nil
	}

	ref1 := variant.NewSparseRef()
	ref2 := variant.NewSparseRef()
	tok1, err := BuildProjection(ref1, ns1, ne1, ns1, ne1, edit1, fetch1)
	if err != nil {
		return Unknown, err
	}
	tok2, err := BuildProjection(ref2, ns2, ne2, ns2, ne2, edit2, fetch2)
	if err != nil {
		return Unknown, err
	}
	if Unify(tok1, tok2) {
		return Analogous, nil
	}
	return Different, nil
}

func compareProtein(v1, v2 *variant.Variant, provider variant.DataProvider) (Level, error) {
	if v1.Accession == v2.Accession && v1.ProtPos == v2.ProtPos && proteinEditsEqual(v1.ProtEdit, v2.ProtEdit) {
		if v1.Predicted == v2.Predicted {
			return Identity, nil
		}
		return Analogous, nil
	}

	fetch1 := fetcher(provider, v1.Accession, variant.SeqProtein)
	fetch2 := fetcher(provider, v2.Accession, variant.SeqProtein)

	s1, e1 := protEditBounds(v1.ProtPos, v1.ProtEdit)
	s2, e2 := protEditBounds(v2.ProtPos, v2.ProtEdit)
	viewStart := minInt64(s1, s2)
	viewEnd := maxInt64(e1, e2)

	ref1 := variant.NewSparseRef()
	ref2 := variant.NewSparseRef()
	tok1, err := BuildProteinProjection(ref1, viewStart, viewEnd, s1, e1, v1.ProtEdit, fetch1)
	if err != nil {
		return Unknown, err
	}
	tok2, err := BuildProteinProjection(ref2, viewStart, viewEnd, s2, e2, v2.ProtEdit, fetch2)
	if err != nil {
		return Unknown, err
	}
	if Unify(tok1, tok2) {
		return Analogous, nil
	}
	return Different, nil
}

func fetcher(provider variant.DataProvider, accession string, kind variant.SeqKind) variant.RefFetcher {
	return func(start, end int64) (string, error) {
		return provider.GetSeq(accession, start, end, kind)
	}
}

func nucSeqKind(k variant.Kind) variant.SeqKind {
	if k == variant.Genomic || k == variant.Mitochondrial {
		return variant.SeqGenomic
	}
	return variant.SeqTranscript
}

// positionBounds reads a nucleotide position's raw Base field as a flat
// integer [start,end) coordinate, ignoring Anchor/Offset: by the time a
// variant reaches the equivalence engine's nucleotide comparison path its
// position has already been resolved to an exonic, zero-offset coordinate
// (either genomic, via liftToGenomic, or transcript-relative with the
// caller having already resolved any CDS anchor/intronic offset through
// internal/txmap).
//
// Ins is the one edit kind whose position names a zero-width flanking gap
// rather than an asserted span of existing bases (mirroring the nucleotide
// HGVS a_(a+1)ins convention), so it alone keeps a point position
// zero-width instead of widening it to a single base.
//
// Repeat is the other exception: its position anchors the start of a
// tandem run, and Min/Max describe a target copy count rather than the
// run's actual extent in the reference, so its end comes from scanning
// forward through fetch rather than from pos.End/a single-base widening.
func positionBounds(pos variant.NucleotidePosition, edit variant.NucleotideEdit, fetch variant.RefFetcher) (int64, int64) {
	if _, ok := edit.(variant.Ins); ok {
		return pos.Start.Base, pos.Start.Base
	}
	start := pos.Start.Base
	if r, ok := edit.(variant.Repeat); ok && r.Unit != "" {
		if end := variant.ResolveRepeatSpan(start, r.Unit, fetch); end > start {
			return start, end
		}
	}
	if pos.HasEnd {
		return start, pos.End.Base
	}
	return start, start + 1
}

// protEditBounds returns the [editStart,editEnd) span a protein edit
// actually replaces. Every kind but PIns asserts a span of existing
// residues; PIns's position names the two flanking residues it sits
// between (mirroring the nucleotide Ins convention), so its own replaced
// span is zero-width at the end flank, leaving the start flank to surface
// as ordinary head context in the token projection.
func protEditBounds(pos variant.ProteinPosition, edit variant.ProteinEdit) (int64, int64) {
	if _, ok := edit.(variant.PIns); ok {
		if pos.HasEnd {
			return int64(pos.End), int64(pos.End)
		}
		return int64(pos.Start), int64(pos.Start)
	}
	start := int64(pos.Start)
	end := start + 1
	if pos.HasEnd {
		end = int64(pos.End) + 1
	}
	return start, end
}

func editsEqual(a, b variant.NucleotideEdit) bool {
	return reflect.DeepEqual(a, b)
}

func proteinEditsEqual(a, b variant.ProteinEdit) bool {
	return reflect.DeepEqual(a, b)
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
