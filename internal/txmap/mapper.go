// Package txmap implements the coordinate algebra over a transcript's
// exon model: translating positions between genomic, transcript, CDS, and
// (via the protein-consequence engine) protein coordinate systems.
package txmap

import (
	"github.com/hgvskit/hgvskit/internal/variant"
)

// Mapper is a piecewise-linear bijection between a transcript's
// transcript-relative coordinates [0, L) and the chromosomal reference
// space it was spliced from, parameterised by strand.
type Mapper struct {
	tx *variant.Transcript
}

// New constructs a Mapper over tx. tx.Exons must be ordered by
// TranscriptStart.
func New(tx *variant.Transcript) *Mapper {
	return &Mapper{tx: tx}
}

// Transcript returns the underlying transcript record.
func (m *Mapper) Transcript() *variant.Transcript { return m.tx }

// GToN locates a genomic position within the transcript, returning its
// transcript-relative base and an intronic offset (0 if exonic). The sign
// of the offset follows strand convention: positive moves toward the
// transcript's 3' end.
func (m *Mapper) GToN(g variant.GenomicPos) (variant.TranscriptPos, variant.IntronicOffset, error) {
	gi := int64(g)
	exons := m.tx.Exons

	// Exonic: find the exon whose reference span covers gi.
	for _, e := range exons {
		if gi >= e.ReferenceStart && gi < e.ReferenceEnd {
			if m.tx.Strand >= 0 {
				n := e.TranscriptStart + (gi - e.ReferenceStart)
				return variant.TranscriptPos(n), 0, nil
			}
			// Reverse strand: transcript coordinates run opposite to
			// genomic coordinates within the exon.
			n := e.TranscriptStart + (e.ReferenceEnd - 1 - gi)
			return variant.TranscriptPos(n), 0, nil
		}
	}

	// Intronic: locate the nearest exon edge and signed offset.
	return m.intronicGToN(gi)
}

func (m *Mapper) intronicGToN(gi int64) (variant.TranscriptPos, variant.IntronicOffset, error) {
	exons := m.tx.Exons
	if len(exons) == 0 {
		return 0, 0, variant.NewValidationError("transcript has no exons")
	}

	// Find the exon immediately before gi and the one immediately after, in
	// genomic order (exons are ordered by transcript order, which may be
	// reversed relative to genomic order on the minus strand).
	var beforeIdx, afterIdx int = -1, -1
	for i, e := range exons {
		if e.ReferenceEnd <= gi {
			if beforeIdx == -1 || exons[beforeIdx].ReferenceEnd < e.ReferenceEnd {
				beforeIdx = i
			}
		}
		if e.ReferenceStart > gi {
			if afterIdx == -1 || exons[afterIdx].ReferenceStart > e.ReferenceStart {
				afterIdx = i
			}
		}
	}
	if beforeIdx == -1 && afterIdx == -1 {
		return 0, 0, variant.NewValidationError("genomic position outside transcript bounds")
	}

	var distBefore, distAfter int64 = -1, -1
	if beforeIdx != -1 {
		distBefore = gi - exons[beforeIdx].ReferenceEnd + 1
	}
	if afterIdx != -1 {
		distAfter = exons[afterIdx].ReferenceStart - gi
	}

	useBefore := beforeIdx != -1 && (afterIdx == -1 || distBefore <= distAfter)

	if m.tx.Strand >= 0 {
		if useBefore {
			e := exons[beforeIdx]
			n := e.TranscriptEnd - 1
			return variant.TranscriptPos(n), variant.IntronicOffset(distBefore), nil
		}
		e := exons[afterIdx]
		n := e.TranscriptStart
		return variant.TranscriptPos(n), variant.IntronicOffset(-distAfter), nil
	}

	// Reverse strand: the exon with the higher genomic coordinate is
	// upstream in transcript order, so "before" genomically is downstream
	// transcript-wise and the offset sign flips.
	if useBefore {
		e := exons[beforeIdx]
		n := e.TranscriptStart
		return variant.TranscriptPos(n), variant.IntronicOffset(-distBefore), nil
	}
	e := exons[afterIdx]
	n := e.TranscriptEnd - 1
	return variant.TranscriptPos(n), variant.IntronicOffset(distAfter), nil
}

// NToG is the inverse of GToN: resolves a transcript-relative base plus
// intronic offset to a genomic position. A nonzero offset is only
// meaningful at an exon boundary (the convention GToN produces); it is
// resolved before the plain interior lookup so a boundary base with a
// nonzero offset is never mistaken for an interior position.
func (m *Mapper) NToG(n variant.TranscriptPos, offset variant.IntronicOffset) (variant.GenomicPos, error) {
	ni := int64(n)

	if offset != 0 {
		for _, e := range m.tx.Exons {
			if ni == e.TranscriptEnd-1 {
				if m.tx.Strand >= 0 {
					g := e.ReferenceEnd - 1 + int64(offset)
					return variant.GenomicPos(g), nil
				}
				g := e.ReferenceStart - int64(offset)
				return variant.GenomicPos(g), nil
			}
			if ni == e.TranscriptStart {
				if m.tx.Strand >= 0 {
					g := e.ReferenceStart + int64(offset)
					return variant.GenomicPos(g), nil
				}
				g := e.ReferenceEnd - 1 - int64(offset)
				return variant.GenomicPos(g), nil
			}
		}
		return 0, variant.NewValidationError("non-zero intronic offset at a non-boundary transcript position")
	}

	for _, e := range m.tx.Exons {
		if ni >= e.TranscriptStart && ni < e.TranscriptEnd {
			if m.tx.Strand >= 0 {
				g := e.ReferenceStart + (ni - e.TranscriptStart)
				return variant.GenomicPos(g), nil
			}
			g := e.ReferenceEnd - 1 - (ni - e.TranscriptStart)
			return variant.GenomicPos(g), nil
		}
	}

	return 0, variant.NewValidationError("transcript position not found on any exon")
}

// CToN resolves a CDS/stop-anchored position to a transcript-relative base.
// CdsStart adds tx.CDSStartIndex; CdsEnd adds tx.CDSEndIndex; c.-1 maps to
// CDSStartIndex-1; c.*1 maps to CDSEndIndex.
func (m *Mapper) CToN(pos variant.BaseOffsetPosition) (variant.TranscriptPos, error) {
	if !m.tx.IsCoding() {
		return 0, variant.NewValidationError("transcript has no CDS")
	}
	switch pos.Anchor {
	case variant.CdsStart:
		// c.1 is the first CDS base -> CDSStartIndex; c.-1 is the base
		// immediately before it. There is no c.0, so a positive Base counts
		// from 1 and a negative Base counts backward from -1.
		if pos.Base > 0 {
			n := m.tx.CDSStartIndex + pos.Base - 1
			return variant.TranscriptPos(n), nil
		}
		n := m.tx.CDSStartIndex + pos.Base
		return variant.TranscriptPos(n), nil
	case variant.CdsEnd:
		// c.*1 is the first 3'UTR base -> CDSEndIndex.
		n := m.tx.CDSEndIndex + pos.Base - 1
		return variant.TranscriptPos(n), nil
	case variant.TranscriptStart:
		return variant.TranscriptPos(pos.Base), nil
	default:
		return 0, variant.NewValidationError("unrecognised anchor")
	}
}

// NToC chooses the most natural anchor for a transcript-relative base:
// CdsStart within the CDS, CdsEnd in the 3'UTR, and negative CdsStart in the
// 5'UTR.
func (m *Mapper) NToC(n variant.TranscriptPos) variant.BaseOffsetPosition {
	ni := int64(n)
	if !m.tx.IsCoding() {
		return variant.BaseOffsetPosition{Base: ni + 1, Anchor: variant.TranscriptStart}
	}
	switch {
	case ni < m.tx.CDSStartIndex:
		return variant.BaseOffsetPosition{Base: ni - m.tx.CDSStartIndex, Anchor: variant.CdsStart}
	case ni < m.tx.CDSEndIndex:
		return variant.BaseOffsetPosition{Base: ni - m.tx.CDSStartIndex + 1, Anchor: variant.CdsStart}
	default:
		return variant.BaseOffsetPosition{Base: ni - m.tx.CDSEndIndex + 1, Anchor: variant.CdsEnd}
	}
}

// ResolveToGenomic resolves a full BaseOffsetPosition (anchor + offset)
// to a genomic position, composing CToN and NToG. It is an error
// (ValidationError) for the resolved transcript base to be intronic while
// offset is nonzero and n does not land on an exon boundary -- NToG already
// enforces that.
func (m *Mapper) ResolveToGenomic(pos variant.BaseOffsetPosition) (variant.GenomicPos, error) {
	n, err := m.CToN(pos)
	if err != nil {
		return 0, err
	}
	return m.NToG(n, pos.Offset)
}

// ResolveFromGenomic is the inverse: genomic position to the most natural
// CDS/transcript-anchored BaseOffsetPosition.
func (m *Mapper) ResolveFromGenomic(g variant.GenomicPos) (variant.BaseOffsetPosition, error) {
	n, offset, err := m.GToN(g)
	if err != nil {
		return variant.BaseOffsetPosition{}, err
	}
	bp := m.NToC(n)
	bp.Offset = offset
	return bp, nil
}

// RequireExonic returns an UnsupportedOperationError if pos carries a nonzero intronic
// offset -- used by any operation that requires base sequence (e.g.
// protein projection, per spec.md §4.B failure semantics).
func RequireExonic(pos variant.BaseOffsetPosition) error {
	if pos.IsIntronic() {
		return variant.NewUnsupportedError("intronic position cannot be projected to protein")
	}
	return nil
}
