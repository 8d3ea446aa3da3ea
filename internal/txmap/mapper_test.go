package txmap

import (
	"testing"

	"github.com/hgvskit/hgvskit/internal/variant"
)

func forwardTranscript() *variant.Transcript {
	return &variant.Transcript{
		Accession:     "NM_FWD.1",
		Strand:        1,
		CDSStartIndex: 10,
		CDSEndIndex:   180,
		Exons: []variant.Exon{
			{TranscriptStart: 0, TranscriptEnd: 50, ReferenceStart: 1000, ReferenceEnd: 1050},
			{TranscriptStart: 50, TranscriptEnd: 150, ReferenceStart: 2000, ReferenceEnd: 2100},
			{TranscriptStart: 150, TranscriptEnd: 200, ReferenceStart: 3000, ReferenceEnd: 3050},
		},
	}
}

func reverseTranscript() *variant.Transcript {
	return &variant.Transcript{
		Accession:     "NM_REV.1",
		Strand:        -1,
		CDSStartIndex: 10,
		CDSEndIndex:   180,
		Exons: []variant.Exon{
			{TranscriptStart: 0, TranscriptEnd: 50, ReferenceStart: 3000, ReferenceEnd: 3050},
			{TranscriptStart: 50, TranscriptEnd: 150, ReferenceStart: 2000, ReferenceEnd: 2100},
			{TranscriptStart: 150, TranscriptEnd: 200, ReferenceStart: 1000, ReferenceEnd: 1050},
		},
	}
}

func TestGToNExonicForward(t *testing.T) {
	m := New(forwardTranscript())
	n, off, err := m.GToN(1005)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 || off != 0 {
		t.Fatalf("n=%d off=%d, want 5,0", n, off)
	}
}

func TestGToNNToGRoundTripExonicForward(t *testing.T) {
	m := New(forwardTranscript())
	n, off, err := m.GToN(2075)
	if err != nil {
		t.Fatal(err)
	}
	g, err := m.NToG(n, off)
	if err != nil {
		t.Fatal(err)
	}
	if g != 2075 {
		t.Fatalf("round trip got %d, want 2075", g)
	}
}

func TestGToNIntronicForwardNearerBefore(t *testing.T) {
	m := New(forwardTranscript())
	n, off, err := m.GToN(1060)
	if err != nil {
		t.Fatal(err)
	}
	if n != 49 || off != 11 {
		t.Fatalf("n=%d off=%d, want 49,+11", n, off)
	}
	g, err := m.NToG(n, off)
	if err != nil {
		t.Fatal(err)
	}
	if g != 1060 {
		t.Fatalf("round trip got %d, want 1060", g)
	}
}

func TestGToNIntronicForwardNearerAfter(t *testing.T) {
	m := New(forwardTranscript())
	n, off, err := m.GToN(1999)
	if err != nil {
		t.Fatal(err)
	}
	if n != 50 || off != -1 {
		t.Fatalf("n=%d off=%d, want 50,-1", n, off)
	}
	g, err := m.NToG(n, off)
	if err != nil {
		t.Fatal(err)
	}
	if g != 1999 {
		t.Fatalf("round trip got %d, want 1999", g)
	}
}

func TestGToNExonicReverse(t *testing.T) {
	m := New(reverseTranscript())
	n, off, err := m.GToN(3010)
	if err != nil {
		t.Fatal(err)
	}
	if n != 39 || off != 0 {
		t.Fatalf("n=%d off=%d, want 39,0", n, off)
	}
	g, err := m.NToG(n, off)
	if err != nil {
		t.Fatal(err)
	}
	if g != 3010 {
		t.Fatalf("round trip got %d, want 3010", g)
	}
}

func TestGToNIntronicReverseNearerAfter(t *testing.T) {
	// gi=2990 sits in the intron between exon1 (ref ends 2100) and exon0
	// (ref starts 3000); exon0 is nearer, and on reverse strand exon0 is
	// transcript-upstream of this intron's downstream edge.
	m := New(reverseTranscript())
	n, off, err := m.GToN(2990)
	if err != nil {
		t.Fatal(err)
	}
	if n != 49 || off != 10 {
		t.Fatalf("n=%d off=%d, want 49,+10", n, off)
	}
	g, err := m.NToG(n, off)
	if err != nil {
		t.Fatal(err)
	}
	if g != 2990 {
		t.Fatalf("round trip got %d, want 2990", g)
	}
}

func TestGToNIntronicReverseNearerBefore(t *testing.T) {
	m := New(reverseTranscript())
	n, off, err := m.GToN(2105)
	if err != nil {
		t.Fatal(err)
	}
	if n != 50 || off != -6 {
		t.Fatalf("n=%d off=%d, want 50,-6", n, off)
	}
	g, err := m.NToG(n, off)
	if err != nil {
		t.Fatal(err)
	}
	if g != 2105 {
		t.Fatalf("round trip got %d, want 2105", g)
	}
}

func TestCToNNToCRoundTripCDS(t *testing.T) {
	m := New(forwardTranscript())
	pos := variant.BaseOffsetPosition{Base: 6, Anchor: variant.CdsStart}
	n, err := m.CToN(pos)
	if err != nil {
		t.Fatal(err)
	}
	if n != 15 {
		t.Fatalf("n=%d, want 15", n)
	}
	back := m.NToC(n)
	if back != pos {
		t.Fatalf("got %+v, want %+v", back, pos)
	}
}

func TestCToNNToCRoundTripFivePrimeUTR(t *testing.T) {
	m := New(forwardTranscript())
	pos := variant.BaseOffsetPosition{Base: -5, Anchor: variant.CdsStart}
	n, err := m.CToN(pos)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("n=%d, want 5", n)
	}
	back := m.NToC(n)
	if back != pos {
		t.Fatalf("got %+v, want %+v", back, pos)
	}
}

func TestCToNNToCRoundTripThreePrimeUTR(t *testing.T) {
	m := New(forwardTranscript())
	pos := variant.BaseOffsetPosition{Base: 6, Anchor: variant.CdsEnd}
	n, err := m.CToN(pos)
	if err != nil {
		t.Fatal(err)
	}
	if n != 185 {
		t.Fatalf("n=%d, want 185", n)
	}
	back := m.NToC(n)
	if back != pos {
		t.Fatalf("got %+v, want %+v", back, pos)
	}
}

// TestCToGThenGToCIsIdentityOnExonicPositions exercises invariant 1 from
// spec.md §8: projecting a CDS position to genomic and back recovers the
// original position for any exonic base.
func TestCToGThenGToCIsIdentityOnExonicPositions(t *testing.T) {
	m := New(forwardTranscript())
	pos := variant.BaseOffsetPosition{Base: 6, Anchor: variant.CdsStart}
	g, err := m.ResolveToGenomic(pos)
	if err != nil {
		t.Fatal(err)
	}
	back, err := m.ResolveFromGenomic(g)
	if err != nil {
		t.Fatal(err)
	}
	if back != pos {
		t.Fatalf("got %+v, want %+v", back, pos)
	}
}

func TestResolveToGenomicNonCodingTranscriptErrors(t *testing.T) {
	tx := forwardTranscript()
	tx.CDSStartIndex, tx.CDSEndIndex = -1, -1
	m := New(tx)
	_, err := m.ResolveToGenomic(variant.BaseOffsetPosition{Base: 6, Anchor: variant.CdsStart})
	if err == nil {
		t.Fatal("expected error resolving a CDS-anchored position on a non-coding transcript")
	}
}

func TestRequireExonicRejectsIntronicPosition(t *testing.T) {
	if err := RequireExonic(variant.BaseOffsetPosition{Base: 88, Offset: 1}); err == nil {
		t.Fatal("expected error for intronic position")
	}
	if err := RequireExonic(variant.BaseOffsetPosition{Base: 88}); err != nil {
		t.Fatalf("unexpected error for exonic position: %v", err)
	}
}
