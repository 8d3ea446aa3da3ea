// Package variant defines the typed position, edit, and variant records
// shared by the coordinate algebra, the protein-consequence engine, and the
// semantic-equivalence engine, plus the SPDI serialisation surface and the
// DataProvider contract that bridges the core to reference sequences.
package variant

import "fmt"

// GenomicPos is a 0-based chromosomal position.
type GenomicPos int64

// TranscriptPos is a 0-based transcript-relative base: 0 is the first base
// of the transcript, whatever the numbering (c. positions are converted to
// it by adding the CDS start index).
type TranscriptPos int64

// ProteinPos is a 0-based residue index; 0 is Met1.
type ProteinPos int64

// IntronicOffset is a signed offset from the nearest exon edge. 0 means the
// position is exonic. The sign follows strand convention: positive moves
// toward the transcript's 3' end.
type IntronicOffset int64

// Anchor selects the origin of a BaseOffsetPosition.
type Anchor int

const (
	// TranscriptStart anchors to transcript position 0 (n./r. numbering).
	TranscriptStart Anchor = iota
	// CdsStart anchors to the CDS's first base; c.-1 is CdsStart with
	// Base -1.
	CdsStart
	// CdsEnd anchors to the base immediately after the CDS's last base;
	// c.*1 is CdsEnd with Base 1.
	CdsEnd
)

func (a Anchor) String() string {
	switch a {
	case TranscriptStart:
		return "TranscriptStart"
	case CdsStart:
		return "CdsStart"
	case CdsEnd:
		return "CdsEnd"
	default:
		return fmt.Sprintf("Anchor(%d)", int(a))
	}
}

// BaseOffsetPosition is a cDNA-style coordinate: a base counted from an
// anchor, optionally with a signed intronic offset when the position falls
// between exons.
type BaseOffsetPosition struct {
	Base   int64
	Offset IntronicOffset // 0 when exonic
	Anchor Anchor
}

// IsIntronic reports whether this position carries a nonzero intronic
// offset.
func (p BaseOffsetPosition) IsIntronic() bool { return p.Offset != 0 }

// String renders the position in HGVS-ish form, e.g. "76", "88+1", "-14",
// "*6-3".
func (p BaseOffsetPosition) String() string {
	var prefix string
	switch p.Anchor {
	case CdsEnd:
		prefix = "*"
	}
	s := fmt.Sprintf("%s%d", prefix, p.Base)
	if p.Offset > 0 {
		s += fmt.Sprintf("+%d", int64(p.Offset))
	} else if p.Offset < 0 {
		s += fmt.Sprintf("%d", int64(p.Offset))
	}
	return s
}

// Interval is a half-open [Start, End) span of some position type. End is
// optional for point positions (Start == End - 1 in the closed-HGVS sense,
// but the core always operates half-open internally).
type Interval[P any] struct {
	Start P
	End   P
	// HasEnd distinguishes a point position (single base) from a span; when
	// false, End is meaningless and Start designates the sole position.
	HasEnd bool
}

// Point constructs a single-position Interval.
func Point[P any](p P) Interval[P] { return Interval[P]{Start: p} }

// Span constructs a half-open [start,end) Interval.
func Span[P any](start, end P) Interval[P] {
	return Interval[P]{Start: start, End: end, HasEnd: true}
}
