// Package cache loads a GENCODE annotation (GTF + transcript/genome FASTA,
// or a pre-converted DuckDB snapshot) into an in-memory transcript index,
// and resolves each transcript's genomic exon structure into
// internal/variant's coordinate-algebra contract as it goes, so that
// contract -- not a cache-internal struct -- is what the rest of hgvskit
// actually consumes.
package cache

import (
	"fmt"
	"sort"

	"github.com/hgvskit/hgvskit/internal/txmap"
	"github.com/hgvskit/hgvskit/internal/variant"
)

// Transcript represents a specific gene isoform as loaded from GENCODE, plus
// its resolved variant.Transcript (nil until ResolveVariant is called, which
// every loader does immediately after construction).
type Transcript struct {
	ID              string  // Transcript ID (e.g., ENST00000311936)
	GeneID          string  // Parent gene ID
	GeneName        string  // Parent gene symbol
	Chrom           string  // Chromosome
	Start           int64   // Transcript start (1-based)
	End             int64   // Transcript end (1-based, inclusive)
	Strand          int8    // +1 or -1
	Biotype         string  // Transcript biotype
	IsCanonical     bool    // Ensembl canonical flag
	IsMANESelect    bool    // MANE Select transcript
	Exons           []Exon  // Ordered exons, genomic 1-based (GTF's own convention)
	CDSStart        int64   // CDS start (genomic, 1-based), 0 if non-coding
	CDSEnd          int64   // CDS end (genomic, 1-based), 0 if non-coding
	CDSSequence     string  // Coding DNA sequence (loaded on demand)
	UTR3Sequence    string  // 3'UTR sequence immediately following CDSSequence (for stop scanning)
	ProteinSequence string  // Translated protein sequence (loaded on demand)

	// Variant is this transcript's 0-based, half-open, transcript-relative
	// coordinate-algebra contract (internal/variant/transcript.go), derived
	// from the genomic fields above by ResolveVariant. nil for a transcript
	// whose CDS/exon structure doesn't resolve (see ResolveVariant).
	Variant *variant.Transcript
}

// Exon represents a single exon within a transcript.
type Exon struct {
	Number   int   // Exon number (1-based)
	Start    int64 // Genomic start (1-based)
	End      int64 // Genomic end (1-based, inclusive)
	CDSStart int64 // CDS portion start, 0 if entirely non-coding
	CDSEnd   int64 // CDS portion end, 0 if entirely non-coding
	Frame    int   // Reading frame (0, 1, or 2), -1 if non-coding
}

// IsProteinCoding returns true if the transcript has a coding sequence.
// This includes protein_coding, nonsense_mediated_decay, IG/TR gene segments,
// protein_coding_LoF, and any other biotype with CDS features in GENCODE.
func (t *Transcript) IsProteinCoding() bool {
	return t.CDSStart > 0 && t.CDSEnd > 0
}

// IsForwardStrand returns true if the transcript is on the forward strand.
func (t *Transcript) IsForwardStrand() bool {
	return t.Strand == 1
}

// IsReverseStrand returns true if the transcript is on the reverse strand.
func (t *Transcript) IsReverseStrand() bool {
	return t.Strand == -1
}

// Contains returns true if the given position is within the transcript boundaries.
func (t *Transcript) Contains(pos int64) bool {
	return pos >= t.Start && pos <= t.End
}

// ContainsCDS returns true if the given position is within the CDS boundaries.
func (t *Transcript) ContainsCDS(pos int64) bool {
	if !t.IsProteinCoding() {
		return false
	}
	return pos >= t.CDSStart && pos <= t.CDSEnd
}

// FindExon returns the exon containing the given genomic position, or nil if not in an exon.
func (t *Transcript) FindExon(pos int64) *Exon {
	for i := range t.Exons {
		if pos >= t.Exons[i].Start && pos <= t.Exons[i].End {
			return &t.Exons[i]
		}
	}
	return nil
}

// IsCoding returns true if the exon contains coding sequence.
func (e *Exon) IsCoding() bool {
	return e.CDSStart > 0 && e.CDSEnd > 0
}

// ResolveVariant maps t's genomic (1-based, strand-major) exon model onto
// variant.Transcript's 0-based half-open, transcript-relative model
// (internal/variant/transcript.go), walking exons in transcript order
// (genomic ascending for + strand, descending for -) and accumulating
// transcript offsets as it goes. It sets t.Variant and returns it; every
// loader (GTF, DuckDB, Sereal) calls this once right after building a
// Transcript, so t.Variant is populated by the time the cache is handed to
// a caller.
func (t *Transcript) ResolveVariant() (*variant.Transcript, error) {
	if len(t.Exons) == 0 {
		return nil, fmt.Errorf("transcript %s has no exons", t.ID)
	}
	exons := make([]Exon, len(t.Exons))
	copy(exons, t.Exons)
	sort.Slice(exons, func(i, j int) bool { return exons[i].Start < exons[j].Start })
	if t.Strand == -1 {
		for i, j := 0, len(exons)-1; i < j; i, j = i+1, j-1 {
			exons[i], exons[j] = exons[j], exons[i]
		}
	}

	vExons := make([]variant.Exon, len(exons))
	pos := int64(0)
	for i, e := range exons {
		length := e.End - e.Start + 1
		vExons[i] = variant.Exon{
			TranscriptStart: pos,
			TranscriptEnd:   pos + length,
			ReferenceStart:  e.Start - 1,
			ReferenceEnd:    e.End,
		}
		pos += length
	}

	vt := &variant.Transcript{
		Accession:          t.ID,
		Gene:               t.GeneName,
		CDSStartIndex:      -1,
		CDSEndIndex:        -1,
		Strand:             t.Strand,
		ReferenceAccession: t.Chrom,
		Exons:              vExons,
	}

	if t.IsProteinCoding() {
		m := txmap.New(vt)
		var startG, endG variant.GenomicPos
		if t.Strand >= 0 {
			startG, endG = variant.GenomicPos(t.CDSStart-1), variant.GenomicPos(t.CDSEnd-1)
		} else {
			startG, endG = variant.GenomicPos(t.CDSEnd-1), variant.GenomicPos(t.CDSStart-1)
		}
		startN, _, err := m.GToN(startG)
		if err != nil {
			return nil, fmt.Errorf("resolve CDS start for %s: %w", t.ID, err)
		}
		endN, _, err := m.GToN(endG)
		if err != nil {
			return nil, fmt.Errorf("resolve CDS end for %s: %w", t.ID, err)
		}
		vt.CDSStartIndex = int64(startN)
		vt.CDSEndIndex = int64(endN) + 1
	}

	t.Variant = vt
	return vt, nil
}
