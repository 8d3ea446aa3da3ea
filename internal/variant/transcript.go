package variant

// Exon is one piece of a transcript's exon/intron structure: a contiguous
// run of transcript coordinates mapped to a contiguous run of reference
// (genomic) coordinates. Gaps between successive exons' reference spans are
// introns.
type Exon struct {
	TranscriptStart int64 // 0-based, half-open, transcript-relative
	TranscriptEnd   int64
	ReferenceStart  int64 // 0-based, half-open, genomic
	ReferenceEnd    int64
}

// Len returns the exon's length in bases (transcript space == reference
// space for a single exon, by construction).
func (e Exon) Len() int64 { return e.TranscriptEnd - e.TranscriptStart }

// Transcript is the external, read-only contract the coordinate algebra is
// built on: a spliced RNA product of a gene with a fixed exon structure over
// a chromosome.
type Transcript struct {
	Accession          string
	Gene                string
	CDSStartIndex       int64 // transcript-relative, 0-based; -1 if non-coding
	CDSEndIndex         int64 // transcript-relative, half-open; -1 if non-coding
	Strand              int8  // +1 or -1
	ReferenceAccession  string
	Exons               []Exon // ordered by TranscriptStart
}

// IsCoding reports whether the transcript has a CDS.
func (t *Transcript) IsCoding() bool {
	return t.CDSStartIndex >= 0 && t.CDSEndIndex > t.CDSStartIndex
}

// Len returns the transcript's total length in bases.
func (t *Transcript) Len() int64 {
	if len(t.Exons) == 0 {
		return 0
	}
	return t.Exons[len(t.Exons)-1].TranscriptEnd
}

// CDSLen returns the length of the coding sequence, 0 if non-coding.
func (t *Transcript) CDSLen() int64 {
	if !t.IsCoding() {
		return 0
	}
	return t.CDSEndIndex - t.CDSStartIndex
}
