package annotate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgvskit/hgvskit/internal/provider"
	"github.com/hgvskit/hgvskit/internal/variant"
	"github.com/hgvskit/hgvskit/internal/vcf"
)

// nonsenseFixtureProvider registers a single-exon coding transcript whose
// CDS is "ATGAAACATTAA" (M K H *), the same fixture internal/consequence's
// nonsense-mutation test uses, so c.4A>T (transcript-relative [3,4)) yields
// p.Lys2Ter.
func nonsenseFixtureProvider() *provider.Static {
	p := provider.NewStatic()
	p.AddTranscript(&variant.Transcript{
		Accession:          "NM_0001.1",
		Gene:               "TESTG",
		ReferenceAccession: "1",
		Strand:             1,
		CDSStartIndex:      0,
		CDSEndIndex:        12,
		Exons: []variant.Exon{
			{TranscriptStart: 0, TranscriptEnd: 12, ReferenceStart: 1000, ReferenceEnd: 1012},
		},
	})
	p.AddTranscriptSeq("NM_0001.1", "ATGAAACATTAA")
	return p
}

func TestAnnotateCodingNonsenseVariant(t *testing.T) {
	p := nonsenseFixtureProvider()
	a := NewAnnotator(p)

	// transcript pos 3 (0-based) -> genomic 1000+3 = 1003 (0-based) -> VCF pos 1004
	anns, err := a.Annotate(&vcf.Variant{Chrom: "1", Pos: 1004, Ref: "A", Alt: "T"})
	require.NoError(t, err)
	require.Len(t, anns, 1)

	ann := anns[0]
	assert.Equal(t, "NM_0001.1", ann.TranscriptID)
	assert.Equal(t, "TESTG", ann.GeneName)
	assert.Equal(t, ConsequenceStopGained, ann.Consequence)
	assert.Equal(t, ImpactHigh, ann.Impact)
	assert.Equal(t, "NM_0001.1:c.4A>T", ann.HGVSc)
	assert.Equal(t, "NP_0001.1:p.Lys2Ter", ann.HGVSp)
	assert.EqualValues(t, 2, ann.ProteinPosition)
	assert.EqualValues(t, 4, ann.CDSPosition)
}

func TestAnnotateIntergenicWhenNoTranscriptOverlaps(t *testing.T) {
	p := nonsenseFixtureProvider()
	a := NewAnnotator(p)

	anns, err := a.Annotate(&vcf.Variant{Chrom: "1", Pos: 5000, Ref: "A", Alt: "T"})
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, ConsequenceIntergenicVariant, anns[0].Consequence)
}

func TestAnnotateThreePrimeUTR(t *testing.T) {
	p := provider.NewStatic()
	p.AddTranscript(&variant.Transcript{
		Accession:          "NM_0002.1",
		Gene:               "TESTG2",
		ReferenceAccession: "1",
		Strand:             1,
		CDSStartIndex:      0,
		CDSEndIndex:        6,
		Exons: []variant.Exon{
			{TranscriptStart: 0, TranscriptEnd: 20, ReferenceStart: 2000, ReferenceEnd: 2020},
		},
	})
	p.AddTranscriptSeq("NM_0002.1", "ATGAAATAGCCCCCCCCCCCCCC")
	a := NewAnnotator(p)

	// transcript pos 10 (0-based) is past CDSEndIndex 6 -> 3'UTR; genomic 2010 -> VCF 2011
	anns, err := a.Annotate(&vcf.Variant{Chrom: "1", Pos: 2011, Ref: "C", Alt: "G"})
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, Consequence3PrimeUTR, anns[0].Consequence)
}

func TestAnnotateSpliceDonorAndAcceptor(t *testing.T) {
	p := provider.NewStatic()
	p.AddTranscript(&variant.Transcript{
		Accession:          "NM_0003.1",
		Gene:               "TESTG3",
		ReferenceAccession: "1",
		Strand:             1,
		CDSStartIndex:      0,
		CDSEndIndex:        20,
		Exons: []variant.Exon{
			{TranscriptStart: 0, TranscriptEnd: 10, ReferenceStart: 3000, ReferenceEnd: 3010},
			{TranscriptStart: 10, TranscriptEnd: 20, ReferenceStart: 3100, ReferenceEnd: 3110},
		},
	})
	p.AddTranscriptSeq("NM_0003.1", "ATGAAACATTCATTAACCGG")
	a := NewAnnotator(p)

	// first base of the intron right after the upstream exon (c.10+1) -> donor
	donorAnns, err := a.Annotate(&vcf.Variant{Chrom: "1", Pos: 3011, Ref: "A", Alt: "G"})
	require.NoError(t, err)
	require.Len(t, donorAnns, 1)
	assert.Equal(t, ConsequenceSpliceDonor, donorAnns[0].Consequence)

	// last base of the intron right before the downstream exon (c.11-1) -> acceptor
	acceptorAnns, err := a.Annotate(&vcf.Variant{Chrom: "1", Pos: 3100, Ref: "A", Alt: "G"})
	require.NoError(t, err)
	require.Len(t, acceptorAnns, 1)
	assert.Equal(t, ConsequenceSpliceAcceptor, acceptorAnns[0].Consequence)
}

func TestAnnotateAllWritesEveryVariant(t *testing.T) {
	p := nonsenseFixtureProvider()
	a := NewAnnotator(p)

	vcfData := "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n1\t1004\t.\tA\tT\t.\tPASS\t.\n"
	parser, err := vcf.NewParserFromReader(bytes.NewBufferString(vcfData))
	require.NoError(t, err)

	var written []*Annotation
	writer := &collectingWriter{onWrite: func(_ *vcf.Variant, ann *Annotation) { written = append(written, ann) }}

	require.NoError(t, a.AnnotateAll(parser, writer))
	require.Len(t, written, 1)
	assert.Equal(t, ConsequenceStopGained, written[0].Consequence)
	assert.True(t, writer.flushed)
}

func TestAnnotateAllReportsZeroVariantInfo(t *testing.T) {
	p := nonsenseFixtureProvider()
	a := NewAnnotator(p)
	var warnings bytes.Buffer
	a.SetWarnings(&warnings)

	vcfData := "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"
	parser, err := vcf.NewParserFromReader(bytes.NewBufferString(vcfData))
	require.NoError(t, err)

	writer := &collectingWriter{onWrite: func(*vcf.Variant, *Annotation) {}}
	require.NoError(t, a.AnnotateAll(parser, writer))
	assert.Contains(t, warnings.String(), "0 variants processed")
	assert.True(t, writer.flushed)
}

type collectingWriter struct {
	onWrite func(*vcf.Variant, *Annotation)
	flushed bool
}

func (w *collectingWriter) WriteHeader() error { return nil }
func (w *collectingWriter) Write(v *vcf.Variant, ann *Annotation) error {
	w.onWrite(v, ann)
	return nil
}
func (w *collectingWriter) Flush() error {
	w.flushed = true
	return nil
}
