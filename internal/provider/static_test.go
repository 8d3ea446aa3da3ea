package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgvskit/hgvskit/internal/variant"
)

func krasFixtureTranscript() *variant.Transcript {
	return &variant.Transcript{
		Accession:          "NM_004985.5",
		Gene:               "KRAS",
		CDSStartIndex:      10,
		CDSEndIndex:        30,
		Strand:             1,
		ReferenceAccession: "NC_000012.12",
		Exons: []variant.Exon{
			{TranscriptStart: 0, TranscriptEnd: 50, ReferenceStart: 1000, ReferenceEnd: 1050},
			{TranscriptStart: 50, TranscriptEnd: 100, ReferenceStart: 2000, ReferenceEnd: 2050},
		},
	}
}

func TestStaticGetTranscriptRoundTrips(t *testing.T) {
	s := NewStatic()
	tx := krasFixtureTranscript()
	s.AddTranscript(tx)

	got, err := s.GetTranscript("NM_004985.5", "")
	require.NoError(t, err)
	assert.Same(t, tx, got)

	_, err = s.GetTranscript("NM_999999.1", "")
	assert.Error(t, err)
}

func TestStaticGetTranscriptRejectsWrongReference(t *testing.T) {
	s := NewStatic()
	s.AddTranscript(krasFixtureTranscript())

	_, err := s.GetTranscript("NM_004985.5", "NC_000099.1")
	assert.Error(t, err)
}

func TestStaticGetSeqSlicesByKind(t *testing.T) {
	s := NewStatic()
	s.AddGenomicSeq("NC_000012.12", "ACGTACGTACGT")
	s.AddTranscriptSeq("NM_004985.5", "ATGAAATAA")
	s.AddProteinSeq("NP_004976.2", "MKT*")

	seq, err := s.GetSeq("NC_000012.12", 0, 4, variant.SeqGenomic)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", seq)

	seq, err = s.GetSeq("NM_004985.5", 0, -1, variant.SeqTranscript)
	require.NoError(t, err)
	assert.Equal(t, "ATGAAATAA", seq)

	seq, err = s.GetSeq("NP_004976.2", 0, 3, variant.SeqProtein)
	require.NoError(t, err)
	assert.Equal(t, "MKT", seq)

	_, err = s.GetSeq("NC_000012.12", 0, 100, variant.SeqGenomic)
	assert.Error(t, err)
}

func TestStaticGetSymbolAccessionsFiltersByTargetKind(t *testing.T) {
	s := NewStatic()
	s.AddSymbol("KRAS", variant.TranscriptAccession, "NM_004985.5")
	s.AddSymbol("KRAS", variant.TranscriptAccession, "NM_033360.4")
	s.AddSymbol("KRAS", variant.ProteinAccession, "NP_004976.2")

	accs, err := s.GetSymbolAccessions("KRAS", variant.GeneSymbol, variant.TranscriptAccession)
	require.NoError(t, err)
	assert.Len(t, accs, 2)

	accs, err = s.GetSymbolAccessions("KRAS", variant.GeneSymbol, variant.ProteinAccession)
	require.NoError(t, err)
	assert.Len(t, accs, 1)
}

func TestStaticGetIdentifierTypeFallsBackToClassifier(t *testing.T) {
	s := NewStatic()
	s.AddSymbol("KRAS", variant.TranscriptAccession, "NM_004985.5")

	assert.Equal(t, variant.GeneSymbol, s.GetIdentifierType("KRAS"))
	assert.Equal(t, variant.TranscriptAccession, s.GetIdentifierType("NM_999999.1"))
	assert.Equal(t, variant.GenomicAccession, s.GetIdentifierType("NC_000012.12"))
}

func TestStaticCToGResolvesThroughTheMapper(t *testing.T) {
	s := NewStatic()
	s.AddTranscript(krasFixtureTranscript())

	accession, pos, err := s.CToG("NM_004985.5", variant.BaseOffsetPosition{Base: 1, Anchor: variant.CdsStart}, 0)
	require.NoError(t, err)
	assert.Equal(t, "NC_000012.12", accession)
	assert.Equal(t, variant.GenomicPos(1010), pos)
}

func TestStaticGetTranscriptsForRegionFindsOverlap(t *testing.T) {
	s := NewStatic()
	s.AddTranscript(krasFixtureTranscript())

	ids, err := s.GetTranscriptsForRegion("NC_000012.12", 1010, 1020)
	require.NoError(t, err)
	assert.Equal(t, []string{"NM_004985.5"}, ids)

	ids, err = s.GetTranscriptsForRegion("NC_000012.12", 5000, 5010)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = s.GetTranscriptsForRegion("NC_000099.1", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
