package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCanonicalOverrides_GenomeNexus(t *testing.T) {
	// Genome Nexus biomart format: col 0 = hgnc_symbol, col 4 = genome_nexus_canonical_transcript
	input := "hgnc_symbol\tensembl_canonical_gene\tensembl_canonical_transcript\texplanation\tgenome_nexus_canonical_transcript\n" +
		"KRAS\tENSG00000133703\tENST00000311936\tensembl longest\tENST00000256078\n" +
		"TP53\tENSG00000141510\tENST00000269305\tensembl longest\tENST00000269305\n" +
		"EMPTY\tENSG00000000001\tENST00000000001\tensembl longest\tnan\n"

	overrides, err := ParseCanonicalOverrides(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "ENST00000256078", overrides["KRAS"])
	assert.Equal(t, "ENST00000269305", overrides["TP53"])
	assert.NotContains(t, overrides, "EMPTY", "nan values should be skipped")
}

func TestParseCanonicalOverridesStripsVersion(t *testing.T) {
	header := "hgnc_symbol\tcanon_gene\tcanon_tx\texplanation\tgn_tx\n"
	row := "BRAF\tENSG00000157764\tENST00000288602\tensembl\tENST00000288602.7\n"

	overrides, err := ParseCanonicalOverrides(strings.NewReader(header + row))
	require.NoError(t, err)

	assert.Equal(t, "ENST00000288602", overrides["BRAF"])
}

func TestParseCanonicalOverridesSkipsShortRows(t *testing.T) {
	header := "hgnc_symbol\tcanon_gene\n"
	row := "KRAS\tENSG00000133703\n"

	overrides, err := ParseCanonicalOverrides(strings.NewReader(header + row))
	require.NoError(t, err)
	assert.Empty(t, overrides)
}
