// Package provider implements variant.DataProvider against two backends: an
// in-memory Static fixture for tests, and Gencode, which answers from a
// loaded GENCODE GTF/FASTA (or DuckDB) transcript cache.
package provider

import "github.com/hgvskit/hgvskit/internal/variant"

// ClassifyIdentifier guesses an accession's IdentifierType from its prefix,
// the same heuristic both Static and Gencode fall back to when no explicit
// registration exists. RefSeq genomic/mitochondrial accessions start NC_/NG_/
// NT_/NW_/NM_/NR_/XM_/XR_/NP_/XP_ by NCBI convention; Ensembl accessions
// carry the analogous ENSG/ENST/ENSP stems. Anything else made only of
// letters, digits and '-' is treated as a gene symbol.
func ClassifyIdentifier(id string) variant.IdentifierType {
	switch {
	case hasAnyPrefix(id, "NC_", "NG_", "NT_", "NW_", "NZ_"):
		return variant.GenomicAccession
	case hasAnyPrefix(id, "NM_", "NR_", "XM_", "XR_", "ENST"):
		return variant.TranscriptAccession
	case hasAnyPrefix(id, "NP_", "XP_", "ENSP"):
		return variant.ProteinAccession
	case hasAnyPrefix(id, "ENSG"):
		return variant.GeneSymbol
	case looksLikeGeneSymbol(id):
		return variant.GeneSymbol
	default:
		return variant.UnknownIdentifier
	}
}

func hasAnyPrefix(id string, prefixes ...string) bool {
	for _, p := range prefixes {
		if len(id) >= len(p) && id[:len(p)] == p {
			return true
		}
	}
	return false
}

// looksLikeGeneSymbol accepts bare alphanumeric tokens (BRCA1, TP53, KRAS)
// that don't match any accession prefix above and don't contain the
// underscore or colon punctuation an accession or full HGVS string would.
func looksLikeGeneSymbol(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		alnum := (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-'
		if !alnum {
			return false
		}
	}
	first := id[0]
	return first >= 'A' && first <= 'Z'
}
