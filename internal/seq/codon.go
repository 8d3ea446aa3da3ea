// Package seq provides lazy, composable views over nucleotide and protein
// sequences: slicing, reverse-complementing, translating, and splicing
// without materialising intermediate strings.
package seq

import "strings"

// codonTable is the standard nuclear genetic code, DNA codon to single-letter
// amino acid. Both T and U are normalised to T before lookup so RNA codons
// resolve identically.
var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// complementMap complements nucleotides, including RNA's U, and is case
// preserving. Characters outside the map are left unchanged by Complement.
var complementMap = map[byte]byte{
	'A': 'T', 'T': 'A', 'U': 'A', 'G': 'C', 'C': 'G',
	'a': 't', 't': 'a', 'u': 'a', 'g': 'c', 'c': 'g',
	'N': 'N', 'n': 'n',
}

// AminoAcidSingleToThree converts a single-letter residue code to its
// three-letter HGVS form. Unknown residues map to "Xaa".
var AminoAcidSingleToThree = map[byte]string{
	'A': "Ala", 'C': "Cys", 'D': "Asp", 'E': "Glu",
	'F': "Phe", 'G': "Gly", 'H': "His", 'I': "Ile",
	'K': "Lys", 'L': "Leu", 'M': "Met", 'N': "Asn",
	'P': "Pro", 'Q': "Gln", 'R': "Arg", 'S': "Ser",
	'T': "Thr", 'V': "Val", 'W': "Trp", 'Y': "Tyr",
	'*': "Ter", 'X': "Xaa",
}

// AminoAcidThreeToSingle is the inverse of AminoAcidSingleToThree.
var AminoAcidThreeToSingle map[string]byte

func init() {
	AminoAcidThreeToSingle = make(map[string]byte, len(AminoAcidSingleToThree))
	for single, three := range AminoAcidSingleToThree {
		// Both M (Met) and... no collisions in this table; last write wins
		// only for symmetrical entries, which there are none of.
		AminoAcidThreeToSingle[three] = single
	}
}

// TranslateCodon translates one DNA/RNA codon to its amino acid. Unknown
// codons (wrong length, ambiguity bases) return 'X'.
func TranslateCodon(codon string) byte {
	if len(codon) != 3 {
		return 'X'
	}
	codon = normalizeCodon(codon)
	if aa, ok := codonTable[codon]; ok {
		return aa
	}
	return 'X'
}

// normalizeCodon upper-cases a codon and rewrites U to T so RNA and DNA
// codons translate identically.
func normalizeCodon(codon string) string {
	codon = strings.ToUpper(codon)
	if !strings.ContainsRune(codon, 'U') {
		return codon
	}
	b := []byte(codon)
	for i, c := range b {
		if c == 'U' {
			b[i] = 'T'
		}
	}
	return string(b)
}

// IsStopCodon reports whether codon is a stop codon (TAA, TAG, TGA).
func IsStopCodon(codon string) bool { return TranslateCodon(codon) == '*' }

// IsStartCodon reports whether codon is the canonical start codon (ATG).
func IsStartCodon(codon string) bool { return normalizeCodon(codon) == "ATG" }

// Complement returns the complement of a single base, leaving unrecognised
// characters unchanged.
func Complement(base byte) byte {
	if c, ok := complementMap[base]; ok {
		return c
	}
	return base
}

// AAThree converts a single-letter amino acid code to three-letter form.
func AAThree(aa byte) string {
	if three, ok := AminoAcidSingleToThree[aa]; ok {
		return three
	}
	return "Xaa"
}

// AAThreeToSingle converts a three-letter amino acid code (or "*") to its
// single-letter form. Returns 0 if the code is not recognised.
func AAThreeToSingle(code string) byte {
	if code == "*" {
		return '*'
	}
	if aa, ok := AminoAcidThreeToSingle[code]; ok {
		return aa
	}
	return 0
}

// FormatAAs converts a run of single-letter amino acid codes into
// concatenated three-letter codes, e.g. "AL" -> "AlaLeu".
func FormatAAs(aas string) string {
	if len(aas) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(aas) * 3)
	for i := 0; i < len(aas); i++ {
		b.WriteString(AAThree(aas[i]))
	}
	return b.String()
}
