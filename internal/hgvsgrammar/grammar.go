// Package hgvsgrammar parses and formats HGVS variant descriptions of the
// form "<accession>(gene)?:<kind>.<position><edit>" across all six
// coordinate flavours (g./c./n./r./m./p.), generalizing the ad hoc
// per-format regexes a VEP-style annotator uses for its own input parsing
// into one grammar covering the full notation.
package hgvsgrammar

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hgvskit/hgvskit/internal/variant"
)

// reEnvelope splits an HGVS string into accession, optional parenthesized
// gene context, coordinate-kind letter, and the remainder after "kind.".
var reEnvelope = regexp.MustCompile(`^([^:(\s]+)(?:\(([^)]+)\))?:([gcnrmp])\.(.+)$`)

var kindLetters = map[string]variant.Kind{
	"g": variant.Genomic,
	"c": variant.Coding,
	"n": variant.NonCoding,
	"r": variant.Rna,
	"m": variant.Mitochondrial,
	"p": variant.Protein,
}

// Parse parses a single HGVS variant description. Uncertain brackets around
// the change after the kind prefix ("c.(76A>T)") are recognised and stripped; everything else about the
// grammar is kind-specific and handled by parseNucleotideRest/
// parseProteinRest.
func Parse(s string) (*variant.Variant, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, &variant.Error{Kind: variant.ParseError, Detail: "empty variant description"}
	}

	m := reEnvelope.FindStringSubmatch(s)
	if m == nil {
		return nil, &variant.Error{Kind: variant.ParseError, Detail: fmt.Sprintf("cannot parse %q: expected <accession>:<kind>.<change>", s)}
	}
	accession, gene, kindLetter, rest := m[1], m[2], m[3], m[4]

	kind, ok := kindLetters[kindLetter]
	if !ok {
		return nil, variant.NewValidationError("unrecognised coordinate kind: " + kindLetter)
	}

	v := &variant.Variant{
		Accession: accession,
		Gene:      gene,
		Kind:      kind,
	}

	if strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")") {
		v.Uncertain = true
		rest = rest[1 : len(rest)-1]
	}

	var err error
	if kind == variant.Protein {
		err = parseProteinRest(v, rest)
	} else {
		err = parseNucleotideRest(v, rest)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Format renders v back to HGVS notation.
func Format(v *variant.Variant) string {
	var b strings.Builder
	b.WriteString(v.Accession)
	if v.Gene != "" {
		b.WriteByte('(')
		b.WriteString(v.Gene)
		b.WriteByte(')')
	}
	b.WriteByte(':')
	b.WriteString(v.Kind.String())
	b.WriteByte('.')

	body := formatNucleotideOrProteinBody(v)
	if v.Uncertain {
		b.WriteByte('(')
		b.WriteString(body)
		b.WriteByte(')')
	} else {
		b.WriteString(body)
	}
	return b.String()
}

func formatNucleotideOrProteinBody(v *variant.Variant) string {
	if v.IsProtein() {
		return formatProteinBody(v)
	}
	return formatNucleotideBody(v)
}

// formatPosition renders a single BaseOffsetPosition in HGVS text, honouring
// the anchor (CdsStart/CdsEnd prefix, or bare number for TranscriptStart/
// genomic/mitochondrial numbering).
func formatPosition(p variant.BaseOffsetPosition) string {
	return p.String()
}
