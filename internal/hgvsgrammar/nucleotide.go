package hgvsgrammar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hgvskit/hgvskit/internal/variant"
)

// posToken matches one nucleotide position: an optional "*" (CdsEnd anchor),
// an optional sign, a run of digits, and an optional signed intronic offset.
// "-14", "*6", "88", "88+1", "88-2" all match.
const posToken = `\*?-?\d+(?:[+-]\d+)?`

var reNucPositions = regexp.MustCompile(`^(` + posToken + `)(?:_(` + posToken + `))?(.*)$`)

var (
	reRefAlt  = regexp.MustCompile(`^([ACGTUacgtun]*)>([ACGTUacgtun]+)$`)
	reDelIns  = regexp.MustCompile(`(?i)^del([ACGTUacgtun]*)ins([ACGTUacgtun]+)$`)
	reDel     = regexp.MustCompile(`(?i)^del([ACGTUacgtun]*)$`)
	reIns     = regexp.MustCompile(`(?i)^ins([ACGTUacgtun]+)$`)
	reDup     = regexp.MustCompile(`(?i)^dup([ACGTUacgtun]*)$`)
	reInv     = regexp.MustCompile(`(?i)^inv([ACGTUacgtun]*)$`)
	reRepeat  = regexp.MustCompile(`^([ACGTUacgtun]*)\[(\d+)(?:_(\d+))?\]$`)
	reCopyNum = regexp.MustCompile(`(?i)^x(\d+)$`)
)

// parseNucleotidePosition parses one position token into a BaseOffsetPosition.
// kind selects the anchor convention: Genomic/Mitochondrial positions are
// plain 1-based chromosomal coordinates, converted here to the variant
// package's 0-based GenomicPos-equivalent Base; Coding positions use the
// CdsStart/CdsEnd anchor split; NonCoding/Rna count from the transcript's
// first base.
func parseNucleotidePosition(tok string, kind variant.Kind) (variant.BaseOffsetPosition, error) {
	var anchor variant.Anchor
	star := strings.HasPrefix(tok, "*")
	if star {
		tok = tok[1:]
		anchor = variant.CdsEnd
	} else if kind == variant.Coding {
		anchor = variant.CdsStart
	}

	base := tok
	offset := int64(0)
	if idx := strings.IndexAny(tok[minInt(1, len(tok)):], "+-"); idx != -1 {
		idx += minInt(1, len(tok))
		base = tok[:idx]
		off, err := strconv.ParseInt(tok[idx:], 10, 64)
		if err != nil {
			return variant.BaseOffsetPosition{}, variant.NewValidationError("bad intronic offset in " + tok)
		}
		offset = off
	}

	b, err := strconv.ParseInt(base, 10, 64)
	if err != nil {
		return variant.BaseOffsetPosition{}, variant.NewValidationError("bad position " + tok)
	}

	if kind == variant.Genomic || kind == variant.Mitochondrial {
		return variant.BaseOffsetPosition{Base: b - 1}, nil
	}
	return variant.BaseOffsetPosition{Base: b, Offset: variant.IntronicOffset(offset), Anchor: anchor}, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// parseNucleotideRest parses the position+edit portion of a g./c./n./r./m.
// variant (everything after "<kind>.") into v.NucPos/v.NucEdit.
func parseNucleotideRest(v *variant.Variant, rest string) error {
	if rest == "=" {
		v.NucEdit = variant.Identity{}
		return nil
	}

	m := reNucPositions.FindStringSubmatch(rest)
	if m == nil {
		return variant.NewValidationError("cannot parse position in " + rest)
	}
	startTok, endTok, editText := m[1], m[2], m[3]

	start, err := parseNucleotidePosition(startTok, v.Kind)
	if err != nil {
		return err
	}
	if endTok != "" {
		end, err := parseNucleotidePosition(endTok, v.Kind)
		if err != nil {
			return err
		}
		v.NucPos = variant.Span(start, end)
	} else {
		v.NucPos = variant.Point(start)
	}

	edit, err := parseNucleotideEdit(editText)
	if err != nil {
		return err
	}
	v.NucEdit = edit
	return nil
}

func parseNucleotideEdit(text string) (variant.NucleotideEdit, error) {
	upper := strings.ToUpper(text)
	switch {
	case reRefAlt.MatchString(text):
		m := reRefAlt.FindStringSubmatch(text)
		return variant.RefAlt{Ref: strings.ToUpper(m[1]), Alt: strings.ToUpper(m[2])}, nil
	case reDelIns.MatchString(upper):
		m := reDelIns.FindStringSubmatch(upper)
		return variant.RefAlt{Ref: m[1], Alt: m[2]}, nil
	case reDup.MatchString(upper):
		m := reDup.FindStringSubmatch(upper)
		return variant.Dup{Ref: m[1]}, nil
	case reInv.MatchString(upper):
		m := reInv.FindStringSubmatch(upper)
		return variant.Inv{Ref: m[1]}, nil
	case reIns.MatchString(upper):
		m := reIns.FindStringSubmatch(upper)
		return variant.Ins{Alt: m[1]}, nil
	case reDel.MatchString(upper):
		m := reDel.FindStringSubmatch(upper)
		return variant.Del{Ref: m[1]}, nil
	case reRepeat.MatchString(upper):
		m := reRepeat.FindStringSubmatch(upper)
		min, _ := strconv.Atoi(m[2])
		max := min
		if m[3] != "" {
			max, _ = strconv.Atoi(m[3])
		}
		return variant.Repeat{Unit: m[1], Min: min, Max: max}, nil
	case reCopyNum.MatchString(upper):
		m := reCopyNum.FindStringSubmatch(upper)
		n, _ := strconv.Atoi(m[1])
		return variant.Copy{N: n}, nil
	}
	return nil, variant.NewUnsupportedError("unrecognised nucleotide edit: " + text)
}

// formatNucleotideBody renders v's NucPos/NucEdit (v must be a nucleotide
// flavour) back to HGVS text, e.g. "76A>T", "76_78del", "88+1G>C".
func formatNucleotideBody(v *variant.Variant) string {
	var pos string
	if v.NucPos.HasEnd {
		pos = formatNucleotidePosition(v.NucPos.Start, v.Kind) + "_" + formatNucleotidePosition(v.NucPos.End, v.Kind)
	} else {
		pos = formatNucleotidePosition(v.NucPos.Start, v.Kind)
	}
	return pos + formatNucleotideEdit(v.NucEdit)
}

func formatNucleotidePosition(p variant.BaseOffsetPosition, kind variant.Kind) string {
	if kind == variant.Genomic || kind == variant.Mitochondrial {
		return strconv.FormatInt(p.Base+1, 10)
	}
	return formatPosition(p)
}

func formatNucleotideEdit(e variant.NucleotideEdit) string {
	switch ed := e.(type) {
	case variant.RefAlt:
		if len(ed.Ref) == 1 && len(ed.Alt) == 1 {
			return ed.Ref + ">" + ed.Alt
		}
		return "delins" + ed.Alt
	case variant.Del:
		return "del" + ed.Ref
	case variant.Ins:
		return "ins" + ed.Alt
	case variant.Dup:
		return "dup" + ed.Ref
	case variant.Inv:
		return "inv" + ed.Ref
	case variant.Repeat:
		if ed.Min == ed.Max {
			return fmt.Sprintf("%s[%d]", ed.Unit, ed.Min)
		}
		return fmt.Sprintf("%s[%d_%d]", ed.Unit, ed.Min, ed.Max)
	case variant.Copy:
		return fmt.Sprintf("x%d", ed.N)
	case variant.Identity:
		return "="
	default:
		return ""
	}
}
