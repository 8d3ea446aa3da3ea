package hgvsgrammar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hgvskit/hgvskit/internal/seq"
	"github.com/hgvskit/hgvskit/internal/variant"
)

// aaTok matches one residue code: three-letter ("Gly"), single-letter ("G"),
// or the stop-codon tokens "Ter"/"*".
const aaTok = `(?:Ter|\*|[A-Z][a-z]{2}|[A-Z])`

var (
	reSubst         = regexp.MustCompile(`^(` + aaTok + `)(\d+)(` + aaTok + `)$`)
	reFs            = regexp.MustCompile(`^(?:` + aaTok + `)(\d+)(` + aaTok + `)fs(Ter|\*)?(\d+)?$`)
	reExt           = regexp.MustCompile(`^(?:Ter|\*)(\d+)(` + aaTok + `)ext(Ter|\*)?(\d+)?$`)
	reRangeDelIns   = regexp.MustCompile(`^(?:` + aaTok + `)(\d+)_(?:` + aaTok + `)(\d+)delins(` + aaTok + `+)$`)
	reRangeIns      = regexp.MustCompile(`^(?:` + aaTok + `)(\d+)_(?:` + aaTok + `)(\d+)ins(` + aaTok + `+)$`)
	reRangeDel      = regexp.MustCompile(`^(?:` + aaTok + `)(\d+)_(?:` + aaTok + `)(\d+)del$`)
	reRangeDup      = regexp.MustCompile(`^(?:` + aaTok + `)(\d+)_(?:` + aaTok + `)(\d+)dup$`)
	reSingleDelIns  = regexp.MustCompile(`^(?:` + aaTok + `)(\d+)delins(` + aaTok + `+)$`)
	reSingleDel     = regexp.MustCompile(`^(?:` + aaTok + `)(\d+)del$`)
	reSingleDup     = regexp.MustCompile(`^(?:` + aaTok + `)(\d+)dup$`)
	reSingleRepeat  = regexp.MustCompile(`^(?:` + aaTok + `)(\d+)\[(\d+)(?:_(\d+))?\]$`)
	reAATokenRun    = regexp.MustCompile(aaTok)
)

// aaToSingle converts one residue token (three-letter, single-letter, "Ter",
// or "*") to its single-letter form. Returns 'X' (Xaa, unknown) for codes it
// cannot resolve.
func aaToSingle(tok string) byte {
	if tok == "Ter" || tok == "*" {
		return '*'
	}
	if len(tok) == 1 {
		return tok[0]
	}
	if aa := seq.AAThreeToSingle(tok); aa != 0 {
		return aa
	}
	return 'X'
}

// aaRunToSingle converts a run of concatenated residue tokens (all
// three-letter, or all single-letter) into a single-letter string.
func aaRunToSingle(run string) string {
	var b strings.Builder
	for _, tok := range reAATokenRun.FindAllString(run, -1) {
		b.WriteByte(aaToSingle(tok))
	}
	return b.String()
}

func proteinPos(digits string) (variant.ProteinPos, error) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, variant.NewValidationError("bad protein position " + digits)
	}
	return variant.ProteinPos(n - 1), nil
}

// parseProteinRest parses the portion of a p. variant after "p." into
// v.ProtPos/v.ProtEdit.
func parseProteinRest(v *variant.Variant, rest string) error {
	switch rest {
	case "=":
		v.ProtEdit = variant.PIdentity{}
		return nil
	case "?", "0", "0?":
		v.ProtEdit = variant.PSpecial{Text: rest}
		return nil
	}

	switch {
	case reFs.MatchString(rest):
		m := reFs.FindStringSubmatch(rest)
		pos, err := proteinPos(m[1])
		if err != nil {
			return err
		}
		length := 0
		if m[4] != "" {
			length, _ = strconv.Atoi(m[4])
		}
		v.ProtPos = variant.Point(pos)
		v.ProtEdit = variant.PFs{Alt: aaToSingle(m[2]), Term: m[3] != "" || m[4] != "", Length: length}
		return nil

	case reExt.MatchString(rest):
		m := reExt.FindStringSubmatch(rest)
		pos, err := proteinPos(m[1])
		if err != nil {
			return err
		}
		length := 0
		if m[4] != "" {
			length, _ = strconv.Atoi(m[4])
		}
		v.ProtPos = variant.Point(pos)
		v.ProtEdit = variant.PExt{Alt: aaToSingle(m[2]), Term: m[3] != "" || m[4] != "", Length: length}
		return nil

	case reRangeDelIns.MatchString(rest):
		m := reRangeDelIns.FindStringSubmatch(rest)
		start, end, err := proteinRange(m[1], m[2])
		if err != nil {
			return err
		}
		v.ProtPos = variant.Span(start, end)
		v.ProtEdit = variant.PDelIns{Alt: aaRunToSingle(m[3])}
		return nil

	case reRangeIns.MatchString(rest):
		m := reRangeIns.FindStringSubmatch(rest)
		start, end, err := proteinRange(m[1], m[2])
		if err != nil {
			return err
		}
		v.ProtPos = variant.Span(start, end)
		v.ProtEdit = variant.PIns{Alt: aaRunToSingle(m[3])}
		return nil

	case reRangeDel.MatchString(rest):
		m := reRangeDel.FindStringSubmatch(rest)
		start, end, err := proteinRange(m[1], m[2])
		if err != nil {
			return err
		}
		v.ProtPos = variant.Span(start, end)
		v.ProtEdit = variant.PDel{}
		return nil

	case reRangeDup.MatchString(rest):
		m := reRangeDup.FindStringSubmatch(rest)
		start, end, err := proteinRange(m[1], m[2])
		if err != nil {
			return err
		}
		v.ProtPos = variant.Span(start, end)
		v.ProtEdit = variant.PDup{}
		return nil

	case reSingleRepeat.MatchString(rest):
		m := reSingleRepeat.FindStringSubmatch(rest)
		pos, err := proteinPos(m[1])
		if err != nil {
			return err
		}
		min, _ := strconv.Atoi(m[2])
		max := min
		if m[3] != "" {
			max, _ = strconv.Atoi(m[3])
		}
		v.ProtPos = variant.Point(pos)
		v.ProtEdit = variant.PRepeat{Min: min, Max: max}
		return nil

	case reSingleDelIns.MatchString(rest):
		m := reSingleDelIns.FindStringSubmatch(rest)
		pos, err := proteinPos(m[1])
		if err != nil {
			return err
		}
		v.ProtPos = variant.Point(pos)
		v.ProtEdit = variant.PDelIns{Alt: aaRunToSingle(m[2])}
		return nil

	case reSingleDel.MatchString(rest):
		m := reSingleDel.FindStringSubmatch(rest)
		pos, err := proteinPos(m[1])
		if err != nil {
			return err
		}
		v.ProtPos = variant.Point(pos)
		v.ProtEdit = variant.PDel{}
		return nil

	case reSingleDup.MatchString(rest):
		m := reSingleDup.FindStringSubmatch(rest)
		pos, err := proteinPos(m[1])
		if err != nil {
			return err
		}
		v.ProtPos = variant.Point(pos)
		v.ProtEdit = variant.PDup{}
		return nil

	case reSubst.MatchString(rest):
		m := reSubst.FindStringSubmatch(rest)
		pos, err := proteinPos(m[2])
		if err != nil {
			return err
		}
		v.ProtPos = variant.Point(pos)
		v.ProtEdit = variant.PSubst{Ref: aaToSingle(m[1]), Alt: aaToSingle(m[3])}
		return nil
	}

	return variant.NewUnsupportedError("unrecognised protein change: " + rest)
}

func proteinRange(startDigits, endDigits string) (variant.ProteinPos, variant.ProteinPos, error) {
	start, err := proteinPos(startDigits)
	if err != nil {
		return 0, 0, err
	}
	end, err := proteinPos(endDigits)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// formatProteinBody renders v's ProtPos/ProtEdit (v must be Protein flavour)
// back to HGVS text. PFs/PExt don't carry the pre-change residue (the edit
// types only record the post-change residue and frameshift/extension
// length, spec.md's minimal-edit representation), so it is not invented
// from nothing: a frameshift renders it as the unknown-residue code "Xaa",
// and an extension renders "Ter", the stop codon it extends.
func formatProteinBody(v *variant.Variant) string {
	startPos := v.ProtPos.Start

	switch ed := v.ProtEdit.(type) {
	case variant.PIdentity:
		return "="
	case variant.PSpecial:
		return ed.Text
	case variant.PSubst:
		return fmt.Sprintf("%s%d%s", seq.AAThree(ed.Ref), int64(startPos)+1, seq.AAThree(ed.Alt))
	case variant.PFs:
		term := "?"
		if ed.Term {
			if ed.Length > 0 {
				term = fmt.Sprintf("Ter%d", ed.Length)
			} else {
				term = "Ter?"
			}
		}
		return fmt.Sprintf("Xaa%d%sfs%s", int64(startPos)+1, seq.AAThree(ed.Alt), term)
	case variant.PExt:
		term := "?"
		if ed.Term {
			if ed.Length > 0 {
				term = fmt.Sprintf("Ter%d", ed.Length)
			} else {
				term = "Ter?"
			}
		}
		return fmt.Sprintf("Ter%d%sext%s", int64(startPos)+1, seq.AAThree(ed.Alt), term)
	case variant.PDel:
		return formatProteinPositionRange(v) + "del"
	case variant.PDup:
		return formatProteinPositionRange(v) + "dup"
	case variant.PIns:
		return formatProteinPositionRange(v) + "ins" + seq.FormatAAs(ed.Alt)
	case variant.PDelIns:
		return formatProteinPositionRange(v) + "delins" + seq.FormatAAs(ed.Alt)
	case variant.PRepeat:
		if ed.Min == ed.Max {
			return fmt.Sprintf("%d[%d]", int64(startPos)+1, ed.Min)
		}
		return fmt.Sprintf("%d[%d_%d]", int64(startPos)+1, ed.Min, ed.Max)
	default:
		return ""
	}
}

// formatProteinPositionRange renders v.ProtPos for edit kinds that print
// their position without an embedded residue-change suffix (del/dup/ins/
// delins). The residue tokens themselves aren't stored on these edits
// (PDel.Ref etc. are empty unless the caller filled them in), so only the
// bare position numbers are emitted; Xaa would be misleading filler here
// since, unlike PFs/PExt, no residue letter is structurally expected.
func formatProteinPositionRange(v *variant.Variant) string {
	if v.ProtPos.HasEnd {
		return fmt.Sprintf("%d_%d", int64(v.ProtPos.Start)+1, int64(v.ProtPos.End)+1)
	}
	return fmt.Sprintf("%d", int64(v.ProtPos.Start)+1)
}
