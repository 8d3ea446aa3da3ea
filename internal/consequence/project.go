// Package consequence implements the protein-consequence engine: given a
// CDS-anchored nucleotide edit and its transcript, it materialises the
// altered transcript, retranslates it, and infers the minimal amino-acid
// edit the change causes.
package consequence

import (
	"strings"

	"github.com/hgvskit/hgvskit/internal/seq"
	"github.com/hgvskit/hgvskit/internal/variant"
)

// Result is the minimal protein-level consequence of a single nucleotide
// edit: the affected residue interval and the inferred edit.
type Result struct {
	Position variant.ProteinPosition
	Edit     variant.ProteinEdit
}

// Project runs the materialise/retranslate/diff algorithm (spec.md §4.D)
// for a single nucleotide edit spanning the half-open transcript-relative
// range [start,end) of tx's full (5'UTR+CDS+3'UTR) sequence txSeq.
//
// Position convention by edit kind: RefAlt/Del/Inv/Repeat use [start,end) as
// the asserted reference span being replaced. Ins uses a point (start==end)
// at the flanking-base insertion site. Dup uses [start,end) as the span
// being duplicated; the duplicate is spliced in immediately after it.
//
// explicitRef, when non-empty, is validated against txSeq[start:end] before
// any materialisation; a mismatch returns a TranscriptMismatch error.
func Project(tx *variant.Transcript, txSeq string, start, end int64, edit variant.NucleotideEdit, explicitRef string) (Result, error) {
	if !tx.IsCoding() {
		return Result{}, variant.NewUnsupportedError("transcript has no CDS")
	}
	if start < tx.CDSStartIndex {
		return Result{}, variant.NewUnsupportedError("variant lies upstream of the CDS start; cannot project to a protein consequence")
	}
	if explicitRef != "" {
		if found := txSeq[start:end]; found != explicitRef {
			return Result{}, variant.NewTranscriptMismatch(explicitRef, found, start, end)
		}
	}

	effStart, effEnd, altPiece, err := materializeAltPiece(txSeq, start, end, edit)
	if err != nil {
		return Result{}, err
	}
	delta := int64(len(altPiece)) - (effEnd - effStart)

	full := seq.Of(txSeq)
	altTx := seq.Splice(
		seq.Slice(full, 0, int(effStart)),
		seq.Of(altPiece),
		seq.Slice(full, int(effEnd), full.Len()),
	)

	refAA := seq.Materialize(seq.Translate(seq.Slice(full, int(tx.CDSStartIndex), full.Len())))
	altAA := seq.Materialize(seq.Translate(seq.Slice(altTx, int(tx.CDSStartIndex), altTx.Len())))

	return classify(refAA, altAA, start-tx.CDSStartIndex, delta, edit)
}

// materializeAltPiece returns the [effStart,effEnd) span to replace and the
// literal sequence to replace it with, per spec.md §4.D step 2.
func materializeAltPiece(txSeq string, start, end int64, edit variant.NucleotideEdit) (effStart, effEnd int64, altPiece string, err error) {
	refSpan := txSeq[start:end]
	switch e := edit.(type) {
	case variant.RefAlt:
		return start, end, e.Alt, nil
	case variant.Del:
		return start, end, "", nil
	case variant.Ins:
		return start, start, e.Alt, nil
	case variant.Dup:
		ref := e.Ref
		if ref == "" {
			ref = refSpan
		}
		return end, end, ref, nil
	case variant.Inv:
		ref := e.Ref
		if ref == "" {
			ref = refSpan
		}
		return start, end, revComp(ref), nil
	case variant.Repeat:
		if e.Unit == "" {
			return 0, 0, "", variant.NewUnsupportedError("repeat edit without explicit unit cannot be materialised")
		}
		consumedEnd := scanRepeatRun(txSeq, start, e.Unit)
		return start, consumedEnd, repeatUnit(e.Unit, e.Min), nil
	case variant.Copy:
		return 0, 0, "", variant.NewUnsupportedError("copy edit requires a resolved unit; convert to Repeat first")
	case variant.Identity:
		return start, end, refSpan, nil
	default:
		return 0, 0, "", variant.NewUnsupportedError("unrecognised nucleotide edit")
	}
}

// classify implements §4.D step 4's classification tree over a pair of
// translated protein sequences.
func classify(refAA, altAA string, posStartC0, delta int64, edit variant.NucleotideEdit) (Result, error) {
	if refAA == altAA {
		return Result{Edit: variant.PIdentity{}}, nil
	}

	variantStartAA := posStartC0 / 3
	if variantStartAA < 0 {
		variantStartAA = 0
	}

	startIdx := -1
	maxLen := len(refAA)
	if len(altAA) > maxLen {
		maxLen = len(altAA)
	}
	for i := int(variantStartAA); i < maxLen; i++ {
		var r, a byte
		if i < len(refAA) {
			r = refAA[i]
		}
		if i < len(altAA) {
			a = altAA[i]
		}
		if r != a {
			startIdx = i
			break
		}
	}

	// The only way a difference can surface past the original translation
	// horizon without a literal mismatch at the stop itself is an
	// unterminated reference (no stop found): nothing meaningful to report.
	refHasStop := len(refAA) > 0 && refAA[len(refAA)-1] == '*'
	if startIdx == -1 || (!refHasStop && startIdx >= len(refAA)) {
		return Result{Edit: variant.PIdentity{}}, nil
	}

	if delta%3 != 0 && refAA[startIdx] != '*' {
		stopIdx := findStop(altAA, startIdx)
		var alt byte
		if startIdx < len(altAA) {
			alt = altAA[startIdx]
		}
		length := 0
		if stopIdx != -1 {
			length = stopIdx - startIdx + 1
		}
		return Result{
			Position: variant.Point(variant.ProteinPos(startIdx)),
			Edit:     variant.PFs{Alt: alt, Term: stopIdx != -1, Length: length},
		}, nil
	}

	refBlock := refAA[startIdx:]
	altBlock := altAA[startIdx:]
	suffix := 0
	for suffix < len(refBlock) && suffix < len(altBlock) &&
		refBlock[len(refBlock)-1-suffix] == altBlock[len(altBlock)-1-suffix] {
		suffix++
	}

	// Nominally-original-stop: the only common suffix is the shared stop
	// itself, which would otherwise hide it from both blocks. Del/Dup/Inv/
	// Repeat preserve the original stop (a pure deletion that happens to
	// expose it sooner is still a deletion, so the trim stands); a
	// RefAlt/Ins whose residual span isn't already a clean 1-for-1
	// substitution is treated as a premature stop and the stop is put back
	// into both blocks so the classification below sees it.
	if suffix == 1 && len(refBlock) > 0 && refBlock[len(refBlock)-1] == '*' && !preservesStopOnTrim(edit) {
		suffix = 0
	}

	delBlock := refBlock[:len(refBlock)-suffix]
	insBlock := altBlock[:len(altBlock)-suffix]

	switch {
	case len(insBlock) > 0 && startIdx < len(altAA) && altAA[startIdx] == '*':
		ref := byte(0)
		if len(delBlock) > 0 {
			ref = delBlock[0]
		} else if startIdx < len(refAA) {
			ref = refAA[startIdx]
		}
		return Result{
			Position: variant.Point(variant.ProteinPos(startIdx)),
			Edit:     variant.PSubst{Ref: ref, Alt: '*'},
		}, nil

	case len(delBlock) > 0 && delBlock[0] == '*':
		stopIdx := findStop(altAA, startIdx)
		var alt byte
		if startIdx < len(altAA) {
			alt = altAA[startIdx]
		}
		length := 0
		if stopIdx != -1 {
			length = stopIdx - startIdx + 1
		}
		return Result{
			Position: variant.Point(variant.ProteinPos(startIdx)),
			Edit:     variant.PExt{Alt: alt, Term: stopIdx != -1, Length: length},
		}, nil

	case len(delBlock) == 0 && len(insBlock) > 0 && isDuplication(refAA, startIdx, insBlock):
		dupStart := startIdx - len(insBlock)
		dupEnd := startIdx - 1
		return Result{
			Position: spanOrPoint(dupStart, dupEnd),
			Edit:     variant.PDup{Ref: insBlock},
		}, nil

	case len(delBlock) == 0 && len(insBlock) > 0:
		return Result{
			Position: variant.Span(variant.ProteinPos(startIdx-1), variant.ProteinPos(startIdx)),
			Edit:     variant.PIns{Alt: insBlock},
		}, nil

	case len(delBlock) == 1 && len(insBlock) == 1:
		return Result{
			Position: variant.Point(variant.ProteinPos(startIdx)),
			Edit:     variant.PSubst{Ref: delBlock[0], Alt: insBlock[0]},
		}, nil

	case len(insBlock) == 0:
		return Result{
			Position: spanOrPoint(startIdx, startIdx+len(delBlock)-1),
			Edit:     variant.PDel{Ref: delBlock},
		}, nil

	default:
		return Result{
			Position: spanOrPoint(startIdx, startIdx+len(delBlock)-1),
			Edit:     variant.PDelIns{Ref: delBlock, Alt: insBlock},
		}, nil
	}
}

func preservesStopOnTrim(edit variant.NucleotideEdit) bool {
	switch edit.(type) {
	case variant.Del, variant.Dup, variant.Inv, variant.Repeat:
		return true
	default:
		return false
	}
}

func spanOrPoint(start, end int) variant.ProteinPosition {
	if end <= start {
		return variant.Point(variant.ProteinPos(start))
	}
	return variant.Span(variant.ProteinPos(start), variant.ProteinPos(end))
}

func isDuplication(refAA string, startIdx int, insBlock string) bool {
	n := len(insBlock)
	if startIdx-n < 0 {
		return false
	}
	return refAA[startIdx-n:startIdx] == insBlock
}

func findStop(aa string, from int) int {
	for i := from; i < len(aa); i++ {
		if aa[i] == '*' {
			return i
		}
	}
	return -1
}

// scanRepeatRun scans forward from start consuming contiguous copies of unit
// against txSeq, returning the end of the last fully-matched copy: the net
// extent of the existing repeat run in the transcript, not whatever span the
// caller happened to assert the edit against.
func scanRepeatRun(txSeq string, start int64, unit string) int64 {
	step := int64(len(unit))
	current := start
	for current+step <= int64(len(txSeq)) && txSeq[current:current+step] == unit {
		current += step
	}
	return current
}

func repeatUnit(unit string, copies int) string {
	var b strings.Builder
	b.Grow(len(unit) * copies)
	for i := 0; i < copies; i++ {
		b.WriteString(unit)
	}
	return b.String()
}

func revComp(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[len(s)-1-i] = seq.Complement(s[i])
	}
	return string(b)
}
