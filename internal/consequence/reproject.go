package consequence

import "github.com/hgvskit/hgvskit/internal/variant"

// Reproject validates the idempotence invariant from spec.md §4.D: the
// edit Project inferred, applied back to the original translation, must
// reproduce the altered translation exactly. Frameshift and extension
// edits are validated on their reproducible contract (first residue and
// termination point) rather than full-sequence identity, since the minimal
// form does not retain enough information to reconstruct every downstream
// residue by design.
func Reproject(refAA, altAA string, res Result) error {
	switch e := res.Edit.(type) {
	case variant.PFs:
		return checkTerminatingEdit(altAA, int(res.Position.Start), e.Alt, e.Term, e.Length)
	case variant.PExt:
		return checkTerminatingEdit(altAA, int(res.Position.Start), e.Alt, e.Term, e.Length)
	default:
		applied, err := applyProteinEdit(refAA, res.Position, res.Edit)
		if err != nil {
			return err
		}
		if applied != altAA {
			return variant.NewValidationError("idempotence check failed: reprojected sequence does not match the altered translation")
		}
		return nil
	}
}

func checkTerminatingEdit(altAA string, start int, alt byte, term bool, length int) error {
	if start >= len(altAA) || altAA[start] != alt {
		return variant.NewValidationError("frameshift/extension first residue does not match the altered translation")
	}
	if term {
		stopAt := start + length - 1
		if stopAt >= len(altAA) || altAA[stopAt] != '*' {
			return variant.NewValidationError("frameshift/extension terminus does not match the altered translation")
		}
	}
	return nil
}

func applyProteinEdit(refAA string, pos variant.ProteinPosition, edit variant.ProteinEdit) (string, error) {
	start := int(pos.Start)
	end := start
	if pos.HasEnd {
		end = int(pos.End)
	}
	switch e := edit.(type) {
	case variant.PIdentity:
		return refAA, nil
	case variant.PSubst:
		if start >= len(refAA) {
			return "", variant.NewValidationError("substitution position out of range")
		}
		return refAA[:start] + string(e.Alt) + refAA[start+1:], nil
	case variant.PDel:
		return refAA[:start] + refAA[end+1:], nil
	case variant.PIns:
		return refAA[:start+1] + e.Alt + refAA[start+1:], nil
	case variant.PDup:
		return refAA[:end+1] + e.Ref + refAA[end+1:], nil
	case variant.PDelIns:
		return refAA[:start] + e.Alt + refAA[end+1:], nil
	default:
		return "", variant.NewUnsupportedError("edit kind not reprojectable")
	}
}
