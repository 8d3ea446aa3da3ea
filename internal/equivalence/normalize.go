package equivalence

import "github.com/hgvskit/hgvskit/internal/variant"

// Normalize runs the implicit-sequence-fill, 3'-shift, and Ins->Dup steps
// of spec.md §4.E (steps 3-5) on a single nucleotide edit anchored at the
// half-open range [start,end). fetch supplies reference bases on demand and
// must be bound to the edit's own accession and coordinate kind.
//
// Normalize is idempotent: re-normalizing its own output returns the same
// (start, end, edit) unchanged, since each step's shift/rewrite condition is
// false once already applied.
func Normalize(start, end int64, edit variant.NucleotideEdit, fetch variant.RefFetcher) (int64, int64, variant.NucleotideEdit, error) {
	edit, err := fillImplicitRef(start, end, edit, fetch)
	if err != nil {
		return 0, 0, nil, err
	}
	start, end, edit, err = ThreeShift(start, end, edit, fetch)
	if err != nil {
		return 0, 0, nil, err
	}
	start, end, edit, err = InsToDup(start, end, edit, fetch)
	if err != nil {
		return 0, 0, nil, err
	}
	return start, end, edit, nil
}

// fillImplicitRef resolves an edit's implicit (empty) Ref/Unit field from
// fetch, so downstream shift/rewrite logic always has literal sequence to
// compare against.
func fillImplicitRef(start, end int64, edit variant.NucleotideEdit, fetch variant.RefFetcher) (variant.NucleotideEdit, error) {
	switch e := edit.(type) {
	case variant.Del:
		if e.Ref != "" {
			return e, nil
		}
		ref, err := fetch(start, end)
		if err != nil {
			return nil, err
		}
		return variant.Del{Ref: ref}, nil
	case variant.Dup:
		if e.Ref != "" {
			return e, nil
		}
		ref, err := fetch(start, end)
		if err != nil {
			return nil, err
		}
		return variant.Dup{Ref: ref}, nil
	case variant.Inv:
		if e.Ref != "" {
			return e, nil
		}
		ref, err := fetch(start, end)
		if err != nil {
			return nil, err
		}
		return variant.Inv{Ref: ref}, nil
	default:
		return edit, nil
	}
}

// ThreeShift implements spec.md §4.E step 4: slide a length-changing edit's
// interval rightward (3') while doing so produces an indistinguishable
// sequence. Only Ins/Del/Dup shift; RefAlt/Inv/Repeat/Copy/Identity are left
// untouched on purpose — sliding a delins or inversion would change the
// resulting sequence, which is exactly the failure spec.md §8 scenario 4
// (NM_SHIFT_BUG) guards against.
//
// A multi-base insertion's unit is never rotated (Open Question #1,
// DESIGN.md): only a single-base Ins is eligible for the classic
// homopolymer slide. This matches the reference implementation's own
// restriction and keeps a multi-base inserted unit's left edge meaningful.
func ThreeShift(start, end int64, edit variant.NucleotideEdit, fetch variant.RefFetcher) (int64, int64, variant.NucleotideEdit, error) {
	switch e := edit.(type) {
	case variant.Ins:
		if len(e.Alt) != 1 {
			return start, end, edit, nil
		}
		pos, err := shiftPoint(start, e.Alt[0], fetch)
		if err != nil {
			return 0, 0, nil, err
		}
		return pos, pos, variant.Ins{Alt: e.Alt}, nil
	case variant.Del:
		if e.Ref == "" {
			return start, end, edit, nil
		}
		ns, ne, ref, err := shiftSpan(start, end, e.Ref, fetch)
		if err != nil {
			return 0, 0, nil, err
		}
		return ns, ne, variant.Del{Ref: ref}, nil
	case variant.Dup:
		if e.Ref == "" {
			return start, end, edit, nil
		}
		ns, ne, ref, err := shiftSpan(start, end, e.Ref, fetch)
		if err != nil {
			return 0, 0, nil, err
		}
		return ns, ne, variant.Dup{Ref: ref}, nil
	default:
		return start, end, edit, nil
	}
}

// shiftPoint slides a single-base insertion point rightward while the base
// currently at pos equals the inserted base.
func shiftPoint(pos int64, base byte, fetch variant.RefFetcher) (int64, error) {
	for {
		next, err := fetch(pos, pos+1)
		if err != nil {
			return 0, err
		}
		if len(next) != 1 || !variant.SymbolsEqual(next[0], base) {
			return pos, nil
		}
		pos++
	}
}

// shiftSpan slides a deletion/duplication span [start,end) rightward while
// its first reference base equals the base immediately past its current
// end, per the classic 3'-shift algorithm: dropping the matching leading
// base and appending the matching trailing base yields an indistinguishable
// span one position to the right.
func shiftSpan(start, end int64, ref string, fetch variant.RefFetcher) (int64, int64, string, error) {
	for {
		next, err := fetch(end, end+1)
		if err != nil {
			return 0, 0, "", err
		}
		if len(next) != 1 || !variant.SymbolsEqual(next[0], ref[0]) {
			return start, end, ref, nil
		}
		ref = ref[1:] + next
		start++
		end++
	}
}

// InsToDup implements spec.md §4.E step 5 / §8 invariant 7: an insertion
// whose inserted sequence equals the reference span immediately preceding
// the insertion point is rewritten as a duplication of that span.
func InsToDup(start, end int64, edit variant.NucleotideEdit, fetch variant.RefFetcher) (int64, int64, variant.NucleotideEdit, error) {
	ins, ok := edit.(variant.Ins)
	if !ok {
		return start, end, edit, nil
	}
	n := int64(len(ins.Alt))
	if start-n < 0 {
		return start, end, edit, nil
	}
	preceding, err := fetch(start-n, start)
	if err != nil {
		return 0, 0, nil, err
	}
	if !stringsEqualFold(preceding, ins.Alt) {
		return start, end, edit, nil
	}
	return start - n, start, variant.Dup{Ref: ins.Alt}, nil
}

func stringsEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if !variant.SymbolsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
