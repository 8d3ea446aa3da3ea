package equivalence

import (
	"testing"

	"github.com/hgvskit/hgvskit/internal/variant"
)

func constFetch(ref string) variant.RefFetcher {
	return func(start, end int64) (string, error) {
		return ref[start:end], nil
	}
}

func TestThreeShiftSlidesDeletionAcrossRepeat(t *testing.T) {
	// "CAGAGAGAGT": deleting "AG" starting at index 1 can slide right as
	// long as the base after the current end repeats the base being
	// dropped from the front.
	ref := "CAGAGAGAGT"
	ns, ne, edit, err := ThreeShift(1, 3, variant.Del{Ref: "AG"}, constFetch(ref))
	if err != nil {
		t.Fatal(err)
	}
	del, ok := edit.(variant.Del)
	if !ok {
		t.Fatalf("expected Del, got %T", edit)
	}
	if ns != 7 || ne != 9 {
		t.Fatalf("shifted span = [%d,%d), want [7,9)", ns, ne)
	}
	if del.Ref != "AG" {
		t.Fatalf("shifted ref = %q, want AG", del.Ref)
	}
}

func TestThreeShiftSinglePointInsertionSlidesAcrossHomopolymer(t *testing.T) {
	ref := "GAAAAT"
	pos, end, edit, err := ThreeShift(1, 1, variant.Ins{Alt: "A"}, constFetch(ref))
	if err != nil {
		t.Fatal(err)
	}
	if pos != 5 || end != 5 {
		t.Fatalf("shifted insertion point = %d, want 5 (past the homopolymer run)", pos)
	}
	if _, ok := edit.(variant.Ins); !ok {
		t.Fatalf("expected Ins, got %T", edit)
	}
}

func TestThreeShiftDoesNotRotateMultiBaseInsertionUnit(t *testing.T) {
	// Open Question #1 (DESIGN.md): a multi-base inserted unit is never
	// rotated, even when doing so would produce an indistinguishable
	// sequence.
	ref := "GATCGATCAT"
	ns, ne, edit, err := ThreeShift(2, 2, variant.Ins{Alt: "TC"}, constFetch(ref))
	if err != nil {
		t.Fatal(err)
	}
	if ns != 2 || ne != 2 {
		t.Fatalf("multi-base insertion point moved to [%d,%d), want unchanged [2,2)", ns, ne)
	}
	ins, ok := edit.(variant.Ins)
	if !ok || ins.Alt != "TC" {
		t.Fatalf("got %+v, want unchanged Ins{Alt: TC}", edit)
	}
}

// TestThreeShiftNeverMovesADelins is spec.md §8 scenario 4 (NM_SHIFT_BUG):
// c.1_2delinsAT against a reference starting CCATTTTTTT must never slide to
// c.3_4delinsAT -- doing so would alter the resulting sequence, since
// delins isn't a like-for-like homopolymer slide.
func TestThreeShiftNeverMovesADelins(t *testing.T) {
	ref := "CCATTTTTTT"
	ns, ne, edit, err := ThreeShift(0, 2, variant.RefAlt{Ref: "CC", Alt: "AT"}, constFetch(ref))
	if err != nil {
		t.Fatal(err)
	}
	if ns != 0 || ne != 2 {
		t.Fatalf("delins span moved to [%d,%d), want unchanged [0,2)", ns, ne)
	}
	ra, ok := edit.(variant.RefAlt)
	if !ok || ra.Ref != "CC" || ra.Alt != "AT" {
		t.Fatalf("got %+v, want unchanged RefAlt{CC,AT}", edit)
	}
}

func TestInsToDupRewritesMatchingPrecedingSpan(t *testing.T) {
	ref := "AAAACGTTTT"
	ns, ne, edit, err := InsToDup(7, 7, variant.Ins{Alt: "ACGT"}, constFetch(ref))
	if err != nil {
		t.Fatal(err)
	}
	if ns != 3 || ne != 7 {
		t.Fatalf("dup span = [%d,%d), want [3,7)", ns, ne)
	}
	dup, ok := edit.(variant.Dup)
	if !ok || dup.Ref != "ACGT" {
		t.Fatalf("got %+v, want Dup{Ref: ACGT}", edit)
	}
}

func TestInsToDupLeavesNonMatchingInsertionAlone(t *testing.T) {
	ref := "AACGTGGGTTT"
	ns, ne, edit, err := InsToDup(7, 7, variant.Ins{Alt: "ACGT"}, constFetch(ref))
	if err != nil {
		t.Fatal(err)
	}
	if ns != 7 || ne != 7 {
		t.Fatalf("non-matching insertion moved to [%d,%d), want unchanged [7,7)", ns, ne)
	}
	if _, ok := edit.(variant.Ins); !ok {
		t.Fatalf("expected edit to remain Ins, got %T", edit)
	}
}

// TestNormalizeIsIdempotent is spec.md §8 invariant 3: re-normalizing an
// already-normalized edit returns it unchanged.
func TestNormalizeIsIdempotent(t *testing.T) {
	ref := "AACGTACGTTT"
	fetch := constFetch(ref)
	s1, e1, edit1, err := Normalize(3, 7, variant.Dup{Ref: "ACGT"}, fetch)
	if err != nil {
		t.Fatal(err)
	}
	s2, e2, edit2, err := Normalize(s1, e1, edit1, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 || e1 != e2 {
		t.Fatalf("second normalize pass moved the span: [%d,%d) -> [%d,%d)", s1, e1, s2, e2)
	}
	if !editsEqual(edit1, edit2) {
		t.Fatalf("second normalize pass changed the edit: %+v -> %+v", edit1, edit2)
	}
}

func TestNormalizeFillsImplicitRefBeforeShifting(t *testing.T) {
	ref := "CAGAGAGAGT"
	_, _, edit, err := Normalize(1, 3, variant.Del{}, constFetch(ref))
	if err != nil {
		t.Fatal(err)
	}
	del, ok := edit.(variant.Del)
	if !ok || del.Ref == "" {
		t.Fatalf("expected Del with filled ref, got %+v", edit)
	}
}
