package variant

import "testing"

func TestSparseRefSetAndGet(t *testing.T) {
	ref := NewSparseRef()
	if err := ref.Set(10, Known('A')); err != nil {
		t.Fatal(err)
	}
	tok, ok := ref.Get(10)
	if !ok || tok.Kind != TokenKnown || tok.Symbol != 'A' {
		t.Fatalf("got %+v, ok=%v", tok, ok)
	}
}

func TestSparseRefKnownAgreeingIsNoop(t *testing.T) {
	ref := NewSparseRef()
	if err := ref.Set(5, Known('g')); err != nil {
		t.Fatal(err)
	}
	// Lowercase and uppercase normalise equal; U/T also normalise equal.
	if err := ref.Set(5, Known('G')); err != nil {
		t.Fatalf("expected agreeing Known to be accepted, got %v", err)
	}
	if err := ref.Set(5, Known('U')); err == nil {
		t.Fatal("G and U should not normalise equal")
	}
}

func TestSparseRefKnownConflictIsError(t *testing.T) {
	ref := NewSparseRef()
	if err := ref.Set(5, Known('A')); err != nil {
		t.Fatal(err)
	}
	err := ref.Set(5, Known('C'))
	if err == nil {
		t.Fatal("expected conflict error")
	}
	verr, ok := err.(*Error)
	if !ok || verr.Kind != ValidationError {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSparseRefKnownWinsOverWeakerToken(t *testing.T) {
	ref := NewSparseRef()
	if err := ref.Set(5, Known('A')); err != nil {
		t.Fatal(err)
	}
	if err := ref.Set(5, AnyToken); err != nil {
		t.Fatal(err)
	}
	tok, _ := ref.Get(5)
	if tok.Kind != TokenKnown || tok.Symbol != 'A' {
		t.Fatalf("Known should not be overwritten by a weaker token, got %+v", tok)
	}
}

func TestSparseRefWeakerTokenUpgradesToKnown(t *testing.T) {
	ref := NewSparseRef()
	if err := ref.Set(5, AnyToken); err != nil {
		t.Fatal(err)
	}
	if err := ref.Set(5, Known('T')); err != nil {
		t.Fatal(err)
	}
	tok, _ := ref.Get(5)
	if tok.Kind != TokenKnown || tok.Symbol != 'T' {
		t.Fatalf("expected upgrade to Known, got %+v", tok)
	}
}

func TestSparseRefPositionsSorted(t *testing.T) {
	ref := NewSparseRef()
	for _, p := range []int{7, 1, 42, 3} {
		if err := ref.Set(p, AnyToken); err != nil {
			t.Fatal(err)
		}
	}
	got := ref.Positions()
	want := []int{1, 3, 7, 42}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSymbolsEqualFoldsU(t *testing.T) {
	if !SymbolsEqual('U', 't') {
		t.Fatal("U and t should normalise equal")
	}
	if SymbolsEqual('A', 'G') {
		t.Fatal("A and G should not be equal")
	}
}

func TestUnknownAtDistinctPositionsAreDistinctTokens(t *testing.T) {
	a := UnknownAt(1)
	b := UnknownAt(2)
	if a == b {
		t.Fatal("unknown tokens at different positions should be distinct")
	}
}
