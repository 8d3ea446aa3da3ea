package seq

import "testing"

func TestSliceSequence(t *testing.T) {
	s := Of("ACGTACGT")
	sub := Slice(s, 2, 5)
	if got, want := sub.Len(), 3; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if got, want := sub.String(), "GTA"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestSliceSequenceInvalidRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for invalid slice range")
		}
	}()
	s := Of("ACGT")
	Slice(s, 3, 1)
}

func TestRevComp(t *testing.T) {
	cases := []struct{ in, want string }{
		{"ACGT", "ACGT"},
		{"AATT", "AATT"},
		{"GGCC", "GGCC"},
		{"AAAA", "TTTT"},
		{"AUGC", "GCAT"}, // U treated as A's complement source
		{"ANGT", "ACNT"},
	}
	for _, c := range cases {
		got := RevComp(Of(c.in)).String()
		if got != c.want {
			t.Errorf("RevComp(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTranslateStopsAtFirstStop(t *testing.T) {
	// ATG GCA TAA GCA -> M A * (stop consumes the rest)
	tr := Translate(Of("ATGGCATAAGCA"))
	if got, want := tr.Len(), 3; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if got, want := tr.String(), "MA*"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if tr.(TranslatedSequence).StopIndex() != 2 {
		t.Fatalf("StopIndex() = %d, want 2", tr.(TranslatedSequence).StopIndex())
	}
}

func TestTranslateNoStopFound(t *testing.T) {
	tr := Translate(Of("ATGGCAAAA"))
	if got, want := tr.String(), "MAK"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if tr.(TranslatedSequence).StopIndex() != -1 {
		t.Fatal("expected StopIndex() == -1 when no stop found")
	}
}

func TestSplice(t *testing.T) {
	s := Splice(Of("AAA"), Of("CCC"), Of("GGG"))
	if got, want := s.Len(), 9; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if got, want := s.String(), "AAACCCGGG"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got, want := s.At(3), byte('C'); got != want {
		t.Fatalf("At(3) = %c, want %c", got, want)
	}
}

func TestSpliceEmptyPieces(t *testing.T) {
	s := Splice(Of(""), Of("AC"), Of(""))
	if got, want := s.String(), "AC"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestSliceOfSplicedLazyComposition(t *testing.T) {
	// prefix + alt + suffix pattern used by the consequence engine
	prefix := Slice(Of("AAACCCGGG"), 0, 3)
	alt := Of("TTT")
	suffix := Slice(Of("AAACCCGGG"), 6, 9)
	altered := Splice(prefix, alt, suffix)
	if got, want := altered.String(), "AAATTTGGG"; got != want {
		t.Fatalf("altered = %q, want %q", got, want)
	}
}
