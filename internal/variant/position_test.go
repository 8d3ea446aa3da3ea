package variant

import "testing"

func TestBaseOffsetPositionStringExonic(t *testing.T) {
	p := BaseOffsetPosition{Base: 76, Anchor: CdsStart}
	if got, want := p.String(), "76"; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestBaseOffsetPositionStringIntronicPlus(t *testing.T) {
	p := BaseOffsetPosition{Base: 88, Offset: 1, Anchor: CdsStart}
	if got, want := p.String(), "88+1"; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestBaseOffsetPositionStringIntronicMinus(t *testing.T) {
	p := BaseOffsetPosition{Base: 89, Offset: -2, Anchor: CdsStart}
	if got, want := p.String(), "89-2"; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestBaseOffsetPositionStringUTR(t *testing.T) {
	p := BaseOffsetPosition{Base: -14, Anchor: CdsStart}
	if got, want := p.String(), "-14"; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
	p2 := BaseOffsetPosition{Base: 6, Offset: -3, Anchor: CdsEnd}
	if got, want := p2.String(), "*6-3"; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestBaseOffsetPositionIsIntronic(t *testing.T) {
	if (BaseOffsetPosition{Base: 1}).IsIntronic() {
		t.Fatal("zero offset should not be intronic")
	}
	if !(BaseOffsetPosition{Base: 1, Offset: 1}).IsIntronic() {
		t.Fatal("nonzero offset should be intronic")
	}
}

func TestPointInterval(t *testing.T) {
	iv := Point(GenomicPos(42))
	if iv.HasEnd {
		t.Fatal("point interval should not have an end")
	}
	if iv.Start != 42 {
		t.Fatalf("start = %d, want 42", iv.Start)
	}
}

func TestSpanInterval(t *testing.T) {
	iv := Span(GenomicPos(10), GenomicPos(20))
	if !iv.HasEnd {
		t.Fatal("span interval should have an end")
	}
	if iv.Start != 10 || iv.End != 20 {
		t.Fatalf("got [%d,%d)", iv.Start, iv.End)
	}
}

func TestAnchorString(t *testing.T) {
	cases := map[Anchor]string{
		TranscriptStart: "TranscriptStart",
		CdsStart:        "CdsStart",
		CdsEnd:          "CdsEnd",
	}
	for a, want := range cases {
		if got := a.String(); got != want {
			t.Fatalf("Anchor(%d).String() = %s, want %s", a, got, want)
		}
	}
}
