package seq

import "strings"

// Sequence is a lazy, read-only view over a run of characters: nucleotide
// bases, single-letter residues, or three-letter residue runs treated as a
// byte stream. Implementations borrow from an underlying string or provider
// slice and must not be retained past the call that produced them.
type Sequence interface {
	// Len returns the number of characters in the view.
	Len() int
	// At returns the character at position i, 0 <= i < Len().
	At(i int) byte
	// String materialises the full view. Callers that only need a slice
	// should prefer At/Len to avoid the allocation.
	String() string
}

// Literal is a Sequence backed directly by a string.
type Literal string

func (l Literal) Len() int      { return len(l) }
func (l Literal) At(i int) byte { return l[i] }
func (l Literal) String() string { return string(l) }

// Of wraps a plain string as a Sequence.
func Of(s string) Sequence { return Literal(s) }

// Materialize returns the full string content of a Sequence.
func Materialize(s Sequence) string {
	if s == nil {
		return ""
	}
	if lit, ok := s.(Literal); ok {
		return string(lit)
	}
	var b strings.Builder
	b.Grow(s.Len())
	for i := 0; i < s.Len(); i++ {
		b.WriteByte(s.At(i))
	}
	return b.String()
}

// SliceSequence is a lazy [start,end) view over an inner sequence.
type SliceSequence struct {
	inner      Sequence
	start, end int
}

// Slice returns the [start,end) view over s. It is an error (ValidationError
// semantics are the caller's responsibility; this constructor panics on a
// malformed range since it is a programming error, not user input) if
// start>end or end>s.Len().
func Slice(s Sequence, start, end int) Sequence {
	if start > end || end > s.Len() || start < 0 {
		panic("seq: invalid slice range")
	}
	return SliceSequence{inner: s, start: start, end: end}
}

func (s SliceSequence) Len() int { return s.end - s.start }
func (s SliceSequence) At(i int) byte {
	return s.inner.At(s.start + i)
}
func (s SliceSequence) String() string { return Materialize(s) }

// RevCompSequence lazily reverse-complements an inner nucleotide sequence.
type RevCompSequence struct {
	inner Sequence
}

// RevComp returns the reverse complement of s.
func RevComp(s Sequence) Sequence { return RevCompSequence{inner: s} }

func (r RevCompSequence) Len() int { return r.inner.Len() }
func (r RevCompSequence) At(i int) byte {
	return Complement(r.inner.At(r.inner.Len() - 1 - i))
}
func (r RevCompSequence) String() string { return Materialize(r) }

// TranslatedSequence lazily translates an inner nucleotide sequence,
// terminating at the first stop codon: no residues are emitted past it.
type TranslatedSequence struct {
	inner   Sequence
	stopIdx int // codon index of first stop, or -1 if none found within inner
}

// Translate returns the protein translation of s, from its first base
// through (and including) the first stop codon. Len() reflects only the
// residues actually emitted.
func Translate(s Sequence) Sequence {
	n := s.Len() / 3
	stop := -1
	for i := 0; i < n; i++ {
		c := codonAt(s, i)
		if IsStopCodon(c) {
			stop = i
			break
		}
	}
	return TranslatedSequence{inner: s, stopIdx: stop}
}

func codonAt(s Sequence, codonIdx int) string {
	b := make([]byte, 3)
	base := codonIdx * 3
	b[0], b[1], b[2] = s.At(base), s.At(base+1), s.At(base+2)
	return string(b)
}

func (t TranslatedSequence) Len() int {
	if t.stopIdx >= 0 {
		return t.stopIdx + 1
	}
	return t.inner.Len() / 3
}
func (t TranslatedSequence) At(i int) byte {
	return TranslateCodon(codonAt(t.inner, i))
}
func (t TranslatedSequence) String() string { return Materialize(t) }

// StopIndex returns the 0-based residue index of the first stop codon
// encountered during translation, or -1 if translation ran off the end of
// the inner sequence without hitting one.
func (t TranslatedSequence) StopIndex() int { return t.stopIdx }

// SplicedSequence concatenates a run of pieces into one logical sequence
// without copying them.
type SplicedSequence struct {
	pieces []Sequence
	bounds []int // cumulative length after each piece
}

// Splice concatenates pieces, left to right, into one Sequence.
func Splice(pieces ...Sequence) Sequence {
	bounds := make([]int, len(pieces))
	total := 0
	for i, p := range pieces {
		total += p.Len()
		bounds[i] = total
	}
	return SplicedSequence{pieces: pieces, bounds: bounds}
}

func (s SplicedSequence) Len() int {
	if len(s.bounds) == 0 {
		return 0
	}
	return s.bounds[len(s.bounds)-1]
}

func (s SplicedSequence) At(i int) byte {
	for idx, bound := range s.bounds {
		if i < bound {
			prev := 0
			if idx > 0 {
				prev = s.bounds[idx-1]
			}
			return s.pieces[idx].At(i - prev)
		}
	}
	panic("seq: index out of range")
}

func (s SplicedSequence) String() string { return Materialize(s) }
