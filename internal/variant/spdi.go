package variant

import "fmt"

// SPDI is the canonical four-tuple form: accession, 0-based position,
// deleted sequence, inserted sequence (spec.md §4.C, §6.4).
type SPDI struct {
	Accession string
	Position  int64
	Deleted   string
	Inserted  string
}

func (s SPDI) String() string {
	return fmt.Sprintf("%s:%d:%s:%s", s.Accession, s.Position, s.Deleted, s.Inserted)
}

// RefFetcher fetches the reference bases for [start,end) on an accession,
// used to resolve implicit ref fields and reverse-complements. Satisfied by
// a DataProvider bound to a fixed accession/kind.
type RefFetcher func(start, end int64) (string, error)

// ResolveRepeatSpan scans forward from start consuming contiguous copies of
// unit against the live reference, and returns the end of the last
// fully-matched copy. A Repeat edit's Min/Max describe the resulting copy
// number, not the extent of the existing run in the reference; callers need
// that run's true end to compute the net shift a contraction or expansion
// produces (spec.md's repeat-contraction scenario), not whatever span they
// happened to assert the edit against.
//
// Returns start unchanged if unit is empty, fetch is nil, or the first copy
// doesn't match.
func ResolveRepeatSpan(start int64, unit string, fetch RefFetcher) int64 {
	if unit == "" || fetch == nil {
		return start
	}
	step := int64(len(unit))
	current := start
	for {
		chunk, err := fetch(current, current+step)
		if err != nil || chunk != unit {
			break
		}
		current += step
	}
	return current
}

// ToSPDI converts a positioned nucleotide edit spanning the half-open
// genomic range [start,end) into SPDI form. fetch supplies reference bases
// when an edit's Ref/Unit is implicit; it may be nil if the edit carries all
// the sequence it needs explicitly (fetch is only invoked when required).
func ToSPDI(accession string, start, end int64, edit NucleotideEdit, fetch RefFetcher) (SPDI, error) {
	switch e := edit.(type) {
	case RefAlt:
		ref, alt := e.Ref, e.Alt
		if ref == "" && fetch != nil {
			r, err := fetch(start, end)
			if err != nil {
				return SPDI{}, WrapDataProviderError("fetch ref for RefAlt", err)
			}
			ref = r
		}
		prefix := commonPrefixLen(ref, alt)
		// The prefix is bounded by the shorter string, and the suffix is
		// taken only from what the prefix leaves, so the two never overlap.
		// The shorter string can be stripped entirely (ref "A", alt "AT"
		// leaves an empty Deleted).
		maxPrefix := minInt(len(ref), len(alt))
		if prefix > maxPrefix {
			prefix = maxPrefix
		}
		suffix := commonSuffixLen(ref[prefix:], alt[prefix:])
		trimmedRef := ref[prefix : len(ref)-suffix]
		trimmedAlt := alt[prefix : len(alt)-suffix]
		return SPDI{
			Accession: accession,
			Position:  start + int64(prefix),
			Deleted:   trimmedRef,
			Inserted:  trimmedAlt,
		}, nil

	case Del:
		ref := e.Ref
		if ref == "" && fetch != nil {
			r, err := fetch(start, end)
			if err != nil {
				return SPDI{}, WrapDataProviderError("fetch ref for Del", err)
			}
			ref = r
		}
		return SPDI{Accession: accession, Position: start, Deleted: ref}, nil

	case Ins:
		return SPDI{Accession: accession, Position: start, Inserted: e.Alt}, nil

	case Dup:
		ref := e.Ref
		if ref == "" && fetch != nil {
			r, err := fetch(start, end)
			if err != nil {
				return SPDI{}, WrapDataProviderError("fetch ref for Dup", err)
			}
			ref = r
		}
		// A duplication is an insertion of a second copy at the 3' end of
		// the duplicated range.
		return SPDI{Accession: accession, Position: end, Inserted: ref}, nil

	case Inv:
		ref := e.Ref
		if ref == "" && fetch != nil {
			r, err := fetch(start, end)
			if err != nil {
				return SPDI{}, WrapDataProviderError("fetch ref for Inv", err)
			}
			ref = r
		}
		return SPDI{Accession: accession, Position: start, Deleted: ref, Inserted: revComp(ref)}, nil

	case Repeat:
		if e.Unit == "" {
			return SPDI{}, NewUnsupportedError("repeat edit without explicit unit cannot be converted to SPDI")
		}
		consumedEnd := end
		if fetch != nil {
			consumedEnd = ResolveRepeatSpan(start, e.Unit, fetch)
		}
		ref := e.Ref
		if ref == "" && fetch != nil {
			r, err := fetch(start, consumedEnd)
			if err != nil {
				return SPDI{}, WrapDataProviderError("fetch ref for Repeat", err)
			}
			ref = r
		}
		inserted := repeatUnit(e.Unit, e.Max)
		prefix := commonPrefixLen(ref, inserted)
		maxPrefix := minInt(len(ref), len(inserted))
		if prefix > maxPrefix {
			prefix = maxPrefix
		}
		suffix := commonSuffixLen(ref[prefix:], inserted[prefix:])
		return SPDI{
			Accession: accession,
			Position:  start + int64(prefix),
			Deleted:   ref[prefix : len(ref)-suffix],
			Inserted:  inserted[prefix : len(inserted)-suffix],
		}, nil

	case Copy:
		return SPDI{}, NewUnsupportedError("Copy edit requires a resolved unit; convert to Repeat first")

	case Identity:
		return SPDI{Accession: accession, Position: start}, nil

	default:
		return SPDI{}, NewUnsupportedError(fmt.Sprintf("unrecognised nucleotide edit %T", edit))
	}
}

func repeatUnit(unit string, copies int) string {
	out := make([]byte, 0, len(unit)*copies)
	for i := 0; i < copies; i++ {
		out = append(out, unit...)
	}
	return string(out)
}

func commonPrefixLen(a, b string) int {
	n := minInt(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonSuffixLen(a, b string) int {
	n := minInt(len(a), len(b))
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func revComp(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[len(s)-1-i] = complementBase(s[i])
	}
	return string(b)
}

func complementBase(b byte) byte {
	switch b {
	case 'A', 'a':
		return 'T'
	case 'T', 't', 'U', 'u':
		return 'A'
	case 'G', 'g':
		return 'C'
	case 'C', 'c':
		return 'G'
	default:
		return 'N'
	}
}
