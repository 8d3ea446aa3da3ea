package equivalence

import (
	"github.com/hgvskit/hgvskit/internal/seq"
	"github.com/hgvskit/hgvskit/internal/variant"
)

// BuildProjection computes the token vector (spec.md §4.E's apply_edit) a
// nucleotide edit produces over the view window [viewStart,viewEnd), where
// [editStart,editEnd) is the edit's own asserted span within that window.
// Positions outside the edit are filled with Known tokens fetched live;
// ref is seeded with every position the edit or the fetch touches, so a
// caller can detect an internally-inconsistent reference assertion via the
// error SparseRef.Set returns.
//
// Callers are expected to have already 3'-shift normalized both sides being
// compared (internal/equivalence.Normalize) so that semantically equal
// edits land on the same [editStart,editEnd); BuildProjection does not
// itself realign differing edit positions.
func BuildProjection(ref *variant.SparseRef, viewStart, viewEnd, editStart, editEnd int64, edit variant.NucleotideEdit, fetch variant.RefFetcher) ([]variant.Token, error) {
	var tokens []variant.Token

	for i := viewStart; i < editStart; i++ {
		tok, err := knownAt(ref, i, fetch)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}

	edited, consumedEnd, err := nucleotideEditTokens(editStart, editEnd, edit, fetch)
	if err != nil {
		return nil, err
	}
	for i, tok := range edited {
		if err := ref.Set(int(editStart)+i, tok); err != nil {
			return nil, err
		}
	}
	tokens = append(tokens, edited...)

	for i := consumedEnd; i < viewEnd; i++ {
		tok, err := knownAt(ref, i, fetch)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// BuildProteinProjection is apply_edit's protein-token counterpart: PFs/PExt
// emit Any for their unresolved intermediate residues and a trailing
// Wildcard for an open (unknown-length) tail. A Wildcard absorbs the rest
// of the comparison window — nothing meaningful can be asserted past it.
func BuildProteinProjection(ref *variant.SparseRef, viewStart, viewEnd, editStart, editEnd int64, edit variant.ProteinEdit, fetch variant.RefFetcher) ([]variant.Token, error) {
	var tokens []variant.Token

	for i := viewStart; i < editStart; i++ {
		tok, err := knownAt(ref, i, fetch)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}

	edited, err := proteinEditTokens(editStart, editEnd, edit, fetch)
	if err != nil {
		return nil, err
	}
	for i, tok := range edited {
		if tok.Kind == variant.TokenKnown {
			if err := ref.Set(int(editStart)+i, tok); err != nil {
				return nil, err
			}
		}
	}
	tokens = append(tokens, edited...)

	if terminates(edited) {
		return tokens, nil
	}

	for i := editEnd; i < viewEnd; i++ {
		tok, err := knownAt(ref, i, fetch)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// terminates reports whether an edit's own token contribution ends
// translation: either an explicit open-ended Wildcard tail (PFs/PExt
// without a known terminus), or a literal stop ('*') anywhere in the
// edited tokens, since nothing meaningfully follows a stop regardless of
// which surface form (substitution-to-stop vs. insertion-of-Ter) produced
// it.
func terminates(tokens []variant.Token) bool {
	for _, t := range tokens {
		if t.Kind == variant.TokenWildcard {
			return true
		}
		if t.Kind == variant.TokenKnown && t.Symbol == '*' {
			return true
		}
	}
	return false
}

func knownAt(ref *variant.SparseRef, pos int64, fetch variant.RefFetcher) (variant.Token, error) {
	s, err := fetch(pos, pos+1)
	if err != nil {
		return variant.Token{}, err
	}
	if len(s) != 1 {
		return variant.Token{}, variant.NewValidationError("fetch returned unexpected length for a single base")
	}
	tok := variant.Known(s[0])
	if err := ref.Set(int(pos), tok); err != nil {
		return variant.Token{}, err
	}
	return tok, nil
}

func literalTokens(s string) []variant.Token {
	out := make([]variant.Token, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = variant.Known(s[i])
	}
	return out
}

// nucleotideEditTokens is the literal token sequence an edit contributes in
// place of its own [start,end) span, plus the true end of the reference span
// it consumes. For every kind but Repeat that's just end, the caller's own
// asserted span; a Repeat's Min/Max describe a copy count, not the extent of
// the existing run in the reference, so its consumed end comes from scanning
// forward past end's nominal boundary. A Dup's span keeps its original
// content and gains a second copy, matching the splice convention used by
// internal/consequence.Project and ToSPDI.
func nucleotideEditTokens(start, end int64, edit variant.NucleotideEdit, fetch variant.RefFetcher) ([]variant.Token, int64, error) {
	switch e := edit.(type) {
	case variant.RefAlt:
		return literalTokens(e.Alt), end, nil
	case variant.Del:
		return nil, end, nil
	case variant.Ins:
		return literalTokens(e.Alt), end, nil
	case variant.Dup:
		ref := e.Ref
		if ref == "" {
			r, err := fetch(start, end)
			if err != nil {
				return nil, end, err
			}
			ref = r
		}
		return literalTokens(ref + ref), end, nil
	case variant.Inv:
		ref := e.Ref
		if ref == "" {
			r, err := fetch(start, end)
			if err != nil {
				return nil, end, err
			}
			ref = r
		}
		return literalTokens(revComp(ref)), end, nil
	case variant.Repeat:
		if e.Unit == "" {
			return nil, end, variant.NewUnsupportedError("repeat edit without explicit unit cannot be projected")
		}
		consumedEnd := variant.ResolveRepeatSpan(start, e.Unit, fetch)
		return literalTokens(repeatUnit(e.Unit, e.Min)), consumedEnd, nil
	case variant.Copy:
		return nil, end, variant.NewUnsupportedError("copy edit requires a resolved unit; convert to Repeat first")
	case variant.Identity:
		ref, err := fetch(start, end)
		if err != nil {
			return nil, end, err
		}
		return literalTokens(ref), end, nil
	default:
		return nil, end, variant.NewUnsupportedError("unrecognised nucleotide edit")
	}
}

func proteinEditTokens(start, end int64, edit variant.ProteinEdit, fetch variant.RefFetcher) ([]variant.Token, error) {
	switch e := edit.(type) {
	case variant.PIdentity:
		ref, err := fetch(start, end)
		if err != nil {
			return nil, err
		}
		return literalTokens(ref), nil
	case variant.PSubst:
		return []variant.Token{variant.Known(e.Alt)}, nil
	case variant.PDel:
		return nil, nil
	case variant.PIns:
		return literalTokens(e.Alt), nil
	case variant.PDelIns:
		return literalTokens(e.Alt), nil
	case variant.PDup:
		return literalTokens(e.Ref + e.Ref), nil
	case variant.PRepeat:
		return literalTokens(e.Ref), nil
	case variant.PFs:
		return terminatingTokens(e.Alt, e.Term, e.Length), nil
	case variant.PExt:
		return terminatingTokens(e.Alt, e.Term, e.Length), nil
	case variant.PSpecial:
		return []variant.Token{variant.WildcardToken}, nil
	default:
		return nil, variant.NewUnsupportedError("unrecognised protein edit")
	}
}

// terminatingTokens renders a frameshift/extension's (Alt, Term, Length)
// triple as tokens: the new first residue is Known, the residues between it
// and the new stop are unresolved without a reference (Any), and an
// unterminated event (Term == false) is represented by a trailing Wildcard
// standing in for "everything from here to an unknown stop".
func terminatingTokens(alt byte, term bool, length int) []variant.Token {
	tokens := []variant.Token{variant.Known(alt)}
	if !term {
		return append(tokens, variant.WildcardToken)
	}
	for i := 0; i < length-2; i++ {
		tokens = append(tokens, variant.AnyToken)
	}
	return tokens
}

func revComp(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[len(s)-1-i] = seq.Complement(s[i])
	}
	return string(b)
}

func repeatUnit(unit string, copies int) string {
	out := make([]byte, 0, len(unit)*copies)
	for i := 0; i < copies; i++ {
		out = append(out, unit...)
	}
	return string(out)
}
