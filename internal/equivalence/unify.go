package equivalence

import "github.com/hgvskit/hgvskit/internal/variant"

// unionFind is a minimal union-find over Unknown(pos) alias classes, with
// at most one Known symbol bound to each class's representative.
type unionFind struct {
	parent map[int]int
	bound  map[int]byte
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[int]int), bound: make(map[int]byte)}
}

func (u *unionFind) find(x int) int {
	if _, ok := u.parent[x]; !ok {
		u.parent[x] = x
	}
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union merges the alias classes of a and b, failing if both are already
// bound to different symbols.
func (u *unionFind) union(a, b int) bool {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return true
	}
	sa, boundA := u.bound[ra]
	sb, boundB := u.bound[rb]
	if boundA && boundB && !variant.SymbolsEqual(sa, sb) {
		return false
	}
	u.parent[rb] = ra
	if boundB && !boundA {
		u.bound[ra] = sb
	}
	delete(u.bound, rb)
	return true
}

// bind ties x's alias class to symbol, failing if the class is already
// bound to a different symbol. This is the strict-fail reconciliation
// policy decided in DESIGN.md's Open Questions: a later occurrence of the
// same Unknown(pos) that disagrees with an earlier binding makes the whole
// comparison Different rather than silently preferring one side.
func (u *unionFind) bind(x int, symbol byte) bool {
	r := u.find(x)
	if s, ok := u.bound[r]; ok {
		return variant.SymbolsEqual(s, symbol)
	}
	u.bound[r] = symbol
	return true
}

// Unify reports whether two token vectors can be reconciled under a single
// alias-consistent binding of Unknown(pos) classes to Known symbols
// (spec.md §4.E's reconciliation/unification step). A Wildcard on either
// side short-circuits the remaining comparison in that side's favour: an
// open-ended tail matches anything, including a shorter or absent
// continuation on the other side.
func Unify(v1, v2 []variant.Token) bool {
	uf := newUnionFind()
	n := len(v1)
	if len(v2) < n {
		n = len(v2)
	}
	for i := 0; i < n; i++ {
		a, b := v1[i], v2[i]
		if a.Kind == variant.TokenWildcard || b.Kind == variant.TokenWildcard {
			return true
		}
		if !unifyPair(uf, a, b) {
			return false
		}
	}
	return len(v1) == len(v2)
}

func unifyPair(uf *unionFind, a, b variant.Token) bool {
	switch {
	case a.Kind == variant.TokenAny || b.Kind == variant.TokenAny:
		return true
	case a.Kind == variant.TokenKnown && b.Kind == variant.TokenKnown:
		return variant.SymbolsEqual(a.Symbol, b.Symbol)
	case a.Kind == variant.TokenKnown && b.Kind == variant.TokenUnknown:
		return uf.bind(b.Pos, a.Symbol)
	case a.Kind == variant.TokenUnknown && b.Kind == variant.TokenKnown:
		return uf.bind(a.Pos, b.Symbol)
	case a.Kind == variant.TokenUnknown && b.Kind == variant.TokenUnknown:
		return uf.union(a.Pos, b.Pos)
	default:
		return false
	}
}
