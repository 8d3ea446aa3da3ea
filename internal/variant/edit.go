package variant

// NucleotideEdit is the closed sum type over nucleotide-level edits. Each
// case is a distinct struct implementing the marker method; callers type
// switch on the concrete type.
type NucleotideEdit interface {
	nucleotideEdit()
}

// RefAlt is a substitution: ref replaced by alt. Both may span more than one
// base (an MNV). Ref is implicit (empty) when not asserted by the caller and
// must be fetched from the reference when needed.
type RefAlt struct {
	Ref string
	Alt string
}

// Del deletes Ref (implicit/empty if not asserted).
type Del struct {
	Ref string
}

// Ins inserts Alt between the interval's two flanking bases. HGVS positions
// an insertion as a_b (adjacent bases); the interval's Start/End in variant
// space are those two flanking positions.
type Ins struct {
	Alt string
}

// Dup duplicates Ref (implicit/empty if not asserted), inserting a second
// copy immediately 3' of the duplicated span.
type Dup struct {
	Ref string
}

// Inv inverts (reverse-complements) Ref in place.
type Inv struct {
	Ref string
}

// Repeat is a tandem-repeat edit: Unit copied Min..Max times (Min==Max for an
// exact count). Ref, if present, is the reference span being replaced.
type Repeat struct {
	Ref      string
	Unit     string
	Min, Max int
}

// Copy is a gain of n total copies (used for large tandem/segmental
// duplications expressed as a copy count rather than an explicit unit).
type Copy struct {
	N int
}

// Identity asserts no change (c.=).
type Identity struct{}

func (RefAlt) nucleotideEdit()   {}
func (Del) nucleotideEdit()      {}
func (Ins) nucleotideEdit()      {}
func (Dup) nucleotideEdit()      {}
func (Inv) nucleotideEdit()      {}
func (Repeat) nucleotideEdit()   {}
func (Copy) nucleotideEdit()     {}
func (Identity) nucleotideEdit() {}

// ProteinEdit is the closed sum type over protein-level edits, as produced
// by the protein-consequence engine's minimal-edit inference.
type ProteinEdit interface {
	proteinEdit()
}

// Subst is a one-for-one residue substitution.
type PSubst struct {
	Ref, Alt byte
}

// PDel deletes one or more residues.
type PDel struct {
	Ref string // residues deleted, when known
}

// PIns inserts residues between two flanking positions.
type PIns struct {
	Alt string
}

// PDelIns replaces a residue span with a different one (not a pure del, ins,
// or one-for-one substitution).
type PDelIns struct {
	Ref, Alt string
}

// PDup duplicates a residue span immediately following itself.
type PDup struct {
	Ref string
}

// PFs is a frameshift: Alt is the new first residue at the frame-shifted
// position, Term marks a novel stop was reached, and Length (if known) is
// the distance in residues from the frameshift start to the new stop,
// inclusive of the frameshifted residue. Length == 0 means unknown ("?").
type PFs struct {
	Alt    byte
	Term   bool
	Length int
}

// PExt is a stop-loss extension: the original stop is replaced by Alt and
// translation continues Length residues (0 = unknown) before the next stop.
type PExt struct {
	Alt    byte
	Term   bool
	Length int
}

// PRepeat is a protein-level tandem repeat, analogous to the nucleotide
// Repeat edit.
type PRepeat struct {
	Ref      string
	Min, Max int
}

// PIdentity asserts no change (p.=).
type PIdentity struct{}

// PSpecial carries a non-positional HGVS protein predicate that does not fit
// the structural cases above (e.g. "p.?" or "p.0").
type PSpecial struct {
	Text string
}

func (PSubst) proteinEdit()   {}
func (PDel) proteinEdit()     {}
func (PIns) proteinEdit()     {}
func (PDelIns) proteinEdit()  {}
func (PDup) proteinEdit()     {}
func (PFs) proteinEdit()      {}
func (PExt) proteinEdit()     {}
func (PRepeat) proteinEdit()  {}
func (PIdentity) proteinEdit() {}
func (PSpecial) proteinEdit() {}
