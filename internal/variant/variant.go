package variant

// Kind discriminates the six coordinate flavours a SequenceVariant can take.
type Kind int

const (
	Genomic Kind = iota
	Coding
	Protein
	Mitochondrial
	NonCoding
	Rna
)

func (k Kind) String() string {
	switch k {
	case Genomic:
		return "g"
	case Coding:
		return "c"
	case Protein:
		return "p"
	case Mitochondrial:
		return "m"
	case NonCoding:
		return "n"
	case Rna:
		return "r"
	default:
		return "?"
	}
}

// IsNucleotide reports whether this kind carries a NucleotideEdit (as
// opposed to Protein's ProteinEdit).
func (k Kind) IsNucleotide() bool { return k != Protein }

// NucleotidePosition is the position type used by genomic/coding/noncoding/
// mitochondrial/rna variants: a BaseOffsetPosition interval. Genomic and
// mitochondrial variants use GenomicPos-equivalent bases (Anchor is ignored,
// Offset always 0); coding/noncoding/rna use the full anchor+offset algebra.
type NucleotidePosition = Interval[BaseOffsetPosition]

// ProteinPosition is the position type used by protein variants.
type ProteinPosition = Interval[ProteinPos]

// Variant is the core positioned-edit record shared by all six coordinate
// flavours. Exactly one of NucleotideEdit/ProteinEdit is meaningful,
// selected by Kind.
type Variant struct {
	Accession string
	Gene      string // optional gene symbol context
	Kind      Kind

	NucPos  NucleotidePosition
	ProtPos ProteinPosition

	NucEdit  NucleotideEdit
	ProtEdit ProteinEdit

	Uncertain bool // position or edit wrapped in HGVS uncertainty brackets
	Predicted bool // protein consequence marked as predicted, e.g. "(p.Gly12Cys)"
}

// IsProtein reports whether v is a protein-flavour variant.
func (v *Variant) IsProtein() bool { return v.Kind == Protein }

// Edit returns the variant's edit as an untyped value, for callers that
// switch on concrete type regardless of flavour.
func (v *Variant) Edit() any {
	if v.IsProtein() {
		return v.ProtEdit
	}
	return v.NucEdit
}

// Clone returns a shallow copy of v; since Variant is immutable after
// construction by convention, Clone is the only legal way to derive a
// modified value (construct a new Variant with the fields that change).
func (v *Variant) Clone() *Variant {
	clone := *v
	return &clone
}
