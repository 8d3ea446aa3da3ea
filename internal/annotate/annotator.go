// Package annotate bridges raw VCF/MAF rows to the core engine: for each
// genomic variant it finds overlapping transcripts, resolves the
// genomic position into CDS-relative coordinates via internal/txmap,
// projects coding edits to their protein consequence via
// internal/consequence, and renders the result as HGVSc/HGVSp text via
// internal/hgvsgrammar. It keeps the teacher's Annotator/AnnotateAll
// shape (SetCanonicalOnly, SetWarnings, a TranscriptLookup-style
// dependency, AnnotateAll driving any vcf.VariantParser) but replaces
// its codon-diff-only PredictConsequence with the full engine.
package annotate

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/hgvskit/hgvskit/internal/consequence"
	"github.com/hgvskit/hgvskit/internal/hgvsgrammar"
	"github.com/hgvskit/hgvskit/internal/txmap"
	"github.com/hgvskit/hgvskit/internal/variant"
	"github.com/hgvskit/hgvskit/internal/vcf"
)

// TranscriptLookup is what Annotator needs from a reference-data backend:
// find which transcripts overlap a region, then fetch their structure and
// sequence through the same DataProvider contract the core uses.
type TranscriptLookup interface {
	variant.DataProvider
	variant.TranscriptSearch
}

// Annotator annotates VCF/MAF rows with consequence predictions.
type Annotator struct {
	provider      TranscriptLookup
	canonicalOnly bool
	warnings      io.Writer
	log           *zap.Logger
}

// NewAnnotator creates an Annotator backed by the given provider.
func NewAnnotator(p TranscriptLookup) *Annotator {
	return &Annotator{provider: p, log: zap.NewNop()}
}

// SetCanonicalOnly configures whether to only report canonical transcript annotations.
//
// The core Transcript contract (internal/variant.Transcript) carries no
// canonical flag of its own -- canonical-transcript selection is a
// provider-level policy (GENCODE's own canonical-overrides file, in the
// teacher's cache package) -- so this is a no-op until a provider that
// exposes that policy is wired in. It is kept so the CLI flag has
// somewhere to land without widening the DataProvider interface for a
// concern only one provider implementation currently has an answer for.
func (a *Annotator) SetCanonicalOnly(canonical bool) {
	a.canonicalOnly = canonical
}

// SetWarnings sets the writer for warning messages.
func (a *Annotator) SetWarnings(w io.Writer) {
	a.warnings = w
}

// SetLogger sets the structured logger used for per-variant diagnostics.
func (a *Annotator) SetLogger(l *zap.Logger) {
	if l != nil {
		a.log = l
	}
}

// Annotate annotates a single genomic variant and returns one Annotation
// per overlapping transcript (or a single intergenic Annotation if none
// overlap).
func (a *Annotator) Annotate(v *vcf.Variant) ([]*Annotation, error) {
	chrom := v.NormalizeChrom()
	variantID := FormatVariantID(v.Chrom, v.Pos, v.Ref, v.Alt)
	g0 := v.Pos - 1 // 1-based VCF -> 0-based GenomicPos

	transcriptIDs, err := a.provider.GetTranscriptsForRegion(chrom, g0, g0+int64(len(v.Ref)))
	if err != nil {
		return nil, fmt.Errorf("find transcripts: %w", err)
	}
	if len(transcriptIDs) == 0 {
		return []*Annotation{intergenicAnnotation(variantID, v.Alt)}, nil
	}

	var anns []*Annotation
	for _, id := range transcriptIDs {
		ann, err := a.annotateOnTranscript(v, chrom, g0, id, variantID)
		if err != nil {
			a.log.Debug("skipping transcript", zap.String("transcript", id), zap.Error(err))
			continue
		}
		anns = append(anns, ann)
	}

	if len(anns) == 0 {
		return []*Annotation{intergenicAnnotation(variantID, v.Alt)}, nil
	}
	return anns, nil
}

func intergenicAnnotation(variantID, alt string) *Annotation {
	return &Annotation{
		VariantID:   variantID,
		Consequence: ConsequenceIntergenicVariant,
		Impact:      GetImpact(ConsequenceIntergenicVariant),
		Allele:      alt,
	}
}

func (a *Annotator) annotateOnTranscript(v *vcf.Variant, chrom string, g0 int64, transcriptID, variantID string) (*Annotation, error) {
	tx, err := a.provider.GetTranscript(transcriptID, chrom)
	if err != nil {
		return nil, fmt.Errorf("get transcript %s: %w", transcriptID, err)
	}
	mapper := txmap.New(tx)

	bp, err := mapper.ResolveFromGenomic(variant.GenomicPos(g0))
	if err != nil {
		return nil, fmt.Errorf("resolve position: %w", err)
	}

	ann := &Annotation{
		VariantID:    variantID,
		TranscriptID: tx.Accession,
		GeneName:     tx.Gene,
		Allele:       v.Alt,
	}

	if term := intronicOrUTRConsequence(bp); term != "" {
		ann.Consequence = term
		ann.Impact = GetImpact(term)
		ann.HGVSc = hgvsgrammar.Format(&variant.Variant{
			Accession: tx.Accession,
			Kind:      variant.Coding,
			NucPos:    variant.Point(bp),
			NucEdit:   variant.RefAlt{Ref: v.Ref, Alt: v.Alt},
		})
		return ann, nil
	}

	txSeq, err := a.provider.GetSeq(tx.Accession, 0, -1, variant.SeqTranscript)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript sequence: %w", err)
	}

	start, err := mapper.CToN(bp)
	if err != nil {
		return nil, err
	}
	end := start + variant.TranscriptPos(len(v.Ref))

	res, err := consequence.Project(tx, txSeq, int64(start), int64(end), variant.RefAlt{Ref: v.Ref, Alt: v.Alt}, v.Ref)
	if err != nil {
		return nil, fmt.Errorf("project consequence: %w", err)
	}

	ann.ProteinPosition = int64(res.Position.Start) + 1
	ann.CDSPosition = int64(start) - tx.CDSStartIndex + 1
	ann.CDNAPosition = int64(start) + 1

	nucVariant := &variant.Variant{
		Accession: tx.Accession,
		Kind:      variant.Coding,
		NucPos:    variant.Point(bp),
		NucEdit:   variant.RefAlt{Ref: v.Ref, Alt: v.Alt},
	}
	ann.HGVSc = hgvsgrammar.Format(nucVariant)

	protVariant := &variant.Variant{
		Accession: proteinAccessionFor(tx.Accession),
		Kind:      variant.Protein,
		ProtPos:   res.Position,
		ProtEdit:  res.Edit,
	}
	ann.HGVSp = hgvsgrammar.Format(protVariant)

	ann.Consequence, ann.AminoAcidChange = classifyProteinEdit(res.Edit)
	ann.Impact = GetImpact(ann.Consequence)
	return ann, nil
}

// proteinAccessionFor derives a placeholder protein accession from a
// transcript accession (NM_xxx -> NP_xxx) when no provider-supplied
// mapping exists; callers that need the true RefSeq pairing should
// register it with the provider instead.
func proteinAccessionFor(transcriptAccession string) string {
	if len(transcriptAccession) >= 3 && transcriptAccession[:3] == "NM_" {
		return "NP_" + transcriptAccession[3:]
	}
	return transcriptAccession
}

// intronicOrUTRConsequence classifies a resolved CDS-anchored position as
// splice/intron/UTR, or returns "" when the position is coding and needs
// consequence.Project instead.
func intronicOrUTRConsequence(bp variant.BaseOffsetPosition) string {
	if bp.IsIntronic() {
		off := int64(bp.Offset)
		abs := off
		if abs < 0 {
			abs = -abs
		}
		switch {
		case abs <= 2 && off > 0:
			return ConsequenceSpliceDonor
		case abs <= 2 && off < 0:
			return ConsequenceSpliceAcceptor
		case abs <= 8:
			return ConsequenceSpliceRegionIntron
		default:
			return ConsequenceIntronVariant
		}
	}
	if bp.Anchor == variant.CdsEnd {
		return Consequence3PrimeUTR
	}
	if bp.Anchor == variant.CdsStart && bp.Base < 1 {
		return Consequence5PrimeUTR
	}
	return ""
}

// classifyProteinEdit maps a protein consequence engine result to an SO
// consequence term and a short amino-acid-change string ("G12C"-style).
func classifyProteinEdit(edit variant.ProteinEdit) (consequence, aaChange string) {
	switch ed := edit.(type) {
	case variant.PIdentity:
		return ConsequenceSynonymousVariant, ""
	case variant.PSubst:
		switch {
		case ed.Alt == '*':
			return ConsequenceStopGained, fmt.Sprintf("%c>%c", ed.Ref, ed.Alt)
		case ed.Ref == '*':
			return ConsequenceStopLost, fmt.Sprintf("%c>%c", ed.Ref, ed.Alt)
		default:
			return ConsequenceMissenseVariant, fmt.Sprintf("%c>%c", ed.Ref, ed.Alt)
		}
	case variant.PFs:
		return ConsequenceFrameshiftVariant, ""
	case variant.PExt:
		return ConsequenceStopLost, ""
	case variant.PDel:
		return ConsequenceInframeDeletion, ""
	case variant.PIns:
		return ConsequenceInframeInsertion, ""
	case variant.PDelIns:
		return ConsequenceCodingSequenceVariant, ""
	case variant.PDup:
		return ConsequenceInframeInsertion, ""
	case variant.PRepeat:
		return ConsequenceCodingSequenceVariant, ""
	default:
		return ConsequenceCodingSequenceVariant, ""
	}
}

// AnnotateAll annotates all variants from a parser. The parser can be any
// type that implements vcf.VariantParser (VCF, MAF, etc.).
func (a *Annotator) AnnotateAll(parser vcf.VariantParser, writer AnnotationWriter) error {
	variantCount := 0

	for {
		v, err := parser.Next()
		if err != nil {
			return fmt.Errorf("read variant: %w", err)
		}
		if v == nil {
			break
		}

		for _, variant := range vcf.SplitMultiAllelic(v) {
			annotations, err := a.Annotate(variant)
			if err != nil {
				if a.warnings != nil {
					fmt.Fprintf(a.warnings, "Warning: failed to annotate %s:%d: %v\n", variant.Chrom, variant.Pos, err)
				}
				continue
			}

			for _, ann := range annotations {
				if err := writer.Write(variant, ann); err != nil {
					return fmt.Errorf("write annotation: %w", err)
				}
			}
		}

		variantCount++
	}

	if variantCount == 0 && a.warnings != nil {
		fmt.Fprintln(a.warnings, "Info: 0 variants processed")
	}

	return writer.Flush()
}

// AnnotationWriter defines the interface for writing annotations.
type AnnotationWriter interface {
	WriteHeader() error
	Write(v *vcf.Variant, ann *Annotation) error
	Flush() error
}
