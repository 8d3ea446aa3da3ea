package equivalence

import (
	"github.com/hgvskit/hgvskit/internal/txmap"
	"github.com/hgvskit/hgvskit/internal/variant"
)

// fakeProvider is a minimal in-memory variant.DataProvider for exercising
// the equivalence engine without a real reference genome.
type fakeProvider struct {
	genomic     map[string]string
	transcripts map[string]*variant.Transcript
	txSeq       map[string]string
	protein     map[string]string
	symbols     map[string][]variant.IdentifierAccession
	idType      map[string]variant.IdentifierType
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		genomic:     make(map[string]string),
		transcripts: make(map[string]*variant.Transcript),
		txSeq:       make(map[string]string),
		protein:     make(map[string]string),
		symbols:     make(map[string][]variant.IdentifierAccession),
		idType:      make(map[string]variant.IdentifierType),
	}
}

func (p *fakeProvider) GetTranscript(accession, referenceAccession string) (*variant.Transcript, error) {
	tx, ok := p.transcripts[accession]
	if !ok {
		return nil, variant.NewValidationError("unknown transcript " + accession)
	}
	return tx, nil
}

func (p *fakeProvider) GetSeq(accession string, start, end int64, kind variant.SeqKind) (string, error) {
	var s string
	var ok bool
	switch kind {
	case variant.SeqGenomic:
		s, ok = p.genomic[accession]
	case variant.SeqTranscript:
		s, ok = p.txSeq[accession]
	case variant.SeqProtein:
		s, ok = p.protein[accession]
	}
	if !ok {
		return "", variant.NewValidationError("unknown accession " + accession)
	}
	if end == -1 {
		end = int64(len(s))
	}
	if start < 0 || end > int64(len(s)) || start > end {
		return "", variant.NewValidationError("range out of bounds")
	}
	return s[start:end], nil
}

func (p *fakeProvider) GetSymbolAccessions(symbol string, sourceKind, targetKind variant.IdentifierType) ([]variant.IdentifierAccession, error) {
	return p.symbols[symbol], nil
}

func (p *fakeProvider) GetIdentifierType(id string) variant.IdentifierType {
	if t, ok := p.idType[id]; ok {
		return t
	}
	return variant.UnknownIdentifier
}

func (p *fakeProvider) CToG(accession string, pos variant.BaseOffsetPosition, offset variant.IntronicOffset) (string, variant.GenomicPos, error) {
	tx, ok := p.transcripts[accession]
	if !ok {
		return "", 0, variant.NewValidationError("unknown transcript " + accession)
	}
	pos.Offset = offset
	g, err := txmap.New(tx).ResolveToGenomic(pos)
	if err != nil {
		return "", 0, err
	}
	return tx.ReferenceAccession, g, nil
}
