package provider

import (
	"sort"
	"sync"

	"github.com/hgvskit/hgvskit/internal/txmap"
	"github.com/hgvskit/hgvskit/internal/variant"
)

// Static is an in-memory variant.DataProvider/variant.TranscriptSearch
// backed entirely by maps a caller populates directly -- the fixture used by
// tests and by any CLI invocation small enough to not need the Gencode
// cache-file backend. It never reads from disk.
type Static struct {
	mu          sync.RWMutex
	transcripts map[string]*variant.Transcript
	genomic     map[string]string
	transcript  map[string]string
	protein     map[string]string
	symbols     map[string][]variant.IdentifierAccession
	idType      map[string]variant.IdentifierType
}

// NewStatic returns an empty Static provider ready for AddX calls.
func NewStatic() *Static {
	return &Static{
		transcripts: make(map[string]*variant.Transcript),
		genomic:     make(map[string]string),
		transcript:  make(map[string]string),
		protein:     make(map[string]string),
		symbols:     make(map[string][]variant.IdentifierAccession),
		idType:      make(map[string]variant.IdentifierType),
	}
}

// AddTranscript registers a transcript's structure, keyed by its accession.
func (s *Static) AddTranscript(tx *variant.Transcript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[tx.Accession] = tx
	s.idType[tx.Accession] = variant.TranscriptAccession
}

// AddGenomicSeq registers a genomic reference sequence under accession.
func (s *Static) AddGenomicSeq(accession, seq string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genomic[accession] = seq
	if _, ok := s.idType[accession]; !ok {
		s.idType[accession] = variant.GenomicAccession
	}
}

// AddTranscriptSeq registers a spliced transcript sequence under accession.
func (s *Static) AddTranscriptSeq(accession, seq string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript[accession] = seq
}

// AddProteinSeq registers a protein sequence under accession.
func (s *Static) AddProteinSeq(accession, seq string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.protein[accession] = seq
	if _, ok := s.idType[accession]; !ok {
		s.idType[accession] = variant.ProteinAccession
	}
}

// AddSymbol associates symbol with accession (of the given kind) for
// GetSymbolAccessions expansion, and marks symbol itself as a gene symbol.
func (s *Static) AddSymbol(symbol string, kind variant.IdentifierType, accession string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbols[symbol] = append(s.symbols[symbol], variant.IdentifierAccession{Type: kind, Accession: accession})
	s.idType[symbol] = variant.GeneSymbol
}

// SetIdentifierType overrides the classification GetIdentifierType reports
// for id, for accessions whose prefix heuristic would misclassify them.
func (s *Static) SetIdentifierType(id string, kind variant.IdentifierType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idType[id] = kind
}

func (s *Static) GetTranscript(accession, referenceAccession string) (*variant.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transcripts[accession]
	if !ok {
		return nil, variant.NewValidationError("unknown transcript accession: " + accession)
	}
	if referenceAccession != "" && tx.ReferenceAccession != referenceAccession {
		return nil, variant.NewValidationError("transcript " + accession + " is not aligned to " + referenceAccession)
	}
	return tx, nil
}

func (s *Static) GetSeq(accession string, start, end int64, kind variant.SeqKind) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var seq string
	var ok bool
	switch kind {
	case variant.SeqGenomic:
		seq, ok = s.genomic[accession]
	case variant.SeqTranscript:
		seq, ok = s.transcript[accession]
	case variant.SeqProtein:
		seq, ok = s.protein[accession]
	}
	if !ok {
		return "", variant.NewValidationError("unknown sequence accession: " + accession)
	}
	if end == -1 {
		end = int64(len(seq))
	}
	if start < 0 || end > int64(len(seq)) || start > end {
		return "", variant.NewValidationError("sequence range out of bounds")
	}
	return seq[start:end], nil
}

func (s *Static) GetSymbolAccessions(symbol string, sourceKind, targetKind variant.IdentifierType) ([]variant.IdentifierAccession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []variant.IdentifierAccession
	for _, a := range s.symbols[symbol] {
		if a.Type == targetKind {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Static) GetIdentifierType(id string) variant.IdentifierType {
	s.mu.RLock()
	if t, ok := s.idType[id]; ok {
		s.mu.RUnlock()
		return t
	}
	s.mu.RUnlock()
	return ClassifyIdentifier(id)
}

func (s *Static) CToG(accession string, pos variant.BaseOffsetPosition, offset variant.IntronicOffset) (string, variant.GenomicPos, error) {
	tx, err := s.GetTranscript(accession, "")
	if err != nil {
		return "", 0, err
	}
	pos.Offset = offset
	g, err := txmap.New(tx).ResolveToGenomic(pos)
	if err != nil {
		return "", 0, err
	}
	return tx.ReferenceAccession, g, nil
}

// GetTranscriptsForRegion implements variant.TranscriptSearch by a linear
// scan over every registered transcript -- Static's scale (hand-built test
// fixtures, small CLI inputs) never warrants an interval tree.
func (s *Static) GetTranscriptsForRegion(referenceAccession string, start, end int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for accession, tx := range s.transcripts {
		if tx.ReferenceAccession != referenceAccession {
			continue
		}
		if transcriptOverlaps(tx, start, end) {
			out = append(out, accession)
		}
	}
	sort.Strings(out)
	return out, nil
}

// transcriptOverlaps tests against the transcript's full genomic footprint
// (first exon start to last exon end), not just exonic bases -- intronic
// positions (splice sites, intron_variant) must still resolve to the
// transcript that contains them.
func transcriptOverlaps(tx *variant.Transcript, start, end int64) bool {
	if len(tx.Exons) == 0 {
		return false
	}
	txStart, txEnd := tx.Exons[0].ReferenceStart, tx.Exons[0].ReferenceEnd
	for _, e := range tx.Exons[1:] {
		if e.ReferenceStart < txStart {
			txStart = e.ReferenceStart
		}
		if e.ReferenceEnd > txEnd {
			txEnd = e.ReferenceEnd
		}
	}
	return txStart < end && start < txEnd
}
