// Package index holds the inverted index data model: the postings store,
// the document-length table and the internal id to docno mapping.
package index

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/lexicon"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

// Index is the read-only inverted index used by retrieval and evaluation.
type Index struct {
	lexicon     *lexicon.Lexicon
	postings    []PostingList
	docNos      []string
	docIDs      map[string]int
	lengths     []int
	stemmed     bool
	totalTokens int64
	numPostings int64
}

// New assembles an Index from decoded artifacts and checks that they are
// mutually consistent.
func New(lex *lexicon.Lexicon, postings []PostingList, docNos []string, lengths []int, stemmed bool) (*Index, error) {
	if len(postings) != lex.Len() {
		return nil, corrupt("%d postings lists for %d terms", len(postings), lex.Len())
	}
	if len(lengths) != len(docNos) {
		return nil, corrupt("%d document lengths for %d documents", len(lengths), len(docNos))
	}
	idx := &Index{
		lexicon:  lex,
		postings: postings,
		docNos:   docNos,
		docIDs:   make(map[string]int, len(docNos)),
		lengths:  lengths,
		stemmed:  stemmed,
	}
	for id, docNo := range docNos {
		if prev, dup := idx.docIDs[docNo]; dup {
			return nil, corrupt("docno %q has ids %d and %d", docNo, prev, id)
		}
		idx.docIDs[docNo] = id
		idx.totalTokens += int64(lengths[id])
	}
	for termID, list := range postings {
		prev := -1
		for _, p := range list {
			if p.DocID <= prev || p.DocID >= len(docNos) {
				return nil, corrupt("postings for term %d out of order or range at doc %d", termID, p.DocID)
			}
			if p.Frequency <= 0 {
				return nil, corrupt("postings for term %d has frequency %d", termID, p.Frequency)
			}
			prev = p.DocID
		}
		idx.numPostings += int64(len(list))
	}
	return idx, nil
}

func corrupt(format string, args ...any) error {
	return apperrors.Newf(apperrors.ErrCorruptIndex, apperrors.ExitFailure, format, args...)
}

func (x *Index) Lexicon() *lexicon.Lexicon {
	return x.lexicon
}

// Stemmed reports whether the corpus was tokenized with stemming. Queries
// against the index must use the same setting.
func (x *Index) Stemmed() bool {
	return x.stemmed
}

func (x *Index) NumDocs() int {
	return len(x.docNos)
}

func (x *Index) NumTerms() int {
	return x.lexicon.Len()
}

// TotalPostings is the number of (term, document) pairs.
func (x *Index) TotalPostings() int64 {
	return x.numPostings
}

// Postings returns the postings list of term, or false if the term is not
// in the lexicon.
func (x *Index) Postings(term string) (PostingList, bool) {
	termID, ok := x.lexicon.ID(term)
	if !ok {
		return nil, false
	}
	return x.postings[termID], true
}

// PostingsByID returns the postings of a term id. The id must be valid.
func (x *Index) PostingsByID(termID int) PostingList {
	return x.postings[termID]
}

// DocNo maps an internal id to its docno.
func (x *Index) DocNo(docID int) (string, error) {
	if docID < 0 || docID >= len(x.docNos) {
		return "", fmt.Errorf("internal id %d outside [0, %d): %w", docID, len(x.docNos), apperrors.ErrNotFound)
	}
	return x.docNos[docID], nil
}

// DocID maps a docno to its internal id.
func (x *Index) DocID(docNo string) (int, bool) {
	id, ok := x.docIDs[docNo]
	return id, ok
}

// DocLength is the token count of an internal id. The id must be valid.
func (x *Index) DocLength(docID int) int {
	return x.lengths[docID]
}

// DocLengthByDocNo implements the docno-keyed document-length table.
func (x *Index) DocLengthByDocNo(docNo string) (int, bool) {
	id, ok := x.docIDs[docNo]
	if !ok {
		return 0, false
	}
	return x.lengths[id], true
}

// AvgDocLength is the mean of the document-length table, 0 for an empty
// index.
func (x *Index) AvgDocLength() float64 {
	if len(x.lengths) == 0 {
		return 0
	}
	return float64(x.totalTokens) / float64(len(x.lengths))
}

// DocNos returns docnos in internal id order. Callers must not modify it.
func (x *Index) DocNos() []string {
	return x.docNos
}

// Lengths returns document lengths in internal id order. Callers must not
// modify it.
func (x *Index) Lengths() []int {
	return x.lengths
}
