package index

import (
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/lexicon"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

// MemoryIndex accumulates the inverted index while a corpus is read.
// Documents must be added in corpus order; the internal id of a document
// is the number of documents added before it.
type MemoryIndex struct {
	lexicon     *lexicon.Lexicon
	postings    []PostingList
	docNos      []string
	docIDs      map[string]int
	lengths     []int
	stemmed     bool
	totalTokens int64
	numPostings int64
}

func NewMemoryIndex(stemmed bool) *MemoryIndex {
	return &MemoryIndex{
		lexicon: lexicon.New(),
		docIDs:  make(map[string]int),
		stemmed: stemmed,
	}
}

// AddDocument assigns the next internal id to docNo and appends one posting
// per distinct token. It returns the assigned id.
func (m *MemoryIndex) AddDocument(docNo string, tokens []string) (int, error) {
	if prev, dup := m.docIDs[docNo]; dup {
		return 0, apperrors.Newf(apperrors.ErrDuplicate, apperrors.ExitFailure,
			"docno %q already indexed with id %d", docNo, prev)
	}
	docID := len(m.docNos)

	// Count per term, remembering first-occurrence order so postings are
	// appended deterministically.
	counts := make(map[int]int, len(tokens))
	order := make([]int, 0, len(tokens))
	for _, token := range tokens {
		termID := m.lexicon.Add(token)
		if counts[termID] == 0 {
			order = append(order, termID)
		}
		counts[termID]++
	}
	for len(m.postings) < m.lexicon.Len() {
		m.postings = append(m.postings, nil)
	}
	for _, termID := range order {
		m.postings[termID] = append(m.postings[termID], Posting{
			DocID:     docID,
			Frequency: counts[termID],
		})
	}

	m.docIDs[docNo] = docID
	m.docNos = append(m.docNos, docNo)
	m.lengths = append(m.lengths, len(tokens))
	m.totalTokens += int64(len(tokens))
	m.numPostings += int64(len(order))
	return docID, nil
}

func (m *MemoryIndex) DocCount() int {
	return len(m.docNos)
}

func (m *MemoryIndex) TermCount() int {
	return m.lexicon.Len()
}

// Snapshot freezes the accumulated state into a read-only Index. The
// MemoryIndex must not be modified afterwards.
func (m *MemoryIndex) Snapshot() *Index {
	return &Index{
		lexicon:     m.lexicon,
		postings:    m.postings,
		docNos:      m.docNos,
		docIDs:      m.docIDs,
		lengths:     m.lengths,
		stemmed:     m.stemmed,
		totalTokens: m.totalTokens,
		numPostings: m.numPostings,
	}
}
