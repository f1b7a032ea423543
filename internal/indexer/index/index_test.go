package index

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/lexicon"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

func buildTwoDocs(t *testing.T) *Index {
	t.Helper()
	mi := NewMemoryIndex(false)
	for _, doc := range []struct {
		docNo  string
		tokens []string
	}{
		{"LA010189-0001", []string{"cat", "dog", "cat"}},
		{"LA010189-0002", []string{"dog", "bird"}},
	} {
		if _, err := mi.AddDocument(doc.docNo, doc.tokens); err != nil {
			t.Fatalf("AddDocument(%s): %v", doc.docNo, err)
		}
	}
	return mi.Snapshot()
}

func TestAddDocumentPostings(t *testing.T) {
	idx := buildTwoDocs(t)

	want := map[string]PostingList{
		"cat":  {{DocID: 0, Frequency: 2}},
		"dog":  {{DocID: 0, Frequency: 1}, {DocID: 1, Frequency: 1}},
		"bird": {{DocID: 1, Frequency: 1}},
	}
	for term, wantList := range want {
		got, ok := idx.Postings(term)
		if !ok {
			t.Fatalf("term %q missing", term)
		}
		if diff := cmp.Diff(wantList, got); diff != "" {
			t.Errorf("postings(%q) mismatch (-want +got):\n%s", term, diff)
		}
	}
	if _, ok := idx.Postings("fish"); ok {
		t.Error("unknown term should not have postings")
	}
	if diff := cmp.Diff([]string{"cat", "dog", "bird"}, idx.Lexicon().Terms()); diff != "" {
		t.Errorf("first-seen term order mismatch (-want +got):\n%s", diff)
	}
	if idx.TotalPostings() != 4 {
		t.Errorf("TotalPostings = %d, want 4", idx.TotalPostings())
	}
}

func TestDocumentTables(t *testing.T) {
	idx := buildTwoDocs(t)

	if idx.NumDocs() != 2 {
		t.Fatalf("NumDocs = %d", idx.NumDocs())
	}
	docNo, err := idx.DocNo(1)
	if err != nil || docNo != "LA010189-0002" {
		t.Errorf("DocNo(1) = %q, %v", docNo, err)
	}
	if _, err := idx.DocNo(2); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("DocNo(2) err = %v, want ErrNotFound", err)
	}
	if id, ok := idx.DocID("LA010189-0001"); !ok || id != 0 {
		t.Errorf("DocID = %d, %v", id, ok)
	}
	if n, ok := idx.DocLengthByDocNo("LA010189-0001"); !ok || n != 3 {
		t.Errorf("DocLengthByDocNo = %d, %v", n, ok)
	}
	if _, ok := idx.DocLengthByDocNo("LA999999-0001"); ok {
		t.Error("unknown docno should have no length")
	}
	if got := idx.AvgDocLength(); got != 2.5 {
		t.Errorf("AvgDocLength = %v, want 2.5", got)
	}
}

func TestAddDocumentRejectsDuplicateDocNo(t *testing.T) {
	mi := NewMemoryIndex(false)
	if _, err := mi.AddDocument("LA010189-0001", []string{"a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := mi.AddDocument("LA010189-0001", []string{"b"}); !errors.Is(err, apperrors.ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
	if mi.DocCount() != 1 {
		t.Errorf("DocCount = %d after rejected add", mi.DocCount())
	}
}

func TestEmptyDocumentKeepsId(t *testing.T) {
	mi := NewMemoryIndex(false)
	mi.AddDocument("A", nil)
	id, _ := mi.AddDocument("B", []string{"x"})
	if id != 1 {
		t.Errorf("id = %d, want 1", id)
	}
	idx := mi.Snapshot()
	if idx.DocLength(0) != 0 {
		t.Errorf("empty doc length = %d", idx.DocLength(0))
	}
}

func TestReindexIsDeterministic(t *testing.T) {
	a := buildTwoDocs(t)
	b := buildTwoDocs(t)
	if diff := cmp.Diff(a.Lexicon().Terms(), b.Lexicon().Terms()); diff != "" {
		t.Errorf("lexicon differs:\n%s", diff)
	}
	for id := 0; id < a.NumTerms(); id++ {
		if diff := cmp.Diff(a.PostingsByID(id), b.PostingsByID(id)); diff != "" {
			t.Errorf("postings of term %d differ:\n%s", id, diff)
		}
	}
}

func TestNewValidates(t *testing.T) {
	lex, err := lexicon.FromTerms([]string{"a"})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name     string
		postings []PostingList
		docNos   []string
		lengths  []int
	}{
		{"postings count", nil, []string{"D"}, []int{1}},
		{"lengths count", []PostingList{{{0, 1}}}, []string{"D"}, nil},
		{"duplicate docno", []PostingList{{{0, 1}}}, []string{"D", "D"}, []int{1, 1}},
		{"doc out of range", []PostingList{{{3, 1}}}, []string{"D"}, []int{1}},
		{"unordered", []PostingList{{{1, 1}, {0, 1}}}, []string{"D", "E"}, []int{1, 1}},
		{"zero frequency", []PostingList{{{0, 0}}}, []string{"D"}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(lex, tt.postings, tt.docNos, tt.lengths, false)
			if !errors.Is(err, apperrors.ErrCorruptIndex) {
				t.Errorf("err = %v, want ErrCorruptIndex", err)
			}
		})
	}
}

func TestEmptyIndexAverage(t *testing.T) {
	if got := NewMemoryIndex(false).Snapshot().AvgDocLength(); got != 0 {
		t.Errorf("AvgDocLength = %v, want 0", got)
	}
}
