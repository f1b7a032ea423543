package lexicon

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

func TestAddAssignsDenseFirstSeenIDs(t *testing.T) {
	l := New()
	input := []string{"cat", "dog", "cat", "bird", "dog", "fish"}
	var got []int
	for _, term := range input {
		got = append(got, l.Add(term))
	}
	want := []int{0, 1, 0, 2, 1, 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if l.Len() != 4 {
		t.Errorf("Len = %d, want 4", l.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	l := New()
	for _, term := range []string{"alpha", "beta", "gamma", "alpha", "delta"} {
		l.Add(term)
	}
	for id := 0; id < l.Len(); id++ {
		term, err := l.Term(id)
		if err != nil {
			t.Fatalf("Term(%d): %v", id, err)
		}
		back, ok := l.ID(term)
		if !ok || back != id {
			t.Errorf("ID(Term(%d)) = %d, %v", id, back, ok)
		}
	}
}

func TestLookupMisses(t *testing.T) {
	l := New()
	l.Add("only")
	if _, ok := l.ID("missing"); ok {
		t.Error("ID(missing) reported present")
	}
	for _, id := range []int{-1, 1, 99} {
		if _, err := l.Term(id); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("Term(%d) err = %v, want ErrNotFound", id, err)
		}
	}
}

func TestFromTerms(t *testing.T) {
	terms := []string{"x", "y", "z"}
	l, err := FromTerms(terms)
	if err != nil {
		t.Fatalf("FromTerms: %v", err)
	}
	if diff := cmp.Diff(terms, l.Terms()); diff != "" {
		t.Errorf("terms mismatch (-want +got):\n%s", diff)
	}
	if id, _ := l.ID("z"); id != 2 {
		t.Errorf("ID(z) = %d", id)
	}
	if got := l.Add("w"); got != 3 {
		t.Errorf("Add after FromTerms = %d, want 3", got)
	}
}

func TestFromTermsRejectsDuplicates(t *testing.T) {
	if _, err := FromTerms([]string{"a", "b", "a"}); !errors.Is(err, apperrors.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}
