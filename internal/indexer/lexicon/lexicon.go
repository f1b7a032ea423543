// Package lexicon maps terms to dense integer ids assigned in first-seen
// order and back.
package lexicon

import (
	"fmt"

	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

// Lexicon is a bijection between terms and the ids [0, Len()).
type Lexicon struct {
	ids   map[string]int
	terms []string
}

func New() *Lexicon {
	return &Lexicon{ids: make(map[string]int)}
}

// FromTerms rebuilds a lexicon whose id i maps to terms[i].
func FromTerms(terms []string) (*Lexicon, error) {
	l := &Lexicon{
		ids:   make(map[string]int, len(terms)),
		terms: make([]string, 0, len(terms)),
	}
	for i, term := range terms {
		if prev, dup := l.ids[term]; dup {
			return nil, apperrors.Newf(apperrors.ErrDuplicate, apperrors.ExitFailure,
				"term %q has ids %d and %d", term, prev, i)
		}
		l.ids[term] = i
		l.terms = append(l.terms, term)
	}
	return l, nil
}

// Add returns the id of term, assigning the next id if it is unseen.
func (l *Lexicon) Add(term string) int {
	if id, ok := l.ids[term]; ok {
		return id
	}
	id := len(l.terms)
	l.ids[term] = id
	l.terms = append(l.terms, term)
	return id
}

// ID looks up the id of term.
func (l *Lexicon) ID(term string) (int, bool) {
	id, ok := l.ids[term]
	return id, ok
}

// Term looks up the term for id.
func (l *Lexicon) Term(id int) (string, error) {
	if id < 0 || id >= len(l.terms) {
		return "", fmt.Errorf("term id %d outside [0, %d): %w", id, len(l.terms), apperrors.ErrNotFound)
	}
	return l.terms[id], nil
}

func (l *Lexicon) Len() int {
	return len(l.terms)
}

// Terms returns the terms in id order. The slice is shared; callers must
// not modify it.
func (l *Lexicon) Terms() []string {
	return l.terms
}
