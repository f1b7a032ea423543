// Package boolean implements conjunctive (AND) retrieval over the postings
// of an index.
package boolean

import (
	"fmt"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

// Semantics selects how repeated query tokens are counted.
type Semantics string

const (
	// Multiset treats the query as a bag: a token occurring k times in the
	// query contributes at most k hits, one per occurrence of the term in
	// the document, so "a a" only matches documents containing "a" twice.
	Multiset Semantics = "multiset"
	// Set collapses repeated tokens before matching.
	Set Semantics = "set"
)

func ParseSemantics(s string) (Semantics, error) {
	switch Semantics(s) {
	case Multiset, Set:
		return Semantics(s), nil
	default:
		return "", apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitUsage,
			"unknown boolean semantics %q", s)
	}
}

// PostingsSource is the part of *index.Index the retriever reads.
type PostingsSource interface {
	Postings(term string) (index.PostingList, bool)
}

// Match returns the ids of documents containing every token, in ascending
// id order. Tokens absent from the lexicon contribute no hits but still
// count toward the threshold, so such a query matches nothing.
func Match(src PostingsSource, tokens []string, sem Semantics) ([]int, error) {
	switch sem {
	case Multiset:
	case Set:
		tokens = distinct(tokens)
	default:
		return nil, fmt.Errorf("matching: %w", apperrors.ErrInvalidInput)
	}
	if len(tokens) == 0 {
		return []int{}, nil
	}

	threshold := len(tokens)
	hits := make(map[int]int)
	for _, tc := range countTokens(tokens) {
		postings, ok := src.Postings(tc.token)
		if !ok {
			continue
		}
		for _, p := range postings {
			hits[p.DocID] += min(p.Frequency, tc.count)
		}
	}

	matched := make([]int, 0)
	for docID, n := range hits {
		if n == threshold {
			matched = append(matched, docID)
		}
	}
	sort.Ints(matched)
	return matched, nil
}

type tokenCount struct {
	token string
	count int
}

// countTokens groups repeated tokens, keeping first-occurrence order.
func countTokens(tokens []string) []tokenCount {
	pos := make(map[string]int, len(tokens))
	out := make([]tokenCount, 0, len(tokens))
	for _, t := range tokens {
		if i, ok := pos[t]; ok {
			out[i].count++
			continue
		}
		pos[t] = len(out)
		out = append(out, tokenCount{token: t, count: 1})
	}
	return out
}

func distinct(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
