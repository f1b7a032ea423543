// Package query reads topic files: a query id line followed by a query
// text line, repeated.
package query

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

type Query struct {
	ID   string
	Text string
}

// Tokens tokenizes the query text with t, which must match the tokenizer
// the index was built with.
func (q Query) Tokens(t *tokenizer.Tokenizer) []string {
	return t.Tokenize(q.Text)
}

// Read parses every query of r in file order. Trailing blank lines are
// ignored; a query id without a text line is a format error.
func Read(r io.Reader) ([]Query, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading queries: %w", err)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines)%2 != 0 {
		return nil, apperrors.Newf(apperrors.ErrBadFormat, apperrors.ExitFailure,
			"query %q has no text line", lines[len(lines)-1])
	}

	queries := make([]Query, 0, len(lines)/2)
	for i := 0; i < len(lines); i += 2 {
		id := strings.TrimSpace(lines[i])
		if id == "" {
			return nil, apperrors.Newf(apperrors.ErrBadFormat, apperrors.ExitFailure,
				"empty query id on line %d", i+1)
		}
		queries = append(queries, Query{ID: id, Text: lines[i+1]})
	}
	return queries, nil
}

func ReadFile(path string) ([]Query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening queries: %w", err)
	}
	defer f.Close()
	queries, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return queries, nil
}
