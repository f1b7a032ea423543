// Package tokenizer provides text tokenisation shared by indexing and
// querying. It lower-cases input and splits on non-alphanumeric
// boundaries; an optional stemming mode runs every token through the
// Snowball English (Porter2) stemmer.
package tokenizer

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// Tokenizer is immutable; the same value must be used for a corpus and for
// every query run against its index.
type Tokenizer struct {
	stem bool
}

// New returns a Tokenizer. When stem is true tokens are stemmed.
func New(stem bool) *Tokenizer {
	return &Tokenizer{stem: stem}
}

// Stemming reports whether the tokenizer stems tokens.
func (t *Tokenizer) Stemming() bool {
	return t.stem
}

// Tokenize breaks text into lowercase maximal runs of letters and digits.
func (t *Tokenizer) Tokenize(text string) []string {
	return t.AppendTokens(nil, text)
}

// AppendTokens tokenizes text and appends the tokens to dst, so several
// fields can be accumulated into one token sequence.
func (t *Tokenizer) AppendTokens(dst []string, text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), isSeparator)
	for _, word := range words {
		if t.stem {
			word = english.Stem(word, false)
			if word == "" {
				continue
			}
		}
		dst = append(dst, word)
	}
	return dst
}

// Tokenize is shorthand for an unstemmed Tokenizer.
func Tokenize(text string) []string {
	return New(false).Tokenize(text)
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
