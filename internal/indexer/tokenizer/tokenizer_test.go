package tokenizer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"only separators", "  ,.;-- ", nil},
		{"lowercases", "The Quick BROWN fox", []string{"the", "quick", "brown", "fox"}},
		{"punctuation splits", "U.S. anti-trust", []string{"u", "s", "anti", "trust"}},
		{"digits kept", "Route 66, 1989", []string{"route", "66", "1989"}},
		{"mixed alnum", "abc123def", []string{"abc123def"}},
		{"markup residue", "<P>cat</P>", []string{"p", "cat", "p"}},
		{"non ascii letters", "café naïve", []string{"café", "naïve"}},
		{"single letters kept", "a b c", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestTokenizeIdempotent(t *testing.T) {
	text := "Distributed search engines process queries, across 12 shards!"
	first := Tokenize(text)
	second := Tokenize(text)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("tokenization not deterministic:\n%s", diff)
	}
	rejoined := Tokenize(strings.Join(first, " "))
	if diff := cmp.Diff(first, rejoined); diff != "" {
		t.Errorf("re-tokenizing tokens changed them:\n%s", diff)
	}
}

func TestStemming(t *testing.T) {
	tok := New(true)
	if !tok.Stemming() {
		t.Fatal("Stemming() = false")
	}
	got := tok.Tokenize("Running runners ran quickly")
	want := []string{"run", "runner", "ran", "quick"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stemmed mismatch (-want +got):\n%s", diff)
	}
	if New(false).Stemming() {
		t.Error("unstemmed tokenizer reports stemming")
	}
}

func TestAppendTokensConcatenatesFields(t *testing.T) {
	tok := New(false)
	var tokens []string
	tokens = tok.AppendTokens(tokens, "Headline here")
	tokens = tok.AppendTokens(tokens, "")
	tokens = tok.AppendTokens(tokens, "body text")
	want := []string{"headline", "here", "body", "text"}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func BenchmarkTokenize(b *testing.B) {
	text := strings.Repeat(`Information retrieval systems form the backbone of modern search
        infrastructure. The inverted index maps each term to the documents containing it. `, 20)
	for _, stem := range []bool{false, true} {
		tok := New(stem)
		name := "plain"
		if stem {
			name = "stemmed"
		}
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = tok.Tokenize(text)
			}
		})
	}
}
