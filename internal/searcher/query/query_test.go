package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

func TestRead(t *testing.T) {
	in := "401\nforeign minorities, Germany\r\n402\nbehavioral genetics\n\n\n"
	got, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []Query{
		{ID: "401", Text: "foreign minorities, Germany"},
		{ID: "402", Text: "behavioral genetics"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("queries mismatch (-want +got):\n%s", diff)
	}
}

func TestReadEmptyTextLine(t *testing.T) {
	got, err := Read(strings.NewReader("7\n\n8\nx\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Text != "" {
		t.Errorf("got %+v", got)
	}
}

func TestReadRejectsOddLines(t *testing.T) {
	_, err := Read(strings.NewReader("401\nforeign\n402\n"))
	if !errors.Is(err, apperrors.ErrBadFormat) {
		t.Errorf("err = %v, want ErrBadFormat", err)
	}
}

func TestTokens(t *testing.T) {
	q := Query{ID: "1", Text: "Cats, cats & DOGS"}
	if diff := cmp.Diff([]string{"cats", "cats", "dogs"}, q.Tokens(tokenizer.New(false))); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}
