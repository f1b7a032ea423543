package qrels

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

const sample = `401 0 LA010189-0001 1
401 0 LA010189-0002 0

401 0 LA010189-0003 2
402 0 LA010189-0004 0
`

func TestRead(t *testing.T) {
	j, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := cmp.Diff([]string{"401", "402"}, j.QueryIDs()); diff != "" {
		t.Errorf("QueryIDs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"LA010189-0001", "LA010189-0003"}, j.RelevantDocs("401")); diff != "" {
		t.Errorf("RelevantDocs mismatch (-want +got):\n%s", diff)
	}
	if j.NumRelevant("401") != 2 || j.NumRelevant("402") != 0 {
		t.Errorf("NumRelevant = %d, %d", j.NumRelevant("401"), j.NumRelevant("402"))
	}
	if !j.IsRelevant("401", "LA010189-0003") || j.IsRelevant("401", "LA010189-0002") || j.IsRelevant("401", "LA999") {
		t.Error("IsRelevant wrong")
	}
	if !j.Judged("402") || j.Judged("403") {
		t.Error("Judged wrong")
	}
}

func TestGrade(t *testing.T) {
	j, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if g, err := j.Grade("401", "LA010189-0003"); err != nil || g != 2 {
		t.Errorf("Grade = %d, %v", g, err)
	}
	if _, err := j.Grade("401", "LA999"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("unjudged doc err = %v", err)
	}
	if _, err := j.Grade("499", "LA010189-0001"); !errors.Is(err, apperrors.ErrNoJudgments) {
		t.Errorf("unjudged query err = %v", err)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"three columns", "401 0 LA1\n", apperrors.ErrBadFormat},
		{"five columns", "401 0 LA1 1 x\n", apperrors.ErrBadFormat},
		{"bad grade", "401 0 LA1 yes\n", apperrors.ErrBadFormat},
		{"duplicate", "401 0 LA1 1\n401 0 LA1 0\n", apperrors.ErrDuplicate},
		{"empty", "\n\n", apperrors.ErrNoJudgments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.in)); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
