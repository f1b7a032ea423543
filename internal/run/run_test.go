package run

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

func TestResultsSortOnRead(t *testing.T) {
	r := NewResults()
	for _, res := range []Result{
		{DocNo: "LA01", Score: 1, Rank: 3},
		{DocNo: "LA02", Score: 3, Rank: 1},
		{DocNo: "LA03", Score: 1, Rank: 2},
		{DocNo: "LA04", Score: -2, Rank: 4},
	} {
		if err := r.Add("401", res); err != nil {
			t.Fatal(err)
		}
	}
	got, ok := r.Query("401")
	if !ok {
		t.Fatal("query 401 missing")
	}
	var order []string
	for _, res := range got {
		order = append(order, res.DocNo)
	}
	if diff := cmp.Diff([]string{"LA02", "LA03", "LA01", "LA04"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if _, ok := r.Query("402"); ok {
		t.Error("unknown query reported present")
	}
}

func TestResultsRejectDuplicate(t *testing.T) {
	r := NewResults()
	if err := r.Add("1", Result{DocNo: "D"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Add("1", Result{DocNo: "D", Score: 2}); !errors.Is(err, apperrors.ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
	if err := r.Add("2", Result{DocNo: "D"}); err != nil {
		t.Errorf("same doc under another query: %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d", r.Len())
	}
	if diff := cmp.Diff([]string{"1", "2"}, r.QueryIDs()); diff != "" {
		t.Errorf("QueryIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	in := "401 Q0 LA010189-0001 1 12.500000 tagA\n" +
		"\n" +
		"401 Q0 LA010189-0002 2 3.25 tagA\n" +
		"402\tQ0\tLA010189-0003\t1\t7\ttagA\n"
	results, runID, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if runID != "tagA" {
		t.Errorf("runID = %q", runID)
	}
	got, _ := results.Query("401")
	want := []Result{
		{DocNo: "LA010189-0001", Score: 12.5, Rank: 1},
		{DocNo: "LA010189-0002", Score: 3.25, Rank: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBadFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"five columns", "401 Q0 D1 1 2.0\n"},
		{"seven columns", "401 Q0 D1 1 2.0 tag extra\n"},
		{"mixed run ids", "401 Q0 D1 1 2 a\n401 Q0 D2 2 1 b\n"},
		{"bad rank", "401 Q0 D1 one 2 a\n"},
		{"bad score", "401 Q0 D1 1 high a\n"},
		{"duplicate", "401 Q0 D1 1 2 a\n401 Q0 D1 2 1 a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Parse(strings.NewReader(tt.in)); !errors.Is(err, apperrors.ErrBadFormat) {
				t.Errorf("err = %v, want ErrBadFormat", err)
			}
		})
	}
}

func TestWriterFormats(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "latimesAND", IntegerScore)
	w.Write("401", "LA010189-0001", 1, 2)
	w.Write("401", "LA010189-0002", 2, 1)
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "401 Q0 LA010189-0001 1 2 latimesAND\n401 Q0 LA010189-0002 2 1 latimesAND\n"
	if buf.String() != want {
		t.Errorf("boolean run = %q", buf.String())
	}

	buf.Reset()
	w = NewWriter(&buf, "latimesBM25-baseline", DecimalScore)
	w.Write("402", "LA010189-0003", 1, -0.6649871)
	w.Flush()
	if want := "402 Q0 LA010189-0003 1 -0.664987 latimesBM25-baseline\n"; buf.String() != want {
		t.Errorf("bm25 run = %q", buf.String())
	}
	if w.Lines() != 1 {
		t.Errorf("Lines = %d", w.Lines())
	}
}

func TestWriteThenParse(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "tag", DecimalScore)
	w.Write("1", "B", 1, 2.5)
	w.Write("1", "A", 2, 2.5)
	w.Flush()
	results, _, err := Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := results.Query("1")
	if got[0].DocNo != "B" {
		t.Errorf("tie should keep descending docno first, got %+v", got)
	}
}

func TestNameFromPath(t *testing.T) {
	tests := map[string]string{
		"runs/student1.results": "student1",
		"a.b.c":                 "a",
		"/tmp/plain":            "plain",
	}
	for in, want := range tests {
		if got := NameFromPath(in); got != want {
			t.Errorf("NameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreateExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.txt")
	f, err := CreateExclusive(path)
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	if _, err := CreateExclusive(path); !errors.Is(err, apperrors.ErrOutputExists) {
		t.Errorf("err = %v, want ErrOutputExists", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "student7.results")
	if err := os.WriteFile(path, []byte("1 Q0 D 1 1 s7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Name != "student7" || f.RunID != "s7" || f.Results.Len() != 1 {
		t.Errorf("file = %+v", f)
	}
}
