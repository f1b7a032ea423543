package evaluation

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/evaluation/measure"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/evaluation/qrels"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/run"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

type lengthTable map[string]int

func (l lengthTable) DocLengthByDocNo(docNo string) (int, bool) {
	n, ok := l[docNo]
	return n, ok
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func newJudgments(t *testing.T, lines ...[3]any) *qrels.Judgments {
	t.Helper()
	j := qrels.New()
	for _, l := range lines {
		if err := j.Add(l[0].(string), l[1].(string), l[2].(int)); err != nil {
			t.Fatal(err)
		}
	}
	return j
}

func newResults(t *testing.T, queryID string, docNos ...string) *run.Results {
	t.Helper()
	r := run.NewResults()
	for i, d := range docNos {
		if err := r.Add(queryID, run.Result{DocNo: d, Score: float64(len(docNos) - i), Rank: i + 1}); err != nil {
			t.Fatal(err)
		}
	}
	return r
}

func TestEvaluateSingleRelevantAtRankTwo(t *testing.T) {
	j := newJudgments(t,
		[3]any{"401", "LA010189-0001", 1},
		[3]any{"401", "LA010189-0002", 0},
	)
	lengths := lengthTable{"LA010189-0001": 100, "LA010189-0002": 50}
	ev := New(j, lengths, config.Default().Evaluation)

	report, err := ev.Evaluate("student1", newResults(t, "401", "LA010189-0002", "LA010189-0001"))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	wantTBG := measure.TBG([]bool{false, true}, []int{50, 100}, measure.TBGParamsFromConfig(config.Default().Evaluation.TBG))
	want := Scores{
		AveragePrecision: 0.5,
		PrecisionAt10:    0.1,
		NDCGAt10:         1 / math.Log2(3),
		NDCGAt1000:       1 / math.Log2(3),
		TBG:              wantTBG,
	}
	if len(report.PerQuery) != 1 || report.PerQuery[0].QueryID != "401" {
		t.Fatalf("PerQuery = %+v", report.PerQuery)
	}
	if diff := cmp.Diff(want, report.PerQuery[0].Scores, approx); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, report.Mean, approx); diff != "" {
		t.Errorf("mean mismatch (-want +got):\n%s", diff)
	}
	if wantTBG <= 0 {
		t.Errorf("TBG = %v, want positive", wantTBG)
	}
}

func TestEvaluateMissingQueryScoresZero(t *testing.T) {
	j := newJudgments(t,
		[3]any{"401", "LA010189-0001", 1},
		[3]any{"402", "LA010189-0003", 1},
	)
	lengths := lengthTable{"LA010189-0001": 10, "LA010189-0003": 10}
	ev := New(j, lengths, config.Default().Evaluation)

	results := newResults(t, "401", "LA010189-0001")
	if err := results.Add("999", run.Result{DocNo: "LA010189-0003", Score: 1, Rank: 1}); err != nil {
		t.Fatal(err)
	}
	report, err := ev.Evaluate("student1", results)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	var ids []string
	for _, q := range report.PerQuery {
		ids = append(ids, q.QueryID)
	}
	if diff := cmp.Diff([]string{"401", "402"}, ids); diff != "" {
		t.Errorf("queries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Scores{}, report.PerQuery[1].Scores); diff != "" {
		t.Errorf("missing query should score zero (-want +got):\n%s", diff)
	}
	if report.PerQuery[0].AveragePrecision != 1 {
		t.Errorf("AP(401) = %v, want 1", report.PerQuery[0].AveragePrecision)
	}
	if report.Mean.AveragePrecision != 0.5 {
		t.Errorf("MAP = %v, want 0.5", report.Mean.AveragePrecision)
	}
}

func TestEvaluateMissingDocLength(t *testing.T) {
	j := newJudgments(t, [3]any{"401", "LA010189-0001", 1})
	ev := New(j, lengthTable{}, config.Default().Evaluation)
	_, err := ev.Evaluate("student1", newResults(t, "401", "LA010189-0001"))
	if !apperrors.Is(err, apperrors.ErrMissingDocLength) {
		t.Fatalf("err = %v, want ErrMissingDocLength", err)
	}
}

func TestMeanOfNothingIsZero(t *testing.T) {
	if diff := cmp.Diff(Scores{}, mean(nil)); diff != "" {
		t.Errorf("mean(nil) mismatch (-want +got):\n%s", diff)
	}
}

func TestScoresGet(t *testing.T) {
	s := Scores{AveragePrecision: 1, PrecisionAt10: 2, NDCGAt10: 3, NDCGAt1000: 4, TBG: 5}
	for i, m := range Measures {
		if got := s.Get(m); got != float64(i+1) {
			t.Errorf("Get(%s) = %v, want %d", m, got, i+1)
		}
	}
}
