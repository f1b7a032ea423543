// Package evaluation scores ranking runs against relevance judgments.
package evaluation

import (
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/evaluation/measure"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/evaluation/qrels"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/run"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

// Measure names, as written to the detail tables.
type Measure string

const (
	AveragePrecision Measure = "Average Precision"
	PrecisionAt10    Measure = "Precision@10"
	NDCGAt10         Measure = "NDCG@10"
	NDCGAt1000       Measure = "NDCG@1000"
	TBG              Measure = "TBG"
)

// Measures lists every measure in report column order.
var Measures = []Measure{AveragePrecision, PrecisionAt10, NDCGAt10, NDCGAt1000, TBG}

// Scores holds one value per measure.
type Scores struct {
	AveragePrecision float64 `json:"average_precision" db:"average_precision"`
	PrecisionAt10    float64 `json:"p_at_10" db:"p_at_10"`
	NDCGAt10         float64 `json:"ndcg_at_10" db:"ndcg_at_10"`
	NDCGAt1000       float64 `json:"ndcg_at_1000" db:"ndcg_at_1000"`
	TBG              float64 `json:"tbg" db:"tbg"`
}

// Get returns the value of m.
func (s Scores) Get(m Measure) float64 {
	switch m {
	case AveragePrecision:
		return s.AveragePrecision
	case PrecisionAt10:
		return s.PrecisionAt10
	case NDCGAt10:
		return s.NDCGAt10
	case NDCGAt1000:
		return s.NDCGAt1000
	case TBG:
		return s.TBG
	}
	panic(fmt.Sprintf("unknown measure %q", m))
}

type QueryScores struct {
	QueryID string
	Scores
}

// Report is the evaluation of one run. A run that could not be evaluated
// has BadFormat set, Err describing why, and no scores.
type Report struct {
	RunName   string
	RunID     string
	BadFormat bool
	Err       error
	PerQuery  []QueryScores
	Mean      Scores
}

// BadFormatReport records a run that could not be evaluated.
func BadFormatReport(runName string, err error) *Report {
	return &Report{RunName: runName, BadFormat: true, Err: err}
}

// DocLengths is the document-length table; *index.Index implements it.
type DocLengths interface {
	DocLengthByDocNo(docNo string) (int, bool)
}

type Evaluator struct {
	judgments *qrels.Judgments
	lengths   DocLengths
	tbg       measure.TBGParams
	logger    *slog.Logger
}

func New(judgments *qrels.Judgments, lengths DocLengths, cfg config.EvaluationConfig) *Evaluator {
	return &Evaluator{
		judgments: judgments,
		lengths:   lengths,
		tbg:       measure.TBGParamsFromConfig(cfg.TBG),
		logger:    slog.Default().With("component", "evaluator"),
	}
}

// Evaluate scores every judged query. Judged queries missing from the run
// score 0; queries only in the run are ignored. A result whose document
// has no length in the index fails the whole run with ErrMissingDocLength.
func (e *Evaluator) Evaluate(runName string, results *run.Results) (*Report, error) {
	queryIDs := e.judgments.QueryIDs()
	report := &Report{
		RunName:  runName,
		PerQuery: make([]QueryScores, 0, len(queryIDs)),
	}
	for _, queryID := range queryIDs {
		scores, err := e.scoreQuery(queryID, results)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", runName, err)
		}
		report.PerQuery = append(report.PerQuery, QueryScores{QueryID: queryID, Scores: scores})
	}
	report.Mean = mean(report.PerQuery)
	e.logger.Debug("run evaluated", "run", runName, "queries", len(report.PerQuery))
	return report, nil
}

func (e *Evaluator) scoreQuery(queryID string, results *run.Results) (Scores, error) {
	list, ok := results.Query(queryID)
	if !ok || len(list) == 0 {
		return Scores{}, nil
	}
	rel := make([]bool, len(list))
	lengths := make([]int, len(list))
	for i, res := range list {
		rel[i] = e.judgments.IsRelevant(queryID, res.DocNo)
		n, ok := e.lengths.DocLengthByDocNo(res.DocNo)
		if !ok {
			return Scores{}, apperrors.Newf(apperrors.ErrMissingDocLength, apperrors.ExitFailure,
				"query %s: document %s is not in the index", queryID, res.DocNo)
		}
		lengths[i] = n
	}
	totalRelevant := e.judgments.NumRelevant(queryID)
	return Scores{
		AveragePrecision: measure.AveragePrecision(rel, totalRelevant),
		PrecisionAt10:    measure.PrecisionAt(rel, 10),
		NDCGAt10:         measure.NDCG(rel, totalRelevant, 10),
		NDCGAt1000:       measure.NDCG(rel, totalRelevant, 1000),
		TBG:              measure.TBG(rel, lengths, e.tbg),
	}, nil
}

// mean averages arithmetically; no queries averages to zero.
func mean(perQuery []QueryScores) Scores {
	if len(perQuery) == 0 {
		return Scores{}
	}
	var sum Scores
	for _, q := range perQuery {
		sum.AveragePrecision += q.AveragePrecision
		sum.PrecisionAt10 += q.PrecisionAt10
		sum.NDCGAt10 += q.NDCGAt10
		sum.NDCGAt1000 += q.NDCGAt1000
		sum.TBG += q.TBG
	}
	n := float64(len(perQuery))
	return Scores{
		AveragePrecision: sum.AveragePrecision / n,
		PrecisionAt10:    sum.PrecisionAt10 / n,
		NDCGAt10:         sum.NDCGAt10 / n,
		NDCGAt1000:       sum.NDCGAt1000 / n,
		TBG:              sum.TBG / n,
	}
}
