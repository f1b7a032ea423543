package evaluation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/run"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/metrics"
)

// Sink receives every report produced by a batch, bad-format ones
// included.
type Sink interface {
	Write(ctx context.Context, r *Report) error
}

// Batch evaluates many run files against one set of judgments. A run that
// cannot be evaluated becomes a bad-format report and the batch moves on.
type Batch struct {
	evaluator *Evaluator
	sinks     []Sink
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewBatch(ev *Evaluator, m *metrics.Metrics, sinks ...Sink) *Batch {
	if m == nil {
		m = metrics.New()
	}
	return &Batch{
		evaluator: ev,
		sinks:     sinks,
		metrics:   m,
		logger:    slog.Default().With("component", "evaluation-batch"),
	}
}

// EvaluateFile parses and scores one run file. Format problems and
// documents missing from the index yield a bad-format report; only
// failures to read the file are returned as errors.
func (b *Batch) EvaluateFile(path string) (*Report, error) {
	name := run.NameFromPath(path)
	file, err := run.ParseFile(path)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrBadFormat) {
			return BadFormatReport(name, err), nil
		}
		return nil, err
	}
	report, err := b.evaluator.Evaluate(name, file.Results)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrMissingDocLength) {
			return BadFormatReport(name, err), nil
		}
		return nil, err
	}
	report.RunID = file.RunID
	return report, nil
}

// Run evaluates paths in order and hands each report to every sink.
func (b *Batch) Run(ctx context.Context, paths []string) ([]*Report, error) {
	reports := make([]*Report, 0, len(paths))
	for _, path := range paths {
		report, err := b.EvaluateFile(path)
		if err != nil {
			return reports, fmt.Errorf("evaluating %s: %w", path, err)
		}
		b.record(report)
		for _, sink := range b.sinks {
			if err := sink.Write(ctx, report); err != nil {
				return reports, fmt.Errorf("recording %s: %w", report.RunName, err)
			}
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (b *Batch) record(r *Report) {
	if r.BadFormat {
		b.metrics.RunsEvaluatedTotal.WithLabelValues("bad_format").Inc()
		b.logger.Warn("run not evaluated", "run", r.RunName, "error", r.Err)
		return
	}
	b.metrics.RunsEvaluatedTotal.WithLabelValues("ok").Inc()
	b.metrics.QueriesEvaluatedSum.Add(float64(len(r.PerQuery)))
	b.logger.Info("run evaluated",
		"run", r.RunName,
		"queries", len(r.PerQuery),
		"map", r.Mean.AveragePrecision,
		"p_at_10", r.Mean.PrecisionAt10,
		"ndcg_at_10", r.Mean.NDCGAt10,
		"ndcg_at_1000", r.Mean.NDCGAt1000,
		"tbg", r.Mean.TBG,
	)
}
