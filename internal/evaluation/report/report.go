// Package report writes evaluation reports as CSV: one summary row per run
// appended to a shared table, and a per-query detail table per run.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/evaluation"
)

// BadFormat fills every measure column of a run that was not evaluated.
const BadFormat = "bad format"

var SummaryHeader = []string{
	"Run Name",
	"Mean Average Precision",
	"Mean P@10",
	"Mean NDCG@10",
	"Mean NDCG@1000",
	"Mean TBG",
}

// SummaryRow renders a report's means with three decimals.
func SummaryRow(r *evaluation.Report) []string {
	row := make([]string, 0, len(SummaryHeader))
	row = append(row, r.RunName)
	for _, m := range evaluation.Measures {
		if r.BadFormat {
			row = append(row, BadFormat)
			continue
		}
		row = append(row, strconv.FormatFloat(r.Mean.Get(m), 'f', 3, 64))
	}
	return row
}

// AppendSummary appends r's row to the summary table at path, writing the
// header first when the file is new or empty.
func AppendSummary(path string, r *evaluation.Report) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening summary %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat summary %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if info.Size() == 0 {
		w.Write(SummaryHeader)
	}
	w.Write(SummaryRow(r))
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("writing summary %s: %w", path, err)
	}
	return f.Close()
}

// DetailPath is where the detail table of runName is written in dir.
func DetailPath(dir, runName string) string {
	return filepath.Join(dir, runName+".csv")
}

// WriteDetail writes "measure,queryID,value" rows grouped by measure, with
// queries in ascending id order. Any previous table for the run is
// replaced.
func WriteDetail(dir string, r *evaluation.Report) error {
	path := DetailPath(dir, r.RunName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating detail %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	for _, m := range evaluation.Measures {
		for _, q := range r.PerQuery {
			w.Write([]string{string(m), q.QueryID, strconv.FormatFloat(q.Get(m), 'f', -1, 64)})
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("writing detail %s: %w", path, err)
	}
	return f.Close()
}

// CSVSink writes the summary row of every report and the detail table of
// every evaluated one into a directory.
type CSVSink struct {
	dir         string
	summaryFile string
}

func NewCSVSink(dir, summaryFile string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}
	return &CSVSink{dir: dir, summaryFile: summaryFile}, nil
}

func (s *CSVSink) SummaryPath() string {
	return filepath.Join(s.dir, s.summaryFile)
}

func (s *CSVSink) Write(_ context.Context, r *evaluation.Report) error {
	if err := AppendSummary(s.SummaryPath(), r); err != nil {
		return err
	}
	if r.BadFormat {
		return nil
	}
	return WriteDetail(s.dir, r)
}
