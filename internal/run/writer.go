package run

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

// ScoreFormat selects how the score column is printed.
type ScoreFormat int

const (
	// DecimalScore prints six decimals, as BM25 runs do.
	DecimalScore ScoreFormat = iota
	// IntegerScore prints the score truncated to an integer, as Boolean
	// runs do.
	IntegerScore
)

// Writer emits run lines with a fixed run tag.
type Writer struct {
	w      *bufio.Writer
	tag    string
	format ScoreFormat
	lines  int
}

func NewWriter(w io.Writer, tag string, format ScoreFormat) *Writer {
	return &Writer{w: bufio.NewWriter(w), tag: tag, format: format}
}

// Write emits one line. rank is 1-based.
func (w *Writer) Write(queryID, docNo string, rank int, score float64) error {
	var err error
	switch w.format {
	case IntegerScore:
		_, err = fmt.Fprintf(w.w, "%s Q0 %s %d %d %s\n", queryID, docNo, rank, int64(score), w.tag)
	default:
		_, err = fmt.Fprintf(w.w, "%s Q0 %s %d %f %s\n", queryID, docNo, rank, score, w.tag)
	}
	if err != nil {
		return fmt.Errorf("writing run line: %w", err)
	}
	w.lines++
	return nil
}

// Lines is the number of lines written so far.
func (w *Writer) Lines() int {
	return w.lines
}

func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flushing run: %w", err)
	}
	return nil
}

// CreateExclusive creates path for writing and fails with ErrOutputExists
// if anything is already there.
func CreateExclusive(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil, apperrors.Newf(apperrors.ErrOutputExists, apperrors.ExitUsage,
			"output file %s already exists", path)
	}
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, nil
}
