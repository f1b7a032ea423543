package run

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

// File is a parsed run file.
type File struct {
	Name    string
	RunID   string
	Results *Results
}

// Parse reads a run. Every structural problem (column count, unparsable
// rank or score, a second run id, a duplicate result) is reported as
// ErrBadFormat. Blank lines are skipped.
func Parse(r io.Reader) (*Results, string, error) {
	results := NewResults()
	runID := ""
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 6 {
			return nil, "", badFormat(lineNo, "expected 6 columns, found %d", len(fields))
		}
		rank, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, "", badFormat(lineNo, "rank %q is not an integer", fields[3])
		}
		score, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, "", badFormat(lineNo, "score %q is not a number", fields[4])
		}
		switch {
		case runID == "":
			runID = fields[5]
		case runID != fields[5]:
			return nil, "", badFormat(lineNo, "run id %q differs from %q", fields[5], runID)
		}
		if err := results.Add(fields[0], Result{DocNo: fields[2], Score: score, Rank: rank}); err != nil {
			return nil, "", badFormat(lineNo, "%v", err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, "", fmt.Errorf("reading run: %w", err)
	}
	return results, runID, nil
}

// ParseFile parses the run at path and names it after the file.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening run: %w", err)
	}
	defer f.Close()
	results, runID, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &File{Name: NameFromPath(path), RunID: runID, Results: results}, nil
}

// NameFromPath is the file's base name up to its first '.', so
// "runs/student1.results" is "student1".
func NameFromPath(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

func badFormat(lineNo int, format string, args ...any) error {
	return apperrors.Newf(apperrors.ErrBadFormat, apperrors.ExitFailure,
		"line %d: %s", lineNo, fmt.Sprintf(format, args...))
}
