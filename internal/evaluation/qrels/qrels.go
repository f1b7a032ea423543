// Package qrels holds graded relevance judgments read from a qrels file
// ("queryID iteration docno grade").
package qrels

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

type judgmentKey struct {
	queryID string
	docNo   string
}

// Judgments maps (query, document) pairs to relevance grades. A grade
// above zero is relevant.
type Judgments struct {
	grades   map[judgmentKey]int
	relevant map[string][]string
	queries  map[string]struct{}
}

func New() *Judgments {
	return &Judgments{
		grades:   make(map[judgmentKey]int),
		relevant: make(map[string][]string),
		queries:  make(map[string]struct{}),
	}
}

// Add records one judgment. Judging the same pair twice is an error.
func (j *Judgments) Add(queryID, docNo string, grade int) error {
	key := judgmentKey{queryID: queryID, docNo: docNo}
	if _, dup := j.grades[key]; dup {
		return apperrors.Newf(apperrors.ErrDuplicate, apperrors.ExitFailure,
			"query %s judges document %s more than once", queryID, docNo)
	}
	j.grades[key] = grade
	j.queries[queryID] = struct{}{}
	if grade > 0 {
		j.relevant[queryID] = append(j.relevant[queryID], docNo)
	}
	return nil
}

// Grade returns the judgment of a pair. It fails with ErrNoJudgments for a
// query without judgments and ErrNotFound for an unjudged document.
func (j *Judgments) Grade(queryID, docNo string) (int, error) {
	if !j.Judged(queryID) {
		return 0, fmt.Errorf("query %s: %w", queryID, apperrors.ErrNoJudgments)
	}
	grade, ok := j.grades[judgmentKey{queryID: queryID, docNo: docNo}]
	if !ok {
		return 0, fmt.Errorf("query %s document %s: %w", queryID, docNo, apperrors.ErrNotFound)
	}
	return grade, nil
}

// IsRelevant treats unjudged documents as non-relevant.
func (j *Judgments) IsRelevant(queryID, docNo string) bool {
	return j.grades[judgmentKey{queryID: queryID, docNo: docNo}] > 0
}

// Judged reports whether the query has at least one judgment of any grade.
func (j *Judgments) Judged(queryID string) bool {
	_, ok := j.queries[queryID]
	return ok
}

func (j *Judgments) NumRelevant(queryID string) int {
	return len(j.relevant[queryID])
}

// RelevantDocs lists the query's relevant docnos in file order.
func (j *Judgments) RelevantDocs(queryID string) []string {
	return j.relevant[queryID]
}

// QueryIDs returns every judged query in ascending order.
func (j *Judgments) QueryIDs() []string {
	ids := make([]string, 0, len(j.queries))
	for id := range j.queries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len is the number of judgments.
func (j *Judgments) Len() int {
	return len(j.grades)
}

// Read parses a qrels stream. Blank lines are skipped; any other line must
// have exactly four fields with an integer grade.
func Read(r io.Reader) (*Judgments, error) {
	j := New()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, apperrors.Newf(apperrors.ErrBadFormat, apperrors.ExitFailure,
				"line %d: expected 4 columns, found %d", lineNo, len(fields))
		}
		grade, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrBadFormat, apperrors.ExitFailure,
				"line %d: grade %q is not an integer", lineNo, fields[3])
		}
		if err := j.Add(fields[0], fields[2], grade); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading qrels: %w", err)
	}
	if j.Len() == 0 {
		return nil, apperrors.New(apperrors.ErrNoJudgments, apperrors.ExitFailure, "qrels contain no judgments")
	}
	return j, nil
}

func ReadFile(path string) (*Judgments, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening qrels: %w", err)
	}
	defer f.Close()
	j, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return j, nil
}
