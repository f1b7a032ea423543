// Package run reads and writes ranking runs in the six-column TREC format
// ("queryID Q0 docno rank score tag") and holds their results per query.
package run

import (
	"sort"

	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
)

// Result is one retrieved document of a query.
type Result struct {
	DocNo string
	Score float64
	Rank  int
}

type resultKey struct {
	queryID string
	docNo   string
}

// Results groups a run's results by query. Each query's list is sorted
// the first time it is read.
type Results struct {
	byQuery map[string][]Result
	sorted  map[string]bool
	seen    map[resultKey]struct{}
}

func NewResults() *Results {
	return &Results{
		byQuery: make(map[string][]Result),
		sorted:  make(map[string]bool),
		seen:    make(map[resultKey]struct{}),
	}
}

// Add records a result. A second result for the same (query, docno) pair
// is rejected.
func (r *Results) Add(queryID string, res Result) error {
	key := resultKey{queryID: queryID, docNo: res.DocNo}
	if _, dup := r.seen[key]; dup {
		return apperrors.Newf(apperrors.ErrDuplicate, apperrors.ExitFailure,
			"query %s lists document %s more than once", queryID, res.DocNo)
	}
	r.seen[key] = struct{}{}
	r.byQuery[queryID] = append(r.byQuery[queryID], res)
	r.sorted[queryID] = false
	return nil
}

// Query returns the results of queryID ordered by descending score, ties
// by descending docno. The bool is false if the run has no such query.
func (r *Results) Query(queryID string) ([]Result, bool) {
	list, ok := r.byQuery[queryID]
	if !ok {
		return nil, false
	}
	if !r.sorted[queryID] {
		SortResults(list)
		r.sorted[queryID] = true
	}
	return list, true
}

// QueryIDs returns the run's query ids in ascending order.
func (r *Results) QueryIDs() []string {
	ids := make([]string, 0, len(r.byQuery))
	for id := range r.byQuery {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len is the total number of results across all queries.
func (r *Results) Len() int {
	return len(r.seen)
}

// SortResults applies the evaluation ordering: descending score, then
// descending docno. The rank column is ignored.
func SortResults(list []Result) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].DocNo > list[j].DocNo
	})
}
