package ranker

import "container/heap"

// Select returns the best limit documents of docs in ranking order,
// keeping a bounded min-heap instead of sorting the whole candidate set.
// A non-positive limit sorts and keeps everything.
func Select(docs []ScoredDoc, limit int) []ScoredDoc {
	if limit <= 0 || len(docs) <= limit {
		out := append([]ScoredDoc(nil), docs...)
		Sort(out)
		return out
	}
	h := make(worstFirst, 0, limit+1)
	for _, doc := range docs {
		heap.Push(&h, doc)
		if h.Len() > limit {
			heap.Pop(&h)
		}
	}
	result := make([]ScoredDoc, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(ScoredDoc)
	}
	return result
}

// worstFirst keeps the lowest-ranked document at the root.
type worstFirst []ScoredDoc

func (h worstFirst) Len() int { return len(h) }

func (h worstFirst) Less(i, j int) bool { return ranksBefore(h[j], h[i]) }

func (h worstFirst) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *worstFirst) Push(x any) {
	*h = append(*h, x.(ScoredDoc))
}

func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
