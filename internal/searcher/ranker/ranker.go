// Package ranker scores documents against a query with Okapi BM25.
package ranker

import (
	"math"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/config"
)

// Params are the BM25 constants. k2 saturates query term frequency.
type Params struct {
	K1 float64 `json:"k1"`
	B  float64 `json:"b"`
	K2 float64 `json:"k2"`
}

func ParamsFromConfig(c config.BM25Config) Params {
	return Params{K1: c.K1, B: c.B, K2: c.K2}
}

type ScoredDoc struct {
	DocID int     `json:"doc_id"`
	DocNo string  `json:"docno"`
	Score float64 `json:"score"`
}

// Collection is the read side of the index the ranker needs;
// *index.Index implements it.
type Collection interface {
	NumDocs() int
	AvgDocLength() float64
	Postings(term string) (index.PostingList, bool)
	DocLength(docID int) int
	DocNo(docID int) (string, error)
}

// Rank scores every document that shares a token with the query and
// returns them by descending score, ties by descending docno. Each token
// occurrence contributes its own term, weighted by the token's query
// frequency. Tokens missing from the lexicon are skipped.
func Rank(c Collection, tokens []string, p Params) ([]ScoredDoc, error) {
	docs, err := score(c, tokens, p)
	if err != nil {
		return nil, err
	}
	Sort(docs)
	return docs, nil
}

// RankTop is Rank truncated to the best limit documents. A non-positive
// limit keeps everything.
func RankTop(c Collection, tokens []string, p Params, limit int) ([]ScoredDoc, error) {
	docs, err := score(c, tokens, p)
	if err != nil {
		return nil, err
	}
	return Select(docs, limit), nil
}

func score(c Collection, tokens []string, p Params) ([]ScoredDoc, error) {
	n := c.NumDocs()
	if n == 0 || len(tokens) == 0 {
		return []ScoredDoc{}, nil
	}
	avgDocLength := c.AvgDocLength()
	qf := make(map[string]int, len(tokens))
	for _, token := range tokens {
		qf[token]++
	}

	scores := make(map[int]float64)
	for _, token := range tokens {
		postings, ok := c.Postings(token)
		if !ok {
			continue
		}
		queryWeight := computeQueryWeight(float64(qf[token]), p)
		idf := computeIDF(int64(n), int64(len(postings)))
		for _, posting := range postings {
			docWeight := computeTFNorm(
				float64(posting.Frequency),
				float64(c.DocLength(posting.DocID)),
				avgDocLength,
				p,
			)
			scores[posting.DocID] += docWeight * queryWeight * idf
		}
	}

	result := make([]ScoredDoc, 0, len(scores))
	for docID, s := range scores {
		docNo, err := c.DocNo(docID)
		if err != nil {
			return nil, err
		}
		result = append(result, ScoredDoc{DocID: docID, DocNo: docNo, Score: s})
	}
	return result, nil
}

// Sort orders docs by descending score, then descending docno.
func Sort(docs []ScoredDoc) {
	sort.Slice(docs, func(i, j int) bool {
		return ranksBefore(docs[i], docs[j])
	})
}

func ranksBefore(a, b ScoredDoc) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.DocNo > b.DocNo
}

// computeIDF is the Robertson-Sparck Jones weight without relevance
// information. It is negative for terms in more than half the collection.
func computeIDF(totalDocs int64, docFreq int64) float64 {
	numerator := float64(totalDocs) - float64(docFreq) + 0.5
	denominator := float64(docFreq) + 0.5 + 1
	return math.Log(numerator / denominator)
}

func computeTFNorm(termFreq float64, docLength float64, avgDocLength float64, p Params) float64 {
	lengthRatio := 0.0
	if avgDocLength > 0 {
		lengthRatio = docLength / avgDocLength
	}
	k := p.K1 * ((1 - p.B) + p.B*lengthRatio)
	return ((p.K1 + 1) * termFreq) / (k + termFreq)
}

func computeQueryWeight(queryFreq float64, p Params) float64 {
	return ((p.K2 + 1) * queryFreq) / (p.K2 + queryFreq)
}
