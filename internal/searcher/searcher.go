// Package searcher turns a topic file into Boolean AND or BM25 runs over a
// loaded index.
package searcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/run"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/searcher/boolean"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/searcher/query"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/metrics"
)

const (
	retrieverBoolean = "boolean"
	retrieverBM25    = "bm25"
)

// RankingCache memoises BM25 rankings; *cache.RankingCache implements it.
type RankingCache interface {
	GetOrCompute(ctx context.Context, key cache.Key, computeFn func() ([]ranker.ScoredDoc, error)) ([]ranker.ScoredDoc, bool, error)
}

type Searcher struct {
	idx         *index.Index
	fingerprint string
	tokenizer   *tokenizer.Tokenizer
	cfg         config.SearchConfig
	semantics   boolean.Semantics
	params      ranker.Params
	cache       RankingCache
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// New builds a Searcher over idx. Query text is tokenized the way the
// index was, stemmed or not. rc may be nil to rank without caching.
func New(idx *index.Index, fingerprint string, cfg config.SearchConfig, m *metrics.Metrics, rc RankingCache) (*Searcher, error) {
	sem, err := boolean.ParseSemantics(cfg.BooleanSemantics)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.New()
	}
	return &Searcher{
		idx:         idx,
		fingerprint: fingerprint,
		tokenizer:   tokenizer.New(idx.Stemmed()),
		cfg:         cfg,
		semantics:   sem,
		params:      ranker.ParamsFromConfig(cfg.BM25),
		cache:       rc,
		metrics:     m,
		logger:      slog.Default().With("component", "searcher"),
	}, nil
}

// BooleanTag is the run tag of Boolean runs.
func (s *Searcher) BooleanTag() string {
	return s.cfg.RunTags.Boolean
}

// BM25Tag is the run tag of BM25 runs; stemmed indexes get their own tag.
func (s *Searcher) BM25Tag() string {
	if s.idx.Stemmed() {
		return s.cfg.RunTags.BM25Stem
	}
	return s.cfg.RunTags.BM25
}

// Boolean returns the docnos matching every token of q, ordered by
// ascending internal id.
func (s *Searcher) Boolean(q query.Query) ([]string, error) {
	start := time.Now()
	ids, err := boolean.Match(s.idx, q.Tokens(s.tokenizer), s.semantics)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.ID, err)
	}
	docNos := make([]string, len(ids))
	for i, id := range ids {
		if docNos[i], err = s.idx.DocNo(id); err != nil {
			return nil, fmt.Errorf("query %s: %w", q.ID, err)
		}
	}
	s.observe(retrieverBoolean, q, len(docNos), time.Since(start), false)
	return docNos, nil
}

// BooleanRun writes one Boolean run over queries. The score of the result
// at rank r out of n is n-r.
func (s *Searcher) BooleanRun(queries []query.Query, out io.Writer) error {
	w := run.NewWriter(out, s.BooleanTag(), run.IntegerScore)
	for _, q := range queries {
		docNos, err := s.Boolean(q)
		if err != nil {
			return err
		}
		for i, docNo := range docNos {
			rank := i + 1
			if err := w.Write(q.ID, docNo, rank, float64(len(docNos)-rank)); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

// BM25 ranks the collection for q and keeps the top search.maxResults.
func (s *Searcher) BM25(ctx context.Context, q query.Query) ([]ranker.ScoredDoc, error) {
	start := time.Now()
	tokens := q.Tokens(s.tokenizer)
	compute := func() ([]ranker.ScoredDoc, error) {
		return ranker.RankTop(s.idx, tokens, s.params, s.cfg.MaxResults)
	}

	var (
		docs     []ranker.ScoredDoc
		cacheHit bool
		err      error
	)
	if s.cache != nil {
		key := cache.Key{
			Fingerprint: s.fingerprint,
			Params:      s.params,
			Tokens:      tokens,
			Limit:       s.cfg.MaxResults,
		}
		docs, cacheHit, err = s.cache.GetOrCompute(ctx, key, compute)
	} else {
		docs, err = compute()
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.ID, err)
	}
	s.observe(retrieverBM25, q, len(docs), time.Since(start), cacheHit)
	return docs, nil
}

// BM25Run writes one BM25 run over queries.
func (s *Searcher) BM25Run(ctx context.Context, queries []query.Query, out io.Writer) error {
	w := run.NewWriter(out, s.BM25Tag(), run.DecimalScore)
	for _, q := range queries {
		docs, err := s.BM25(ctx, q)
		if err != nil {
			return err
		}
		for i, d := range docs {
			if err := w.Write(q.ID, d.DocNo, i+1, d.Score); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

func (s *Searcher) observe(retriever string, q query.Query, results int, elapsed time.Duration, cacheHit bool) {
	outcome := "hit"
	if results == 0 {
		outcome = "zero_result"
	}
	s.metrics.QueriesTotal.WithLabelValues(retriever, outcome).Inc()
	s.metrics.QueryLatency.WithLabelValues(retriever).Observe(elapsed.Seconds())
	s.metrics.QueryResultsCount.WithLabelValues(retriever).Observe(float64(results))
	s.logger.Info("query executed",
		"retriever", retriever,
		"query_id", q.ID,
		"results", results,
		"cache_hit", cacheHit,
		"elapsed", elapsed,
	)
}
