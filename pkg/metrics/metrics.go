// Package metrics defines the Prometheus metric collectors used by the
// indexing, retrieval and evaluation tools and exports them to a textfile
// for node-exporter to pick up.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the tools.
type Metrics struct {
	Registry *prometheus.Registry

	DocsIndexedTotal    prometheus.Counter
	TokensIndexedTotal  prometheus.Counter
	IndexBuildDuration  prometheus.Histogram
	QueriesTotal        *prometheus.CounterVec
	QueryLatency        *prometheus.HistogramVec
	QueryResultsCount   *prometheus.HistogramVec
	RankingCacheHits    prometheus.Counter
	RankingCacheMisses  prometheus.Counter
	RunsEvaluatedTotal  *prometheus.CounterVec
	QueriesEvaluatedSum prometheus.Counter
}

// New creates the collectors on a private registry, so several instances
// can coexist in one process (tests build many).
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docs_indexed_total",
				Help: "Total documents indexed.",
			},
		),
		TokensIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tokens_indexed_total",
				Help: "Total tokens indexed across headline, text and graphic fields.",
			},
		),
		IndexBuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "index_build_duration_seconds",
				Help:    "Wall time of a full index build.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
			},
		),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queries_total",
				Help: "Total queries executed by retriever (boolean, bm25) and outcome (hit, zero_result).",
			},
			[]string{"retriever", "outcome"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "query_latency_seconds",
				Help:    "Per-query retrieval latency in seconds.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"retriever"},
		),
		QueryResultsCount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "query_results_count",
				Help:    "Number of results written per query.",
				Buckets: []float64{0, 1, 10, 100, 500, 1000, 10000},
			},
			[]string{"retriever"},
		),
		RankingCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ranking_cache_hits_total",
				Help: "Total BM25 rankings served from the cache.",
			},
		),
		RankingCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ranking_cache_misses_total",
				Help: "Total BM25 rankings computed because the cache had no entry.",
			},
		),
		RunsEvaluatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runs_evaluated_total",
				Help: "Total run files evaluated by status (ok, bad_format).",
			},
			[]string{"status"},
		),
		QueriesEvaluatedSum: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "queries_evaluated_total",
				Help: "Total judged queries scored across all evaluated runs.",
			},
		),
	}

	m.Registry.MustRegister(
		m.DocsIndexedTotal,
		m.TokensIndexedTotal,
		m.IndexBuildDuration,
		m.QueriesTotal,
		m.QueryLatency,
		m.QueryResultsCount,
		m.RankingCacheHits,
		m.RankingCacheMisses,
		m.RunsEvaluatedTotal,
		m.QueriesEvaluatedSum,
	)

	return m
}

// WriteTextfile writes the current registry state in the text exposition
// format. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", path, err)
	}
	return nil
}
