// Package indexer builds an on-disk index from a document corpus.
package indexer

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/docstore"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/segment"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/metrics"
)

// DocumentSource yields corpus documents in order; *corpus.Scanner
// implements it.
type DocumentSource interface {
	Scan() bool
	Document() *corpus.Document
	Err() error
}

// BuildResult summarises a finished build.
type BuildResult struct {
	SegmentPath string
	Fingerprint string
	Documents   int
	Terms       int
	Postings    int64
	Stemmed     bool
	Duration    time.Duration
}

type Engine struct {
	cfg       config.IndexerConfig
	outDir    string
	tokenizer *tokenizer.Tokenizer
	memIndex  *index.MemoryIndex
	docs      *docstore.Store
	writer    *segment.Writer
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewEngine claims outDir for a new index. It refuses to touch an
// existing path so a previous index is never partially overwritten.
func NewEngine(cfg config.IndexerConfig, outDir string, m *metrics.Metrics) (*Engine, error) {
	if _, err := os.Stat(outDir); err == nil {
		return nil, apperrors.Newf(apperrors.ErrOutputExists, apperrors.ExitUsage,
			"output directory %s already exists", outDir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking output directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if m == nil {
		m = metrics.New()
	}
	return &Engine{
		cfg:       cfg,
		outDir:    outDir,
		tokenizer: tokenizer.New(cfg.Stem),
		memIndex:  index.NewMemoryIndex(cfg.Stem),
		docs:      docstore.New(outDir),
		writer:    segment.NewWriter(outDir),
		metrics:   m,
		logger:    slog.Default().With("component", "indexer"),
	}, nil
}

// Build consumes every document of src, stores its record and writes the
// segment file. Any corpus or I/O error aborts the build.
func (e *Engine) Build(src DocumentSource) (*BuildResult, error) {
	start := time.Now()
	e.logger.Info("index build started", "out_dir", e.outDir, "stem", e.cfg.Stem)

	for src.Scan() {
		if err := e.indexDocument(src.Document()); err != nil {
			return nil, err
		}
		if n := e.memIndex.DocCount(); e.cfg.ProgressInterval > 0 && n%e.cfg.ProgressInterval == 0 {
			e.logger.Info("indexing progress",
				"documents", n,
				"terms", e.memIndex.TermCount(),
				"elapsed", time.Since(start).Round(time.Millisecond),
			)
		}
	}
	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus after %d documents: %w", e.memIndex.DocCount(), err)
	}

	snapshot := e.memIndex.Snapshot()
	path, err := e.writer.Write(snapshot)
	if err != nil {
		return nil, fmt.Errorf("writing segment: %w", err)
	}
	fingerprint, err := segment.Fingerprint(path)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	e.metrics.IndexBuildDuration.Observe(duration.Seconds())
	result := &BuildResult{
		SegmentPath: path,
		Fingerprint: fingerprint,
		Documents:   snapshot.NumDocs(),
		Terms:       snapshot.NumTerms(),
		Postings:    snapshot.TotalPostings(),
		Stemmed:     snapshot.Stemmed(),
		Duration:    duration,
	}
	e.logger.Info("index build finished",
		"documents", result.Documents,
		"terms", result.Terms,
		"postings", result.Postings,
		"segment", path,
		"duration", duration.Round(time.Millisecond),
	)
	return result, nil
}

func (e *Engine) indexDocument(doc *corpus.Document) error {
	date, err := corpus.ParseDate(doc.DocNo)
	if err != nil {
		return fmt.Errorf("document %d: %w", e.memIndex.DocCount(), err)
	}
	tokens := doc.Tokens(e.tokenizer)
	id, err := e.memIndex.AddDocument(doc.DocNo, tokens)
	if err != nil {
		return err
	}
	if err := e.docs.Put(docstore.Record{
		DocNo:    doc.DocNo,
		ID:       id,
		Date:     date,
		Headline: doc.Headline,
		Raw:      doc.Raw,
	}); err != nil {
		return err
	}
	e.metrics.DocsIndexedTotal.Inc()
	e.metrics.TokensIndexedTotal.Add(float64(len(tokens)))
	e.logger.Debug("document indexed", "docno", doc.DocNo, "id", id, "length", len(tokens))
	return nil
}
