package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/events"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/metrics"
)

func main() {
	configPath := pflag.String("config", "", "path to config file")
	stem := pflag.Bool("stem", false, "index Porter-stemmed tokens (overrides indexer.stem)")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: indexer [--config file] [--stem] <latimes.gz> <index-dir>\n\n")
		fmt.Fprintf(os.Stderr, "Builds an index of the gzipped LA Times corpus in index-dir, which must not exist.\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if pflag.NArg() != 2 {
		pflag.Usage()
		os.Exit(apperrors.ExitUsage)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(apperrors.ExitUsage)
	}
	if pflag.CommandLine.Changed("stem") {
		cfg.Indexer.Stem = *stem
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	err = run(ctx, cfg, m, pflag.Arg(0), pflag.Arg(1))
	if werr := m.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
		slog.Warn("metrics not exported", "error", werr)
	}
	if err != nil {
		slog.Error("index build failed", "error", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func run(ctx context.Context, cfg *config.Config, m *metrics.Metrics, corpusPath, outDir string) error {
	engine, err := indexer.NewEngine(cfg.Indexer, outDir, m)
	if err != nil {
		return err
	}
	scanner, closeCorpus, err := corpus.OpenFile(corpusPath)
	if err != nil {
		return err
	}
	defer closeCorpus()

	result, err := engine.Build(scanner)
	if err != nil {
		return err
	}

	publisher := events.NewPublisher(cfg.Kafka, cfg.Kafka.Topics.IndexBuilt)
	defer publisher.Close()
	event := events.IndexBuiltEvent{
		Type:        events.EventIndexBuilt,
		IndexPath:   result.SegmentPath,
		Fingerprint: result.Fingerprint,
		Documents:   result.Documents,
		Terms:       result.Terms,
		Postings:    result.Postings,
		Stemmed:     result.Stemmed,
		DurationMs:  result.Duration.Milliseconds(),
		Timestamp:   time.Now().UTC(),
	}
	if err := publisher.Publish(ctx, result.Fingerprint, event); err != nil {
		slog.Warn("index built event not published", "error", err)
	}
	return nil
}
