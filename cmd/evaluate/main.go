package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/evaluation"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/evaluation/qrels"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/evaluation/report"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/evaluation/store"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/events"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/segment"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/postgres"
)

type options struct {
	indexDir  string
	qrelsPath string
	outDir    string
	runs      []string
}

func main() {
	configPath := pflag.String("config", "", "path to config file")
	var opts options
	pflag.StringVar(&opts.indexDir, "index", "", "index directory the runs were produced from (required)")
	pflag.StringVar(&opts.qrelsPath, "qrels", "", "relevance judgments file (required)")
	pflag.StringVar(&opts.outDir, "out-dir", ".", "directory for the summary and per-run tables")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: evaluate [--config file] --index <dir> --qrels <file> [--out-dir dir] <run>...\n\n")
		fmt.Fprintf(os.Stderr, "Scores each run file and appends one summary row per run.\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	opts.runs = pflag.Args()
	if opts.indexDir == "" || opts.qrelsPath == "" || len(opts.runs) == 0 {
		pflag.Usage()
		os.Exit(apperrors.ExitUsage)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(apperrors.ExitUsage)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	err = execute(ctx, cfg, m, opts)
	if werr := m.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
		slog.Warn("metrics not exported", "error", werr)
	}
	if err != nil {
		slog.Error("evaluation failed", "error", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func execute(ctx context.Context, cfg *config.Config, m *metrics.Metrics, opts options) error {
	judgments, err := qrels.ReadFile(opts.qrelsPath)
	if err != nil {
		return err
	}
	seg, err := segment.Load(opts.indexDir)
	if err != nil {
		return err
	}

	csvSink, err := report.NewCSVSink(opts.outDir, cfg.Evaluation.SummaryFile)
	if err != nil {
		return err
	}
	sinks := []evaluation.Sink{csvSink}

	if cfg.Postgres.Enabled {
		db, err := postgres.New(cfg.Postgres)
		if err != nil {
			return err
		}
		defer db.Close()
		st := store.New(db)
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		sinks = append(sinks, st)
	}
	if cfg.Kafka.Enabled {
		publisher := events.NewPublisher(cfg.Kafka, cfg.Kafka.Topics.RunEvaluated)
		defer publisher.Close()
		sinks = append(sinks, evaluation.NewEventSink(publisher))
	}

	ev := evaluation.New(judgments, seg.Index, cfg.Evaluation)
	reports, err := evaluation.NewBatch(ev, m, sinks...).Run(ctx, opts.runs)
	if err != nil {
		return err
	}
	bad := 0
	for _, r := range reports {
		if r.BadFormat {
			bad++
		}
	}
	slog.Info("evaluation finished",
		"runs", len(reports),
		"bad_format", bad,
		"summary", csvSink.SummaryPath(),
	)
	return nil
}
