package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/segment"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/run"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/searcher/query"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/redis"
)

func main() {
	configPath := pflag.String("config", "", "path to config file")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: bm25 [--config file] <index-dir> <queries> <output>\n\n")
		fmt.Fprintf(os.Stderr, "Writes a BM25 run of the top results for every query. The output file must not exist.\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if pflag.NArg() != 3 {
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
	err = execute(ctx, cfg, m, pflag.Arg(0), pflag.Arg(1), pflag.Arg(2))
	if werr := m.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
		slog.Warn("metrics not exported", "error", werr)
	}
	if err != nil {
		slog.Error("bm25 run failed", "error", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func execute(ctx context.Context, cfg *config.Config, m *metrics.Metrics, indexDir, queriesPath, outPath string) (err error) {
	out, err := run.CreateExclusive(outPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(outPath)
		}
	}()

	queries, err := query.ReadFile(queriesPath)
	if err != nil {
		return err
	}
	seg, err := segment.Load(indexDir)
	if err != nil {
		return err
	}

	var rankings searcher.RankingCache
	if cfg.Redis.Enabled {
		client, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("ranking cache unavailable, ranking every query", "error", err)
		} else {
			defer client.Close()
			rankings = cache.New(client, cfg.Redis.CacheTTL, m)
		}
	}

	s, err := searcher.New(seg.Index, seg.Fingerprint, cfg.Search, m, rankings)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	if err := s.BM25Run(ctx, queries, w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	slog.Info("bm25 run written", "queries", len(queries), "tag", s.BM25Tag(), "output", outPath)
	return nil
}
