package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/segment"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/run"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/searcher/query"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/metrics"
)

func main() {
	configPath := pflag.String("config", "", "path to config file")
	semantics := pflag.String("semantics", "", "multiset or set (overrides search.booleanSemantics)")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: booleanand [--config file] [--semantics multiset|set] <index-dir> <queries> <output>\n\n")
		fmt.Fprintf(os.Stderr, "Writes a Boolean AND run for every query. The output file must not exist.\n\n")
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
	if *semantics != "" {
		cfg.Search.BooleanSemantics = *semantics
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	m := metrics.New()
	err = execute(cfg, m, pflag.Arg(0), pflag.Arg(1), pflag.Arg(2))
	if werr := m.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
		slog.Warn("metrics not exported", "error", werr)
	}
	if err != nil {
		slog.Error("boolean run failed", "error", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func execute(cfg *config.Config, m *metrics.Metrics, indexDir, queriesPath, outPath string) (err error) {
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
	s, err := searcher.New(seg.Index, seg.Fingerprint, cfg.Search, m, nil)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	if err := s.BooleanRun(queries, w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	slog.Info("boolean run written", "queries", len(queries), "output", outPath)
	return nil
}
