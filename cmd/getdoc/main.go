package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/docstore"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/indexer/segment"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/logger"
)

func main() {
	configPath := pflag.String("config", "", "path to config file")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: getdoc [--config file] <index-dir> id|docno <value>\n\n")
		fmt.Fprintf(os.Stderr, "Prints the stored record of one document.\n\n")
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

	record, err := lookup(pflag.Arg(0), pflag.Arg(1), pflag.Arg(2))
	if err != nil {
		slog.Error("document lookup failed", "error", err)
		if apperrors.ExitCode(err) == apperrors.ExitUsage {
			pflag.Usage()
		}
		os.Exit(apperrors.ExitCode(err))
	}
	fmt.Print(record)
}

func lookup(indexDir, kind, value string) (string, error) {
	store := docstore.New(indexDir)
	switch kind {
	case "docno":
		return store.Get(value)
	case "id":
		id, err := strconv.Atoi(value)
		if err != nil {
			return "", apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitUsage, "id %q is not an integer", value)
		}
		seg, err := segment.Load(indexDir)
		if err != nil {
			return "", err
		}
		return store.GetByID(seg.Index, id)
	default:
		return "", apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitUsage,
			"lookup kind must be id or docno, got %q", kind)
	}
}
