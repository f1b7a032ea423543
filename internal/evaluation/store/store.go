// Package store persists evaluation reports in PostgreSQL so effectiveness
// can be compared across runs and over time.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/internal/evaluation"
	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/postgres"
)

// Schema creates the tables the store writes to:
//
//	evaluation_runs         one row per evaluated run file
//	evaluation_query_scores one row per judged query of an evaluated run
const Schema = `
CREATE TABLE IF NOT EXISTS evaluation_runs (
    id           BIGSERIAL PRIMARY KEY,
    run_name     TEXT NOT NULL,
    run_id       TEXT NOT NULL DEFAULT '',
    bad_format   BOOLEAN NOT NULL,
    error        TEXT NOT NULL DEFAULT '',
    average_precision DOUBLE PRECISION NOT NULL DEFAULT 0,
    p_at_10      DOUBLE PRECISION NOT NULL DEFAULT 0,
    ndcg_at_10   DOUBLE PRECISION NOT NULL DEFAULT 0,
    ndcg_at_1000 DOUBLE PRECISION NOT NULL DEFAULT 0,
    tbg          DOUBLE PRECISION NOT NULL DEFAULT 0,
    evaluated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS evaluation_query_scores (
    run_pk       BIGINT NOT NULL REFERENCES evaluation_runs(id) ON DELETE CASCADE,
    query_id     TEXT NOT NULL,
    average_precision DOUBLE PRECISION NOT NULL,
    p_at_10      DOUBLE PRECISION NOT NULL,
    ndcg_at_10   DOUBLE PRECISION NOT NULL,
    ndcg_at_1000 DOUBLE PRECISION NOT NULL,
    tbg          DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (run_pk, query_id)
);
CREATE INDEX IF NOT EXISTS idx_evaluation_runs_name ON evaluation_runs (run_name, evaluated_at DESC);
`

// RunRow is a stored run summary.
type RunRow struct {
	ID          int64     `db:"id"`
	RunName     string    `db:"run_name"`
	RunID       string    `db:"run_id"`
	BadFormat   bool      `db:"bad_format"`
	Error       string    `db:"error"`
	EvaluatedAt time.Time `db:"evaluated_at"`
	evaluation.Scores
}

type queryRow struct {
	RunPK   int64  `db:"run_pk"`
	QueryID string `db:"query_id"`
	evaluation.Scores
}

// Store implements evaluation.Sink over PostgreSQL.
type Store struct {
	db     *postgres.Client
	now    func() time.Time
	logger *slog.Logger
}

func New(db *postgres.Client) *Store {
	return &Store{
		db:     db,
		now:    time.Now,
		logger: slog.Default().With("component", "evaluation-store"),
	}
}

// Migrate applies Schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.DB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("applying evaluation schema: %w", err)
	}
	return nil
}

// Write stores a report and its per-query scores in one transaction.
func (s *Store) Write(ctx context.Context, r *evaluation.Report) error {
	errText := ""
	if r.Err != nil {
		errText = r.Err.Error()
	}
	return s.db.InTx(ctx, func(tx *sqlx.Tx) error {
		var runPK int64
		err := tx.QueryRowxContext(ctx,
			`INSERT INTO evaluation_runs
			    (run_name, run_id, bad_format, error, average_precision, p_at_10, ndcg_at_10, ndcg_at_1000, tbg, evaluated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING id`,
			r.RunName, r.RunID, r.BadFormat, errText,
			r.Mean.AveragePrecision, r.Mean.PrecisionAt10, r.Mean.NDCGAt10, r.Mean.NDCGAt1000, r.Mean.TBG,
			s.now().UTC(),
		).Scan(&runPK)
		if err != nil {
			return fmt.Errorf("inserting run %s: %w", r.RunName, err)
		}
		if len(r.PerQuery) == 0 {
			return nil
		}

		rows := make([]queryRow, len(r.PerQuery))
		for i, q := range r.PerQuery {
			rows[i] = queryRow{RunPK: runPK, QueryID: q.QueryID, Scores: q.Scores}
		}
		_, err = tx.NamedExecContext(ctx,
			`INSERT INTO evaluation_query_scores
			    (run_pk, query_id, average_precision, p_at_10, ndcg_at_10, ndcg_at_1000, tbg)
			 VALUES (:run_pk, :query_id, :average_precision, :p_at_10, :ndcg_at_10, :ndcg_at_1000, :tbg)`,
			rows,
		)
		if err != nil {
			return fmt.Errorf("inserting query scores for %s: %w", r.RunName, err)
		}
		s.logger.Debug("run stored", "run", r.RunName, "queries", len(rows))
		return nil
	})
}

// LatestRuns returns the most recent evaluation of each run name, best
// mean average precision first.
func (s *Store) LatestRuns(ctx context.Context, limit int) ([]RunRow, error) {
	var rows []RunRow
	err := s.db.DB.SelectContext(ctx, &rows,
		`SELECT * FROM (
		    SELECT DISTINCT ON (run_name)
		           id, run_name, run_id, bad_format, error,
		           average_precision, p_at_10, ndcg_at_10, ndcg_at_1000, tbg, evaluated_at
		      FROM evaluation_runs
		     ORDER BY run_name, evaluated_at DESC
		 ) latest
		 ORDER BY average_precision DESC, run_name
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing latest runs: %w", err)
	}
	return rows, nil
}

// QueryScores returns the stored per-query scores of one stored run.
func (s *Store) QueryScores(ctx context.Context, runPK int64) ([]evaluation.QueryScores, error) {
	var rows []queryRow
	err := s.db.DB.SelectContext(ctx, &rows,
		`SELECT run_pk, query_id, average_precision, p_at_10, ndcg_at_10, ndcg_at_1000, tbg
		   FROM evaluation_query_scores
		  WHERE run_pk = $1
		  ORDER BY query_id`,
		runPK,
	)
	if err != nil {
		return nil, fmt.Errorf("listing query scores for run %d: %w", runPK, err)
	}
	out := make([]evaluation.QueryScores, len(rows))
	for i, row := range rows {
		out[i] = evaluation.QueryScores{QueryID: row.QueryID, Scores: row.Scores}
	}
	return out, nil
}
