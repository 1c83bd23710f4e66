package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kushiservices/admin-backend/internal/models"
)

// Run statuses as stored in workflow_runs.
const (
	RunRunning = "RUNNING"
	RunSuccess = "SUCCESS"
	RunFailed  = "FAILED"
)

var ErrNoRuns = errors.New("db: no workflow runs")

// Store wraps the console's own Postgres pool. The booking data itself
// lives upstream; this database only keeps the audit trail of multi-step
// update attempts.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// WithTx runs fn inside a transaction, rolling back on error.
func (s *Store) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// EnsureSchema creates the audit table if it is missing. Called once at
// startup; safe to rerun.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS workflow_runs (
			id          BIGSERIAL PRIMARY KEY,
			booking_id  BIGINT      NOT NULL,
			kind        TEXT        NOT NULL,
			status      TEXT        NOT NULL,
			steps       JSONB       NOT NULL DEFAULT '[]',
			started_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			finished_at TIMESTAMPTZ
		)`)
	return err
}

// CreateWorkflowRun opens an audit record for one update attempt and
// returns its id.
func (s *Store) CreateWorkflowRun(ctx context.Context, bookingID int, kind string) (string, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO workflow_runs (booking_id, kind, status) VALUES ($1, $2, $3) RETURNING id`,
		bookingID, kind, RunRunning,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create workflow run: %w", err)
	}
	return fmt.Sprintf("%d", id), nil
}

// FinishWorkflowRun closes an audit record with its outcome and the
// per-step results as JSON.
func (s *Store) FinishWorkflowRun(ctx context.Context, id, status string, steps []byte) error {
	if len(steps) == 0 {
		steps = []byte("[]")
	}
	_, err := s.pool.Exec(ctx,
		`UPDATE workflow_runs SET status = $2, steps = $3, finished_at = NOW() WHERE id = $1`,
		id, status, steps,
	)
	if err != nil {
		return fmt.Errorf("finish workflow run: %w", err)
	}
	return nil
}

// LatestWorkflowRun returns the most recently started run.
func (s *Store) LatestWorkflowRun(ctx context.Context) (models.WorkflowRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, booking_id, kind, status, steps, started_at, finished_at
		 FROM workflow_runs ORDER BY started_at DESC, id DESC LIMIT 1`)
	return scanRun(row)
}

// ListWorkflowRuns returns the newest runs for one booking.
func (s *Store) ListWorkflowRuns(ctx context.Context, bookingID, limit int) ([]models.WorkflowRun, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, booking_id, kind, status, steps, started_at, finished_at
		 FROM workflow_runs WHERE booking_id = $1
		 ORDER BY started_at DESC, id DESC LIMIT $2`,
		bookingID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkflowRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanRun(row pgx.Row) (models.WorkflowRun, error) {
	var (
		run      models.WorkflowRun
		id       int64
		finished *time.Time
	)
	err := row.Scan(&id, &run.BookingID, &run.Kind, &run.Status, &run.Steps, &run.StartedAt, &finished)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.WorkflowRun{}, ErrNoRuns
	}
	if err != nil {
		return models.WorkflowRun{}, err
	}
	run.ID = fmt.Sprintf("%d", id)
	run.FinishedAt = finished
	return run, nil
}
