// Package history keeps an optional log of workflow runs in PostgreSQL.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultLimit bounds Recent when no limit is given.
const DefaultLimit = 50

// MaxLimit is the largest page Recent returns.
const MaxLimit = 500

// Run is one completed workflow execution.
type Run struct {
	ID        uuid.UUID     `json:"id"`
	Workflow  string        `json:"workflow"`
	Files     []string      `json:"files"`
	Rows      int           `json:"rows"`
	Graphs    int           `json:"graphs"`
	Warnings  []string      `json:"warnings"`
	Degraded  bool          `json:"degraded"`
	Duration  time.Duration `json:"duration_ns"`
	CreatedAt time.Time     `json:"created_at"`
}

// Options tune the connection pool.
type Options struct {
	MaxConns        int
	MinConns        int
	MaxConnIdleTime time.Duration
}

// Store reads and writes runs.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to url and verifies the connection.
func Open(ctx context.Context, url string, opts Options) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns > 0 {
		cfg.MinConns = int32(opts.MinConns)
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewStore wraps an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS labplot_runs (
	id          uuid PRIMARY KEY,
	workflow    text        NOT NULL,
	files       text[]      NOT NULL DEFAULT '{}',
	rows        integer     NOT NULL,
	graphs      integer     NOT NULL,
	warnings    text[]      NOT NULL DEFAULT '{}',
	degraded    boolean     NOT NULL DEFAULT false,
	duration_ms bigint      NOT NULL,
	created_at  timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS labplot_runs_created_at_idx ON labplot_runs (created_at DESC);
`

// Migrate creates the runs table if needed.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate history: %w", err)
	}
	return nil
}

// Record inserts run. A zero ID or timestamp is filled in.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO labplot_runs (id, workflow, files, rows, graphs, warnings, degraded, duration_ms, created_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID.String(), run.Workflow, nonNil(run.Files), run.Rows, run.Graphs,
		nonNil(run.Warnings), run.Degraded, run.Duration.Milliseconds(), run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, workflow, files, rows, graphs, warnings, degraded, duration_ms, created_at
		FROM labplot_runs
		ORDER BY created_at DESC
		LIMIT $1`, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	runs, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, fmt.Errorf("scan runs: %w", err)
	}
	return runs, nil
}

func scanRun(row pgx.CollectableRow) (Run, error) {
	var (
		r      Run
		id     string
		millis int64
	)
	if err := row.Scan(&id, &r.Workflow, &r.Files, &r.Rows, &r.Graphs, &r.Warnings, &r.Degraded, &millis, &r.CreatedAt); err != nil {
		return Run{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Run{}, errors.Join(errors.New("invalid run id"), err)
	}
	r.ID = parsed
	r.Duration = time.Duration(millis) * time.Millisecond
	return r, nil
}

// ClampLimit maps limit onto 1..MaxLimit, using DefaultLimit for zero or less.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
