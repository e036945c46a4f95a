package audit

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/petasbytes/go-meshedit/internal/batch"
)

const timeFormat = time.RFC3339Nano

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a run id has no record.
var ErrNotFound = errors.New("audit: run not found")

// Store records batch reports in a SQLite database.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Run is a stored batch with its per-command rows.
type Run struct {
	RunID      string
	Source     string
	CreatedAt  time.Time
	Total      int
	Successful int
	Failed     int
	Results    []Result
	Warnings   []string
}

// Result is one command row. Affected is -1 when the command reported no
// affected elements.
type Result struct {
	Success  bool
	Message  string
	Affected int
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	s := &Store{sqlDB: sqlDB, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.sqlDB.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record stores r under its run id. source names where the batch came from
// (a file path, "mcp", "agent").
func (s *Store) Record(ctx context.Context, source string, r batch.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(r.RunID) == "" {
		return fmt.Errorf("run id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, source, created_at, total, successful, failed) VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, source, s.now().UTC().Format(timeFormat), r.Total, r.Succeeded, r.Failed,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for i, res := range r.Results {
		var affected sql.NullInt64
		if res.AffectedElements != nil {
			affected = sql.NullInt64{Int64: int64(len(res.AffectedElements)), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO results (run_id, seq, success, message, affected) VALUES (?, ?, ?, ?, ?)`,
			r.RunID, i, res.Success, res.Message, affected,
		); err != nil {
			return fmt.Errorf("insert result %d: %w", i, err)
		}
	}
	for i, w := range r.Warnings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO warnings (run_id, seq, message) VALUES (?, ?, ?)`, r.RunID, i, w,
		); err != nil {
			return fmt.Errorf("insert warning %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Get loads one run with its results and warnings.
func (s *Store) Get(ctx context.Context, runID string) (Run, error) {
	if s == nil || s.sqlDB == nil {
		return Run{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT run_id, source, created_at, total, successful, failed FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT success, message, affected FROM results WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return Run{}, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var res Result
		var affected sql.NullInt64
		if err := rows.Scan(&res.Success, &res.Message, &affected); err != nil {
			return Run{}, fmt.Errorf("scan result: %w", err)
		}
		res.Affected = -1
		if affected.Valid {
			res.Affected = int(affected.Int64)
		}
		run.Results = append(run.Results, res)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}

	wrows, err := s.sqlDB.QueryContext(ctx,
		`SELECT message FROM warnings WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return Run{}, fmt.Errorf("query warnings: %w", err)
	}
	defer wrows.Close()
	for wrows.Next() {
		var w string
		if err := wrows.Scan(&w); err != nil {
			return Run{}, fmt.Errorf("scan warning: %w", err)
		}
		run.Warnings = append(run.Warnings, w)
	}
	return run, wrows.Err()
}

// Recent lists the newest runs first, without their per-command rows.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT run_id, source, created_at, total, successful, failed FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var created string
	if err := sc.Scan(&run.RunID, &run.Source, &created, &run.Total, &run.Successful, &run.Failed); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(timeFormat, created)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	run.CreatedAt = t
	return run, nil
}
