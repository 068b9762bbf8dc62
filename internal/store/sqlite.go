// Package store persists the session's search-run log. Leads are never
// written anywhere: only query metadata, counts, and outcomes, enough
// for the runs command and for quota troubleshooting.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadscout/internal/model"
)

// RunLog records pipeline invocations in SQLite.
type RunLog struct {
	db *sql.DB
}

// Open opens the run log at the given path and configures WAL mode.
func Open(dsn string) (*RunLog, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &RunLog{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS search_runs (
	id          TEXT PRIMARY KEY,
	city        TEXT NOT NULL,
	categories  TEXT NOT NULL,
	radius_km   REAL NOT NULL,
	lead_count  INTEGER NOT NULL DEFAULT 0,
	error_kind  TEXT,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_search_runs_city ON search_runs(city);
CREATE INDEX IF NOT EXISTS idx_search_runs_created_at ON search_runs(created_at);
`

// Migrate creates the schema.
func (s *RunLog) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

// Close releases the database handle.
func (s *RunLog) Close() error {
	return s.db.Close()
}

// Record inserts one run. A zero ID is assigned; a zero CreatedAt is
// stamped with the current time.
func (s *RunLog) Record(ctx context.Context, run model.SearchRun) (model.SearchRun, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	cats, err := json.Marshal(run.Categories)
	if err != nil {
		return model.SearchRun{}, eris.Wrap(err, "store: marshal categories")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO search_runs (id, city, categories, radius_km, lead_count, error_kind, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.City, string(cats), run.RadiusKm, run.LeadCount, nullable(run.ErrorKind), run.DurationMs, run.CreatedAt,
	)
	if err != nil {
		return model.SearchRun{}, eris.Wrap(err, "store: insert run")
	}

	return run, nil
}

// List returns the most recent runs, newest first. limit <= 0 means a
// default of 50.
func (s *RunLog) List(ctx context.Context, limit int) ([]model.SearchRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, city, categories, radius_km, lead_count, COALESCE(error_kind, ''), duration_ms, created_at
		 FROM search_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: list runs")
	}
	defer rows.Close()

	var runs []model.SearchRun
	for rows.Next() {
		var run model.SearchRun
		var cats string
		if err := rows.Scan(&run.ID, &run.City, &cats, &run.RadiusKm, &run.LeadCount, &run.ErrorKind, &run.DurationMs, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		if err := json.Unmarshal([]byte(cats), &run.Categories); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal categories")
		}
		runs = append(runs, run)
	}

	return runs, eris.Wrap(rows.Err(), "store: iterate runs")
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
