// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grindstone/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for engine state and session history.
//
// Callers treat every method as best-effort: a failed write means "not yet
// persisted", a failed read means "no prior state". The engine never
// escalates a store error into a session failure.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			id INTEGER PRIMARY KEY,
			kind TEXT NOT NULL,
			day_key TEXT NOT NULL,
			label TEXT NOT NULL,
			result TEXT NOT NULL,
			reason TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_day_key ON outcomes(day_key);`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_ended_at ON outcomes(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// GetState reads one state value. A missing key is not an error; the
// second return reports presence.
func (s *Store) GetState(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetState upserts one state value.
func (s *Store) SetState(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// InsertOutcome appends one finished session to history.
func (s *Store) InsertOutcome(ctx context.Context, o model.SessionOutcome) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (kind, day_key, label, result, reason, started_at, ended_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(o.Kind),
		o.DayKey,
		o.Label,
		string(o.Result),
		o.Reason,
		o.StartedAt.Format(time.RFC3339Nano),
		o.EndedAt.Format(time.RFC3339Nano),
		o.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListOutcomes returns history filtered by stats config, oldest first.
func (s *Store) ListOutcomes(ctx context.Context, cfg model.StatsConfig) ([]model.SessionOutcome, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, cfg.Kind)
	}
	query := fmt.Sprintf(`SELECT id, kind, day_key, label, result, reason, started_at, ended_at, duration_ms
		FROM outcomes
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var outcomes []model.SessionOutcome
	for rows.Next() {
		var o model.SessionOutcome
		var kind, result, startedAt, endedAt string
		if err := rows.Scan(&o.ID, &kind, &o.DayKey, &o.Label, &result, &o.Reason, &startedAt, &endedAt, &o.DurationMs); err != nil {
			return nil, err
		}
		o.Kind = model.SessionKind(kind)
		o.Result = model.RunStatus(result)
		if o.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if o.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(outcomes) > cfg.Last {
		outcomes = outcomes[len(outcomes)-cfg.Last:]
	}
	return outcomes, nil
}
