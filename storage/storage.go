// Package storage persists scripts and run reports in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Script is a saved program. Code is omitted from listings.
type Script struct {
	ID        int64     `json:"script_id"`
	Title     string    `json:"title"`
	Code      string    `json:"code_text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RunRecord is the persisted eco outcome of one run.
type RunRecord struct {
	ID         int64     `json:"run_id"`
	ScriptID   *int64    `json:"script_id"`
	TotalOps   int64     `json:"total_ops"`
	EnergyJ    float64   `json:"energy_J"`
	EnergyKWh  float64   `json:"energy_kWh"`
	CO2Grams   float64   `json:"co2_g"`
	DurationMS int64     `json:"duration_ms"`
	Tips       []string  `json:"tips"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema
// exists. The store serializes access through a single connection, which
// is how SQLite wants to be written to.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	const schema = `
CREATE TABLE IF NOT EXISTS scripts (
  script_id  INTEGER PRIMARY KEY AUTOINCREMENT,
  title      TEXT NOT NULL,
  code_text  TEXT NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS runs (
  run_id      INTEGER PRIMARY KEY AUTOINCREMENT,
  script_id   INTEGER,
  total_ops   INTEGER,
  energy_j    REAL,
  energy_kwh  REAL,
  co2_g       REAL,
  duration_ms INTEGER,
  tips        TEXT,
  created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveScript persists a script and returns its id.
func (s *Store) SaveScript(ctx context.Context, title, code string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scripts (title, code_text) VALUES (?, ?)`, title, code)
	if err != nil {
		return 0, fmt.Errorf("save script: %w", err)
	}
	return res.LastInsertId()
}

// GetScript fetches one script by id, including its code.
func (s *Store) GetScript(ctx context.Context, id int64) (*Script, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT script_id, title, code_text, created_at FROM scripts WHERE script_id = ?`, id)
	var sc Script
	if err := row.Scan(&sc.ID, &sc.Title, &sc.Code, &sc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get script: %w", err)
	}
	return &sc, nil
}

// ListScripts returns saved scripts, newest first, without their code.
func (s *Store) ListScripts(ctx context.Context) ([]*Script, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT script_id, title, created_at FROM scripts
		 ORDER BY created_at DESC, script_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	defer rows.Close()

	var out []*Script
	for rows.Next() {
		var sc Script
		if err := rows.Scan(&sc.ID, &sc.Title, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan script: %w", err)
		}
		out = append(out, &sc)
	}
	return out, rows.Err()
}

// SaveRun persists the eco outcome of a run and returns its id. Callers
// should treat failures as non-fatal; a run result is still useful when
// the record could not be written.
func (s *Store) SaveRun(ctx context.Context, rec *RunRecord) (int64, error) {
	tips := rec.Tips
	if tips == nil {
		tips = []string{}
	}
	tipsJSON, err := json.Marshal(tips)
	if err != nil {
		return 0, fmt.Errorf("encode tips: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (script_id, total_ops, energy_j, energy_kwh, co2_g, duration_ms, tips)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ScriptID, rec.TotalOps, rec.EnergyJ, rec.EnergyKWh, rec.CO2Grams,
		rec.DurationMS, string(tipsJSON))
	if err != nil {
		return 0, fmt.Errorf("save run: %w", err)
	}
	return res.LastInsertId()
}

// ListRuns returns persisted runs, newest first, optionally filtered by
// script. Corrupt tips JSON degrades to an empty list rather than
// failing the whole listing.
func (s *Store) ListRuns(ctx context.Context, scriptID *int64) ([]*RunRecord, error) {
	query := `SELECT run_id, script_id, total_ops, energy_j, energy_kwh, co2_g, duration_ms, tips, created_at FROM runs`
	var args []any
	if scriptID != nil {
		query += ` WHERE script_id = ?`
		args = append(args, *scriptID)
	}
	query += ` ORDER BY created_at DESC, run_id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		var rec RunRecord
		var sid sql.NullInt64
		var tipsJSON string
		if err := rows.Scan(&rec.ID, &sid, &rec.TotalOps, &rec.EnergyJ, &rec.EnergyKWh,
			&rec.CO2Grams, &rec.DurationMS, &tipsJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if sid.Valid {
			rec.ScriptID = &sid.Int64
		}
		rec.Tips = []string{}
		if err := json.Unmarshal([]byte(tipsJSON), &rec.Tips); err != nil || rec.Tips == nil {
			rec.Tips = []string{}
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
