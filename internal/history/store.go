// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists completed research runs so past answers can
// be listed, reviewed, and exported.
// Implements: prd004-history (R1-R4).
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

const (
	dbFile           = "history.db"
	defaultListLimit = 20
)

// Store manages the research history SQLite database.
type Store struct {
	db  *sql.DB
	dir string
}

// NewStore opens or creates the history database at dir/history.db,
// creating the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: cfg.Dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			case_count INTEGER NOT NULL,
			statute_count INTEGER NOT NULL,
			tldr TEXT,
			key_cases TEXT,
			statutes TEXT,
			answer TEXT,
			gaps TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save persists a completed run and returns its assigned ID. A zero
// timestamp is replaced with the current time.
func (s *Store) Save(ctx context.Context, run types.ResearchRun) (int64, error) {
	ts := run.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (question, timestamp, case_count, statute_count, tldr, key_cases, statutes, answer, gaps)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Question, ts.UTC().Format(time.RFC3339Nano),
		run.CaseCount, run.StatuteCount,
		run.Synthesis.TLDR, run.Synthesis.KeyCases, run.Synthesis.Statutes,
		run.Synthesis.Answer, run.Synthesis.Gaps,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run ID: %w", err)
	}
	return id, nil
}

// Get returns one run by ID.
func (s *Store) Get(ctx context.Context, id int64) (types.ResearchRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, question, timestamp, case_count, statute_count, tldr, key_cases, statutes, answer, gaps
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return types.ResearchRun{}, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return types.ResearchRun{}, fmt.Errorf("reading run %d: %w", id, err)
	}
	return run, nil
}

// List returns the most recent runs, newest first, up to limit. A limit
// of zero or less uses the default (20).
func (s *Store) List(ctx context.Context, limit int) ([]types.ResearchRun, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, timestamp, case_count, statute_count, tldr, key_cases, statutes, answer, gaps
		 FROM runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.ResearchRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("reading run row: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Search returns runs whose question contains the term, newest first.
func (s *Store) Search(ctx context.Context, term string, limit int) ([]types.ResearchRun, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, timestamp, case_count, statute_count, tldr, key_cases, statutes, answer, gaps
		 FROM runs WHERE question LIKE ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		"%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("searching runs: %w", err)
	}
	defer rows.Close()

	var runs []types.ResearchRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("reading run row: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (types.ResearchRun, error) {
	var run types.ResearchRun
	var ts string
	err := sc.Scan(&run.ID, &run.Question, &ts, &run.CaseCount, &run.StatuteCount,
		&run.Synthesis.TLDR, &run.Synthesis.KeyCases, &run.Synthesis.Statutes,
		&run.Synthesis.Answer, &run.Synthesis.Gaps)
	if err != nil {
		return types.ResearchRun{}, err
	}
	run.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return types.ResearchRun{}, fmt.Errorf("parsing timestamp %q: %w", ts, err)
	}
	return run, nil
}

// ExportYAML writes all runs to dir/export.yaml, newest first.
func (s *Store) ExportYAML(ctx context.Context) error {
	runs, err := s.exportRuns(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(runs)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, "export.yaml"), data, 0o644)
}

// ExportJSON writes all runs to dir/export.json, newest first.
func (s *Store) ExportJSON(ctx context.Context) error {
	runs, err := s.exportRuns(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, "export.json"), data, 0o644)
}

const exportLimit = 100000

func (s *Store) exportRuns(ctx context.Context) ([]types.ResearchRun, error) {
	runs, err := s.List(ctx, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return runs, nil
}
