package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id            TEXT PRIMARY KEY,
			timestamp     INTEGER NOT NULL,
			source        TEXT,
			record_count  INTEGER,
			max_close     TEXT,
			mean_volume   REAL,
			correlation   REAL,
			outlier_count INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS run_sections (
			run_id   TEXT NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			title    TEXT,
			body     TEXT,
			PRIMARY KEY (run_id, position)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

// RecordRun stores the summary and every section of a run in one transaction.
// An empty ID is replaced with a fresh UUID and a zero Timestamp with now.
func (r *SQLiteRecorder) RecordRun(run *Run) error {
	if run == nil || run.Summary == nil {
		return fmt.Errorf("record run: missing summary")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}
	sum := run.Summary

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs
		(id, timestamp, source, record_count, max_close, mean_volume, correlation, outlier_count)
		VALUES (?,?,?,?,?,?,?,?)`,
		run.ID, run.Timestamp.Unix(), run.Source, sum.RecordCount,
		sum.MaxClose.String(), sum.MeanVolume, sum.Correlation, sum.OutlierCount,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for i, s := range sum.Sections {
		if _, err := tx.Exec(`INSERT INTO run_sections (run_id, position, title, body) VALUES (?,?,?,?)`,
			run.ID, i, s.Title, s.Body,
		); err != nil {
			return fmt.Errorf("insert section %q: %w", s.Title, err)
		}
	}
	return tx.Commit()
}

// RunCount returns how many runs are stored.
func (r *SQLiteRecorder) RunCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
