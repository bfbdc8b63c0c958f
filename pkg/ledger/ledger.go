// Package ledger records load-run provenance in a local SQLite database: one
// row per cutoff pass with the source release, row counts, and the NDEx
// network the pass fed. The ledger answers "what did we upload, from what
// input, and when" without digging through logs.
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Run is one recorded cutoff pass.
type Run struct {
	ID            uuid.UUID
	StartedAt     time.Time
	StringVersion string
	Cutoff        float64
	Scanned       int
	Accepted      int
	Duplicates    int
	NetworkID     string // empty when the pass was not uploaded
	OutputPath    string
}

// Ledger is a SQLite-backed append-only run log.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the ledger database at path.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS load_runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		string_version TEXT NOT NULL,
		cutoff REAL NOT NULL,
		scanned INTEGER NOT NULL,
		accepted INTEGER NOT NULL,
		duplicates INTEGER NOT NULL,
		network_id TEXT NOT NULL DEFAULT '',
		output_path TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create load_runs table: %w", err)
	}
	return &Ledger{db: db, path: path}, nil
}

// Path returns the database file path.
func (l *Ledger) Path() string {
	return l.path
}

// Record appends one run. A zero run ID is replaced with a fresh UUID; the
// stored run is returned.
func (l *Ledger) Record(run Run) (Run, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := l.db.Exec(
		`INSERT INTO load_runs (id, started_at, string_version, cutoff, scanned, accepted, duplicates, network_id, output_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(),
		run.StartedAt.Format(time.RFC3339Nano),
		run.StringVersion,
		run.Cutoff,
		run.Scanned,
		run.Accepted,
		run.Duplicates,
		run.NetworkID,
		run.OutputPath,
	)
	if err != nil {
		return run, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

// Runs returns all recorded runs, newest first.
func (l *Ledger) Runs() ([]Run, error) {
	rows, err := l.db.Query(
		`SELECT id, started_at, string_version, cutoff, scanned, accepted, duplicates, network_id, output_path
		 FROM load_runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			id        string
			startedAt string
		)
		if err := rows.Scan(&id, &startedAt, &run.StringVersion, &run.Cutoff,
			&run.Scanned, &run.Accepted, &run.Duplicates, &run.NetworkID, &run.OutputPath); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse run id %q: %w", id, err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", startedAt, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
