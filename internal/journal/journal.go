// Package journal provides a SQLite-backed audit trail of reconciliation
// runs and the files they deleted.
package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	dry_run    INTEGER NOT NULL DEFAULT 0,
	documents  INTEGER NOT NULL DEFAULT 0,
	deleted    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS deletions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     INTEGER NOT NULL REFERENCES runs(id),
	document   TEXT NOT NULL,
	asset_dir  TEXT NOT NULL,
	file       TEXT NOT NULL,
	deleted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_deletions_run ON deletions(run_id);
`

// Store defines the journal operations the rest of the application uses.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with stubs.
type Store interface {
	BeginRun(dryRun bool) (int64, error)
	FinishRun(runID int64, documents, deleted int) error
	RecordDeletionForRun(runID int64, document, assetDir, file string) error
	RecentRuns(limit int) ([]Run, error)
	RecentDeletions(limit int) ([]Deletion, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// DB wraps a sql.DB with journal-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite journal and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("journal: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
