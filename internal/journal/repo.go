package journal

import (
	"fmt"
	"time"
)

// Run represents one CLI invocation.
type Run struct {
	ID        int64
	StartedAt time.Time
	DryRun    bool
	Documents int
	Deleted   int
}

// Deletion represents one removed asset file.
type Deletion struct {
	RunID     int64
	Document  string
	AssetDir  string
	File      string
	DeletedAt time.Time
}

// BeginRun inserts a new run row and returns its id.
func (db *DB) BeginRun(dryRun bool) (int64, error) {
	res, err := db.conn.Exec(
		`INSERT INTO runs (started_at, dry_run) VALUES (?, ?)`,
		time.Now().UTC(), dryRun)
	if err != nil {
		return 0, fmt.Errorf("journal: begin run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("journal: run id: %w", err)
	}
	return id, nil
}

// FinishRun records the final document and deletion counts for a run.
func (db *DB) FinishRun(runID int64, documents, deleted int) error {
	_, err := db.conn.Exec(
		`UPDATE runs SET documents = ?, deleted = ? WHERE id = ?`,
		documents, deleted, runID)
	if err != nil {
		return fmt.Errorf("journal: finish run: %w", err)
	}
	return nil
}

// RecordDeletionForRun appends one deletion row to a run.
func (db *DB) RecordDeletionForRun(runID int64, document, assetDir, file string) error {
	_, err := db.conn.Exec(
		`INSERT INTO deletions (run_id, document, asset_dir, file, deleted_at)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, document, assetDir, file, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("journal: record deletion: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	rows, err := db.conn.Query(
		`SELECT id, started_at, dry_run, documents, deleted
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.DryRun, &r.Documents, &r.Deleted); err != nil {
			return nil, fmt.Errorf("journal: scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecentDeletions returns up to limit deletions, newest first.
func (db *DB) RecentDeletions(limit int) ([]Deletion, error) {
	rows, err := db.conn.Query(
		`SELECT run_id, document, asset_dir, file, deleted_at
		 FROM deletions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: list deletions: %w", err)
	}
	defer rows.Close()

	var out []Deletion
	for rows.Next() {
		var d Deletion
		if err := rows.Scan(&d.RunID, &d.Document, &d.AssetDir, &d.File, &d.DeletedAt); err != nil {
			return nil, fmt.Errorf("journal: scan deletion: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RunRecorder binds a Store to a specific run id, satisfying the
// reconcile.Recorder shape.
type RunRecorder struct {
	Store Store
	RunID int64
}

// RecordDeletion appends one deletion row to the bound run.
func (r *RunRecorder) RecordDeletion(document, assetDir, file string) error {
	return r.Store.RecordDeletionForRun(r.RunID, document, assetDir, file)
}
