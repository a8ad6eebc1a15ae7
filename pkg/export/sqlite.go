package export

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cluster_reports (
	run_id    TEXT    NOT NULL,
	cluster   INTEGER NOT NULL,
	n         INTEGER NOT NULL,
	m         INTEGER NOT NULL,
	score     REAL    NOT NULL,
	threshold REAL    NOT NULL,
	verdict   TEXT    NOT NULL,
	PRIMARY KEY (run_id, cluster)
);`

// SQLiteSink persists per-cluster reports across runs, keyed by run ID, so
// repeated refinements of the same network can be compared offline.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLiteSink opens (and if needed initializes) a report database.
func OpenSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite sink %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite sink %s: %w", path, err)
	}
	return &SQLiteSink{db: db}, nil
}

// WriteRun inserts one row per record under the given run ID, atomically.
func (s *SQLiteSink) WriteRun(runID string, records []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite sink: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO cluster_reports (run_id, cluster, n, m, score, threshold, verdict)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite sink: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(runID, uint64(r.ClusterID), r.Size, r.InternalEdges, r.Score, r.Threshold, string(r.Verdict)); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite sink: cluster %d: %w", r.ClusterID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite sink: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
