package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-run
// LogRun appends an entry to the run_log table.
func LogRun(db *sql.DB, entry RunEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Status == "" {
		entry.Status = StatusOK
	}

	_, err := db.Exec(
		`INSERT INTO run_log (run_id, task, goal, status, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(entry.RunID),
		entry.Task,
		nullIfEmpty(entry.Goal),
		entry.Status,
		nullIfEmpty(entry.Message),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log run: %w", err)
	}
	return nil
}
// #endregion log-run

// #region recent-runs
// RecentRuns returns up to limit run_log entries, newest first.
func RecentRuns(db *sql.DB, limit int) ([]RunEntry, error) {
	rows, err := db.Query(
		`SELECT run_id, task, goal, status, message, created_at
		 FROM run_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	var out []RunEntry
	for rows.Next() {
		var (
			e                    RunEntry
			runID, goal, message sql.NullString
			createdAt            string
		)
		if err := rows.Scan(&runID, &e.Task, &goal, &e.Status, &message, &createdAt); err != nil {
			return nil, fmt.Errorf("recent runs: scan: %w", err)
		}
		e.RunID, e.Goal, e.Message = runID.String, goal.String, message.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}
// #endregion recent-runs

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
