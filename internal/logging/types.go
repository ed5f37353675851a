package logging

import "time"

// #region run-entry
// RunEntry is a single row in the run_log table.
type RunEntry struct {
	RunID     string    `json:"run_id,omitempty"` // signature_runs.run_id when the result was stored
	Task      string    `json:"task"`             // "auto_analyze", "trend", ...
	Goal      string    `json:"goal,omitempty"`
	Status    string    `json:"status"` // StatusOK | StatusError
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)
// #endregion run-entry

// #region schema
// RunLogSchema creates the run_log table. Stores opening a database run it
// alongside their own schema.
const RunLogSchema = `
CREATE TABLE IF NOT EXISTS run_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT,
    task        TEXT NOT NULL,
    goal        TEXT,
    status      TEXT NOT NULL,
    message     TEXT,
    created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_run_log_task ON run_log(task, created_at);
`
// #endregion schema
