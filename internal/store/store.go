package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	_ "modernc.org/sqlite"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/logging"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS signature_runs (
	run_id       TEXT PRIMARY KEY,
	goal         TEXT NOT NULL,
	n_rows       INTEGER NOT NULL,
	n_cols       INTEGER NOT NULL,
	is_vector    INTEGER NOT NULL DEFAULT 0,
	emotion      REAL NOT NULL,
	trend        REAL NOT NULL,
	correlation  REAL NOT NULL,
	variation    REAL NOT NULL,
	signature    REAL NOT NULL,
	fusion       BLOB NOT NULL,
	matrix       BLOB NOT NULL,
	payload      BLOB NOT NULL,
	created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_signature_runs_signature ON signature_runs(signature);
`

const selectColumns = `run_id, goal, n_rows, n_cols, is_vector, matrix, payload, created_at`
// #endregion schema

// #region store-struct
// Store keeps pipeline runs and the run log in SQLite.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	s, err := NewStoreWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStoreWithDB migrates an already opened database.
func NewStoreWithDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if _, err := db.Exec(logging.RunLogSchema); err != nil {
		return nil, fmt.Errorf("migrate run_log: %w", err)
	}
	return &Store{db: db}, nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}
// #endregion db-accessor

// #region save
// Save stores res together with the matrix it was computed from.
func (s *Store) Save(res orchestrator.Result, m mat.Matrix) (RunRecord, error) {
	if err := dataset.Validate(m); err != nil {
		return RunRecord{}, fmt.Errorf("save: %w", err)
	}
	var rows, cols int
	if !dataset.IsEmpty(m) {
		rows, cols = m.Dims()
	}
	payload, err := encodePayload(res)
	if err != nil {
		return RunRecord{}, err
	}

	rec := RunRecord{
		RunID:     uuid.New().String(),
		Goal:      res.Goal,
		Rows:      rows,
		Cols:      cols,
		IsVector:  dataset.IsVector(m),
		Matrix:    m,
		Result:    res,
		CreatedAt: time.Now().UTC(),
	}
	a := res.Analysis
	_, err = s.db.Exec(
		`INSERT INTO signature_runs (run_id, goal, n_rows, n_cols, is_vector, emotion, trend, correlation,
		 variation, signature, fusion, matrix, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Goal, rows, cols, boolInt(rec.IsVector), res.Emotion,
		a.Trend, a.Correlation, a.Variation, a.Signature,
		encodeFloats(a.Fusion[:]), encodeFloats(dataset.Flatten(m)), payload,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("insert run: %w", err)
	}
	return rec, nil
}
// #endregion save

// #region record
// Record appends a run_log entry for one task invocation, failed ones
// included, and saves res when the task produced a pipeline result. It
// returns the stored run id, empty when nothing was saved.
func (s *Store) Record(task, label string, res *orchestrator.Result, m mat.Matrix, runErr error) (string, error) {
	entry := logging.RunEntry{Task: task, Goal: label, Status: logging.StatusOK}
	switch {
	case runErr != nil:
		entry.Status = logging.StatusError
		entry.Message = runErr.Error()
	case res != nil:
		rec, err := s.Save(*res, m)
		if err != nil {
			return "", err
		}
		entry.RunID = rec.RunID
		entry.Message = res.Message
	}
	if err := logging.LogRun(s.db, entry); err != nil {
		return entry.RunID, err
	}
	return entry.RunID, nil
}
// #endregion record

// #region get
// Get retrieves a stored run by id.
func (s *Store) Get(id string) (RunRecord, error) {
	row := s.db.QueryRow(`SELECT `+selectColumns+` FROM signature_runs WHERE run_id = ?`, id)
	rec, err := scanRun(row)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return rec, nil
}
// #endregion get

// #region list
// List returns up to limit stored runs, newest first. A negative limit
// returns every run.
func (s *Store) List(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT `+selectColumns+` FROM signature_runs ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
// #endregion list

// #region nearest
// Nearest returns up to k stored runs whose memory signature is closest to
// signature, nearest first. Ties keep insertion order.
func (s *Store) Nearest(signature float64, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT `+selectColumns+`, ABS(signature - ?) AS distance FROM signature_runs
		 ORDER BY distance ASC, rowid ASC LIMIT ?`, signature, k,
	)
	if err != nil {
		return nil, fmt.Errorf("nearest: %w", err)
	}
	defer rows.Close()

	var out []Neighbor
	for rows.Next() {
		var n Neighbor
		rec, err := scanRun(rows, &n.Distance)
		if err != nil {
			return nil, fmt.Errorf("nearest: scan: %w", err)
		}
		n.RunRecord = rec
		out = append(out, n)
	}
	return out, rows.Err()
}
// #endregion nearest

// #region scan
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner, extra ...interface{}) (RunRecord, error) {
	var (
		rec        RunRecord
		isVector   int
		matrixBlob []byte
		payload    []byte
		createdStr string
	)
	dest := append([]interface{}{
		&rec.RunID, &rec.Goal, &rec.Rows, &rec.Cols, &isVector, &matrixBlob, &payload, &createdStr,
	}, extra...)
	if err := sc.Scan(dest...); err != nil {
		return RunRecord{}, err
	}
	rec.IsVector = isVector != 0
	m, err := decodeMatrix(matrixBlob, rec.Rows, rec.Cols, rec.IsVector)
	if err != nil {
		return RunRecord{}, err
	}
	rec.Matrix = m
	if rec.Result, err = decodePayload(payload); err != nil {
		return RunRecord{}, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
// #endregion scan
