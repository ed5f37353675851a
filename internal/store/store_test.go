package store

import (
	"database/sql"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
	_ "modernc.org/sqlite"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/logging"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func run(t *testing.T, label string, m mat.Matrix) orchestrator.Result {
	t.Helper()
	res, err := orchestrator.NewPipeline(nil).Run(label, m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestSaveAndGet(t *testing.T) {
	s := tempDB(t)
	m := mat.NewDense(2, 3, []float64{1, 1, 1, 1, 5, 9})
	res := run(t, "analyze", m)

	rec, err := s.Save(res, m)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.RunID == "" {
		t.Fatal("expected non-empty run ID")
	}

	got, err := s.Get(rec.RunID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(res, got.Result); diff != "" {
		t.Errorf("result round-trip mismatch (-want +got):\n%s", diff)
	}
	if got.Rows != 2 || got.Cols != 3 || got.IsVector {
		t.Errorf("unexpected shape %dx%d vector=%v", got.Rows, got.Cols, got.IsVector)
	}
	if !mat.Equal(got.Matrix, m) {
		t.Errorf("matrix round-trip mismatch: %v", mat.Formatted(got.Matrix))
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at")
	}
}

func TestSave_VectorAndEmpty(t *testing.T) {
	s := tempDB(t)

	v := mat.NewVecDense(4, []float64{4, 3, 2, 1})
	rec, err := s.Save(run(t, "predict", v), v)
	if err != nil {
		t.Fatalf("Save vector: %v", err)
	}
	got, err := s.Get(rec.RunID)
	if err != nil {
		t.Fatalf("Get vector: %v", err)
	}
	if !got.IsVector || !dataset.IsVector(got.Matrix) {
		t.Errorf("expected vector form back, got %T", got.Matrix)
	}
	if diff := cmp.Diff([]float64{4, 3, 2, 1}, dataset.Flatten(got.Matrix)); diff != "" {
		t.Errorf("vector mismatch:\n%s", diff)
	}

	empty := &mat.Dense{}
	rec, err = s.Save(run(t, "anomaly", empty), empty)
	if err != nil {
		t.Fatalf("Save empty: %v", err)
	}
	got, err = s.Get(rec.RunID)
	if err != nil {
		t.Fatalf("Get empty: %v", err)
	}
	if !dataset.IsEmpty(got.Matrix) {
		t.Errorf("expected empty matrix back")
	}
}

func TestSave_SignatureBitsPreserved(t *testing.T) {
	s := tempDB(t)
	m := mat.NewVecDense(5, []float64{0.1, 0.7, 0.2, 0.9, 0.3})
	res := run(t, "forecast", m)

	rec, err := s.Save(res, m)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := s.Get(rec.RunID)
	if math.Float64bits(got.Signature()) != math.Float64bits(res.Analysis.Signature) {
		t.Fatalf("signature changed: %v != %v", got.Signature(), res.Analysis.Signature)
	}

	var fusion []byte
	s.DB().QueryRow(`SELECT fusion FROM signature_runs WHERE run_id = ?`, rec.RunID).Scan(&fusion)
	if diff := cmp.Diff(res.Analysis.Fusion[:], decodeFloats(fusion)); diff != "" {
		t.Errorf("fusion blob mismatch:\n%s", diff)
	}
}

func TestSave_RejectsNonFinite(t *testing.T) {
	s := tempDB(t)
	_, err := s.Save(orchestrator.Result{Goal: "analyze"}, mat.NewDense(1, 2, []float64{1, math.NaN()}))
	if !errors.Is(err, dataset.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestGetNonExistent(t *testing.T) {
	s := tempDB(t)
	_, err := s.Get("nonexistent-id")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestList(t *testing.T) {
	s := tempDB(t)
	for _, label := range []string{"analyze", "predict", "forecast"} {
		m := mat.NewDense(1, 3, []float64{1, 2, 3})
		if _, err := s.Save(run(t, label, m), m); err != nil {
			t.Fatalf("Save %s: %v", label, err)
		}
	}

	recs, err := s.List(2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Goal != "forecast" {
		t.Errorf("expected newest first, got %s", recs[0].Goal)
	}

	all, err := s.List(-1)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected every run for a negative limit, got %d", len(all))
	}
}

func TestNearest(t *testing.T) {
	s := tempDB(t)
	inputs := []mat.Matrix{
		mat.NewDense(1, 3, []float64{1, 2, 3}),
		mat.NewDense(1, 3, []float64{5, 5, 5}),
		mat.NewDense(2, 3, []float64{1, 1, 1, 1, 5, 9}),
	}
	var sigs []float64
	for _, m := range inputs {
		res := run(t, "analyze", m)
		if _, err := s.Save(res, m); err != nil {
			t.Fatalf("Save: %v", err)
		}
		sigs = append(sigs, res.Analysis.Signature)
	}

	got, err := s.Nearest(sigs[2], 2)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(got))
	}
	if got[0].Distance != 0 || got[0].Signature() != sigs[2] {
		t.Errorf("expected exact match first, got %+v", got[0].Distance)
	}
	if got[1].Distance < got[0].Distance {
		t.Errorf("neighbors not ordered: %v then %v", got[0].Distance, got[1].Distance)
	}

	none, err := s.Nearest(0, 0)
	if err != nil || len(none) != 0 {
		t.Errorf("expected no neighbors for k=0, got %v, %v", none, err)
	}
}

func TestRecord(t *testing.T) {
	s := tempDB(t)
	m := mat.NewDense(1, 3, []float64{1, 2, 3})
	res := run(t, "insights", m)

	id, err := s.Record("auto_insights", "insights", &res, m, nil)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id == "" {
		t.Fatal("expected run id for successful run")
	}
	if _, err := s.Get(id); err != nil {
		t.Fatalf("recorded run missing: %v", err)
	}

	id, err = s.Record("trend", "trend", nil, m, errors.New("boom"))
	if err != nil {
		t.Fatalf("Record failure: %v", err)
	}
	if id != "" {
		t.Errorf("expected no run id for failure, got %s", id)
	}

	// log-only invocation: no pipeline result to save
	id, err = s.Record("trend", "trend", nil, m, nil)
	if err != nil || id != "" {
		t.Fatalf("Record log-only: id=%q err=%v", id, err)
	}

	entries, err := logging.RecentRuns(s.DB(), 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(entries))
	}
	if entries[0].Status != logging.StatusOK || entries[0].RunID != "" {
		t.Errorf("unexpected log-only entry %+v", entries[0])
	}
	if entries[1].Status != logging.StatusError || entries[1].Message != "boom" {
		t.Errorf("unexpected failure entry %+v", entries[1])
	}
	if entries[2].Status != logging.StatusOK || entries[2].RunID == "" {
		t.Errorf("unexpected success entry %+v", entries[2])
	}
	if n, _ := s.List(10); len(n) != 1 {
		t.Errorf("expected 1 stored run, got %d", len(n))
	}
}

func TestNewStoreWithDB(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	s, err := NewStoreWithDB(db)
	if err != nil {
		t.Fatalf("NewStoreWithDB: %v", err)
	}
	defer s.Close()

	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM run_log`).Scan(&n); err != nil {
		t.Fatalf("run_log missing: %v", err)
	}
}

func TestFloatEncodingRoundTrip(t *testing.T) {
	in := []float64{0, -1.5, math.MaxFloat64, math.SmallestNonzeroFloat64}
	if diff := cmp.Diff(in, decodeFloats(encodeFloats(in))); diff != "" {
		t.Errorf("round-trip mismatch:\n%s", diff)
	}
}
