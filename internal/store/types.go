package store

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
)

// #region run-record
// RunRecord is one stored pipeline run: the result, the matrix it was
// computed from and the scalar columns used for lookups.
type RunRecord struct {
	RunID     string
	Goal      string
	Rows      int
	Cols      int
	IsVector  bool
	Matrix    mat.Matrix
	Result    orchestrator.Result
	CreatedAt time.Time
}

// Signature returns the stored memory signature.
func (r RunRecord) Signature() float64 {
	return r.Result.Analysis.Signature
}
// #endregion run-record

// #region neighbor
// Neighbor pairs a stored run with its signature distance from a query.
type Neighbor struct {
	RunRecord
	Distance float64
}
// #endregion neighbor
