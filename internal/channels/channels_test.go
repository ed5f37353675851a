package channels

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= eps }

func rows(t *testing.T, r, c int, data ...float64) *mat.Dense {
	t.Helper()
	return mat.NewDense(r, c, data)
}

// #region trend-tests

func TestTrend_UnitSlope(t *testing.T) {
	got := Trend(rows(t, 1, 5, 1, 2, 3, 4, 5))
	if !near(got, 1) {
		t.Errorf("expected slope 1, got %v", got)
	}
}

func TestTrend_ConstantIsZero(t *testing.T) {
	if got := Trend(mat.NewVecDense(4, []float64{5, 5, 5, 5})); got != 0 {
		t.Errorf("expected 0 for constant sequence, got %v", got)
	}
	if got := Trend(rows(t, 2, 2, 5, 5, 5, 5)); got != 0 {
		t.Errorf("expected 0 for constant matrix, got %v", got)
	}
}

func TestTrend_FlattensRowMajor(t *testing.T) {
	// flattened: 10 12 14 16 18 20 22 24 26 28 -> slope 2
	m := rows(t, 2, 5, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28)
	if got := Trend(m); !near(got, 2) {
		t.Errorf("expected slope 2, got %v", got)
	}
}

func TestTrend_TooFewValues(t *testing.T) {
	if got := Trend(rows(t, 1, 1, 42)); got != 0 {
		t.Errorf("expected 0 for single value, got %v", got)
	}
	if got := Trend(&mat.Dense{}); got != 0 {
		t.Errorf("expected 0 for empty, got %v", got)
	}
}

func TestTrend_Negative(t *testing.T) {
	if got := Trend(mat.NewVecDense(3, []float64{9, 6, 3})); !near(got, -3) {
		t.Errorf("expected -3, got %v", got)
	}
}

// #endregion trend-tests

// #region correlation-tests

func TestCorrelation_PerfectPositive(t *testing.T) {
	if got := Correlation(rows(t, 1, 5, 1, 2, 3, 4, 5)); !near(got, 1) {
		t.Errorf("expected 1, got %v", got)
	}
}

func TestCorrelation_ZeroVarianceRow(t *testing.T) {
	got := Correlation(rows(t, 1, 4, 5, 5, 5, 5))
	if got != 0 || math.IsNaN(got) {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestCorrelation_AveragesRows(t *testing.T) {
	// +1, -1 and a flat row -> (1 - 1 + 0) / 3
	m := rows(t, 3, 3, 1, 2, 3, 3, 2, 1, 7, 7, 7)
	if got := Correlation(m); !near(got, 0) {
		t.Errorf("expected 0, got %v", got)
	}
	m = rows(t, 2, 3, 1, 2, 3, 4, 4, 4)
	if got := Correlation(m); !near(got, 0.5) {
		t.Errorf("expected 0.5, got %v", got)
	}
}

func TestCorrelation_VectorIsSingleRow(t *testing.T) {
	if got := Correlation(mat.NewVecDense(4, []float64{4, 3, 2, 1})); !near(got, -1) {
		t.Errorf("expected -1, got %v", got)
	}
}

func TestCorrelation_SingleColumnRows(t *testing.T) {
	if got := Correlation(rows(t, 3, 1, 1, 2, 3)); got != 0 {
		t.Errorf("expected 0 for one-value rows, got %v", got)
	}
}

func TestCorrelation_Bounded(t *testing.T) {
	m := rows(t, 2, 6, 0.3, -1.2, 8, 4.4, 1e6, -3, 2, 2, 2.0000001, 9, -9, 0)
	got := Correlation(m)
	if got < -1 || got > 1 {
		t.Errorf("correlation %v out of [-1, 1]", got)
	}
}

// #endregion correlation-tests

// #region variation-tests

func TestVariation_MeanOfRowStdDevs(t *testing.T) {
	got := Variation(rows(t, 2, 3, 1, 1, 1, 1, 5, 9))
	want := (0 + math.Sqrt(32.0/3.0)) / 2
	if !near(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if math.Abs(got-1.63) > 0.01 {
		t.Errorf("expected ~1.63, got %v", got)
	}
}

func TestVariation_EmptyAndVector(t *testing.T) {
	if got := Variation(&mat.Dense{}); got != 0 {
		t.Errorf("expected 0 for empty, got %v", got)
	}
	// population std of 2,4,4,4,5,5,7,9 is 2
	v := mat.NewVecDense(8, []float64{2, 4, 4, 4, 5, 5, 7, 9})
	if got := Variation(v); !near(got, 2) {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestPopStdDev_Empty(t *testing.T) {
	if got := PopStdDev(nil); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

// #endregion variation-tests
