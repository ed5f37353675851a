package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// #region constructors

// FromRows builds a row-major clean matrix. All rows must share one length.
// Zero rows or zero columns yield an empty matrix.
func FromRows(rows [][]float64) (mat.Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		for i, r := range rows {
			if len(r) != 0 {
				return nil, invalidf("from rows", "row %d has %d values, row 0 has 0", i, len(r))
			}
		}
		return &mat.Dense{}, nil
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, invalidf("from rows", "row %d has %d values, row 0 has %d", i, len(r), cols)
		}
		data = append(data, r...)
	}
	m := mat.NewDense(len(rows), cols, data)
	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// FromValues builds the one-dimensional form of a clean matrix.
func FromValues(values []float64) (mat.Matrix, error) {
	if len(values) == 0 {
		return &mat.Dense{}, nil
	}
	data := make([]float64, len(values))
	copy(data, values)
	v := mat.NewVecDense(len(data), data)
	if err := Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}

// #endregion constructors

// #region shape

// IsVector reports whether m is the one-dimensional form.
func IsVector(m mat.Matrix) bool {
	_, ok := m.(mat.Vector)
	return ok
}

// IsEmpty reports whether m holds no values. A nil interface and a nil
// *mat.Dense or *mat.VecDense are empty.
func IsEmpty(m mat.Matrix) bool {
	switch x := m.(type) {
	case nil:
		return true
	case *mat.Dense:
		if x == nil || x.IsEmpty() {
			return true
		}
	case *mat.VecDense:
		if x == nil || x.IsEmpty() {
			return true
		}
	}
	if v, ok := m.(mat.Vector); ok {
		return v.Len() == 0
	}
	r, c := m.Dims()
	return r == 0 || c == 0
}

// Rows returns the row sequences the row-wise channels operate on.
// The one-dimensional form is a single row holding every value.
func Rows(m mat.Matrix) [][]float64 {
	if IsEmpty(m) {
		return nil
	}
	if v, ok := m.(mat.Vector); ok {
		row := make([]float64, v.Len())
		for i := range row {
			row[i] = v.AtVec(i)
		}
		return [][]float64{row}
	}
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}

// Flatten returns every value in row-major order.
func Flatten(m mat.Matrix) []float64 {
	var out []float64
	for _, r := range Rows(m) {
		out = append(out, r...)
	}
	return out
}

// #endregion shape

// #region validate

// Validate rejects matrices carrying NaN or ±Inf cells.
func Validate(m mat.Matrix) error {
	for i, row := range Rows(m) {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return invalidf("validate", "non-finite value %v at row %d col %d", v, i, j)
			}
		}
	}
	return nil
}

// #endregion validate
