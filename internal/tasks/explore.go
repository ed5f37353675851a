package tasks

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
)

// #region eda

// EDA profiles every column: sample moments, median, IQR outliers and, with
// more than one column, the pairwise correlation matrix. It does not run the
// pipeline. Moments a column is too short or too flat to define are 0.
func (r *Runner) EDA(m mat.Matrix) (EDAReport, error) {
	if err := r.check(TaskEDA, m); err != nil {
		return EDAReport{}, err
	}

	cols := columns(m)
	rep := EDAReport{Task: TaskEDA, Cols: len(cols), Columns: make([]ColumnStats, 0, len(cols))}
	if len(cols) > 0 {
		rep.Rows = len(cols[0])
	}
	for j, x := range cols {
		rep.Columns = append(rep.Columns, profileColumn(j, x))
	}
	if len(cols) > 1 {
		rep.Correlation = correlationMatrix(m, rep.Columns)
	}

	r.log.Debug("eda",
		zap.Int("rows", rep.Rows),
		zap.Int("cols", rep.Cols))
	return rep, nil
}

func profileColumn(j int, x []float64) ColumnStats {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	n := len(x)
	cs := ColumnStats{
		Column:   j,
		Mean:     stat.Mean(x, nil),
		Min:      sorted[0],
		Max:      sorted[n-1],
		Median:   percentile(sorted, 0.5),
		Outliers: iqrOutliers(x, sorted),
	}
	if n >= 2 {
		cs.Std = stat.StdDev(x, nil)
	}
	if cs.Std > 0 {
		if n >= 3 {
			cs.Skewness = stat.Skew(x, nil)
		}
		if n >= 4 {
			cs.Kurtosis = stat.ExKurtosis(x, nil)
		}
	}
	return cs
}

// iqrOutliers flags values outside [Q1 - 1.5 IQR, Q3 + 1.5 IQR].
func iqrOutliers(x, sorted []float64) []Anomaly {
	q1, q3 := percentile(sorted, 0.25), percentile(sorted, 0.75)
	iqr := q3 - q1
	lower, upper := q1-1.5*iqr, q3+1.5*iqr

	out := []Anomaly{}
	for i, v := range x {
		if v < lower || v > upper {
			out = append(out, Anomaly{Index: i, Value: v})
		}
	}
	return out
}

// percentile interpolates linearly between the samples around position
// p*(n-1) of sorted. stat.LinInterp places p at p*n, so p is remapped onto
// that scale first.
func percentile(sorted []float64, p float64) float64 {
	n := float64(len(sorted))
	return stat.Quantile((1+p*(n-1))/n, stat.LinInterp, sorted, nil)
}

// correlationMatrix is the Pearson matrix over columns, rounded to four
// places. Pairs involving a constant column are 0, the diagonal included.
func correlationMatrix(m mat.Matrix, cols []ColumnStats) [][]float64 {
	k := len(cols)
	out := make([][]float64, k)
	for i := range out {
		out[i] = make([]float64, k)
	}
	if r, _ := m.Dims(); r < 2 {
		return out
	}

	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, m, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if cols[i].Std == 0 || cols[j].Std == 0 {
				continue
			}
			out[i][j] = math.Round(corr.At(i, j)*1e4) / 1e4
		}
	}
	return out
}

// #endregion eda

// #region visualize

// Visualize recommends a chart: two columns plot as a scatter of the first
// against the second; anything else plots the first column as a line over
// its row index.
func (r *Runner) Visualize(m mat.Matrix) (VisualReport, error) {
	if err := r.check(TaskVisualize, m); err != nil {
		return VisualReport{}, err
	}

	rep := VisualReport{Task: TaskVisualize, ChartType: ChartLine, X: []float64{}, Y: []float64{}}
	cols := columns(m)
	switch {
	case len(cols) == 2:
		rep.ChartType = ChartScatter
		rep.X, rep.Y = cols[0], cols[1]
	case len(cols) > 0:
		rep.Y = cols[0]
		rep.X = make([]float64, len(rep.Y))
		for i := range rep.X {
			rep.X[i] = float64(i)
		}
	}
	rep.Description = fmt.Sprintf("Recommended chart: %s", rep.ChartType)
	return rep, nil
}

// #endregion visualize

// #region helpers

// check validates m for a task that bypasses the pipeline and records the
// invocation.
func (r *Runner) check(task string, m mat.Matrix) error {
	err := dataset.Validate(m)
	if err != nil {
		err = fmt.Errorf("%s: %w", task, err)
	}
	r.record(task, task, nil, m, err)
	return err
}

// columns returns the column sequences of m. The one-dimensional form is a
// single column.
func columns(m mat.Matrix) [][]float64 {
	if dataset.IsEmpty(m) {
		return nil
	}
	if dataset.IsVector(m) {
		return [][]float64{dataset.Flatten(m)}
	}
	_, c := m.Dims()
	out := make([][]float64, c)
	for j := range out {
		out[j] = mat.Col(nil, j, m)
	}
	return out
}

// #endregion helpers
