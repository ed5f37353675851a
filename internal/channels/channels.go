package channels

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
)

// #region trend

// Trend fits a first-degree least-squares line to the flattened values
// against their index 0..n-1 and returns the slope. Fewer than two values
// cannot define a line and yield 0.
func Trend(m mat.Matrix) float64 {
	values := dataset.Flatten(m)
	if len(values) < 2 {
		return 0
	}
	_, slope := stat.LinearRegression(indexSequence(len(values)), values, nil, false)
	return slope
}

// #endregion trend

// #region correlation

// Correlation averages, over rows, the Pearson correlation between each
// row's values and their positions. Zero-variance rows contribute 0.
func Correlation(m mat.Matrix) float64 {
	rows := dataset.Rows(m)
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, row := range rows {
		sum += rowCorrelation(row)
	}
	return sum / float64(len(rows))
}

func rowCorrelation(row []float64) float64 {
	if len(row) < 2 || PopStdDev(row) == 0 {
		return 0
	}
	r := stat.Correlation(row, indexSequence(len(row)), nil)
	return math.Max(-1, math.Min(1, r))
}

// #endregion correlation

// #region variation

// Variation is the mean of the per-row population standard deviations.
func Variation(m mat.Matrix) float64 {
	rows := dataset.Rows(m)
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, row := range rows {
		sum += PopStdDev(row)
	}
	return sum / float64(len(rows))
}

// #endregion variation

// #region helpers

// PopStdDev is the population (divide by N) standard deviation; 0 for no values.
func PopStdDev(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	_, variance := stat.PopMeanVariance(x, nil)
	return math.Sqrt(variance)
}

func indexSequence(n int) []float64 {
	seq := make([]float64, n)
	for i := range seq {
		seq[i] = float64(i)
	}
	return seq
}

// #endregion helpers
