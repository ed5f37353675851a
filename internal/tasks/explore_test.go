package tasks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
)

// #region eda-tests

func TestEDA_ColumnProfile(t *testing.T) {
	rep, err := newRunner(nil).EDA(features())
	require.NoError(t, err)

	assert.Equal(t, TaskEDA, rep.Task)
	assert.Equal(t, 5, rep.Rows)
	assert.Equal(t, 2, rep.Cols)
	require.Len(t, rep.Columns, 2)

	c := rep.Columns[0]
	assert.Equal(t, 0, c.Column)
	assert.InDelta(t, 14.0, c.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(10), c.Std, 1e-12)
	assert.Equal(t, 10.0, c.Min)
	assert.Equal(t, 18.0, c.Max)
	assert.InDelta(t, 14.0, c.Median, 1e-12)
	assert.InDelta(t, 0.0, c.Skewness, 1e-9)
	assert.InDelta(t, -1.2, c.Kurtosis, 1e-9)
	assert.Empty(t, c.Outliers)
	assert.NotNil(t, c.Outliers)

	assert.InDelta(t, 24.0, rep.Columns[1].Mean, 1e-12)
	assert.Equal(t, [][]float64{{1, 1}, {1, 1}}, rep.Correlation)
}

func TestEDA_IQROutliers(t *testing.T) {
	rep, err := newRunner(nil).EDA(mat.NewDense(5, 1, []float64{1, 2, 3, 4, 100}))
	require.NoError(t, err)

	require.Len(t, rep.Columns, 1)
	assert.Equal(t, []Anomaly{{Index: 4, Value: 100}}, rep.Columns[0].Outliers)
	assert.Greater(t, rep.Columns[0].Skewness, 0.0)
	assert.Nil(t, rep.Correlation)
}

func TestEDA_ConstantAndInverseColumns(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		1, 5, 3,
		2, 5, 2,
		3, 5, 1,
	})
	rep, err := newRunner(nil).EDA(m)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{
		{1, 0, -1},
		{0, 0, 0},
		{-1, 0, 1},
	}, rep.Correlation)

	flat := rep.Columns[1]
	assert.Zero(t, flat.Std)
	assert.Zero(t, flat.Skewness)
	assert.Zero(t, flat.Kurtosis)
	// three values cannot define excess kurtosis
	assert.Zero(t, rep.Columns[0].Kurtosis)
}

func TestEDA_ShortAndEmpty(t *testing.T) {
	r := newRunner(nil)

	rep, err := r.EDA(mat.NewDense(1, 2, []float64{4, 7}))
	require.NoError(t, err)
	assert.Zero(t, rep.Columns[0].Std)
	assert.Equal(t, [][]float64{{0, 0}, {0, 0}}, rep.Correlation)

	rep, err = r.EDA(&mat.Dense{})
	require.NoError(t, err)
	assert.Zero(t, rep.Rows)
	assert.Zero(t, rep.Cols)
	assert.Empty(t, rep.Columns)
}

func TestEDA_VectorIsOneColumn(t *testing.T) {
	rep, err := newRunner(nil).EDA(mat.NewVecDense(4, []float64{1, 2, 3, 4}))
	require.NoError(t, err)
	assert.Equal(t, 4, rep.Rows)
	assert.Equal(t, 1, rep.Cols)
	assert.InDelta(t, 2.5, rep.Columns[0].Median, 1e-12)
}

func TestPercentile_LinearBetweenSamples(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, percentile(sorted, 0.25), 1e-12)
	assert.InDelta(t, 2.5, percentile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 3.25, percentile(sorted, 0.75), 1e-12)
	assert.Equal(t, 1.0, percentile(sorted, 0))
	assert.Equal(t, 4.0, percentile(sorted, 1))
	assert.Equal(t, 9.0, percentile([]float64{9}, 0.25))
}

// #endregion eda-tests

// #region visualize-tests

func TestVisualize(t *testing.T) {
	r := newRunner(nil)

	rep, err := r.Visualize(features())
	require.NoError(t, err)
	assert.Equal(t, ChartScatter, rep.ChartType)
	assert.Equal(t, "Recommended chart: scatter", rep.Description)
	assert.Equal(t, []float64{10, 12, 14, 16, 18}, rep.X)
	assert.Equal(t, []float64{20, 22, 24, 26, 28}, rep.Y)

	rep, err = r.Visualize(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, err)
	assert.Equal(t, ChartLine, rep.ChartType)
	assert.Equal(t, []float64{0, 1}, rep.X)
	assert.Equal(t, []float64{1, 4}, rep.Y)

	rep, err = r.Visualize(mat.NewVecDense(3, []float64{7, 8, 9}))
	require.NoError(t, err)
	assert.Equal(t, ChartLine, rep.ChartType)
	assert.Equal(t, []float64{0, 1, 2}, rep.X)
	assert.Equal(t, []float64{7, 8, 9}, rep.Y)

	rep, err = r.Visualize(&mat.Dense{})
	require.NoError(t, err)
	assert.Equal(t, ChartLine, rep.ChartType)
	assert.Empty(t, rep.X)
	assert.NotNil(t, rep.Y)
}

// #endregion visualize-tests

// #region explore-shared-tests

func TestExplore_RejectNonFinite(t *testing.T) {
	rec := &fakeRecorder{}
	r := newRunner(rec)
	bad := mat.NewDense(2, 1, []float64{1, math.Inf(1)})

	_, err := r.EDA(bad)
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
	_, err = r.Visualize(bad)
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)

	require.Len(t, rec.calls, 2)
	assert.Equal(t, TaskEDA, rec.calls[0].task)
	assert.Error(t, rec.calls[0].err)
	assert.Equal(t, TaskVisualize, rec.calls[1].task)
}

func TestRoute_ExploreLabels(t *testing.T) {
	r := newRunner(nil)
	for label, want := range map[string]string{
		"eda":            TaskEDA,
		"Explore":        TaskEDA,
		"auto_eda":       TaskEDA,
		"visualize":      TaskVisualize,
		"plot":           TaskVisualize,
		"auto_visualize": TaskVisualize,
	} {
		rep, err := r.Route(label, features())
		require.NoError(t, err, label)
		assert.Equal(t, want, rep.TaskName(), label)
	}
}

// #endregion explore-shared-tests
