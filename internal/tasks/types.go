package tasks

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/signals"
)

// #region errors

// ErrUnknownTask is returned by Route for labels no task handles.
var ErrUnknownTask = errors.New("unknown task")

// #endregion

// #region settings

// Settings tunes the task layer.
type Settings struct {
	ForecastSteps       int     // default horizon when Forecast gets steps <= 0
	AnomalyThresholdStd float64 // flag cells more than this many std devs from the mean
	TopInsightsLimit    int     // max insight sentences; <= 0 keeps all
}

// DefaultSettings returns the stock task settings.
func DefaultSettings() Settings {
	return Settings{
		ForecastSteps:       5,
		AnomalyThresholdStd: 2.0,
		TopInsightsLimit:    5,
	}
}

// #endregion

// #region recorder

// RunRecorder persists task invocations. res is nil for tasks that do not run
// the full pipeline and for failures.
type RunRecorder interface {
	Record(task, label string, res *orchestrator.Result, m mat.Matrix, runErr error) (string, error)
}

// #endregion

// #region task-names

const (
	TaskAnalyze  = "auto_analyze"
	TaskPredict  = "auto_predict"
	TaskForecast = "auto_forecast"
	TaskAnomaly  = "auto_anomaly"
	TaskInsights = "auto_insights"
	TaskTrend    = "trend"

	TaskEDA       = "auto_eda"
	TaskVisualize = "auto_visualize"
)

// #endregion

// #region outputs

// Report is the output of any task.
type Report interface {
	TaskName() string
}

// AnalyzeReport carries the full channel analysis.
type AnalyzeReport struct {
	Task       string                `json:"task"`
	RunID      string                `json:"run_id,omitempty"`
	IntentUsed signals.IntentVector  `json:"intent_used"`
	Analysis   orchestrator.Analysis `json:"analysis_result"`
	Message    string                `json:"message"`
}

// PredictReport extends the dataset by one trend step.
type PredictReport struct {
	Task       string               `json:"task"`
	RunID      string               `json:"run_id,omitempty"`
	Intent     signals.IntentVector `json:"intent"`
	Trend      float64              `json:"trend"`
	Prediction float64              `json:"prediction"`
}

// ForecastReport continues the trend for Steps points.
type ForecastReport struct {
	Task   string               `json:"task"`
	RunID  string               `json:"run_id,omitempty"`
	Intent signals.IntentVector `json:"intent"`
	Trend  float64              `json:"trend"`
	Steps  int                  `json:"forecast_steps"`
	Values []float64            `json:"forecast_values"`
}

// Anomaly is one flagged cell in row-major order.
type Anomaly struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// AnomalyReport lists cells far from the overall mean.
type AnomalyReport struct {
	Task      string               `json:"task"`
	RunID     string               `json:"run_id,omitempty"`
	Intent    signals.IntentVector `json:"intent"`
	Trend     float64              `json:"trend"`
	Mean      float64              `json:"mean"`
	Std       float64              `json:"std"`
	Anomalies []Anomaly            `json:"anomalies_found"`
}

// InsightsReport summarizes the dataset in sentences.
type InsightsReport struct {
	Task     string               `json:"task"`
	RunID    string               `json:"run_id,omitempty"`
	Intent   signals.IntentVector `json:"intent"`
	Trend    float64              `json:"trend"`
	Avg      float64              `json:"avg"`
	Max      float64              `json:"max"`
	Min      float64              `json:"min"`
	Insights []string             `json:"insights"`
}

// TrendReport is the trend-only bypass.
type TrendReport struct {
	Task  string  `json:"task"`
	Trend float64 `json:"trend"`
}

// ColumnStats profiles one column. Std, skewness and excess kurtosis are
// sample estimates.
type ColumnStats struct {
	Column   int       `json:"column"`
	Mean     float64   `json:"mean"`
	Std      float64   `json:"std"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Median   float64   `json:"median"`
	Skewness float64   `json:"skewness"`
	Kurtosis float64   `json:"kurtosis"`
	Outliers []Anomaly `json:"outliers"`
}

// EDAReport is the exploratory profile of a dataset. Correlation is nil for a
// single column.
type EDAReport struct {
	Task        string        `json:"task"`
	Rows        int           `json:"rows"`
	Cols        int           `json:"cols"`
	Columns     []ColumnStats `json:"column_statistics"`
	Correlation [][]float64   `json:"correlation_matrix,omitempty"`
}

type ChartType string

const (
	ChartLine    ChartType = "line"
	ChartScatter ChartType = "scatter"
)

// VisualReport is a chart recommendation with the series to plot.
type VisualReport struct {
	Task        string    `json:"task"`
	ChartType   ChartType `json:"chart_type"`
	Description string    `json:"description"`
	X           []float64 `json:"x"`
	Y           []float64 `json:"y"`
}

func (r AnalyzeReport) TaskName() string  { return r.Task }
func (r PredictReport) TaskName() string  { return r.Task }
func (r ForecastReport) TaskName() string { return r.Task }
func (r AnomalyReport) TaskName() string  { return r.Task }
func (r InsightsReport) TaskName() string { return r.Task }
func (r TrendReport) TaskName() string    { return r.Task }
func (r EDAReport) TaskName() string      { return r.Task }
func (r VisualReport) TaskName() string   { return r.Task }

// #endregion
