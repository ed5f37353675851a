package tasks

// #region imports
import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/goal"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
)

// #endregion

// #region runner

// Runner executes the user-facing tasks on top of a shared pipeline.
type Runner struct {
	pipeline *orchestrator.Pipeline
	settings Settings
	recorder RunRecorder
	log      *zap.Logger
}

// NewRunner wires a runner. recorder and log may be nil.
func NewRunner(p *orchestrator.Pipeline, settings Settings, recorder RunRecorder, log *zap.Logger) *Runner {
	if p == nil {
		p = orchestrator.NewPipeline(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{pipeline: p, settings: settings, recorder: recorder, log: log.Named("tasks")}
}

// Settings returns the runner's task settings.
func (r *Runner) Settings() Settings {
	return r.settings
}

// #endregion

// #region route

// Route normalizes label and dispatches it: pipeline goals and their synonyms
// go to their task; "trend", "pattern" and "statistics" go to Trend; "eda"
// and "explore" go to EDA; "visualize", "chart" and "plot" go to Visualize.
// Any other label returns ErrUnknownTask.
func (r *Runner) Route(label string, m mat.Matrix) (Report, error) {
	switch goal.Parse(label) {
	case goal.Analyze:
		return report(r.Analyze(m))
	case goal.Predict:
		return report(r.Predict(m))
	case goal.Forecast:
		return report(r.Forecast(m, 0))
	case goal.Anomaly:
		return report(r.Anomaly(m))
	case goal.Insights:
		return report(r.Insights(m))
	}
	switch goal.Normalize(label) {
	case "trend", "pattern", "statistics":
		return report(r.Trend(m))
	case "eda", "auto_eda", "explore":
		return report(r.EDA(m))
	case "visualize", "visualise", "auto_visualize", "chart", "plot":
		return report(r.Visualize(m))
	}

	err := fmt.Errorf("route %q: %w", label, ErrUnknownTask)
	r.log.Warn("unknown task", zap.String("goal", label))
	r.record("route", label, nil, m, err)
	return nil, err
}

// #endregion

// #region tasks

// Analyze runs the pipeline and reports the full channel analysis.
func (r *Runner) Analyze(m mat.Matrix) (AnalyzeReport, error) {
	res, runID, err := r.run(TaskAnalyze, goal.Analyze, m)
	if err != nil {
		return AnalyzeReport{}, err
	}
	return AnalyzeReport{
		Task:       TaskAnalyze,
		RunID:      runID,
		IntentUsed: res.Intent,
		Analysis:   res.Analysis,
		Message:    "Analysis completed successfully",
	}, nil
}

// Predict adds one trend step to the mean of the row means.
func (r *Runner) Predict(m mat.Matrix) (PredictReport, error) {
	res, runID, err := r.run(TaskPredict, goal.Predict, m)
	if err != nil {
		return PredictReport{}, err
	}
	trend := res.Analysis.Trend
	return PredictReport{
		Task:       TaskPredict,
		RunID:      runID,
		Intent:     res.Intent,
		Trend:      trend,
		Prediction: meanOfRowMeans(m) + trend,
	}, nil
}

// Forecast continues the trend from the mean of the row means for steps
// points. steps <= 0 uses Settings.ForecastSteps.
func (r *Runner) Forecast(m mat.Matrix, steps int) (ForecastReport, error) {
	if steps <= 0 {
		steps = r.settings.ForecastSteps
	}
	res, runID, err := r.run(TaskForecast, goal.Forecast, m)
	if err != nil {
		return ForecastReport{}, err
	}
	trend := res.Analysis.Trend
	values := make([]float64, steps)
	curr := meanOfRowMeans(m)
	for i := range values {
		curr += trend
		values[i] = curr
	}
	return ForecastReport{
		Task:   TaskForecast,
		RunID:  runID,
		Intent: res.Intent,
		Trend:  trend,
		Steps:  steps,
		Values: values,
	}, nil
}

// Anomaly flags cells farther than AnomalyThresholdStd population standard
// deviations from the overall mean.
func (r *Runner) Anomaly(m mat.Matrix) (AnomalyReport, error) {
	res, runID, err := r.run(TaskAnomaly, goal.Anomaly, m)
	if err != nil {
		return AnomalyReport{}, err
	}
	flat := dataset.Flatten(m)
	mean, std := meanStd(flat)
	limit := r.settings.AnomalyThresholdStd * std

	anomalies := []Anomaly{}
	for i, v := range flat {
		if math.Abs(v-mean) > limit {
			anomalies = append(anomalies, Anomaly{Index: i, Value: v})
		}
	}
	r.log.Debug("anomaly scan",
		zap.Int("cells", len(flat)),
		zap.Int("flagged", len(anomalies)))

	return AnomalyReport{
		Task:      TaskAnomaly,
		RunID:     runID,
		Intent:    res.Intent,
		Trend:     res.Analysis.Trend,
		Mean:      mean,
		Std:       std,
		Anomalies: anomalies,
	}, nil
}

// Insights summarizes average, trend direction, extremes and volatility,
// truncated to TopInsightsLimit sentences.
func (r *Runner) Insights(m mat.Matrix) (InsightsReport, error) {
	res, runID, err := r.run(TaskInsights, goal.Insights, m)
	if err != nil {
		return InsightsReport{}, err
	}
	flat := dataset.Flatten(m)
	avg, std := meanStd(flat)
	var hi, lo float64
	if len(flat) > 0 {
		hi, lo = floats.Max(flat), floats.Min(flat)
	}
	trend := res.Analysis.Trend
	direction := "downward"
	if trend > 0 {
		direction = "upward"
	}

	insights := []string{
		fmt.Sprintf("Overall average value is %.2f", avg),
		fmt.Sprintf("General trend direction is %s", direction),
		fmt.Sprintf("Maximum observed value is %v", hi),
		fmt.Sprintf("Minimum observed value is %v", lo),
		fmt.Sprintf("Dataset volatility is %.2f", std),
	}
	if limit := r.settings.TopInsightsLimit; limit > 0 && limit < len(insights) {
		insights = insights[:limit]
	}

	return InsightsReport{
		Task:     TaskInsights,
		RunID:    runID,
		Intent:   res.Intent,
		Trend:    trend,
		Avg:      avg,
		Max:      hi,
		Min:      lo,
		Insights: insights,
	}, nil
}

// Trend runs only the trend channel.
func (r *Runner) Trend(m mat.Matrix) (TrendReport, error) {
	trend, err := r.pipeline.TrendOnly(m)
	r.record(TaskTrend, TaskTrend, nil, m, err)
	if err != nil {
		return TrendReport{}, err
	}
	return TrendReport{Task: TaskTrend, Trend: trend}, nil
}

// #endregion

// #region helpers

// run executes the pipeline for g and records the invocation.
func (r *Runner) run(task string, g goal.Goal, m mat.Matrix) (orchestrator.Result, string, error) {
	res, err := r.pipeline.Run(g.String(), m)
	if err != nil {
		r.record(task, g.String(), nil, m, err)
		return orchestrator.Result{}, "", fmt.Errorf("%s: %w", task, err)
	}
	return res, r.record(task, g.String(), &res, m, nil), nil
}

// record forwards to the recorder. Storage failures are logged, not returned.
func (r *Runner) record(task, label string, res *orchestrator.Result, m mat.Matrix, runErr error) string {
	if r.recorder == nil {
		return ""
	}
	id, err := r.recorder.Record(task, label, res, m, runErr)
	if err != nil {
		r.log.Warn("record run failed", zap.String("task", task), zap.Error(err))
	}
	return id
}

// report drops the zero-value report on error so callers never see a
// non-nil Report alongside an error.
func report(rep Report, err error) (Report, error) {
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// meanOfRowMeans averages each row, then the row averages. The
// one-dimensional form is a single row.
func meanOfRowMeans(m mat.Matrix) float64 {
	rows := dataset.Rows(m)
	if len(rows) == 0 {
		return 0
	}
	means := make([]float64, len(rows))
	for i, row := range rows {
		means[i] = stat.Mean(row, nil)
	}
	return stat.Mean(means, nil)
}

// meanStd returns the population mean and standard deviation, zero when empty.
func meanStd(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	mean, variance := stat.PopMeanVariance(x, nil)
	return mean, math.Sqrt(variance)
}

// #endregion
