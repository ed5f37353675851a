package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/tasks"
)

const rule = "========================================"

func banner(w io.Writer, title string) {
	fmt.Fprintf(w, "\n========== %s ==========\n", title)
}

func renderResult(w io.Writer, res orchestrator.Result) {
	fmt.Fprintln(w, res.Message)
	fmt.Fprintf(w, "  goal:        %s (%s)\n", res.Goal, res.Parsed())
	fmt.Fprintf(w, "  intent:      %v\n", res.Intent)
	fmt.Fprintf(w, "  context:     %v\n", res.Context)
	fmt.Fprintf(w, "  emotion:     %.6f\n", res.Emotion)
	fmt.Fprintf(w, "  trend:       %.6f\n", res.Analysis.Trend)
	fmt.Fprintf(w, "  correlation: %.6f\n", res.Analysis.Correlation)
	fmt.Fprintf(w, "  variation:   %.6f\n", res.Analysis.Variation)
	fmt.Fprintf(w, "  signature:   %.12f\n", res.Analysis.Signature)
}

func renderReport(w io.Writer, rep tasks.Report) {
	switch r := rep.(type) {
	case tasks.AnalyzeReport:
		banner(w, "ANALYSIS RESULT")
		fmt.Fprintln(w, "Task:", r.Task)
		fmt.Fprintln(w, "Intent Vector:", r.IntentUsed)
		fmt.Fprintln(w, "Trend Score:", r.Analysis.Trend)
		fmt.Fprintln(w, "Correlation Score:", r.Analysis.Correlation)
		fmt.Fprintln(w, "Variation Score:", r.Analysis.Variation)
		fmt.Fprintln(w, "Memory Signature:", r.Analysis.Signature)
	case tasks.PredictReport:
		banner(w, "PREDICTION RESULT")
		fmt.Fprintln(w, "Predicted Value:", r.Prediction)
		fmt.Fprintln(w, "Detected Trend:", r.Trend)
	case tasks.ForecastReport:
		banner(w, "FORECAST RESULT")
		fmt.Fprintln(w, "Forecast Steps:", r.Steps)
		fmt.Fprintln(w, "Forecasted Values:", r.Values)
		fmt.Fprintln(w, "Trend:", r.Trend)
	case tasks.AnomalyReport:
		banner(w, "ANOMALY DETECTION")
		fmt.Fprintln(w, "Mean:", r.Mean)
		fmt.Fprintln(w, "Std Dev:", r.Std)
		fmt.Fprintln(w, "Anomalies Found:")
		for _, a := range r.Anomalies {
			fmt.Fprintf(w, " - Index %d: Value %v\n", a.Index, a.Value)
		}
	case tasks.InsightsReport:
		banner(w, "INSIGHTS")
		for _, s := range r.Insights {
			fmt.Fprintln(w, "-", s)
		}
	case tasks.TrendReport:
		fmt.Fprintln(w, "\nTrend Score:", r.Trend)
		return
	case tasks.EDAReport:
		banner(w, "EDA REPORT")
		fmt.Fprintf(w, "Shape: %dx%d\n", r.Rows, r.Cols)
		for _, c := range r.Columns {
			fmt.Fprintf(w, "Column %d: mean=%.4f std=%.4f min=%v max=%v median=%v skewness=%.4f kurtosis=%.4f\n",
				c.Column, c.Mean, c.Std, c.Min, c.Max, c.Median, c.Skewness, c.Kurtosis)
			for _, o := range c.Outliers {
				fmt.Fprintf(w, " - Outlier at index %d: Value %v\n", o.Index, o.Value)
			}
		}
		if r.Correlation == nil {
			fmt.Fprintln(w, "Correlation Matrix: Not enough columns for correlation")
		} else {
			fmt.Fprintln(w, "Correlation Matrix:")
			renderRows(w, r.Correlation)
		}
	case tasks.VisualReport:
		banner(w, "VISUALIZATION PLAN")
		fmt.Fprintln(w, "Chart Type:", r.ChartType)
		fmt.Fprintln(w, r.Description)
		fmt.Fprintln(w, "X:", r.X)
		fmt.Fprintln(w, "Y:", r.Y)
	default:
		fmt.Fprintf(w, "%+v\n", rep)
		return
	}
	if id := runID(rep); id != "" {
		fmt.Fprintln(w, "Run ID:", id)
	}
	fmt.Fprintln(w, rule)
}

func runID(rep tasks.Report) string {
	switch r := rep.(type) {
	case tasks.AnalyzeReport:
		return r.RunID
	case tasks.PredictReport:
		return r.RunID
	case tasks.ForecastReport:
		return r.RunID
	case tasks.AnomalyReport:
		return r.RunID
	case tasks.InsightsReport:
		return r.RunID
	}
	return ""
}

func renderRows(w io.Writer, rows [][]float64) {
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%v", v)
		}
		fmt.Fprintf(w, "  [%s]\n", strings.Join(cells, ", "))
	}
}
