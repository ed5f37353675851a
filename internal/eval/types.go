package eval

// #region eval-config
// EvalConfig holds tolerances for post-run validation.
type EvalConfig struct {
	SignatureTolerance   float64 // max |stored - recomputed| memory signature
	VariabilityTolerance float64 // informational: context variability vs variation channel
}

// DefaultEvalConfig returns defaults suited to float64 recomputation.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		SignatureTolerance:   1e-9,
		VariabilityTolerance: 1e-9,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name  string
	Value float64
	Pass  bool
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of post-run validation.
type EvalResult struct {
	Passed  bool
	Metrics []EvalMetric
	Reason  string
}

// Metric returns the named metric and whether it was recorded.
func (r EvalResult) Metric(name string) (EvalMetric, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return EvalMetric{}, false
}

// #endregion eval-result
