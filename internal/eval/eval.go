package eval

import (
	"fmt"
	"math"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/channels"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/signals"
)

// #region eval-harness
// EvalHarness validates a pipeline result after the fact.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run checks the bounds and internal consistency of res. Every check but the
// variability one is blocking.
func (h *EvalHarness) Run(res orchestrator.Result) EvalResult {
	var metrics []EvalMetric
	var failReasons []string
	check := func(name string, value float64, pass bool, reason string) {
		metrics = append(metrics, EvalMetric{Name: name, Value: value, Pass: pass})
		if !pass {
			failReasons = append(failReasons, reason)
		}
	}
	a := res.Analysis

	// 1. Finite values
	nonFinite := countNonFinite(res)
	check("finite", float64(nonFinite), nonFinite == 0,
		fmt.Sprintf("%d non-finite values", nonFinite))

	// 2. Bounded scores
	check("emotion_range", res.Emotion, res.Emotion >= 0 && res.Emotion <= 1,
		fmt.Sprintf("emotion %.4f outside [0, 1]", res.Emotion))
	check("correlation_range", a.Correlation, a.Correlation >= -1 && a.Correlation <= 1,
		fmt.Sprintf("correlation %.4f outside [-1, 1]", a.Correlation))
	check("variation_nonnegative", a.Variation, a.Variation >= 0,
		fmt.Sprintf("variation %.4f is negative", a.Variation))

	// 3. Fusion packs the three channel scores in order
	fused := channels.Fuse(a.Trend, a.Correlation, a.Variation)
	check("fusion_consistent", boolValue(fused == a.Fusion), fused == a.Fusion,
		fmt.Sprintf("fusion %v != channel scores %v", a.Fusion, fused))

	// 4. Signature recomputes from the fusion vector
	drift := math.Abs(channels.Signature(a.Fusion) - a.Signature)
	check("signature_drift", drift, drift <= h.config.SignatureTolerance,
		fmt.Sprintf("signature drift %.3g exceeds %.3g", drift, h.config.SignatureTolerance))

	// 5. Intent matches the goal label
	want := signals.EncodeIntent(res.Goal)
	check("intent_consistent", boolValue(want == res.Intent), want == res.Intent,
		fmt.Sprintf("intent %v does not encode goal %q", res.Intent, res.Goal))

	// 6. Meaning is intent followed by context
	meaningOK := meaningMatches(res)
	check("meaning_consistent", boolValue(meaningOK), meaningOK,
		"meaning vector is not intent followed by context")

	passed := len(failReasons) == 0

	// Informational: context variability mirrors the variation channel
	gap := math.Abs(res.Context.Variability() - a.Variation)
	metrics = append(metrics, EvalMetric{
		Name:  "variability_gap",
		Value: gap,
		Pass:  gap <= h.config.VariabilityTolerance,
	})

	reason := "all checks passed"
	if !passed {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}

	return EvalResult{
		Passed:  passed,
		Metrics: metrics,
		Reason:  reason,
	}
}

// #endregion eval-harness

// #region helpers
func countNonFinite(res orchestrator.Result) int {
	values := []float64{res.Emotion, res.Analysis.Trend, res.Analysis.Correlation,
		res.Analysis.Variation, res.Analysis.Signature}
	values = append(values, res.Intent[:]...)
	values = append(values, res.Context[:]...)
	values = append(values, res.Meaning...)
	values = append(values, res.Analysis.Fusion[:]...)

	var n int
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			n++
		}
	}
	return n
}

func meaningMatches(res orchestrator.Result) bool {
	want := signals.ComposeMeaning(res.Intent, res.Context)
	if len(want) != len(res.Meaning) {
		return false
	}
	for i := range want {
		if math.Float64bits(want[i]) != math.Float64bits(res.Meaning[i]) {
			return false
		}
	}
	return true
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
