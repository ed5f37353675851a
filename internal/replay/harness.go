package replay

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/eval"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
)

// #region types
// Case is one recorded (goal, matrix) pair to re-execute.
type Case struct {
	ID       string
	Goal     string
	Matrix   mat.Matrix
	Expected *Expected // nil: only determinism and eval are checked
}

// Expected holds the scalar scores a case should reproduce.
type Expected struct {
	Emotion     float64
	Trend       float64
	Correlation float64
	Variation   float64
	Signature   float64
}

// Replay actions.
const (
	ActionMatch    = "match"
	ActionMismatch = "mismatch"
	ActionDrift    = "drift"
	ActionEvalFail = "eval_fail"
	ActionError    = "error"
)

// ReplayConfig bundles the comparison tolerance and eval config for a replay run.
type ReplayConfig struct {
	Tolerance  float64
	EvalConfig eval.EvalConfig
}

// DefaultReplayConfig returns tolerances suited to float64 recomputation.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		Tolerance:  1e-9,
		EvalConfig: eval.DefaultEvalConfig(),
	}
}

// ReplayResult captures the outcome of replaying one case.
type ReplayResult struct {
	CaseID string
	Action string
	Reason string

	// Result of the first execution (nil on error)
	Result *orchestrator.Result

	// Eval stage (nil on error or drift)
	EvalResult *eval.EvalResult

	// Largest |expected - actual| over the compared scores (0 without expectations)
	MaxDelta float64
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalCases int
	Matches    int
	Mismatches int
	Drifts     int
	EvalFails  int
	Errors     int
	MaxDelta   float64
}

// OK reports whether every case matched.
func (s ReplaySummary) OK() bool {
	return s.Matches == s.TotalCases
}
// #endregion types

// #region replay
// Replay runs every case twice through p: run → rerun (bit-identical) →
// eval → compare with expectations.
func Replay(p *orchestrator.Pipeline, cases []Case, config ReplayConfig) []ReplayResult {
	results := make([]ReplayResult, 0, len(cases))
	evalInst := eval.NewEvalHarness(config.EvalConfig)

	for _, c := range cases {
		// 1. Run
		first, err := p.Run(c.Goal, c.Matrix)
		if err != nil {
			results = append(results, ReplayResult{
				CaseID: c.ID,
				Action: ActionError,
				Reason: err.Error(),
			})
			continue
		}

		// 2. Rerun
		second, err := p.Run(c.Goal, c.Matrix)
		if err != nil {
			results = append(results, ReplayResult{
				CaseID: c.ID,
				Action: ActionError,
				Reason: fmt.Sprintf("rerun: %v", err),
				Result: &first,
			})
			continue
		}
		if field, ok := sameBits(first, second); !ok {
			results = append(results, ReplayResult{
				CaseID: c.ID,
				Action: ActionDrift,
				Reason: fmt.Sprintf("%s differs between runs", field),
				Result: &first,
			})
			continue
		}

		// 3. Eval
		evalResult := evalInst.Run(first)
		if !evalResult.Passed {
			results = append(results, ReplayResult{
				CaseID:     c.ID,
				Action:     ActionEvalFail,
				Reason:     evalResult.Reason,
				Result:     &first,
				EvalResult: &evalResult,
			})
			continue
		}

		// 4. Compare
		r := ReplayResult{
			CaseID:     c.ID,
			Action:     ActionMatch,
			Reason:     "reproduced",
			Result:     &first,
			EvalResult: &evalResult,
		}
		if c.Expected != nil {
			field, delta := worstDelta(*c.Expected, first)
			r.MaxDelta = delta
			if delta > config.Tolerance {
				r.Action = ActionMismatch
				r.Reason = fmt.Sprintf("%s off by %.3g (tolerance %.3g)", field, delta, config.Tolerance)
			}
		}
		results = append(results, r)
	}

	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{TotalCases: len(results)}
	for _, r := range results {
		switch r.Action {
		case ActionMatch:
			s.Matches++
		case ActionMismatch:
			s.Mismatches++
		case ActionDrift:
			s.Drifts++
		case ActionEvalFail:
			s.EvalFails++
		case ActionError:
			s.Errors++
		}
		if r.MaxDelta > s.MaxDelta {
			s.MaxDelta = r.MaxDelta
		}
	}
	return s
}
// #endregion replay

// #region compare
func scores(res orchestrator.Result) []struct {
	name string
	v    float64
} {
	return []struct {
		name string
		v    float64
	}{
		{"emotion_score", res.Emotion},
		{"trend_score", res.Analysis.Trend},
		{"correlation_score", res.Analysis.Correlation},
		{"variation_score", res.Analysis.Variation},
		{"memory_signature", res.Analysis.Signature},
	}
}

// sameBits compares every numeric field of two results bit for bit.
func sameBits(a, b orchestrator.Result) (string, bool) {
	sa, sb := scores(a), scores(b)
	for i := range sa {
		if math.Float64bits(sa[i].v) != math.Float64bits(sb[i].v) {
			return sa[i].name, false
		}
	}
	if a.Intent != b.Intent || a.Context != b.Context || a.Analysis.Fusion != b.Analysis.Fusion {
		return "vectors", false
	}
	if len(a.Meaning) != len(b.Meaning) {
		return "meaning_vector", false
	}
	for i := range a.Meaning {
		if math.Float64bits(a.Meaning[i]) != math.Float64bits(b.Meaning[i]) {
			return "meaning_vector", false
		}
	}
	return "", true
}

func worstDelta(want Expected, got orchestrator.Result) (string, float64) {
	expected := []float64{want.Emotion, want.Trend, want.Correlation, want.Variation, want.Signature}
	var (
		worst     string
		worstDiff float64
	)
	for i, s := range scores(got) {
		if d := math.Abs(expected[i] - s.v); d > worstDiff || math.IsNaN(d) {
			worst, worstDiff = s.name, d
			if math.IsNaN(d) {
				return worst, math.Inf(1)
			}
		}
	}
	return worst, worstDiff
}
// #endregion compare
