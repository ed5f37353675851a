package orchestrator

// #region imports
import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/channels"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/goal"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/signals"
)

// #endregion

// #region pipeline-struct

// Pipeline sequences the encoders and channels for one (goal, matrix) pair.
// It holds no per-run state and may be shared across goroutines.
type Pipeline struct {
	obs Observer
}

// NewPipeline returns a pipeline reporting to obs. A nil observer discards events.
func NewPipeline(obs Observer) *Pipeline {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Pipeline{obs: obs}
}

// #endregion

// #region run

// Run computes the full result for label over m. Unknown labels still run with
// a zero intent. The matrix must be finite; a result that would carry a
// non-finite value is rejected with a *dataset.InvalidInputError.
//
// Stage events are held until the result passes the finite check, so a
// rejected run reports nothing to the observer.
func (p *Pipeline) Run(label string, m mat.Matrix) (Result, error) {
	if err := dataset.Validate(m); err != nil {
		return Result{}, fmt.Errorf("run %q: %w", label, err)
	}
	g := goal.Parse(label)
	events := make([]StageEvent, 0, len(Stages)+1)
	emit := func(s Stage, values ...float64) {
		events = append(events, StageEvent{Stage: s, Label: label, Goal: g, Values: values})
	}

	intent := signals.IntentFor(g)
	emit(StageIntent, intent[:]...)

	context := signals.ContextFor(g, m)
	emit(StageContext, context[:]...)

	meaning := signals.ComposeMeaning(intent, context)
	emit(StageMeaning, meaning...)

	emotion := signals.ScoreEmotion(m)
	emit(StageEmotion, emotion)

	trend := channels.Trend(m)
	emit(StageTrend, trend)

	correlation := channels.Correlation(m)
	emit(StageCorrelation, correlation)

	variation := channels.Variation(m)
	emit(StageVariation, variation)

	fusion := channels.Fuse(trend, correlation, variation)
	emit(StageFusion, fusion[:]...)

	signature := channels.Signature(fusion)
	emit(StageSignature, signature)

	res := Result{
		Goal:    label,
		Intent:  intent,
		Context: context,
		Meaning: meaning,
		Emotion: emotion,
		Analysis: Analysis{
			Trend:       trend,
			Correlation: correlation,
			Variation:   variation,
			Fusion:      fusion,
			Signature:   signature,
		},
		Message: fmt.Sprintf("Task '%s' executed successfully.", label),
	}
	if name, ok := firstNonFinite(res); !ok {
		return Result{}, fmt.Errorf("run %q: %w", label, &dataset.InvalidInputError{
			Op:     "run",
			Reason: name + " overflowed to a non-finite value",
		})
	}

	emit(StageComplete, signature)
	for _, e := range events {
		p.obs.OnStage(e)
	}
	return res, nil
}

// #endregion

// #region trend-only

// TrendOnly runs just the trend channel, bypassing the encoders.
func (p *Pipeline) TrendOnly(m mat.Matrix) (float64, error) {
	if err := dataset.Validate(m); err != nil {
		return 0, fmt.Errorf("trend: %w", err)
	}
	trend := channels.Trend(m)
	if math.IsNaN(trend) || math.IsInf(trend, 0) {
		return 0, fmt.Errorf("trend: %w", &dataset.InvalidInputError{
			Op:     "trend",
			Reason: "slope overflowed to a non-finite value",
		})
	}
	p.obs.OnStage(StageEvent{Stage: StageTrend, Label: "trend", Values: []float64{trend}})
	return trend, nil
}

// #endregion

// #region finite

// firstNonFinite returns the name of the first non-finite field, and false,
// or "", true when every value is finite.
func firstNonFinite(r Result) (string, bool) {
	scalars := []struct {
		name string
		v    float64
	}{
		{"context variability", r.Context.Variability()},
		{"emotion", r.Emotion},
		{"trend", r.Analysis.Trend},
		{"correlation", r.Analysis.Correlation},
		{"variation", r.Analysis.Variation},
		{"signature", r.Analysis.Signature},
	}
	for _, s := range scalars {
		if math.IsNaN(s.v) || math.IsInf(s.v, 0) {
			return s.name, false
		}
	}
	return "", true
}

// #endregion
