package orchestrator

// #region imports
import (
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/channels"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/goal"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/signals"
)

// #endregion

// #region stage

// Stage names one step of a pipeline run.
type Stage string

const (
	StageIntent      Stage = "intent"
	StageContext     Stage = "context"
	StageMeaning     Stage = "meaning"
	StageEmotion     Stage = "emotion"
	StageTrend       Stage = "trend"
	StageCorrelation Stage = "correlation"
	StageVariation   Stage = "variation"
	StageFusion      Stage = "fusion"
	StageSignature   Stage = "signature"
	StageComplete    Stage = "complete"
)

// Stages lists the computational stages in execution order.
var Stages = []Stage{
	StageIntent, StageContext, StageMeaning, StageEmotion,
	StageTrend, StageCorrelation, StageVariation, StageFusion, StageSignature,
}

// #endregion

// #region observer

// StageEvent is emitted after each stage with the values it produced.
// Values is owned by the receiver.
type StageEvent struct {
	Stage  Stage
	Label  string
	Goal   goal.Goal
	Values []float64
}

// Observer receives stage events. Implementations must be safe for concurrent
// use when one Pipeline is shared across goroutines.
type Observer interface {
	OnStage(StageEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(StageEvent)

func (f ObserverFunc) OnStage(e StageEvent) { f(e) }

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) OnStage(StageEvent) {}

// #endregion

// #region result

// Analysis holds the channel scores and their fused summary.
type Analysis struct {
	Trend       float64               `json:"trend_score"`
	Correlation float64               `json:"correlation_score"`
	Variation   float64               `json:"variation_score"`
	Fusion      channels.FusionVector `json:"fusion_vector"`
	Signature   float64               `json:"memory_signature"`
}

// Result is the full output of one pipeline run.
type Result struct {
	Goal     string                `json:"goal"`
	Intent   signals.IntentVector  `json:"intent_vector"`
	Context  signals.ContextVector `json:"context_vector"`
	Meaning  signals.MeaningVector `json:"meaning_vector"`
	Emotion  float64               `json:"emotion_score"`
	Analysis Analysis              `json:"analysis_result"`
	Message  string                `json:"message"`
}

// Parsed returns the closed goal the result was computed for.
func (r Result) Parsed() goal.Goal {
	return goal.Parse(r.Goal)
}

// #endregion
