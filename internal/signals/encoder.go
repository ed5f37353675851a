package signals

import (
	"gonum.org/v1/gonum/mat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/channels"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/goal"
)

// #region intent

// EncodeIntent normalizes a goal label and returns its one-hot intent.
func EncodeIntent(label string) IntentVector {
	return IntentFor(goal.Parse(label))
}

// IntentFor returns the one-hot intent for g; goal.Unknown is all zero.
func IntentFor(g goal.Goal) IntentVector {
	var v IntentVector
	if idx := g.IntentIndex(); idx >= 0 {
		v[idx] = 1
	}
	return v
}

// #endregion intent

// #region context

// EncodeContext derives the context vector for a goal label and clean matrix.
func EncodeContext(label string, m mat.Matrix) ContextVector {
	return ContextFor(goal.Parse(label), m)
}

// ContextFor summarizes the matrix shape and dispersion alongside the goal's
// task code. The one-dimensional form reports n rows and 1 column; an empty
// matrix reports zero rows, columns and variability.
func ContextFor(g goal.Goal, m mat.Matrix) ContextVector {
	var rows, cols int
	if !dataset.IsEmpty(m) {
		rows, cols = m.Dims()
	}
	return ContextVector{
		float64(g.TaskCode()),
		float64(rows),
		float64(cols),
		channels.Variation(m),
	}
}

// #endregion context

// #region meaning

// ComposeMeaning concatenates intent and context, preserving order.
func ComposeMeaning(intent IntentVector, context ContextVector) MeaningVector {
	return Concat(intent[:], context[:])
}

// Concat joins any two ordered sequences into a meaning vector.
func Concat(a, b []float64) MeaningVector {
	out := make(MeaningVector, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// #endregion meaning

// #region emotion

// ScoreEmotion measures volatility: the population standard deviation of
// successive differences within each row, divided by EmotionNormalizer and
// clamped to [0, 1]. No differences (one column, or empty) scores 0.
func ScoreEmotion(m mat.Matrix) float64 {
	var diffs []float64
	for _, row := range dataset.Rows(m) {
		for i := 1; i < len(row); i++ {
			diffs = append(diffs, row[i]-row[i-1])
		}
	}
	if len(diffs) == 0 {
		return 0
	}
	return clamp(channels.PopStdDev(diffs) / EmotionNormalizer)
}

// #endregion emotion

// #region helpers

// clamp restricts v to [0, 1].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
