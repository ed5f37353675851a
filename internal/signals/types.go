package signals

import "github.com/Sanket-HP/sifra-ai-backend-brain/internal/goal"

// #region vectors

// IntentVector is the one-hot encoding of a goal; all zero for goal.Unknown.
type IntentVector [goal.IntentDim]float64

// Hot returns the index holding the 1, or -1 when the vector is all zero.
func (v IntentVector) Hot() int {
	for i, x := range v {
		if x == 1 {
			return i
		}
	}
	return -1
}

// ContextVector is [task_type_code, row_count, col_count, variability].
type ContextVector [4]float64

func (c ContextVector) TaskCode() int        { return int(c[0]) }
func (c ContextVector) Rows() int            { return int(c[1]) }
func (c ContextVector) Cols() int            { return int(c[2]) }
func (c ContextVector) Variability() float64 { return c[3] }

// MeaningVector is the intent elements followed by the context elements.
type MeaningVector []float64

// #endregion vectors

// #region emotion-config

// EmotionNormalizer divides the volatility of successive differences before
// capping at 1.
const EmotionNormalizer = 10.0

// #endregion emotion-config
