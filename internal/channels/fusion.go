package channels

import "gonum.org/v1/gonum/stat"

// #region fusion

// FusionVector packs the three channel scores: [trend, correlation, variation].
type FusionVector [3]float64

// Fuse packs the channel scores without transforming them.
func Fuse(trend, correlation, variation float64) FusionVector {
	return FusionVector{trend, correlation, variation}
}

func (f FusionVector) Trend() float64       { return f[0] }
func (f FusionVector) Correlation() float64 { return f[1] }
func (f FusionVector) Variation() float64   { return f[2] }

// Mean returns the arithmetic mean of the three scores.
func (f FusionVector) Mean() float64 {
	mean, _ := stat.PopMeanVariance(f[:], nil)
	return mean
}

// Variance returns the population variance of the three scores.
func (f FusionVector) Variance() float64 {
	_, variance := stat.PopMeanVariance(f[:], nil)
	return variance
}

// #endregion fusion

// #region signature

// Signature weights.
const (
	SignatureMeanWeight     = 0.7
	SignatureVarianceWeight = 0.3
)

// Signature compresses a fusion vector into one scalar:
// 0.7*mean + 0.3*population variance.
func Signature(f FusionVector) float64 {
	mean, variance := stat.PopMeanVariance(f[:], nil)
	return SignatureMeanWeight*mean + SignatureVarianceWeight*variance
}

// #endregion signature
