package ratings

import "math"

// MarginStdDev is the assumed standard deviation of final point margins
// used by the normal cover-probability model.
const MarginStdDev = 12.0

// WinProbToEloDiff inverts the logistic prediction curve, recovering the
// effective Elo difference that produces the given win probability.
func WinProbToEloDiff(p float64) float64 {
	if p < MinProbability {
		p = MinProbability
	}
	if p > MaxProbability {
		p = MaxProbability
	}
	return -400 * math.Log10(1/p-1)
}

// ExpectedMargin converts a home win probability into an expected home
// point margin via the Elo-to-spread scale.
func ExpectedMargin(homeWinProb float64) float64 {
	return EloToSpread(WinProbToEloDiff(homeWinProb))
}

// CoverProbability estimates the probability that the home side covers
// the line, modeling the final margin as Normal(expected margin,
// MarginStdDev). The line is home-relative: -5.5 means the home team
// must win by 6 or more. The result is clamped to the model probability
// bounds so a cover estimate is never more certain than a prediction is
// allowed to be.
func CoverProbability(homeWinProb, line float64) float64 {
	margin := ExpectedMargin(homeWinProb)
	z := (-line - margin) / MarginStdDev
	return clampProbability(1 - normCDF(z))
}

func normCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}
