package odds

import (
	"fmt"
	"math"
)

// VigMethod selects how bookmaker margin is removed from a two-way market
type VigMethod string

const (
	VigMethodProportional VigMethod = "proportional"
	VigMethodAdditive     VigMethod = "additive"
	VigMethodPower        VigMethod = "power"
	VigMethodShin         VigMethod = "shin"
)

const powerExponent = 1.5

// RemoveVig normalizes N raw implied probabilities so they sum to 1.
// The inputs are expected to sum to more than 1 (the overround); a
// non-positive sum is a data error.
func RemoveVig(probs []float64) ([]float64, error) {
	if len(probs) < 2 {
		return nil, fmt.Errorf("vig removal requires at least 2 probabilities, got %d", len(probs))
	}
	sum := 0.0
	for i, p := range probs {
		if p <= 0 {
			return nil, fmt.Errorf("probability %v at index %d must be positive", p, i)
		}
		sum += p
	}
	if sum <= 0 {
		return nil, fmt.Errorf("probability sum %v must be positive", sum)
	}
	fair := make([]float64, len(probs))
	for i, p := range probs {
		fair[i] = p / sum
	}
	return fair, nil
}

// MarketVig returns the overround of a two-way market
func MarketVig(probA, probB float64) float64 {
	return probA + probB - 1
}

// RemoveVigTwoWay de-vigs a two-way market with the chosen method.
// Proportional is the default; additive splits the vig evenly; power
// assumes longshots are more overpriced; shin biases toward favorites
// to approximate informed-money pricing.
func RemoveVigTwoWay(probA, probB float64, method VigMethod) (float64, float64, error) {
	if probA <= 0 || probB <= 0 {
		return 0, 0, fmt.Errorf("probabilities must be positive, got %v and %v", probA, probB)
	}
	switch method {
	case VigMethodProportional, "":
		return probA / (probA + probB), probB / (probA + probB), nil
	case VigMethodAdditive:
		vig := MarketVig(probA, probB)
		fairA := clampProb(probA - vig/2)
		fairB := clampProb(probB - vig/2)
		total := fairA + fairB
		return fairA / total, fairB / total, nil
	case VigMethodPower:
		pa := math.Pow(probA, powerExponent)
		pb := math.Pow(probB, powerExponent)
		return pa / (pa + pb), pb / (pa + pb), nil
	case VigMethodShin:
		// Simplified Shin adjustment: the favorite keeps more of its
		// implied probability than the underdog.
		vig := MarketVig(probA, probB)
		adjA, adjB := vig*0.55, vig*0.45
		if probA > probB {
			adjA, adjB = adjB, adjA
		}
		fairA := probA - adjA
		fairB := probB - adjB
		total := fairA + fairB
		return fairA / total, fairB / total, nil
	default:
		return 0, 0, fmt.Errorf("unknown vig method: %s", method)
	}
}

// FairProbabilities converts a pair of American quotes straight to fair
// probabilities for (sideA, sideB).
func FairProbabilities(americanA, americanB float64, method VigMethod) (float64, float64, error) {
	probA, err := AmericanToProbability(americanA)
	if err != nil {
		return 0, 0, err
	}
	probB, err := AmericanToProbability(americanB)
	if err != nil {
		return 0, 0, err
	}
	return RemoveVigTwoWay(probA, probB, method)
}

func clampProb(p float64) float64 {
	return math.Max(0.01, math.Min(0.99, p))
}
