package gradient

import (
	"fmt"
	"math"
)

// Category is the severity bucket assigned to a segment based on its slope
// ratio.
type Category string

// Category constants. CategoryWarning is part of the output vocabulary for
// schema compatibility but the threshold rule never produces it; there is
// deliberately no second threshold.
const (
	CategoryAcceptable Category = "ACCEPTABLE"
	CategoryWarning    Category = "WARNING"
	CategorySteep      Category = "STEEP"
)

// DefaultThreshold is the reference gradient band: slopes within ±1/16
// (6.25%) are acceptable.
const DefaultThreshold = 1.0 / 16.0

// Classifier maps a signed slope ratio to a severity category. It is a
// pure value with no state beyond the threshold policy.
type Classifier struct {
	// Threshold is the half-width of the acceptable band, inclusive on
	// both sides.
	Threshold float64
}

// NewClassifier returns a classifier with the given band threshold,
// falling back to DefaultThreshold for non-positive values.
func NewClassifier(threshold float64) Classifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Classifier{Threshold: threshold}
}

// Classify returns the severity category for a slope ratio. The band is
// inclusive: a ratio exactly on the threshold is acceptable.
func (c Classifier) Classify(ratio float64) Category {
	if -c.Threshold <= ratio && ratio <= c.Threshold {
		return CategoryAcceptable
	}
	return CategorySteep
}

// GradeLabel renders a slope ratio as a human-readable grade fraction:
// "Flat" for zero, otherwise "1/N" where N is the run per unit rise,
// formatted to two decimal places. The label is decorative and must never
// feed back into classification.
func GradeLabel(ratio float64) string {
	if ratio == 0 {
		return "Flat"
	}
	return fmt.Sprintf("1/%.2f", 1/math.Abs(ratio))
}
