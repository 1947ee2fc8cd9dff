package aggregator

import (
	"math"

	"calmpulse-backend/internal/models"
)

// Magnitude returns the Euclidean norm of a tri-axial motion sample.
func Magnitude(sample *models.MotionSample) float64 {
	return math.Sqrt(sample.X*sample.X + sample.Y*sample.Y + sample.Z*sample.Z)
}

// Thresholds holds the lower bounds separating the activity classes.
// Each bound is inclusive: a mean magnitude exactly at StandingMin is Standing.
type Thresholds struct {
	StandingMin float64
	WalkingMin  float64
	RunningMin  float64
}

// DefaultThresholds returns the default classification thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StandingMin: 0.5,
		WalkingMin:  2.0,
		RunningMin:  6.0,
	}
}

// bracket is one row of the classifier's ordered threshold table.
type bracket struct {
	min   float64
	label models.ActivityLabel
}

// Classifier maps a mean magnitude to an activity label via an ordered table
// of (lower bound, label) pairs. It is stateless and safe for concurrent use.
type Classifier struct {
	brackets []bracket
}

// NewClassifier builds a classifier from the given thresholds.
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{
		brackets: []bracket{
			{min: 0, label: models.ActivitySleeping},
			{min: t.StandingMin, label: models.ActivityStanding},
			{min: t.WalkingMin, label: models.ActivityWalking},
			{min: t.RunningMin, label: models.ActivityRunning},
		},
	}
}

// Classify returns the activity label for a mean magnitude. The table is
// scanned from the highest bracket down, so every non-negative input maps to
// exactly one label.
func (c *Classifier) Classify(mean float64) models.ActivityLabel {
	for i := len(c.brackets) - 1; i > 0; i-- {
		if mean >= c.brackets[i].min {
			return c.brackets[i].label
		}
	}
	return c.brackets[0].label
}
