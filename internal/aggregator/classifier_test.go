package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"calmpulse-backend/internal/models"
)

func TestMagnitude(t *testing.T) {
	tests := []struct {
		name    string
		sample  models.MotionSample
		want    float64
	}{
		{"zero vector", models.MotionSample{}, 0},
		{"unit x", models.MotionSample{X: 1}, 1},
		{"pythagorean", models.MotionSample{X: 3, Y: 4, Z: 12}, 13},
		{"negative components", models.MotionSample{X: -3, Y: -4, Z: 12}, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Magnitude(&tt.sample), 1e-12)
		})
	}
}

func TestClassifyBrackets(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	tests := []struct {
		name string
		mean float64
		want models.ActivityLabel
	}{
		{"zero", 0, models.ActivitySleeping},
		{"below standing bound", 0.499, models.ActivitySleeping},
		{"standing bound inclusive", 0.5, models.ActivityStanding},
		{"mid standing", 1.0, models.ActivityStanding},
		{"below walking bound", 1.999, models.ActivityStanding},
		{"walking bound inclusive", 2.0, models.ActivityWalking},
		{"mid walking", 4.2, models.ActivityWalking},
		{"running bound inclusive", 6.0, models.ActivityRunning},
		{"large magnitude", 1000, models.ActivityRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.mean))
		})
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	c := NewClassifier(Thresholds{StandingMin: 1, WalkingMin: 10, RunningMin: 100})

	assert.Equal(t, models.ActivitySleeping, c.Classify(0.9))
	assert.Equal(t, models.ActivityStanding, c.Classify(1))
	assert.Equal(t, models.ActivityWalking, c.Classify(99.9))
	assert.Equal(t, models.ActivityRunning, c.Classify(100))
}
