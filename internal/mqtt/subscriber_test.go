package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calmpulse-backend/internal/models"
)

func TestParseMotionSampleObject(t *testing.T) {
	sample, err := ParseMotionSample([]byte(`{"x": 0.1, "y": -0.2, "z": 9.8}`))
	require.NoError(t, err)
	assert.Equal(t, &models.MotionSample{X: 0.1, Y: -0.2, Z: 9.8}, sample)
}

func TestParseMotionSampleArray(t *testing.T) {
	sample, err := ParseMotionSample([]byte(`[1.5, 2.5, 3.5]`))
	require.NoError(t, err)
	assert.Equal(t, &models.MotionSample{X: 1.5, Y: 2.5, Z: 3.5}, sample)
}

func TestParseMotionSampleMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "accel:1,2,3"},
		{"empty payload", ""},
		{"wrong array length", "[1.0, 2.0]"},
		{"oversized array", "[1, 2, 3, 4]"},
		{"string components", `{"x": "a", "y": "b", "z": "c"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMotionSample([]byte(tt.payload))
			assert.Error(t, err)
		})
	}
}

func TestParseMotionSampleAfterMalformed(t *testing.T) {
	// A malformed message between two valid ones affects neither of them.
	first, err := ParseMotionSample([]byte(`{"x": 3, "y": 4, "z": 12}`))
	require.NoError(t, err)

	_, err = ParseMotionSample([]byte("garbage"))
	require.Error(t, err)

	second, err := ParseMotionSample([]byte(`{"x": 3, "y": 4, "z": 12}`))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
