package models

// MotionSample represents one tri-axial accelerometer sample from a sensor.
// Samples are transient: once the magnitude is computed and buffered, the
// sample itself is discarded.
type MotionSample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ActivityLabel is the discrete activity classification of a time slice.
type ActivityLabel string

const (
	ActivitySleeping ActivityLabel = "Sleeping"
	ActivityStanding ActivityLabel = "Standing"
	ActivityWalking  ActivityLabel = "Walking"
	ActivityRunning  ActivityLabel = "Running"
)

// MinuteLogEntry is one finalized minute of activity, as persisted to the
// activity log. Timestamp is UTC RFC 3339; entries are immutable once created.
type MinuteLogEntry struct {
	Timestamp string        `json:"timestamp"`
	Activity  ActivityLabel `json:"activity"`
}
