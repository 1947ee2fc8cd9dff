package aggregator

import "calmpulse-backend/internal/models"

// Window accumulates activity labels and promotes them to a single label by
// majority vote once exactly size labels have been collected. Windows are
// owned by the periodic worker and are not safe for concurrent use.
type Window struct {
	size   int
	labels []models.ActivityLabel
}

// NewWindow creates a window that promotes after size appends.
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{
		size:   size,
		labels: make([]models.ActivityLabel, 0, size),
	}
}

// Append adds a label. When the window reaches its size it returns the
// majority-vote label and true, and resets to empty; partial windows are
// never promoted.
func (w *Window) Append(label models.ActivityLabel) (models.ActivityLabel, bool) {
	w.labels = append(w.labels, label)
	if len(w.labels) < w.size {
		return "", false
	}

	promoted := Mode(w.labels)
	w.labels = w.labels[:0]
	return promoted, true
}

// Len returns the number of labels accumulated so far.
func (w *Window) Len() int {
	return len(w.labels)
}

// Mode returns the most frequent label in the sequence. When two or more
// labels tie on frequency, the one occurring earliest in the sequence wins,
// so the result is stable for identical input order.
func Mode(labels []models.ActivityLabel) models.ActivityLabel {
	counts := make(map[models.ActivityLabel]int, 4)
	for _, l := range labels {
		counts[l]++
	}

	var best models.ActivityLabel
	bestCount := 0
	for _, l := range labels {
		// Iterating in sequence order means the first label to reach the
		// maximum count is kept on ties.
		if counts[l] > bestCount {
			best = l
			bestCount = counts[l]
		}
	}
	return best
}
