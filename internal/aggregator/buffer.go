package aggregator

import "sync"

// MagnitudeBuffer is a bounded ring buffer of recent magnitude values, shared
// between the ingest path (appends) and the periodic classify path (drains).
// A single mutex makes Append and Drain atomic with respect to each other;
// when the buffer is full the oldest value is evicted.
type MagnitudeBuffer struct {
	mu       sync.Mutex
	values   []float64
	head     int
	count    int
	capacity int
}

// NewMagnitudeBuffer creates a buffer holding at most capacity values.
// Capacity should match the expected sample rate per tick interval.
func NewMagnitudeBuffer(capacity int) *MagnitudeBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &MagnitudeBuffer{
		values:   make([]float64, capacity),
		capacity: capacity,
	}
}

// Append adds a magnitude, evicting the oldest value if the buffer is full.
func (b *MagnitudeBuffer) Append(magnitude float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.values[(b.head+b.count)%b.capacity] = magnitude
	if b.count < b.capacity {
		b.count++
	} else {
		// Full: the slot just written replaced the oldest value.
		b.head = (b.head + 1) % b.capacity
	}
}

// Drain returns all buffered magnitudes in arrival order and clears the
// buffer. The read-and-clear is atomic, so no partial batch is observable.
func (b *MagnitudeBuffer) Drain() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return nil
	}

	out := make([]float64, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.values[(b.head+i)%b.capacity]
	}
	b.head = 0
	b.count = 0
	return out
}

// Len returns the current number of buffered values.
func (b *MagnitudeBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
