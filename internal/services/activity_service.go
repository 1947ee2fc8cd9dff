package services

import (
	"context"
	"log"
	"sync"
	"time"

	"calmpulse-backend/internal/aggregator"
	"calmpulse-backend/internal/database"
	"calmpulse-backend/internal/models"
	"calmpulse-backend/internal/storage"
)

// ActivityService owns the whole classification pipeline: the shared
// magnitude buffer, both aggregation windows, the 1 Hz tick, and the handoff
// to the durable log. Two workers run concurrently: an ingest loop that only
// appends to the buffer, and a periodic loop that drains it and exclusively
// owns all window state, so only the buffer needs a lock.
type ActivityService struct {
	classifier *aggregator.Classifier
	buffer     *aggregator.MagnitudeBuffer
	writer     *storage.ActivityLogWriter
	archive    *database.ClickHouseDB // optional, may be nil

	// Window state, owned exclusively by the periodic worker.
	secondWindow *aggregator.Window
	blockWindow  *aggregator.Window

	tickInterval time.Duration

	// Input channel from the MQTT subscriber
	SampleChan chan *models.MotionSample

	// Output channel to the MQTT publisher (optional, may be nil)
	EntryChan chan *models.MinuteLogEntry
}

// ActivityServiceConfig holds configuration for the activity service
type ActivityServiceConfig struct {
	BufferCapacity   int           // expected samples per tick interval
	SecondWindowSize int           // second labels per 10-second block
	BlockWindowSize  int           // block labels per minute
	TickInterval     time.Duration // classification cadence
	SampleChanSize   int
	EntryChanSize    int
}

// DefaultActivityServiceConfig returns the default configuration
func DefaultActivityServiceConfig() ActivityServiceConfig {
	return ActivityServiceConfig{
		BufferCapacity:   10,
		SecondWindowSize: 10,
		BlockWindowSize:  6,
		TickInterval:     time.Second,
		SampleChanSize:   100,
		EntryChanSize:    10,
	}
}

// NewActivityService creates the pipeline. The archive may be nil to run
// without the ClickHouse history.
func NewActivityService(
	classifier *aggregator.Classifier,
	writer *storage.ActivityLogWriter,
	archive *database.ClickHouseDB,
	config ActivityServiceConfig,
) *ActivityService {
	return &ActivityService{
		classifier:   classifier,
		buffer:       aggregator.NewMagnitudeBuffer(config.BufferCapacity),
		writer:       writer,
		archive:      archive,
		secondWindow: aggregator.NewWindow(config.SecondWindowSize),
		blockWindow:  aggregator.NewWindow(config.BlockWindowSize),
		tickInterval: config.TickInterval,
		SampleChan:   make(chan *models.MotionSample, config.SampleChanSize),
		EntryChan:    make(chan *models.MinuteLogEntry, config.EntryChanSize),
	}
}

// Start runs both workers and blocks until the context is cancelled and any
// in-flight tick (including its log write) has completed, so no entry is
// ever left half-written.
func (s *ActivityService) Start(ctx context.Context) {
	log.Println("ActivityService: Starting...")

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		s.ingestLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		s.tickLoop(ctx)
	}()

	wg.Wait()
	close(s.EntryChan)
	log.Println("ActivityService: Shutdown complete")
}

// ingestLoop consumes motion samples from the subscriber channel
func (s *ActivityService) ingestLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("ActivityService: Ingest worker shutting down...")
			return
		case sample, ok := <-s.SampleChan:
			if !ok {
				return
			}
			s.Ingest(sample)
		}
	}
}

// Ingest converts one sample to its magnitude and appends it to the shared
// buffer. Safe to call concurrently with the periodic worker's drain.
func (s *ActivityService) Ingest(sample *models.MotionSample) {
	s.buffer.Append(aggregator.Magnitude(sample))
}

// tickLoop drives the classification cadence. An in-flight Tick always runs
// to completion before cancellation is observed.
func (s *ActivityService) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("ActivityService: Periodic worker shutting down...")
			return
		case <-ticker.C:
			s.Tick(time.Now().UTC())
		}
	}
}

// Tick drains the buffer, classifies the mean magnitude of the batch, and
// runs the promotion cascade: 10 second labels vote into one block label, 6
// block labels vote into one minute entry handed to the durable log. A tick
// with an empty buffer emits no label.
func (s *ActivityService) Tick(now time.Time) {
	magnitudes := s.buffer.Drain()
	if len(magnitudes) == 0 {
		return
	}

	var sum float64
	for _, m := range magnitudes {
		sum += m
	}
	mean := sum / float64(len(magnitudes))

	label := s.classifier.Classify(mean)

	if s.archive != nil {
		if err := s.archive.SaveSecondLabel(now, label, mean, len(magnitudes)); err != nil {
			log.Printf("Warning: failed to archive second label: %v", err)
		}
	}

	blockLabel, promoted := s.secondWindow.Append(label)
	if !promoted {
		return
	}

	minuteLabel, promoted := s.blockWindow.Append(blockLabel)
	if !promoted {
		return
	}

	s.emitMinute(now, minuteLabel)
}

// emitMinute persists one finalized minute label and forwards it downstream
func (s *ActivityService) emitMinute(now time.Time, label models.ActivityLabel) {
	entry := models.MinuteLogEntry{
		Timestamp: now.Format(time.RFC3339),
		Activity:  label,
	}

	// A failed write after its retry only delays visibility: the writer keeps
	// the entry in memory, so the next successful snapshot includes it.
	if err := s.writer.Append(entry); err != nil {
		log.Printf("Warning: %v", err)
	} else {
		log.Printf("ActivityService: Logged %s minute at %s", entry.Activity, entry.Timestamp)
	}

	if s.archive != nil {
		if err := s.archive.SaveMinuteEntry(now, label); err != nil {
			log.Printf("Warning: failed to archive minute entry: %v", err)
		}
	}

	if s.EntryChan != nil {
		select {
		case s.EntryChan <- &entry:
		default:
			log.Println("Warning: Entry channel full, skipping live publication")
		}
	}
}
