package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calmpulse-backend/internal/aggregator"
	"calmpulse-backend/internal/models"
	"calmpulse-backend/internal/storage"
)

func newTestService(t *testing.T, cfg ActivityServiceConfig) *ActivityService {
	t.Helper()

	writer, err := storage.NewActivityLogWriter(filepath.Join(t.TempDir(), "activity_log.json"))
	require.NoError(t, err)

	classifier := aggregator.NewClassifier(aggregator.DefaultThresholds())
	return NewActivityService(classifier, writer, nil, cfg)
}

// perTickConfig collapses both windows to size 1 so every tick with data
// produces one minute entry, making per-tick classification observable.
func perTickConfig() ActivityServiceConfig {
	cfg := DefaultActivityServiceConfig()
	cfg.SecondWindowSize = 1
	cfg.BlockWindowSize = 1
	return cfg
}

func TestTickEmptyBufferIsNoOp(t *testing.T) {
	s := newTestService(t, perTickConfig())

	for i := 0; i < 60; i++ {
		s.Tick(time.Now().UTC())
	}

	assert.Empty(t, s.writer.Entries())
}

func TestTickClassifiesMeanMagnitude(t *testing.T) {
	s := newTestService(t, perTickConfig())

	// Magnitudes 13 and 0: mean 6.5 is Running.
	s.Ingest(&models.MotionSample{X: 3, Y: 4, Z: 12})
	s.Ingest(&models.MotionSample{})
	s.Tick(time.Now().UTC())

	entries := s.writer.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActivityRunning, entries[0].Activity)
}

func TestTickUsesOnlyMostRecentSamples(t *testing.T) {
	s := newTestService(t, perTickConfig())

	// 15 samples into a capacity-10 buffer: only magnitudes 6..15 remain,
	// mean 10.5, so the large early values being evicted is observable.
	for i := 1; i <= 15; i++ {
		s.Ingest(&models.MotionSample{X: float64(i)})
	}
	s.Tick(time.Now().UTC())

	entries := s.writer.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActivityRunning, entries[0].Activity)
}

func TestMinuteEntryAfterFullCascade(t *testing.T) {
	s := newTestService(t, DefaultActivityServiceConfig())
	start := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)

	// 60 ticks of mean magnitude 0.1: 10 Sleeping seconds per block, 6 blocks
	// per minute, exactly one Sleeping minute entry at the end.
	for i := 0; i < 60; i++ {
		s.Ingest(&models.MotionSample{X: 0.1})
		s.Tick(start.Add(time.Duration(i) * time.Second))

		if i < 59 {
			require.Empty(t, s.writer.Entries(), "no entry before the sixth block completes")
		}
	}

	entries := s.writer.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActivitySleeping, entries[0].Activity)

	ts, err := time.Parse(time.RFC3339, entries[0].Timestamp)
	require.NoError(t, err)
	assert.False(t, ts.Before(start.Add(59*time.Second)), "timestamp must be at or after the sixth block's completion")

	// The finalized entry is also forwarded for live publication.
	select {
	case published := <-s.EntryChan:
		assert.Equal(t, entries[0], *published)
	default:
		t.Fatal("expected a minute entry on the publication channel")
	}
}

func TestGapsDelayPromotionWithoutSkewingIt(t *testing.T) {
	s := newTestService(t, DefaultActivityServiceConfig())
	now := time.Now().UTC()

	// Empty-buffer ticks interleaved with data ticks emit no labels, so the
	// cascade needs 60 data ticks regardless of how many ticks elapse.
	dataTicks := 0
	for i := 0; dataTicks < 60; i++ {
		if i%2 == 0 {
			s.Ingest(&models.MotionSample{X: 0.1})
			dataTicks++
		}
		s.Tick(now.Add(time.Duration(i) * time.Second))
	}

	entries := s.writer.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActivitySleeping, entries[0].Activity)
}

func TestStartStopsGracefully(t *testing.T) {
	cfg := perTickConfig()
	cfg.TickInterval = 10 * time.Millisecond
	s := newTestService(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	s.SampleChan <- &models.MotionSample{X: 7}
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pipeline did not stop after cancellation")
	}

	// The entry channel is closed once both workers have drained.
	for range s.EntryChan {
	}

	entries := s.writer.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, models.ActivityRunning, entries[0].Activity)
}
