package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"calmpulse-backend/internal/models"
)

// PersistenceError reports a snapshot write that failed after its retry.
// The entry that triggered it stays in the in-memory log, so a later
// successful write still includes it.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist activity log to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ActivityLogWriter keeps the ordered in-memory activity log and mirrors it to
// a durable JSON-array snapshot, fully rewritten after every append.
type ActivityLogWriter struct {
	mu      sync.Mutex
	path    string
	entries []models.MinuteLogEntry
}

// NewActivityLogWriter creates a writer backed by the snapshot file at path.
// An existing snapshot is loaded so a restarted service keeps extending the
// same log; a missing file just starts an empty log, while an unreadable or
// corrupt snapshot is an error.
func NewActivityLogWriter(path string) (*ActivityLogWriter, error) {
	w := &ActivityLogWriter{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return w, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read activity log snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &w.entries); err != nil {
		return nil, fmt.Errorf("failed to parse activity log snapshot %s: %w", path, err)
	}

	log.Printf("ActivityLog: Loaded %d entries from %s", len(w.entries), path)
	return w, nil
}

// Append adds the entry to the in-memory log and rewrites the durable
// snapshot. A failed write is retried exactly once; if the retry also fails a
// PersistenceError is returned, but the entry is retained in memory so the
// next successful append persists it too.
func (w *ActivityLogWriter) Append(entry models.MinuteLogEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.entries = append(w.entries, entry)

	err := w.persist()
	if err != nil {
		log.Printf("ActivityLog: Snapshot write failed, retrying once: %v", err)
		err = w.persist()
	}
	if err != nil {
		return &PersistenceError{Path: w.path, Err: err}
	}
	return nil
}

// Entries returns a copy of the in-memory log in append order.
func (w *ActivityLogWriter) Entries() []models.MinuteLogEntry {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]models.MinuteLogEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

// persist rewrites the whole snapshot. The write goes through a temp file and
// rename so a crash mid-write never leaves a truncated snapshot behind.
// Callers hold w.mu.
func (w *ActivityLogWriter) persist() error {
	data, err := json.MarshalIndent(w.entries, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal activity log: %w", err)
	}

	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, filepath.Clean(w.path)); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
