package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/campuspulse/internal/domain"
	"github.com/pscheid92/campuspulse/internal/metrics"
)

// Snapshot is the durable on-disk representation of all sessions and feedback.
type Snapshot struct {
	Sessions        []domain.Session  `json:"sessions"`
	FeedbackEntries []domain.Feedback `json:"feedbackEntries"`
}

// FileStore reads and writes snapshots at a fixed path.
type FileStore struct {
	path  string
	clock clockwork.Clock
}

// NewFileStore creates a snapshot store for the given path, creating the
// parent directory if needed.
func NewFileStore(path string, clock clockwork.Clock) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
		}
	}
	return &FileStore{path: path, clock: clock}, nil
}

// Path returns the snapshot file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the last snapshot. A missing file returns (nil, nil); unreadable
// or malformed content returns an error so the caller can fall back to seed data.
func (s *FileStore) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", s.path, err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", s.path, err)
	}
	return &snapshot, nil
}

// Save rewrites the whole snapshot atomically: write to a temp file in the
// same directory, then rename over the target.
func (s *FileStore) Save(snapshot *Snapshot) error {
	start := s.clock.Now()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		metrics.SnapshotWritesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		metrics.SnapshotWritesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		metrics.SnapshotWritesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		metrics.SnapshotWritesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		metrics.SnapshotWritesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to replace snapshot %s: %w", s.path, err)
	}

	metrics.SnapshotWritesTotal.WithLabelValues("success").Inc()
	metrics.SnapshotWriteDuration.Observe(s.clock.Since(start).Seconds())
	return nil
}
