// Package file persists statistics and history as the plain text files the
// command line tooling has always read and written.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/internal/domain/repository"
	"github.com/turtacn/diabrisk/internal/infrastructure/persistence/textcodec"
	"github.com/turtacn/diabrisk/pkg/errors"
)

var _ repository.StatsRepository = (*StatsStore)(nil)

// StatsStore keeps the aggregate in a single-line file, rewritten atomically on every record.
type StatsStore struct {
	path string
	mu   sync.Mutex
}

// NewStatsStore returns a store backed by path. The file is created on first Record.
func NewStatsStore(path string) *StatsStore {
	return &StatsStore{path: path}
}

// Path returns the statistics file location.
func (s *StatsStore) Path() string {
	return s.path
}

// Record adds one score and returns the new aggregate, which is durable before Record returns.
func (s *StatsStore) Record(ctx context.Context, score int) (models.AggregateStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return models.AggregateStats{}, errors.ErrPersistence("read statistics").WithCause(err)
	}
	next := current.Add(score)
	if err := s.write(next); err != nil {
		return models.AggregateStats{}, errors.ErrPersistence("write statistics").WithCause(err)
	}
	return next, nil
}

// Read returns the committed aggregate, or the zero aggregate when the file does not exist.
func (s *StatsStore) Read(ctx context.Context) (models.AggregateStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// snapshot returns the current file body so a failed commit can put it back.
// exists is false when there is no file yet.
func (s *StatsStore) snapshot() (body []byte, exists bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err = os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// restore puts back a snapshot taken before a failed commit.
func (s *StatsStore) restore(body []byte, exists bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !exists {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return s.writeBytes(body)
}

func (s *StatsStore) read() (models.AggregateStats, error) {
	body, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return models.AggregateStats{}, nil
	}
	if err != nil {
		return models.AggregateStats{}, err
	}
	return textcodec.ParseStats(string(body))
}

func (s *StatsStore) write(stats models.AggregateStats) error {
	return s.writeBytes([]byte(textcodec.FormatStats(stats)))
}

// writeBytes replaces the file through a synced temp file and rename, so a
// crash leaves either the old or the new aggregate on disk.
func (s *StatsStore) writeBytes(body []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	// some filesystems reject fsync on directories
	_ = d.Sync()
	return nil
}
