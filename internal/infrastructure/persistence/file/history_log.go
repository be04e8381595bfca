package file

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/internal/domain/repository"
	"github.com/turtacn/diabrisk/internal/infrastructure/persistence/textcodec"
	"github.com/turtacn/diabrisk/pkg/errors"
)

var _ repository.HistoryRepository = (*HistoryLog)(nil)

// CorruptLineFunc is told about every history line List had to skip.
type CorruptLineFunc func(lineNo int, err error)

// HistoryLog is an append-only text log, one record per line, oldest first on disk.
type HistoryLog struct {
	path      string
	mu        sync.Mutex
	onCorrupt CorruptLineFunc
}

// NewHistoryLog returns a log backed by path. onCorrupt may be nil.
func NewHistoryLog(path string, onCorrupt CorruptLineFunc) *HistoryLog {
	return &HistoryLog{path: path, onCorrupt: onCorrupt}
}

// Path returns the history file location.
func (h *HistoryLog) Path() string {
	return h.path
}

// Append writes one line with a single write and syncs it. On failure any
// partially written bytes are truncated away.
func (h *HistoryLog) Append(ctx context.Context, record models.AssessmentRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return errors.ErrPersistence("create history directory").WithCause(err)
	}
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.ErrPersistence("open history log").WithCause(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.ErrPersistence("stat history log").WithCause(err)
	}
	before := info.Size()

	line := textcodec.FormatHistoryLine(record) + "\n"
	if _, err := f.WriteString(line); err != nil {
		_ = f.Truncate(before)
		return errors.ErrPersistence("append history log").WithCause(err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Truncate(before)
		return errors.ErrPersistence("sync history log").WithCause(err)
	}
	return nil
}

// List returns up to limit records, most recent first. limit <= 0 returns every record.
// Corrupt lines are skipped and reported to the callback.
func (h *HistoryLog) List(ctx context.Context, limit int) ([]models.AssessmentRecord, error) {
	h.mu.Lock()
	body, err := os.ReadFile(h.path)
	h.mu.Unlock()

	if os.IsNotExist(err) {
		return []models.AssessmentRecord{}, nil
	}
	if err != nil {
		return nil, errors.ErrPersistence("read history log").WithCause(err)
	}

	records := make([]models.AssessmentRecord, 0, bytes.Count(body, []byte{'\n'}))
	// lines are split by hand so a single oversized line cannot abort the read
	lineNo := 0
	for rest := body; len(rest) > 0; {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte{'\n'})
		lineNo++
		line = bytes.TrimRight(line, "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		rec, err := textcodec.ParseHistoryLine(string(line))
		if err != nil {
			if h.onCorrupt != nil {
				h.onCorrupt(lineNo, err)
			}
			continue
		}
		records = append(records, rec)
	}

	return newestFirst(records, limit), nil
}

// newestFirst reverses records into a new slice and caps it at limit.
func newestFirst(records []models.AssessmentRecord, limit int) []models.AssessmentRecord {
	n := len(records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.AssessmentRecord, n)
	for i := 0; i < n; i++ {
		out[i] = records[len(records)-1-i]
	}
	return out
}
