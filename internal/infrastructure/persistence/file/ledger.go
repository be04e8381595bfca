package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/internal/domain/repository"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/errors"
	"github.com/turtacn/diabrisk/pkg/logger"
)

var _ repository.AssessmentLedger = (*Ledger)(nil)

// Ledger commits the statistics update and the history append as one unit.
// Readers hold the read lock, so they never see the statistics of a commit
// whose history append is still pending or being rolled back.
type Ledger struct {
	mu      sync.RWMutex
	stats   *StatsStore
	history *HistoryLog
	logger  logger.Logger
}

// NewLedger opens the file ledger. onCorrupt may be nil.
func NewLedger(statsPath, historyPath string, log logger.Logger, onCorrupt CorruptLineFunc) *Ledger {
	l := &Ledger{logger: log.WithComponent("file_ledger")}
	l.stats = NewStatsStore(statsPath)
	l.history = NewHistoryLog(historyPath, func(lineNo int, err error) {
		l.logger.Warn(context.Background(), "Skipping corrupt history line",
			logger.String("file", historyPath), logger.Int("line", lineNo), logger.Err(err))
		if onCorrupt != nil {
			onCorrupt(lineNo, err)
		}
	})
	return l
}

// Commit records the score and appends the record. If the append fails the
// statistics file is restored to its previous contents.
func (l *Ledger) Commit(ctx context.Context, record models.AssessmentRecord) (models.AggregateStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev, existed, err := l.stats.snapshot()
	if err != nil {
		return models.AggregateStats{}, errors.ErrPersistence("snapshot statistics").WithCause(err)
	}

	stats, err := l.stats.Record(ctx, record.Score)
	if err != nil {
		return models.AggregateStats{}, err
	}

	if err := l.history.Append(ctx, record); err != nil {
		if rerr := l.stats.restore(prev, existed); rerr != nil {
			l.logger.Error(ctx, "Failed to roll back statistics after history append failure", rerr,
				logger.String("stats_file", l.stats.Path()))
			return models.AggregateStats{}, errors.ErrPersistence("history append failed and statistics rollback failed").WithCause(err)
		}
		return models.AggregateStats{}, err
	}
	return stats, nil
}

func (l *Ledger) Stats(ctx context.Context) (models.AggregateStats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, err := l.stats.Read(ctx)
	if err != nil {
		if errors.IsCorruptRecordError(err) {
			return models.AggregateStats{}, err
		}
		return models.AggregateStats{}, errors.ErrPersistence("read statistics").WithCause(err)
	}
	return s, nil
}

func (l *Ledger) History(ctx context.Context, limit int) ([]models.AssessmentRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.history.List(ctx, limit)
}

func (l *Ledger) Backend() string {
	return string(constants.StorageDriverFile)
}

// Ping checks that the directories holding both files are usable.
func (l *Ledger) Ping(ctx context.Context) error {
	for _, p := range []string{l.stats.Path(), l.history.Path()} {
		dir := filepath.Dir(p)
		info, err := os.Stat(dir)
		if err != nil {
			return errors.ErrPersistence("storage directory unavailable").WithCause(err)
		}
		if !info.IsDir() {
			return errors.ErrPersistence(dir + " is not a directory")
		}
	}
	return nil
}

func (l *Ledger) Close() error {
	return nil
}
