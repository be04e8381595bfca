package redis

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/internal/domain/repository"
	"github.com/turtacn/diabrisk/internal/infrastructure/persistence/textcodec"
	"github.com/turtacn/diabrisk/pkg/constants"
	"github.com/turtacn/diabrisk/pkg/errors"
	"github.com/turtacn/diabrisk/pkg/logger"
)

const (
	fieldTotal = "total"
	fieldSum   = "sum"

	maxCommitAttempts = 5
)

// CorruptEntryFunc is told about every history entry that could not be parsed.
type CorruptEntryFunc func(index int, err error)

var _ repository.AssessmentLedger = (*Ledger)(nil)

// Ledger keeps the aggregate in a hash and the history in a list of log lines.
// Both keys share a hash tag so a cluster places them in the same slot.
type Ledger struct {
	conn       *RedisConnection
	statsKey   string
	historyKey string
	logger     logger.Logger
	onCorrupt  CorruptEntryFunc

	// serializes local commits so WATCH only retries on cross-process contention
	mu sync.Mutex
}

// NewLedger returns a ledger writing under prefix. onCorrupt may be nil.
func NewLedger(conn *RedisConnection, prefix string, log logger.Logger, onCorrupt CorruptEntryFunc) *Ledger {
	if prefix == "" {
		prefix = constants.RedisKeyPrefix
	}
	return &Ledger{
		conn:       conn,
		statsKey:   fmt.Sprintf("{%s}:stats", prefix),
		historyKey: fmt.Sprintf("{%s}:history", prefix),
		logger:     log.WithComponent("redis_ledger"),
		onCorrupt:  onCorrupt,
	}
}

// Commit applies HINCRBY total, HINCRBY sum and RPUSH in one MULTI/EXEC after
// checking under WATCH that both keys hold the expected types, so EXEC cannot
// half-apply. The returned aggregate is the result of the two HINCRBYs.
func (l *Ledger) Commit(ctx context.Context, record models.AssessmentRecord) (models.AggregateStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	client := l.conn.GetClient()
	if client == nil {
		return models.AggregateStats{}, errors.ErrPersistence("redis connection not initialized")
	}
	line := textcodec.FormatHistoryLine(record)

	var totalCmd, sumCmd *redis.IntCmd
	txf := func(tx *redis.Tx) error {
		if err := expectType(ctx, tx, l.statsKey, "hash"); err != nil {
			return err
		}
		if err := expectType(ctx, tx, l.historyKey, "list"); err != nil {
			return err
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			totalCmd = pipe.HIncrBy(ctx, l.statsKey, fieldTotal, 1)
			sumCmd = pipe.HIncrBy(ctx, l.statsKey, fieldSum, int64(record.Score))
			pipe.RPush(ctx, l.historyKey, line)
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		err = client.Watch(ctx, txf, l.statsKey, l.historyKey)
		if !stderrors.Is(err, redis.TxFailedErr) {
			break
		}
		l.logger.Debug(ctx, "Ledger keys changed during commit, retrying", logger.Int("attempt", attempt+1))
	}
	if err != nil {
		l.logger.Error(ctx, "Ledger commit failed", err, logger.Int("score", record.Score))
		if _, ok := errors.AsAppError(err); ok {
			return models.AggregateStats{}, err
		}
		return models.AggregateStats{}, errors.ErrPersistence("redis commit failed").WithCause(err)
	}
	return models.AggregateStats{TotalAssessments: totalCmd.Val(), SumOfScores: sumCmd.Val()}, nil
}

func expectType(ctx context.Context, tx *redis.Tx, key, want string) error {
	got, err := tx.Type(ctx, key).Result()
	if err != nil {
		return err
	}
	if got != "none" && got != want {
		return errors.ErrPersistence(fmt.Sprintf("key %s holds a %s, want %s", key, got, want))
	}
	return nil
}

func (l *Ledger) Stats(ctx context.Context) (models.AggregateStats, error) {
	client := l.conn.GetClient()
	if client == nil {
		return models.AggregateStats{}, errors.ErrPersistence("redis connection not initialized")
	}

	vals, err := client.HMGet(ctx, l.statsKey, fieldTotal, fieldSum).Result()
	if err != nil {
		return models.AggregateStats{}, errors.ErrPersistence("read statistics").WithCause(err)
	}

	total, err := hashInt(vals[0])
	if err != nil {
		return models.AggregateStats{}, errors.ErrCorruptRecord("statistics: bad total").WithCause(err)
	}
	sum, err := hashInt(vals[1])
	if err != nil {
		return models.AggregateStats{}, errors.ErrCorruptRecord("statistics: bad sum").WithCause(err)
	}
	return models.AggregateStats{TotalAssessments: total, SumOfScores: sum}, nil
}

func hashInt(v interface{}) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected hash value %T", v)
	}
	return strconv.ParseInt(s, 10, 64)
}

// History returns up to limit records newest first; limit <= 0 returns all.
// Corrupt entries do not count toward limit: older entries are read until
// limit valid records are found or the list is exhausted.
func (l *Ledger) History(ctx context.Context, limit int) ([]models.AssessmentRecord, error) {
	client := l.conn.GetClient()
	if client == nil {
		return nil, errors.ErrPersistence("redis connection not initialized")
	}

	if limit <= 0 {
		lines, err := client.LRange(ctx, l.historyKey, 0, -1).Result()
		if err != nil {
			return nil, errors.ErrPersistence("read history").WithCause(err)
		}
		return l.appendNewestFirst(ctx, make([]models.AssessmentRecord, 0, len(lines)), lines, 0, 0), nil
	}

	// positive indices stay stable while other writers append to the tail
	n, err := client.LLen(ctx, l.historyKey).Result()
	if err != nil {
		return nil, errors.ErrPersistence("read history length").WithCause(err)
	}
	out := make([]models.AssessmentRecord, 0, limit)
	for end := n - 1; end >= 0 && len(out) < limit; {
		start := end - int64(limit-len(out)) + 1
		if start < 0 {
			start = 0
		}
		lines, err := client.LRange(ctx, l.historyKey, start, end).Result()
		if err != nil {
			return nil, errors.ErrPersistence("read history").WithCause(err)
		}
		out = l.appendNewestFirst(ctx, out, lines, start, limit)
		end = start - 1
	}
	return out, nil
}

// appendNewestFirst parses lines (oldest first, starting at list index offset)
// in reverse and appends the valid ones to out until limit is reached.
func (l *Ledger) appendNewestFirst(ctx context.Context, out []models.AssessmentRecord, lines []string, offset int64, limit int) []models.AssessmentRecord {
	for i := len(lines) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		rec, err := textcodec.ParseHistoryLine(lines[i])
		if err != nil {
			index := int(offset) + i
			l.logger.Warn(ctx, "Skipping corrupt history entry", logger.Int("index", index), logger.Err(err))
			if l.onCorrupt != nil {
				l.onCorrupt(index, err)
			}
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (l *Ledger) Backend() string {
	return string(constants.StorageDriverRedis)
}

func (l *Ledger) Ping(ctx context.Context) error {
	return l.conn.Ping(ctx)
}

func (l *Ledger) Close() error {
	return l.conn.Close()
}
