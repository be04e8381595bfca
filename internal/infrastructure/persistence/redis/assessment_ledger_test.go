package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/diabrisk/internal/config"
	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/pkg/errors"
	"github.com/turtacn/diabrisk/pkg/logger"
)

func newTestLedger(t *testing.T) (*Ledger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := &config.RedisConfig{Addresses: []string{mr.Addr()}}
	conn := NewRedisConnection(cfg, logger.NewNoopLogger())
	require.NoError(t, conn.Connect(context.Background()))
	t.Cleanup(func() { _ = conn.Close() })
	return NewLedger(conn, "test", logger.NewNoopLogger(), nil), mr
}

func rec(minute, score int, tier models.RiskTier) models.AssessmentRecord {
	return models.AssessmentRecord{
		Timestamp: time.Date(2024, 7, 1, 12, minute, 0, 0, time.Local),
		Score:     score,
		BMI:       31.04,
		Tier:      tier,
	}
}

func mustCommit(t *testing.T, l *Ledger, r models.AssessmentRecord) models.AggregateStats {
	t.Helper()
	s, err := l.Commit(context.Background(), r)
	require.NoError(t, err)
	return s
}

func TestLedger_CommitAndRead(t *testing.T) {
	l, mr := newTestLedger(t)
	ctx := context.Background()

	s, err := l.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AggregateStats{}, s)

	assert.Equal(t, models.AggregateStats{TotalAssessments: 1, SumOfScores: 8}, mustCommit(t, l, rec(1, 8, models.TierLow)))
	mustCommit(t, l, rec(2, 15, models.TierElevated))
	committed := mustCommit(t, l, rec(3, 22, models.TierCritical))

	s, err = l.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AggregateStats{TotalAssessments: 3, SumOfScores: 45}, s)
	assert.Equal(t, s, committed)

	hist, err := l.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, models.TierCritical, hist[0].Tier)
	assert.Equal(t, models.TierElevated, hist[1].Tier)
	assert.Equal(t, 31.0, hist[0].BMI)

	stored, err := mr.List("{test}:history")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01 12:01:00 | Score: 8 | BMI: 31.0 | Risk: LOW", stored[0])
	assert.Equal(t, "redis", l.Backend())
}

func TestLedger_WrongTypeLeavesNothingBehind(t *testing.T) {
	l, mr := newTestLedger(t)
	ctx := context.Background()
	mustCommit(t, l, rec(1, 8, models.TierLow))

	mr.Del("{test}:history")
	require.NoError(t, mr.Set("{test}:history", "not a list"))

	_, err := l.Commit(ctx, rec(2, 10, models.TierModerate))
	require.Error(t, err)
	assert.True(t, errors.IsPersistenceError(err))

	s, err := l.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AggregateStats{TotalAssessments: 1, SumOfScores: 8}, s)
}

func TestLedger_SkipsCorruptEntries(t *testing.T) {
	l, mr := newTestLedger(t)
	var skipped int
	l.onCorrupt = func(int, error) { skipped++ }
	ctx := context.Background()

	mustCommit(t, l, rec(1, 8, models.TierLow))
	_, err := mr.Push("{test}:history", "corrupted entry")
	require.NoError(t, err)

	hist, err := l.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, 1, skipped)
}

func TestLedger_LimitCountsOnlyValidEntries(t *testing.T) {
	l, mr := newTestLedger(t)
	var skipped []int
	l.onCorrupt = func(index int, err error) { skipped = append(skipped, index) }
	ctx := context.Background()

	mustCommit(t, l, rec(1, 4, models.TierMinimal))
	mustCommit(t, l, rec(2, 8, models.TierLow))
	mustCommit(t, l, rec(3, 12, models.TierModerate))
	_, err := mr.Push("{test}:history", "broken", "also broken")
	require.NoError(t, err)

	hist, err := l.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, []int{12, 8}, []int{hist[0].Score, hist[1].Score})
	assert.Equal(t, []int{4, 3}, skipped)

	all, err := l.History(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLedger_ConcurrentCommits(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	const k = 30
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, err := l.Commit(ctx, rec(score, score, models.TierLow))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	s, err := l.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(k), s.TotalAssessments)
	assert.Equal(t, int64(k*(k-1)/2), s.SumOfScores)
}

func TestLedger_PingAfterServerStops(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	conn := NewRedisConnectionFromClient(client, &config.RedisConfig{}, logger.NewNoopLogger())
	l := NewLedger(conn, "", logger.NewNoopLogger(), nil)

	require.NoError(t, l.Ping(context.Background()))
	mr.Close()
	assert.True(t, errors.IsPersistenceError(l.Ping(context.Background())))
}
