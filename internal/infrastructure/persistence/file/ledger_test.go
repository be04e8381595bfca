package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/pkg/errors"
	"github.com/turtacn/diabrisk/pkg/logger"
)

func TestLedger_Commit(t *testing.T) {
	dir := t.TempDir()
	l := NewLedger(filepath.Join(dir, "stats.txt"), filepath.Join(dir, "history.txt"), logger.NewNoopLogger(), nil)
	ctx := context.Background()

	require.NoError(t, l.Ping(ctx))
	first, err := l.Commit(ctx, record(1, 8, models.TierLow))
	require.NoError(t, err)
	assert.Equal(t, models.AggregateStats{TotalAssessments: 1, SumOfScores: 8}, first)
	second, err := l.Commit(ctx, record(2, 14, models.TierElevated))
	require.NoError(t, err)

	stats, err := l.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AggregateStats{TotalAssessments: 2, SumOfScores: 22}, stats)
	assert.Equal(t, stats, second)

	hist, err := l.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, models.TierElevated, hist[0].Tier)
	assert.Equal(t, "file", l.Backend())
}

func TestLedger_RollsBackStatsWhenAppendFails(t *testing.T) {
	dir := t.TempDir()
	statsPath := filepath.Join(dir, "stats.txt")
	good := NewLedger(statsPath, filepath.Join(dir, "history.txt"), logger.NewNoopLogger(), nil)
	ctx := context.Background()
	_, err := good.Commit(ctx, record(1, 8, models.TierLow))
	require.NoError(t, err)

	// a directory in place of the history file makes every append fail
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.Mkdir(blocked, 0o755))
	bad := NewLedger(statsPath, blocked, logger.NewNoopLogger(), nil)

	got, err := bad.Commit(ctx, record(2, 20, models.TierHigh))
	require.Error(t, err)
	assert.Equal(t, models.AggregateStats{}, got)
	assert.True(t, errors.IsPersistenceError(err))

	stats, err := good.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AggregateStats{TotalAssessments: 1, SumOfScores: 8}, stats)
}

func TestLedger_RollbackRemovesFreshStatsFile(t *testing.T) {
	dir := t.TempDir()
	statsPath := filepath.Join(dir, "stats.txt")
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.Mkdir(blocked, 0o755))

	l := NewLedger(statsPath, blocked, logger.NewNoopLogger(), nil)
	_, err := l.Commit(context.Background(), record(1, 8, models.TierLow))
	require.Error(t, err)

	_, err = os.Stat(statsPath)
	assert.True(t, os.IsNotExist(err))
}

func TestLedger_ConcurrentCommits(t *testing.T) {
	dir := t.TempDir()
	l := NewLedger(filepath.Join(dir, "stats.txt"), filepath.Join(dir, "history.txt"), logger.NewNoopLogger(), nil)
	ctx := context.Background()

	const k = 25
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, err := l.Commit(ctx, record(score%60, score, models.TierLow))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stats, err := l.Stats(ctx)
	require.NoError(t, err)
	hist, err := l.History(ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(k), stats.TotalAssessments)
	assert.Equal(t, int64(k*(k-1)/2), stats.SumOfScores)
	assert.Len(t, hist, k)
}
