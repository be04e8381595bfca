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
)

func TestStatsStore_ReadMissingFile(t *testing.T) {
	s := NewStatsStore(filepath.Join(t.TempDir(), "stats.txt"))
	got, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.AggregateStats{}, got)
}

func TestStatsStore_RecordAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stats.txt")
	s := NewStatsStore(path)
	ctx := context.Background()

	_, err := s.Record(ctx, 8)
	require.NoError(t, err)
	after, err := s.Record(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, models.AggregateStats{TotalAssessments: 2, SumOfScores: 20}, after)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2 20\n", string(body))

	first, err := s.Read(ctx)
	require.NoError(t, err)
	second, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.InDelta(t, 10.0, first.Average(), 1e-9)
}

func TestStatsStore_ConcurrentRecord(t *testing.T) {
	s := NewStatsStore(filepath.Join(t.TempDir(), "stats.txt"))
	ctx := context.Background()

	const k = 40
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, err := s.Record(ctx, score)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(k), got.TotalAssessments)
	assert.Equal(t, int64(k*(k-1)/2), got.SumOfScores)
}

func TestStatsStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.txt")
	require.NoError(t, os.WriteFile(path, []byte("not numbers"), 0o644))

	s := NewStatsStore(path)
	_, err := s.Read(context.Background())
	assert.True(t, errors.IsCorruptRecordError(err))

	_, err = s.Record(context.Background(), 3)
	assert.True(t, errors.IsPersistenceError(err))
	body, _ := os.ReadFile(path)
	assert.Equal(t, "not numbers", string(body))
}
